package inventory

import (
	"time"

	"matbaa-backend/internal/models"

	"gorm.io/gorm"
)

// ApplySpend: elle stok düzeltmesi (+/-). Miktar güncellemesi ve defter kaydı
// tek transaction içinde yapılır.
func ApplySpend(db *gorm.DB, materialID uint, delta float64, reason string, orderID, userID *uint) (*models.Material, error) {
	var material models.Material
	if err := db.First(&material, materialID).Error; err != nil {
		return nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Material{}).Where("id = ?", materialID).
			Update("quantity", gorm.Expr("quantity + ?", delta)).Error; err != nil {
			return err
		}
		move := models.MaterialMove{
			MaterialID: materialID,
			Delta:      delta,
			Reason:     reason,
			OrderID:    orderID,
			UserID:     userID,
		}
		return tx.Create(&move).Error
	})
	if err != nil {
		return nil, err
	}

	if err := db.First(&material, materialID).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

type MoveFilter struct {
	MaterialID *uint
	UserID     *uint
	OrderID    *uint
	From       string // "YYYY-MM-DD" veya tam timestamp
	To         string
}

type MoveRow struct {
	ID           uint      `json:"id"`
	MaterialID   uint      `json:"materialId"`
	MaterialName string    `json:"material_name"`
	Delta        float64   `json:"delta"`
	Reason       string    `json:"reason"`
	OrderID      *uint     `json:"orderId"`
	UserID       *uint     `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListMoves: hareket defteri; malzeme/sipariş/kullanıcı/tarih aralığı filtreleri.
func ListMoves(db *gorm.DB, f MoveFilter) ([]MoveRow, error) {
	q := db.Table("material_moves mm").
		Select("mm.id, mm.material_id, m.name AS material_name, mm.delta, mm.reason, mm.order_id, mm.user_id, mm.created_at").
		Joins("JOIN materials m ON m.id = mm.material_id")

	if f.MaterialID != nil {
		q = q.Where("mm.material_id = ?", *f.MaterialID)
	}
	if f.UserID != nil {
		q = q.Where("mm.user_id = ?", *f.UserID)
	}
	if f.OrderID != nil {
		q = q.Where("mm.order_id = ?", *f.OrderID)
	}
	if f.From != "" {
		q = q.Where("mm.created_at >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("mm.created_at <= ?", f.To)
	}

	var rows []MoveRow
	err := q.Order("mm.created_at DESC, mm.id DESC").Scan(&rows).Error
	return rows, err
}
