package models

import "time"

// MaterialMove: stok değişikliklerinin eklemeli (append-only) defteri.
// Her stok hareketi tam bir satır üretir; satırlar güncellenmez ve silinmez —
// anlık stok, hareketlerin toplamıyla her zaman mutabık kalmalıdır.
type MaterialMove struct {
	ID         uint `gorm:"primaryKey"`
	MaterialID uint `gorm:"index;not null"`
	Material   Material
	Delta      float64   `gorm:"not null"`  // işaretli miktar, eksi = tüketim
	Reason     string    `gorm:"size:100"`  // "order add item", "order delete item", ...
	OrderID    *uint     `gorm:"index"`
	UserID     *uint     `gorm:"index"`
	CreatedAt  time.Time `gorm:"index"`
}
