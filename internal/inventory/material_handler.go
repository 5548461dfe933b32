package inventory

import (
	"errors"

	"matbaa-backend/internal/auth"
	"matbaa-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UpsertMaterialRequest struct {
	ID               uint     `json:"id"` // 0 ise yeni kayıt
	Name             string   `json:"name"`
	Unit             string   `json:"unit"`
	Quantity         float64  `json:"quantity"`
	MinQuantity      *float64 `json:"min_quantity"`
	SheetPriceSingle *float64 `json:"sheet_price_single"`
}

type SpendRequest struct {
	MaterialID uint    `json:"materialId"`
	Delta      float64 `json:"delta"`
	Reason     string  `json:"reason"`
	OrderID    *uint   `json:"orderId"`
}

type MaterialResponse struct {
	ID               uint     `json:"id"`
	Name             string   `json:"name"`
	Unit             string   `json:"unit"`
	Quantity         float64  `json:"quantity"`
	MinQuantity      *float64 `json:"min_quantity"`
	SheetPriceSingle *float64 `json:"sheet_price_single"`
}

func newMaterialResponse(m models.Material) MaterialResponse {
	return MaterialResponse{
		ID:               m.ID,
		Name:             m.Name,
		Unit:             m.Unit,
		Quantity:         m.Quantity,
		MinQuantity:      m.MinQuantity,
		SheetPriceSingle: m.SheetPriceSingle,
	}
}

func listMaterials(db *gorm.DB) ([]MaterialResponse, error) {
	var mats []models.Material
	if err := db.Order("name").Find(&mats).Error; err != nil {
		return nil, err
	}
	resp := make([]MaterialResponse, 0, len(mats))
	for _, m := range mats {
		resp = append(resp, newMaterialResponse(m))
	}
	return resp, nil
}

// GET /api/materials
func ListMaterialsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp, err := listMaterials(db)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzemeler listelenemedi")
		}
		return c.JSON(resp)
	}
}

// POST /api/materials — id varsa güncelle, yoksa oluştur; tam listeyi döndürür
func UpsertMaterialHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpsertMaterialRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Name == "" || body.Unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name ve unit zorunludur")
		}

		var err error
		if body.ID != 0 {
			err = db.Model(&models.Material{}).Where("id = ?", body.ID).Updates(map[string]any{
				"name":               body.Name,
				"unit":               body.Unit,
				"quantity":           body.Quantity,
				"min_quantity":       body.MinQuantity,
				"sheet_price_single": body.SheetPriceSingle,
			}).Error
		} else {
			err = db.Create(&models.Material{
				Name:             body.Name,
				Unit:             body.Unit,
				Quantity:         body.Quantity,
				MinQuantity:      body.MinQuantity,
				SheetPriceSingle: body.SheetPriceSingle,
			}).Error
		}
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "Bu isimde bir malzeme zaten var")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme kaydedilemedi")
		}

		resp, err := listMaterials(db)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzemeler listelenemedi")
		}
		return c.JSON(resp)
	}
}

// DELETE /api/materials/:id
func DeleteMaterialHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz malzeme ID")
		}
		if err := db.Delete(&models.Material{}, id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme silinemedi")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/materials/spend — elle stok düzeltmesi, defter kaydıyla birlikte
func SpendHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SpendRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.MaterialID == 0 || body.Delta == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "materialId ve sıfırdan farklı delta zorunludur")
		}

		user, _ := auth.CurrentUser(c)
		material, err := ApplySpend(db, body.MaterialID, body.Delta, body.Reason, body.OrderID, &user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Stok düzeltmesi yapılamadı")
		}
		return c.JSON(newMaterialResponse(*material))
	}
}

// queryUint: opsiyonel sayısal query parametresi
func queryUint(c *fiber.Ctx, key string) *uint {
	v := c.QueryInt(key, -1)
	if v < 0 {
		return nil
	}
	u := uint(v)
	return &u
}

// GET /api/materials/moves
func ListMovesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := ListMoves(db, MoveFilter{
			MaterialID: queryUint(c, "materialId"),
			UserID:     queryUint(c, "user_id"),
			OrderID:    queryUint(c, "orderId"),
			From:       c.Query("from"),
			To:         c.Query("to"),
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hareketler listelenemedi")
		}
		return c.JSON(rows)
	}
}

// GET /api/materials/low-stock — alt sınıra inen malzemeler
func LowStockHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var mats []models.Material
		if err := db.Where("min_quantity IS NOT NULL AND quantity <= min_quantity").
			Order("name").Find(&mats).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzemeler listelenemedi")
		}
		resp := make([]MaterialResponse, 0, len(mats))
		for _, m := range mats {
			resp = append(resp, newMaterialResponse(m))
		}
		return c.JSON(resp)
	}
}

type topSpendRow struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Spent float64 `json:"spent"`
}

// GET /api/materials/report/top — dönemde en çok tüketilen malzemeler
func TopSpendHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 10)
		q := db.Table("material_moves mm").
			Select("m.id, m.name, SUM(CASE WHEN mm.delta < 0 THEN -mm.delta ELSE 0 END) AS spent").
			Joins("JOIN materials m ON m.id = mm.material_id")
		if from := c.Query("from"); from != "" {
			q = q.Where("mm.created_at >= ?", from)
		}
		if to := c.Query("to"); to != "" {
			q = q.Where("mm.created_at <= ?", to)
		}

		var rows []topSpendRow
		if err := q.Group("m.id, m.name").Order("spent DESC").Limit(limit).Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor oluşturulamadı")
		}
		return c.JSON(rows)
	}
}

type forecastRow struct {
	ID             uint     `json:"id"`
	Name           string   `json:"name"`
	Unit           string   `json:"unit"`
	Quantity       float64  `json:"quantity"`
	MinQuantity    *float64 `json:"min_quantity"`
	SuggestedOrder float64  `json:"suggested_order"`
}

// GET /api/materials/report/forecast — alt sınırdaki malzemeler için sipariş önerisi
func ForecastHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rows []forecastRow
		err := db.Table("materials").
			Select("id, name, unit, quantity, min_quantity, ROUND(CAST(quantity * 0.5 AS numeric), 2) AS suggested_order").
			Where("min_quantity IS NOT NULL AND quantity <= min_quantity").
			Order("(min_quantity - quantity) DESC").
			Scan(&rows).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor oluşturulamadı")
		}
		return c.JSON(rows)
	}
}
