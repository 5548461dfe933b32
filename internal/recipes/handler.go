package recipes

import (
	"net/url"

	"matbaa-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SetRecipeRequest struct {
	PresetCategory    string `json:"presetCategory"`
	PresetDescription string `json:"presetDescription"`
	Materials         []struct {
		MaterialID uint    `json:"materialId"`
		QtyPerItem float64 `json:"qtyPerItem"`
	} `json:"materials"`
}

type recipeRow struct {
	MaterialID  uint     `json:"materialId"`
	QtyPerItem  float64  `json:"qtyPerItem"`
	Name        string   `json:"name"`
	Unit        string   `json:"unit"`
	Quantity    float64  `json:"quantity"`
	MinQuantity *float64 `json:"min_quantity"`
}

// GET /api/product-materials/:category/:description — reçete + malzeme durumu
func GetRecipeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		category, err := urlParam(c, "category")
		if err != nil {
			return err
		}
		description, err := urlParam(c, "description")
		if err != nil {
			return err
		}

		var rows []recipeRow
		err = db.Table("product_materials pm").
			Select("pm.material_id, pm.qty_per_item, m.name, m.unit, m.quantity, m.min_quantity").
			Joins("JOIN materials m ON m.id = pm.material_id").
			Where("pm.preset_category = ? AND pm.preset_description = ?", category, description).
			Scan(&rows).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Reçete yüklenemedi")
		}
		return c.JSON(rows)
	}
}

// POST /api/product-materials — reçeteyi komple değiştirir (sil + yeniden yaz)
func SetRecipeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SetRecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.PresetCategory == "" || body.PresetDescription == "" {
			return fiber.NewError(fiber.StatusBadRequest, "presetCategory ve presetDescription zorunludur")
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("preset_category = ? AND preset_description = ?",
				body.PresetCategory, body.PresetDescription).
				Delete(&models.ProductMaterial{}).Error; err != nil {
				return err
			}
			for _, m := range body.Materials {
				pm := models.ProductMaterial{
					PresetCategory:    body.PresetCategory,
					PresetDescription: body.PresetDescription,
					MaterialID:        m.MaterialID,
					QtyPerItem:        m.QtyPerItem,
				}
				if err := tx.Create(&pm).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Reçete kaydedilemedi")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// urlParam: path parametresini URL-decode ederek okur (açıklamalar boşluk içerir)
func urlParam(c *fiber.Ctx, key string) (string, error) {
	raw := c.Params(key)
	if raw == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, key+" zorunludur")
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, key+" çözümlenemedi")
	}
	return decoded, nil
}
