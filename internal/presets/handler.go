package presets

import (
	"matbaa-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type presetItem struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type presetExtra struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Type  string  `json:"type"`
	Unit  string  `json:"unit,omitempty"`
}

type presetCategory struct {
	Category string        `json:"category"`
	Color    string        `json:"color"`
	Items    []presetItem  `json:"items"`
	Extras   []presetExtra `json:"extras"`
}

// GET /api/presets — public katalog: kategoriler, ürünler ve ek seçenekler
func ListPresetsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.PresetCategory
		if err := db.Order("category").Find(&categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Katalog yüklenemedi")
		}
		var items []models.PresetItem
		if err := db.Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Katalog yüklenemedi")
		}
		var extras []models.PresetExtra
		if err := db.Find(&extras).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Katalog yüklenemedi")
		}

		result := make([]presetCategory, 0, len(categories))
		for _, cat := range categories {
			entry := presetCategory{
				Category: cat.Category,
				Color:    cat.Color,
				Items:    []presetItem{},
				Extras:   []presetExtra{},
			}
			for _, it := range items {
				if it.CategoryID == cat.ID {
					entry.Items = append(entry.Items, presetItem{Description: it.Description, Price: it.Price})
				}
			}
			for _, ex := range extras {
				if ex.CategoryID == cat.ID {
					entry.Extras = append(entry.Extras, presetExtra{Name: ex.Name, Price: ex.Price, Type: ex.Type, Unit: ex.Unit})
				}
			}
			result = append(result, entry)
		}
		return c.JSON(result)
	}
}
