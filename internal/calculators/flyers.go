package calculators

import (
	"errors"
	"fmt"
	"math"

	"matbaa-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SRA3 tabakadan çıkan adet sayısı (kesim payı dahil)
var flyersPerSheet = map[string]int{
	"A6": 8,
	"A5": 4,
	"A4": 2,
}

const (
	flyersWasteRatio = 0.02 // baskı firesi
	flyersSidesK     = 1.6  // çift yüz katsayısı
)

type FlyersPriceRequest struct {
	Format       string `json:"format"`       // A6 / A5 / A4
	PriceType    string `json:"priceType"`    // rush / online / promo
	PaperDensity int    `json:"paperDensity"` // 130 / 150
	Quantity     int    `json:"quantity"`
	Sides        int    `json:"sides"` // 1 veya 2
}

type flyersComponent struct {
	MaterialID uint    `json:"materialId"`
	Name       string  `json:"name"`
	Qty        float64 `json:"qty"`
}

type FlyersPriceResponse struct {
	Format       string            `json:"format"`
	PriceType    string            `json:"priceType"`
	PaperDensity int               `json:"paperDensity"`
	Quantity     int               `json:"quantity"`
	Sides        int               `json:"sides"`
	Sheets       int               `json:"sheets"`
	Waste        int               `json:"waste"`
	SheetPrice   float64           `json:"sheetPrice"`
	Total        float64           `json:"total"`
	PerItem      float64           `json:"perItem"`
	Components   []flyersComponent `json:"components"`
}

// GET /api/calculators/flyers-color — istemci formunun seçenekleri
func FlyersSchemaHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"formats":    []string{"A6", "A5", "A4"},
			"priceTypes": []string{"rush", "online", "promo"},
			"densities":  []int{130, 150},
			"sides":      []int{1, 2},
		})
	}
}

// POST /api/calculators/flyers-color/price — kademeli tabaka fiyatından toplam hesaplar.
// Tabaka sayısı fire dahil yukarı yuvarlanır; kademe, adedi aşmayan en büyük
// min_qty eşiğinden seçilir.
func FlyersPriceHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body FlyersPriceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		perSheet, ok := flyersPerSheet[body.Format]
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "format A6, A5 veya A4 olmalı")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity sıfırdan büyük olmalı")
		}
		if body.Sides != 1 && body.Sides != 2 {
			return fiber.NewError(fiber.StatusBadRequest, "sides 1 veya 2 olmalı")
		}

		var tier models.PricingFlyersTier
		err := db.Where("format = ? AND price_type = ? AND paper_density = ? AND min_qty <= ?",
			body.Format, body.PriceType, body.PaperDensity, body.Quantity).
			Order("min_qty DESC").
			First(&tier).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Bu seçim için fiyat kademesi tanımlı değil")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Fiyat hesaplanamadı")
		}

		netSheets := int(math.Ceil(float64(body.Quantity) / float64(perSheet)))
		sheets := int(math.Ceil(float64(netSheets) * (1 + flyersWasteRatio)))
		waste := sheets - netSheets

		sheetPrice := tier.SheetPriceSingle
		if body.Sides == 2 {
			sheetPrice = round2(sheetPrice * flyersSidesK)
		}
		total := round2(float64(sheets) * sheetPrice)
		perItem := round2(total / float64(body.Quantity))

		resp := FlyersPriceResponse{
			Format:       body.Format,
			PriceType:    tier.PriceType,
			PaperDensity: tier.PaperDensity,
			Quantity:     body.Quantity,
			Sides:        body.Sides,
			Sheets:       sheets,
			Waste:        waste,
			SheetPrice:   sheetPrice,
			Total:        total,
			PerItem:      perItem,
			Components:   []flyersComponent{},
		}

		// Gramajla eşleşen SRA3 kağıdı varsa reçete önerisi olarak eklenir
		var material models.Material
		pattern := fmt.Sprintf("%%%d%%", body.PaperDensity)
		if err := db.Where("name LIKE ?", pattern).Order("id").First(&material).Error; err == nil {
			resp.Components = append(resp.Components, flyersComponent{
				MaterialID: material.ID,
				Name:       material.Name,
				Qty:        float64(sheets),
			})
		}

		return c.JSON(resp)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
