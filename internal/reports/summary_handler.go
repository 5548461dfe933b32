package reports

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type summaryTotals struct {
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
	Items   int64   `json:"items"`
	Clicks  int64   `json:"clicks"`
	Sheets  int64   `json:"sheets"`
	Waste   int64   `json:"waste"`
}

type summaryPrepayment struct {
	Paid    float64 `json:"paid"`
	Pending float64 `json:"pending"`
}

type summaryMaterial struct {
	MaterialID uint    `json:"material_id"`
	Name       string  `json:"name"`
	Unit       string  `json:"unit"`
	Spent      float64 `json:"spent"`
}

type dailySummaryResponse struct {
	Date         string            `json:"date"`
	Totals       summaryTotals     `json:"totals"`
	Prepayment   summaryPrepayment `json:"prepayment"`
	TopMaterials []summaryMaterial `json:"top_materials"`
}

// GET /api/reports/daily/:date/summary — günün üretim ve ciro özeti.
// Rapor satırından bağımsız, doğrudan sipariş ve defter tablolarından hesaplanır.
func DailySummaryHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := c.Params("date")
		if !validDate(date) {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		resp := dailySummaryResponse{Date: date, TopMaterials: []summaryMaterial{}}

		if err := db.Table("orders").
			Where("DATE(created_at) = ?", date).
			Count(&resp.Totals.Orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet oluşturulamadı")
		}

		var itemAgg struct {
			Revenue float64
			Items   int64
			Clicks  int64
			Sheets  int64
			Waste   int64
		}
		err := db.Table("items i").
			Select("COALESCE(SUM(i.price * i.quantity), 0) AS revenue, "+
				"COALESCE(SUM(i.quantity), 0) AS items, "+
				"COALESCE(SUM(i.clicks), 0) AS clicks, "+
				"COALESCE(SUM(i.sheets), 0) AS sheets, "+
				"COALESCE(SUM(i.waste), 0) AS waste").
			Joins("JOIN orders o ON o.id = i.order_id").
			Where("DATE(o.created_at) = ?", date).
			Scan(&itemAgg).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet oluşturulamadı")
		}
		resp.Totals.Revenue = itemAgg.Revenue
		resp.Totals.Items = itemAgg.Items
		resp.Totals.Clicks = itemAgg.Clicks
		resp.Totals.Sheets = itemAgg.Sheets
		resp.Totals.Waste = itemAgg.Waste

		var prepayAgg struct {
			Paid    float64
			Pending float64
		}
		err = db.Table("orders").
			Select("COALESCE(SUM(CASE WHEN prepayment_status = 'paid' THEN prepayment_amount ELSE 0 END), 0) AS paid, "+
				"COALESCE(SUM(CASE WHEN prepayment_status = 'pending' THEN prepayment_amount ELSE 0 END), 0) AS pending").
			Where("DATE(created_at) = ?", date).
			Scan(&prepayAgg).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet oluşturulamadı")
		}
		resp.Prepayment.Paid = prepayAgg.Paid
		resp.Prepayment.Pending = prepayAgg.Pending

		err = db.Table("material_moves mm").
			Select("m.id AS material_id, m.name, m.unit, SUM(-mm.delta) AS spent").
			Joins("JOIN materials m ON m.id = mm.material_id").
			Where("DATE(mm.created_at) = ? AND mm.delta < 0", date).
			Group("m.id, m.name, m.unit").
			Order("spent DESC").
			Limit(5).
			Scan(&resp.TopMaterials).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet oluşturulamadı")
		}

		return c.JSON(resp)
	}
}
