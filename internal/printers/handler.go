package printers

import (
	"time"

	"matbaa-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmitCounterRequest struct {
	CounterDate string `json:"counterDate"` // "YYYY-MM-DD"
	Value       int    `json:"value"`
}

type printerResponse struct {
	ID   uint   `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type counterRow struct {
	PrinterID uint   `json:"printerId"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Value     *int   `json:"value"`      // o gün sayaç girilmediyse null
	PrevValue *int   `json:"prev_value"` // önceki son sayaç
	DayClicks *int   `json:"day_clicks"` // value - prev_value, ikisi de varsa
}

// GET /api/printers
func ListPrintersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rows []models.Printer
		if err := db.Order("code").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Makineler listelenemedi")
		}
		resp := make([]printerResponse, 0, len(rows))
		for _, p := range rows {
			resp = append(resp, printerResponse{ID: p.ID, Code: p.Code, Name: p.Name})
		}
		return c.JSON(resp)
	}
}

// GET /api/printers/counters?date=YYYY-MM-DD — günün sayaçları ve önceki
// okumayla arasındaki fark. Önceki okuma en yakın geçmiş tarihten alınır.
func CountersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := c.Query("date")
		if date == "" {
			return fiber.NewError(fiber.StatusBadRequest, "date parametresi zorunludur")
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		var rows []counterRow
		err := db.Raw(`
			SELECT p.id AS printer_id, p.code, p.name,
			       pc.value,
			       (SELECT prev.value FROM printer_counters prev
			         WHERE prev.printer_id = p.id AND prev.counter_date < ?
			         ORDER BY prev.counter_date DESC LIMIT 1) AS prev_value,
			       NULL AS day_clicks
			  FROM printers p
			  LEFT JOIN printer_counters pc
			    ON pc.printer_id = p.id AND pc.counter_date = ?
			 ORDER BY p.code`, date, date).Scan(&rows).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sayaçlar yüklenemedi")
		}

		for i := range rows {
			if rows[i].Value != nil && rows[i].PrevValue != nil {
				d := *rows[i].Value - *rows[i].PrevValue
				rows[i].DayClicks = &d
			}
		}
		return c.JSON(rows)
	}
}

// POST /api/printers/:id/counters — (makine, tarih) için upsert
func SubmitCounterHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		printerID, err := c.ParamsInt("id")
		if err != nil || printerID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz makine ID")
		}

		var body SubmitCounterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.CounterDate == "" {
			return fiber.NewError(fiber.StatusBadRequest, "counterDate zorunludur")
		}
		if _, err := time.Parse("2006-01-02", body.CounterDate); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}
		if body.Value < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Sayaç değeri negatif olamaz")
		}

		var printer models.Printer
		if err := db.First(&printer, printerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Makine bulunamadı")
		}

		counter := models.PrinterCounter{
			PrinterID:   printer.ID,
			CounterDate: body.CounterDate,
			Value:       body.Value,
		}
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "printer_id"}, {Name: "counter_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).Create(&counter).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sayaç kaydedilemedi")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"printerId":   counter.PrinterID,
			"counterDate": counter.CounterDate,
			"value":       counter.Value,
		})
	}
}
