package reports

import (
	"matbaa-backend/internal/auth"
	"matbaa-backend/internal/models"
	"matbaa-backend/internal/orders"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SaveFullReportRequest struct {
	ReportDate   string  `json:"report_date"`
	UserID       *uint   `json:"user_id"`
	OrdersCount  int     `json:"orders_count"`
	TotalRevenue float64 `json:"total_revenue"`
	SnapshotJSON string  `json:"snapshot_json"`
}

type fullReportMetadata struct {
	TotalOrders     int             `json:"total_orders"`
	TotalRevenue    float64         `json:"total_revenue"`
	OrdersByStatus  map[int]int     `json:"orders_by_status"`
	RevenueByStatus map[int]float64 `json:"revenue_by_status"`
	CreatedBy       uint            `json:"created_by"`
	LastModified    string          `json:"last_modified"`
}

type fullReportResponse struct {
	Report   dailyReportDetail      `json:"report"`
	Orders   []orders.OrderResponse `json:"orders"`
	Metadata fullReportMetadata     `json:"metadata"`
}

// GET /api/daily-reports/full/:date — rapor satırı + günün canlı siparişleri.
// Siparişler snapshot'tan değil, o anki tablodan okunur.
func FullReportGetHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := c.Params("date")
		if !validDate(date) {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}
		userID, err := targetUser(c)
		if err != nil {
			return err
		}

		var report dailyReportDetail
		res := reportQuery(db).Where("dr.report_date = ? AND dr.user_id = ?", date, userID).Scan(&report)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor yüklenemedi")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Rapor bulunamadı")
		}

		var dayOrders []models.Order
		err = db.Preload("Items").
			Where("DATE(created_at) = ? AND user_id = ?", date, userID).
			Order("id").
			Find(&dayOrders).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler yüklenemedi")
		}

		meta := fullReportMetadata{
			TotalOrders:     len(dayOrders),
			OrdersByStatus:  map[int]int{},
			RevenueByStatus: map[int]float64{},
			CreatedBy:       report.UserID,
			LastModified:    report.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		resp := make([]orders.OrderResponse, 0, len(dayOrders))
		for _, o := range dayOrders {
			var total float64
			for _, it := range o.Items {
				total += it.Price * float64(it.Quantity)
			}
			meta.TotalRevenue += total
			meta.OrdersByStatus[o.Status]++
			meta.RevenueByStatus[o.Status] += total
			resp = append(resp, orders.NewOrderResponse(o))
		}

		return c.JSON(fullReportResponse{Report: report, Orders: resp, Metadata: meta})
	}
}

// POST /api/daily-reports/full — gün sonu anlık görüntüsünü rapor satırına yazar.
// Satır yoksa oluşturulmaz; önce POST /api/daily ile açılmış olmalı.
func FullReportSaveHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SaveFullReportRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.ReportDate == "" || !validDate(body.ReportDate) {
			return fiber.NewError(fiber.StatusBadRequest, "report_date 'YYYY-MM-DD' formatında zorunludur")
		}

		userID, err := targetUser(c)
		if err != nil {
			return err
		}
		if body.UserID != nil && *body.UserID != userID {
			user, _ := auth.CurrentUser(c)
			if user.Role != models.RoleAdmin {
				return fiber.NewError(fiber.StatusForbidden, "Bu işlem için yetkiniz yok")
			}
			userID = *body.UserID
		}

		var existing models.DailyReport
		if err := db.Where("report_date = ? AND user_id = ?", body.ReportDate, userID).First(&existing).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Rapor bulunamadı; önce gün açılmalı")
		}

		if body.SnapshotJSON == "" {
			body.SnapshotJSON = "{}" // jsonb boş string kabul etmez
		}

		// Toplamlar istemcinin gönderdiği haliyle saklanır; sunucu yeniden hesaplamaz.
		updates := map[string]any{
			"orders_count":  body.OrdersCount,
			"total_revenue": body.TotalRevenue,
			"snapshot_json": body.SnapshotJSON,
		}
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor kaydedilemedi")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Gün sonu raporu kaydedildi"})
	}
}
