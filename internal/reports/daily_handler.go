package reports

import (
	"errors"
	"time"

	"matbaa-backend/internal/auth"
	"matbaa-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateDailyRequest struct {
	ReportDate   string   `json:"report_date"`
	UserID       *uint    `json:"user_id"`
	OrdersCount  int      `json:"orders_count"`
	TotalRevenue float64  `json:"total_revenue"`
	CashActual   *float64 `json:"cash_actual"`
}

type PatchDailyRequest struct {
	OrdersCount  *int     `json:"orders_count"`
	TotalRevenue *float64 `json:"total_revenue"`
	CashActual   *float64 `json:"cash_actual"`
	UserID       *uint    `json:"user_id"`
}

type DailyReportRow struct {
	ID           uint      `json:"id"`
	ReportDate   string    `json:"report_date"`
	OrdersCount  int       `json:"orders_count"`
	TotalRevenue float64   `json:"total_revenue"`
	CashActual   *float64  `json:"cash_actual"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UserID       uint      `json:"user_id"`
	UserName     *string   `json:"user_name"`
}

type dailyReportDetail struct {
	DailyReportRow
	SnapshotJSON string `json:"snapshot_json"`
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func reportQuery(db *gorm.DB) *gorm.DB {
	return db.Table("daily_reports dr").
		Select("dr.id, dr.report_date, dr.orders_count, dr.total_revenue, dr.cash_actual, dr.created_at, dr.updated_at, dr.user_id, dr.snapshot_json, u.name AS user_name").
		Joins("LEFT JOIN users u ON u.id = dr.user_id")
}

// targetUser: query'deki user_id varsa onu, yoksa çağıranı hedefler.
// Başkasının raporuna sadece admin erişebilir.
func targetUser(c *fiber.Ctx) (uint, error) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	q := c.QueryInt("user_id", 0)
	if q <= 0 {
		return user.ID, nil
	}
	target := uint(q)
	if target != user.ID && user.Role != models.RoleAdmin {
		return 0, fiber.NewError(fiber.StatusForbidden, "Bu işlem için yetkiniz yok")
	}
	return target, nil
}

// GET /api/daily-reports — rapor listesi; user_id filtresi sadece admin için
func ListDailyReportsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := auth.CurrentUser(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		q := reportQuery(db)
		if filtered := c.QueryInt("user_id", 0); filtered > 0 {
			if user.Role != models.RoleAdmin {
				return fiber.NewError(fiber.StatusForbidden, "Bu işlem için yetkiniz yok")
			}
			q = q.Where("dr.user_id = ?", filtered)
		} else {
			q = q.Where("dr.user_id = ?", user.ID)
		}
		if from := c.Query("from"); from != "" {
			q = q.Where("dr.report_date >= ?", from)
		}
		if to := c.Query("to"); to != "" {
			q = q.Where("dr.report_date <= ?", to)
		}

		var rows []DailyReportRow
		if err := q.Order("dr.report_date DESC").Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Raporlar listelenemedi")
		}
		return c.JSON(rows)
	}
}

// GET /api/daily/:date
func GetDailyHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := c.Params("date")
		if !validDate(date) {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}
		userID, err := targetUser(c)
		if err != nil {
			return err
		}

		var row dailyReportDetail
		res := reportQuery(db).Where("dr.report_date = ? AND dr.user_id = ?", date, userID).Scan(&row)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor yüklenemedi")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Rapor bulunamadı")
		}
		return c.JSON(row)
	}
}

// PATCH /api/daily/:date — kısmi güncelleme; sahip değişikliği sadece admin.
// Güncelleme açık alan haritasıyla yapılır, SQL parçası birleştirilmez.
func PatchDailyHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := c.Params("date")
		if !validDate(date) {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		var body PatchDailyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.OrdersCount == nil && body.TotalRevenue == nil && body.CashActual == nil && body.UserID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Güncellenecek alan yok")
		}

		userID, err := targetUser(c)
		if err != nil {
			return err
		}
		user, _ := auth.CurrentUser(c)

		var existing models.DailyReport
		if err := db.Where("report_date = ? AND user_id = ?", date, userID).First(&existing).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Rapor bulunamadı")
		}

		updates := map[string]any{}
		if body.OrdersCount != nil {
			updates["orders_count"] = *body.OrdersCount
		}
		if body.TotalRevenue != nil {
			updates["total_revenue"] = *body.TotalRevenue
		}
		if body.CashActual != nil {
			updates["cash_actual"] = *body.CashActual
		}
		nextUserID := userID
		if body.UserID != nil && user.Role == models.RoleAdmin {
			nextUserID = *body.UserID
			updates["user_id"] = nextUserID
		}

		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "Bu kullanıcı ve tarih için rapor zaten var")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor güncellenemedi")
		}

		var row dailyReportDetail
		if err := reportQuery(db).Where("dr.report_date = ? AND dr.user_id = ?", date, nextUserID).Scan(&row).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor yüklenemedi")
		}
		return c.JSON(row)
	}
}

// POST /api/daily — sadece bugünün tarihi ve sadece çağıranın kendisi için.
// Rolü ne olursa olsun başkası adına rapor açılamaz; admin istisnası yok.
func CreateDailyHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDailyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.ReportDate == "" || !validDate(body.ReportDate) {
			return fiber.NewError(fiber.StatusBadRequest, "report_date 'YYYY-MM-DD' formatında zorunludur")
		}

		today := time.Now().Format("2006-01-02")
		if body.ReportDate != today {
			return fiber.NewError(fiber.StatusBadRequest, "Rapor sadece bugünün tarihi için açılabilir")
		}

		user, ok := auth.CurrentUser(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}
		if body.UserID != nil && *body.UserID != user.ID {
			return fiber.NewError(fiber.StatusForbidden, "Rapor sadece kendi adına açılabilir")
		}

		report := models.DailyReport{
			ReportDate:   body.ReportDate,
			UserID:       user.ID,
			OrdersCount:  body.OrdersCount,
			TotalRevenue: body.TotalRevenue,
			CashActual:   body.CashActual,
			SnapshotJSON: "{}", // jsonb boş string kabul etmez
		}
		if err := db.Create(&report).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "Rapor zaten var")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor oluşturulamadı")
		}

		var row dailyReportDetail
		if err := reportQuery(db).Where("dr.report_date = ? AND dr.user_id = ?", body.ReportDate, user.ID).Scan(&row).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor yüklenemedi")
		}
		return c.Status(fiber.StatusCreated).JSON(row)
	}
}

// DELETE /api/daily-reports/:id
func DeleteDailyReportHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz rapor ID")
		}

		var report models.DailyReport
		if err := db.First(&report, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Rapor bulunamadı")
		}
		if err := db.Delete(&report).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor silinemedi")
		}
		return c.JSON(fiber.Map{"message": "Rapor silindi"})
	}
}
