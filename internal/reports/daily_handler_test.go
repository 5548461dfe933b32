package reports_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"matbaa-backend/internal/auth"
	"matbaa-backend/internal/models"
	"matbaa-backend/internal/reports"
	"matbaa-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newApp(db *gorm.DB) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	api := app.Group("/api", auth.TokenMiddleware(db))
	api.Get("/daily-reports", reports.ListDailyReportsHandler(db))
	api.Get("/daily/:date", reports.GetDailyHandler(db))
	api.Patch("/daily/:date", reports.PatchDailyHandler(db))
	api.Post("/daily", reports.CreateDailyHandler(db))
	api.Delete("/daily-reports/:id", reports.DeleteDailyReportHandler(db))
	api.Get("/daily-reports/full/:date", reports.FullReportGetHandler(db))
	api.Post("/daily-reports/full", reports.FullReportSaveHandler(db))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestCreateDailyOnlyForToday(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.CreateUser(t, db, "ayse", models.RoleManager)
	app := newApp(db)

	resp := doJSON(t, app, "POST", "/api/daily", user.ApiToken, fiber.Map{
		"report_date": "2020-01-01",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	today := time.Now().Format("2006-01-02")
	resp = doJSON(t, app, "POST", "/api/daily", user.ApiToken, fiber.Map{
		"report_date": today,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var row struct {
		ReportDate string `json:"report_date"`
		UserID     uint   `json:"user_id"`
	}
	decode(t, resp, &row)
	assert.Equal(t, today, row.ReportDate)
	assert.Equal(t, user.ID, row.UserID)

	// jsonb kolonu boş string kabul etmez; satır geçerli JSON ile açılmalı
	var saved models.DailyReport
	require.NoError(t, db.Where("report_date = ? AND user_id = ?", today, user.ID).First(&saved).Error)
	assert.Equal(t, "{}", saved.SnapshotJSON)
	assert.True(t, json.Valid([]byte(saved.SnapshotJSON)))

	// aynı (tarih, kullanıcı) için ikinci rapor açılamaz
	resp = doJSON(t, app, "POST", "/api/daily", user.ApiToken, fiber.Map{
		"report_date": today,
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestCreateDailyRejectsOtherUser(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.CreateUser(t, db, "patron", models.RoleAdmin)
	other := testutil.CreateUser(t, db, "ayse", models.RoleManager)
	app := newApp(db)

	// admin bile başkası adına gün açamaz
	resp := doJSON(t, app, "POST", "/api/daily", admin.ApiToken, fiber.Map{
		"report_date": time.Now().Format("2006-01-02"),
		"user_id":     other.ID,
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestGetDailyOwnAndForeign(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.CreateUser(t, db, "patron", models.RoleAdmin)
	manager := testutil.CreateUser(t, db, "ayse", models.RoleManager)
	require.NoError(t, db.Create(&models.DailyReport{
		ReportDate: "2026-08-28", UserID: manager.ID, OrdersCount: 3, TotalRevenue: 450,
	}).Error)
	app := newApp(db)

	// kendi raporu
	resp := doJSON(t, app, "GET", "/api/daily/2026-08-28", manager.ApiToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var row struct {
		OrdersCount  int     `json:"orders_count"`
		TotalRevenue float64 `json:"total_revenue"`
		UserName     *string `json:"user_name"`
	}
	decode(t, resp, &row)
	assert.Equal(t, 3, row.OrdersCount)
	assert.InDelta(t, 450, row.TotalRevenue, 1e-9)
	require.NotNil(t, row.UserName)
	assert.Equal(t, "ayse", *row.UserName)

	// admin başkasının raporunu user_id ile görebilir
	resp = doJSON(t, app, "GET", "/api/daily/2026-08-28?user_id="+itoa(manager.ID), admin.ApiToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// manager başkasının raporunu göremez
	resp = doJSON(t, app, "GET", "/api/daily/2026-08-28?user_id="+itoa(admin.ID), manager.ApiToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// olmayan gün
	resp = doJSON(t, app, "GET", "/api/daily/2026-08-27", manager.ApiToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPatchDaily(t *testing.T) {
	db := testutil.OpenDB(t)
	manager := testutil.CreateUser(t, db, "ayse", models.RoleManager)
	require.NoError(t, db.Create(&models.DailyReport{
		ReportDate: "2026-08-28", UserID: manager.ID,
	}).Error)
	app := newApp(db)

	// boş gövde reddedilir
	resp := doJSON(t, app, "PATCH", "/api/daily/2026-08-28", manager.ApiToken, fiber.Map{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, "PATCH", "/api/daily/2026-08-28", manager.ApiToken, fiber.Map{
		"orders_count":  7,
		"total_revenue": 1230.5,
		"cash_actual":   1200,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var saved models.DailyReport
	require.NoError(t, db.Where("report_date = ? AND user_id = ?", "2026-08-28", manager.ID).First(&saved).Error)
	assert.Equal(t, 7, saved.OrdersCount)
	assert.InDelta(t, 1230.5, saved.TotalRevenue, 1e-9)
	require.NotNil(t, saved.CashActual)
	assert.InDelta(t, 1200, *saved.CashActual, 1e-9)
}

func TestPatchDailyOwnerChangeConflicts(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.CreateUser(t, db, "patron", models.RoleAdmin)
	manager := testutil.CreateUser(t, db, "ayse", models.RoleManager)
	require.NoError(t, db.Create(&models.DailyReport{ReportDate: "2026-08-28", UserID: admin.ID}).Error)
	require.NoError(t, db.Create(&models.DailyReport{ReportDate: "2026-08-28", UserID: manager.ID}).Error)
	app := newApp(db)

	// sahipliği devretmek hedefte aynı (tarih, kullanıcı) satırı varsa 409
	resp := doJSON(t, app, "PATCH", "/api/daily/2026-08-28", admin.ApiToken, fiber.Map{
		"user_id": manager.ID,
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestDeleteDailyReport(t *testing.T) {
	db := testutil.OpenDB(t)
	manager := testutil.CreateUser(t, db, "ayse", models.RoleManager)
	report := models.DailyReport{ReportDate: "2026-08-28", UserID: manager.ID}
	require.NoError(t, db.Create(&report).Error)
	app := newApp(db)

	resp := doJSON(t, app, "DELETE", "/api/daily-reports/9999", manager.ApiToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, "DELETE", "/api/daily-reports/"+itoa(report.ID), manager.ApiToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&models.DailyReport{}).Count(&count)
	assert.Zero(t, count)
}

func TestListDailyReportsFilters(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.CreateUser(t, db, "patron", models.RoleAdmin)
	manager := testutil.CreateUser(t, db, "ayse", models.RoleManager)
	for _, r := range []models.DailyReport{
		{ReportDate: "2026-08-26", UserID: manager.ID},
		{ReportDate: "2026-08-27", UserID: manager.ID},
		{ReportDate: "2026-08-27", UserID: admin.ID},
	} {
		require.NoError(t, db.Create(&r).Error)
	}
	app := newApp(db)

	// kendi raporları
	resp := doJSON(t, app, "GET", "/api/daily-reports", manager.ApiToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var rows []map[string]any
	decode(t, resp, &rows)
	assert.Len(t, rows, 2)

	// tarih aralığı
	resp = doJSON(t, app, "GET", "/api/daily-reports?from=2026-08-27", manager.ApiToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	rows = nil
	decode(t, resp, &rows)
	assert.Len(t, rows, 1)

	// manager başka kullanıcıya filtre uygulayamaz
	resp = doJSON(t, app, "GET", "/api/daily-reports?user_id="+itoa(admin.ID), manager.ApiToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// admin uygulayabilir
	resp = doJSON(t, app, "GET", "/api/daily-reports?user_id="+itoa(manager.ID), admin.ApiToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	rows = nil
	decode(t, resp, &rows)
	assert.Len(t, rows, 2)
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
