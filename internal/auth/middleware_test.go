package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"matbaa-backend/internal/auth"
	"matbaa-backend/internal/models"
	"matbaa-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
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
	app.Post("/api/auth/login", auth.LoginHandler(db))

	protected := app.Group("/api", auth.TokenMiddleware(db))
	protected.Get("/me", auth.MeHandler())
	protected.Get("/users", auth.RequireAdmin(), auth.ListUsersHandler(db))
	return app
}

func TestTokenMiddleware(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.CreateUser(t, db, "ayse", models.RoleManager)
	app := newApp(db)

	// başlık yok
	req := httptest.NewRequest("GET", "/api/me", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// bozuk format
	req = httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", user.ApiToken)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// bilinmeyen token
	req = httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", "Bearer yok-boyle-token")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// geçerli token
	req = httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+user.ApiToken)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var me struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	assert.Equal(t, user.ID, me.ID)
	assert.Equal(t, "ayse", me.Name)
}

func TestRequireAdmin(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.CreateUser(t, db, "patron", models.RoleAdmin)
	manager := testutil.CreateUser(t, db, "ayse", models.RoleManager)
	app := newApp(db)

	req := httptest.NewRequest("GET", "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+manager.ApiToken)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+admin.ApiToken)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLoginOpensTodaysReport(t *testing.T) {
	db := testutil.OpenDB(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("gizli123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Name:         "ayse",
		Email:        "ayse@matbaa.local",
		PasswordHash: string(hash),
		ApiToken:     "tok-ayse",
		Role:         models.RoleManager,
	}
	require.NoError(t, db.Create(&user).Error)
	app := newApp(db)

	body, _ := json.Marshal(fiber.Map{"email": "ayse@matbaa.local", "password": "gizli123"})
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Token       string `json:"token"`
		SessionDate string `json:"session_date"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "tok-ayse", out.Token)
	assert.Equal(t, time.Now().Format("2006-01-02"), out.SessionDate)

	var report models.DailyReport
	require.NoError(t, db.Where("report_date = ? AND user_id = ?", out.SessionDate, user.ID).First(&report).Error)
	// jsonb kolonu boş string kabul etmez; yeni satır geçerli JSON ile açılmalı
	assert.Equal(t, "{}", report.SnapshotJSON)
	assert.True(t, json.Valid([]byte(report.SnapshotJSON)))

	// ikinci giriş yeni satır açmaz
	req = httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&models.DailyReport{}).Count(&count)
	assert.EqualValues(t, 1, count)

	// yanlış şifre
	bad, _ := json.Marshal(fiber.Map{"email": "ayse@matbaa.local", "password": "yanlis"})
	req = httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(bad))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
