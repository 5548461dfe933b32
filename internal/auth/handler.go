package auth

import (
	"errors"
	"strings"
	"time"

	"matbaa-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register-admin
// İlk kurulum için: sistemde hiç admin yoksa bir admin açar.
func RegisterAdminHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Email == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, email ve şifre zorunlu")
		}

		var count int64
		db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "Zaten bir admin var")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		token, err := NewToken()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token oluşturulamadı")
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			Phone:        body.Phone,
			PasswordHash: string(hash),
			ApiToken:     token,
			Role:         models.RoleAdmin,
		}
		if err := db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "Bu email veya isim zaten kayıtlı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		})
	}
}

// POST /api/users — admin yeni kullanıcı açar.
type CreateUserRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Phone    string          `json:"phone"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
}

func CreateUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Email == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, email ve şifre zorunlu")
		}
		if body.Role != models.RoleAdmin && body.Role != models.RoleManager {
			body.Role = models.RoleManager
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}
		token, err := NewToken()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token oluşturulamadı")
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			Phone:        body.Phone,
			PasswordHash: string(hash),
			ApiToken:     token,
			Role:         body.Role,
		}
		if err := db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "Bu email veya isim zaten kayıtlı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		})
	}
}

// POST /api/auth/login
// Başarılı girişte kullanıcının bugünkü günlük raporu yoksa açılır.
func LoginHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Email ve şifre zorunlu")
		}

		var user models.User
		if err := db.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}

		// Günlük rapor: sadece bugünün tarihi için, yoksa aç.
		// snapshot_json jsonb kolonu boş string kabul etmez, boş nesneyle açılır.
		today := time.Now().Format("2006-01-02")
		report := models.DailyReport{ReportDate: today, UserID: user.ID, SnapshotJSON: "{}"}
		if err := db.Create(&report).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusInternalServerError, "Günlük rapor açılamadı")
		}

		return c.JSON(fiber.Map{
			"token":        user.ApiToken,
			"name":         user.Name,
			"role":         user.Role,
			"user_id":      user.ID,
			"session_date": today,
		})
	}
}

// GET /api/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}
		return c.JSON(fiber.Map{
			"id":   user.ID,
			"name": user.Name,
			"role": user.Role,
		})
	}
}

// GET /api/users
func ListUsersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		type userRow struct {
			ID   uint   `json:"id"`
			Name string `json:"name"`
		}
		var users []userRow
		if err := db.Model(&models.User{}).Order("name").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcılar listelenemedi")
		}
		return c.JSON(users)
	}
}
