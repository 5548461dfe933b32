package auth

import (
	"strings"

	"matbaa-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const ctxUserKey = "auth_user"

// TokenMiddleware: "Authorization: Bearer <token>" başlığındaki opak token'ı
// users.api_token üzerinden doğrular ve kullanıcıyı context'e koyar.
// Public uçlar bu middleware'in dışında, router seviyesinde kayıtlıdır.
func TokenMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header eksik")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization formatı 'Bearer <token>' olmalı")
		}

		var user models.User
		if err := db.Where("api_token = ?", parts[1]).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Geçersiz token")
		}

		c.Locals(ctxUserKey, user)
		return c.Next()
	}
}

// CurrentUser: middleware'in koyduğu kullanıcıyı döndürür.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals(ctxUserKey).(models.User)
	return user, ok
}

// RequireAdmin: sadece admin rolüne izin verir.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
		}
		if user.Role != models.RoleAdmin {
			return fiber.NewError(fiber.StatusForbidden, "Bu işlem için yetkiniz yok")
		}
		return c.Next()
	}
}
