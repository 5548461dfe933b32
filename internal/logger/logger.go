package logger

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// New: production ayarlarıyla yapılandırılmış zap logger.
func New() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		// Logger kurulamıyorsa ayakta kalmanın anlamı yok
		panic(err)
	}
	return l
}

// RequestLogger: her HTTP isteğini metod/yol/durum/süre ile loglar.
func RequestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		log.Info("http isteği",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		)
		return err
	}
}
