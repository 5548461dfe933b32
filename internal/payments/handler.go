package payments

import (
	"errors"
	"fmt"
	"time"

	"matbaa-backend/internal/models"
	"matbaa-backend/internal/orders"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PrepayRequest struct {
	Amount *float64 `json:"amount"` // boşsa siparişteki tutar kullanılır
}

type WebhookRequest struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

// POST /api/orders/:id/prepay — ödeme sağlayıcısında oturum açar (stub).
// Gerçek BePaid entegrasyonu yerine deterministik bir id ve yönlendirme
// adresi üretir; webhook ile durum kapanır.
func PrepayHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("id")
		if err != nil || orderID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş ID")
		}

		var order models.Order
		if err := db.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş yüklenemedi")
		}

		var body PrepayRequest
		_ = c.BodyParser(&body) // gövde opsiyonel

		amount := order.PrepaymentAmount
		if body.Amount != nil {
			amount = *body.Amount
		}
		if amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Ön ödeme tutarı sıfırdan büyük olmalı")
		}

		paymentID := fmt.Sprintf("BEP-%d-%d", time.Now().UnixMilli(), order.ID)
		paymentURL := fmt.Sprintf("https://checkout.bepaid.by/redirect/%s", paymentID)

		updates := map[string]any{
			"prepayment_amount": amount,
			"prepayment_status": "pending",
			"payment_id":        paymentID,
			"payment_url":       paymentURL,
		}
		if err := db.Model(&order).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme başlatılamadı")
		}

		if err := db.Preload("Items").First(&order, order.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş yüklenemedi")
		}
		return c.JSON(orders.NewOrderResponse(order))
	}
}

// POST /api/webhooks/bepaid — sağlayıcı bildirimi; payment_id ile eşleşen
// sipariş yoksa sessizce 204 döner, sağlayıcı tekrar denemesin.
func WebhookHandler(db *gorm.DB, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body WebhookRequest
		if err := c.BodyParser(&body); err != nil || body.PaymentID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "payment_id zorunludur")
		}

		status := body.Status
		if status == "" {
			status = "successful"
		}

		res := db.Model(&models.Order{}).
			Where("payment_id = ?", body.PaymentID).
			Update("prepayment_status", status)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme durumu güncellenemedi")
		}
		if res.RowsAffected == 0 {
			log.Warn("eşleşmeyen ödeme bildirimi", zap.String("payment_id", body.PaymentID))
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
