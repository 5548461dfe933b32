package orders

import (
	"errors"
	"fmt"
	"time"

	"matbaa-backend/internal/auth"
	"matbaa-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateOrderRequest struct {
	CustomerName     string  `json:"customerName"`
	CustomerPhone    string  `json:"customerPhone"`
	CustomerEmail    string  `json:"customerEmail"`
	PrepaymentAmount float64 `json:"prepaymentAmount"`
}

type UpdateStatusRequest struct {
	Status int `json:"status"`
}

// GET /api/orders — kullanıcının (ve sahipsiz) siparişleri, kalemleriyle
func ListOrdersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := auth.CurrentUser(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		var orders []models.Order
		if err := db.Preload("Items").
			Where("user_id = ? OR user_id IS NULL", user.ID).
			Order("id DESC").
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for _, o := range orders {
			resp = append(resp, NewOrderResponse(o))
		}
		return c.JSON(resp)
	}
}

// POST /api/orders — boş sipariş aç; numara insert sonrası atanır
func CreateOrderHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		user, _ := auth.CurrentUser(c)
		var userID *uint
		if user.ID != 0 {
			userID = &user.ID
		}

		order := models.Order{
			Status:           1,
			CustomerName:     body.CustomerName,
			CustomerPhone:    body.CustomerPhone,
			CustomerEmail:    body.CustomerEmail,
			PrepaymentAmount: body.PrepaymentAmount,
			UserID:           userID,
		}
		if err := db.Create(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
		}

		order.Number = fmt.Sprintf("ORD-%04d", order.ID)
		if err := db.Model(&order).Update("number", order.Number).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş numarası atanamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(NewOrderResponse(order))
	}
}

// GET /api/order-statuses — durum kataloğu, panoda sıra ve renk için
func ListStatusesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		type statusRow struct {
			ID        uint   `json:"id"`
			Name      string `json:"name"`
			Color     string `json:"color"`
			SortOrder int    `json:"sort_order"`
		}
		var rows []statusRow
		if err := db.Model(&models.OrderStatus{}).Order("sort_order").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Durumlar listelenemedi")
		}
		return c.JSON(rows)
	}
}

// PUT /api/orders/:id/status
func UpdateStatusHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş ID")
		}
		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var order models.Order
		if err := db.First(&order, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		if err := db.Model(&order).Update("status", body.Status).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Durum güncellenemedi")
		}
		order.Status = body.Status

		return c.JSON(NewOrderResponse(order))
	}
}

// POST /api/orders/:id/duplicate — siparişi kalemleriyle kopyalar.
// Kopyalama stok düşmez; kalemler olduğu gibi çoğaltılır, ön ödeme sıfırlanır.
func DuplicateOrderHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş ID")
		}

		var original models.Order
		if err := db.Preload("Items").First(&original, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		copy := models.Order{
			Number:        fmt.Sprintf("%s-COPY-%d", original.Number, time.Now().UnixMilli()),
			Status:        1,
			CustomerName:  original.CustomerName,
			CustomerPhone: original.CustomerPhone,
			CustomerEmail: original.CustomerEmail,
			UserID:        original.UserID,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&copy).Error; err != nil {
				return err
			}
			for _, it := range original.Items {
				newItem := models.Item{
					OrderID:   copy.ID,
					Type:      it.Type,
					Params:    it.Params,
					Price:     it.Price,
					Quantity:  it.Quantity,
					PrinterID: it.PrinterID,
					Sides:     it.Sides,
					Sheets:    it.Sheets,
					Waste:     it.Waste,
					Clicks:    it.Clicks,
				}
				if err := tx.Create(&newItem).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş kopyalanamadı")
		}

		if err := db.Preload("Items").First(&copy, copy.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kopya yüklenemedi")
		}
		return c.Status(fiber.StatusCreated).JSON(NewOrderResponse(copy))
	}
}

// DELETE /api/orders/:id — kalemlerin tüketimini iade edip siparişi siler
func DeleteOrderHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş ID")
		}

		user, _ := auth.CurrentUser(c)
		var userID *uint
		if user.ID != 0 {
			userID = &user.ID
		}

		if err := ReleaseOrder(db, uint(id), userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş silinemedi")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/orders/:id/normalize-prices — admin aracı: toplam fiyat girilmiş
// kalemleri birim fiyata çevirir (eski kayıtları düzeltmek için).
func NormalizePricesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş ID")
		}

		var items []models.Item
		if err := db.Where("order_id = ?", id).Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kalemler yüklenemedi")
		}

		updated := 0
		for _, it := range items {
			qty := it.Quantity
			if qty < 1 {
				qty = 1
			}
			perItem := it.Price / float64(qty)
			// Sezgisel: miktar > 1 iken birim fiyat anormal yüksekse toplam girilmiştir
			shouldFix := qty > 1 && perItem != 0 && (perItem > 10 || (qty >= 50 && perItem > 3))
			if !shouldFix {
				continue
			}
			if err := db.Model(&models.Item{}).
				Where("id = ? AND order_id = ?", it.ID, id).
				Update("price", perItem).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Fiyat güncellenemedi")
			}
			updated++
		}

		return c.JSON(fiber.Map{"orderId": id, "updated": updated})
	}
}
