package orders

import (
	"errors"

	"matbaa-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AddItemRequest struct {
	Type       string         `json:"type"`
	Params     map[string]any `json:"params"`
	Price      float64        `json:"price"`
	Quantity   int            `json:"quantity"`
	PrinterID  *uint          `json:"printerId"`
	Sides      int            `json:"sides"`
	Sheets     int            `json:"sheets"`
	Waste      int            `json:"waste"`
	Components []Component    `json:"components"`
}

type UpdateItemRequest struct {
	Price     *float64 `json:"price"`
	Quantity  *int     `json:"quantity"`
	PrinterID *uint    `json:"printerId"`
	Sides     *int     `json:"sides"`
	Sheets    *int     `json:"sheets"`
	Waste     *int     `json:"waste"`
}

// currentUserID: public uçlarda kullanıcı olmayabilir, o durumda nil.
func currentUserID(c *fiber.Ctx) *uint {
	user, ok := auth.CurrentUser(c)
	if !ok || user.ID == 0 {
		return nil
	}
	return &user.ID
}

// itemStockError: transaction çekirdeğinin hatalarını HTTP koduna çevirir.
func itemStockError(err error) error {
	var insufficient *InsufficientStockError
	if errors.As(err, &insufficient) {
		return fiber.NewError(fiber.StatusBadRequest, insufficient.Error())
	}
	var unknown *UnknownMaterialError
	if errors.As(err, &unknown) {
		return fiber.NewError(fiber.StatusBadRequest, unknown.Error())
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Sipariş veya kalem bulunamadı")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
}

// POST /api/orders/:id/items — kalem ekle ve malzemeleri atomik olarak düş
func AddItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş ID")
		}

		var body AddItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Type == "" {
			return fiber.NewError(fiber.StatusBadRequest, "type zorunludur")
		}
		if desc, _ := body.Params["description"].(string); desc == "" {
			return fiber.NewError(fiber.StatusBadRequest, "params.description zorunludur")
		}

		item, err := AddItem(db, uint(orderID), currentUserID(c), AddItemInput{
			Type:       body.Type,
			Params:     body.Params,
			Price:      body.Price,
			Quantity:   body.Quantity,
			PrinterID:  body.PrinterID,
			Sides:      body.Sides,
			Sheets:     body.Sheets,
			Waste:      body.Waste,
			Components: body.Components,
		})
		if err != nil {
			return itemStockError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(NewItemResponse(*item))
	}
}

// PATCH /api/orders/:orderId/items/:itemId — kısmi güncelleme,
// miktar değişiminde stok farkı uygulanır
func UpdateItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("orderId")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş ID")
		}
		itemID, err := c.ParamsInt("itemId")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kalem ID")
		}

		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		item, err := UpdateItem(db, uint(orderID), uint(itemID), currentUserID(c), UpdateItemInput{
			Price:     body.Price,
			Quantity:  body.Quantity,
			PrinterID: body.PrinterID,
			Sides:     body.Sides,
			Sheets:    body.Sheets,
			Waste:     body.Waste,
		})
		if err != nil {
			return itemStockError(err)
		}

		return c.JSON(NewItemResponse(*item))
	}
}

// DELETE /api/orders/:orderId/items/:itemId — iade + silme; kalem yoksa da 204
func DeleteItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("orderId")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş ID")
		}
		itemID, err := c.ParamsInt("itemId")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kalem ID")
		}

		if err := RemoveItem(db, uint(orderID), uint(itemID), currentUserID(c)); err != nil {
			return itemStockError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
