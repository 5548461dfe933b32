package files

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"matbaa-backend/internal/auth"
	"matbaa-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileResponse struct {
	ID           uint       `json:"id"`
	OrderID      uint       `json:"orderId"`
	Filename     string     `json:"filename"`
	OriginalName string     `json:"originalName"`
	Mime         string     `json:"mime"`
	Size         int64      `json:"size"`
	URL          string     `json:"url"`
	Approved     bool       `json:"approved"`
	ApprovedAt   *time.Time `json:"approvedAt"`
	ApprovedBy   *uint      `json:"approvedBy"`
	UploadedAt   time.Time  `json:"uploadedAt"`
}

func newFileResponse(f models.OrderFile) FileResponse {
	return FileResponse{
		ID:           f.ID,
		OrderID:      f.OrderID,
		Filename:     f.Filename,
		OriginalName: f.OriginalName,
		Mime:         f.Mime,
		Size:         f.Size,
		URL:          "/uploads/" + f.Filename,
		Approved:     f.Approved,
		ApprovedAt:   f.ApprovedAt,
		ApprovedBy:   f.ApprovedBy,
		UploadedAt:   f.UploadedAt,
	}
}

// GET /api/orders/:id/files
func ListFilesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("id")
		if err != nil || orderID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş ID")
		}

		var rows []models.OrderFile
		if err := db.Where("order_id = ?", orderID).Order("id").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosyalar listelenemedi")
		}
		resp := make([]FileResponse, 0, len(rows))
		for _, f := range rows {
			resp = append(resp, newFileResponse(f))
		}
		return c.JSON(resp)
	}
}

// POST /api/orders/:id/files — multipart "file" alanı; disk adı uuid + uzantı
func UploadFileHandler(db *gorm.DB, uploadDir string) fiber.Handler {
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

		fh, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "'file' alanı zorunludur")
		}

		if err := os.MkdirAll(uploadDir, 0o755); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yükleme klasörü oluşturulamadı")
		}

		filename := uuid.NewString() + filepath.Ext(fh.Filename)
		if err := c.SaveFile(fh, filepath.Join(uploadDir, filename)); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya kaydedilemedi")
		}

		record := models.OrderFile{
			OrderID:      order.ID,
			Filename:     filename,
			OriginalName: fh.Filename,
			Mime:         fh.Header.Get("Content-Type"),
			Size:         fh.Size,
		}
		if err := db.Create(&record).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya kaydedilemedi")
		}
		return c.Status(fiber.StatusCreated).JSON(newFileResponse(record))
	}
}

// DELETE /api/orders/:id/files/:fileId — disk silme hatası kaydı engellemez
func DeleteFileHandler(db *gorm.DB, uploadDir string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("id")
		if err != nil || orderID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş ID")
		}
		fileID, err := c.ParamsInt("fileId")
		if err != nil || fileID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz dosya ID")
		}

		var record models.OrderFile
		if err := db.Where("id = ? AND order_id = ?", fileID, orderID).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Dosya bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya yüklenemedi")
		}

		if err := db.Delete(&record).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya silinemedi")
		}
		_ = os.Remove(filepath.Join(uploadDir, record.Filename))
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/orders/:id/files/:fileId/approve — onaylayan ve zamanı işlenir
func ApproveFileHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("id")
		if err != nil || orderID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş ID")
		}
		fileID, err := c.ParamsInt("fileId")
		if err != nil || fileID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz dosya ID")
		}

		var record models.OrderFile
		if err := db.Where("id = ? AND order_id = ?", fileID, orderID).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Dosya bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya yüklenemedi")
		}

		now := time.Now()
		updates := map[string]any{
			"approved":    true,
			"approved_at": now,
		}
		if user, ok := auth.CurrentUser(c); ok {
			updates["approved_by"] = user.ID
		}
		if err := db.Model(&record).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya onaylanamadı")
		}
		if err := db.First(&record, record.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya yüklenemedi")
		}
		return c.JSON(newFileResponse(record))
	}
}
