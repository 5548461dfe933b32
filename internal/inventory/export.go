package inventory

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// GET /api/materials/moves/export — hareket defterini xlsx olarak indirir.
// Filtreler JSON listesiyle aynıdır.
func ExportMovesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := ListMoves(db, MoveFilter{
			MaterialID: queryUint(c, "materialId"),
			UserID:     queryUint(c, "user_id"),
			OrderID:    queryUint(c, "orderId"),
			From:       c.Query("from"),
			To:         c.Query("to"),
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hareketler listelenemedi")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Hareketler"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"ID", "Malzeme", "Delta", "Sebep", "Sipariş", "Kullanıcı", "Tarih"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		for i, row := range rows {
			values := []any{
				row.ID,
				row.MaterialName,
				row.Delta,
				row.Reason,
				uintOrEmpty(row.OrderID),
				uintOrEmpty(row.UserID),
				row.CreatedAt.Format("2006-01-02 15:04:05"),
			}
			for j, v := range values {
				cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
				f.SetCellValue(sheet, cell, v)
			}
		}

		filename := fmt.Sprintf("malzeme-hareketleri-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))

		if err := f.Write(c.Response().BodyWriter()); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}
		return nil
	}
}

func uintOrEmpty(v *uint) any {
	if v == nil {
		return ""
	}
	return *v
}
