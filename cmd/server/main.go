package main

import (
	"strings"

	"matbaa-backend/internal/auth"
	"matbaa-backend/internal/calculators"
	"matbaa-backend/internal/config"
	"matbaa-backend/internal/database"
	"matbaa-backend/internal/files"
	"matbaa-backend/internal/inventory"
	"matbaa-backend/internal/logger"
	"matbaa-backend/internal/orders"
	"matbaa-backend/internal/payments"
	"matbaa-backend/internal/presets"
	"matbaa-backend/internal/printers"
	"matbaa-backend/internal/recipes"
	"matbaa-backend/internal/reports"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	log := logger.New()
	defer log.Sync()

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal("veritabanına bağlanılamadı", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024, // baskı dosyaları büyük olabilir
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Error("beklenmeyen hata", zap.Error(err), zap.String("path", c.Path()))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den temizleyerek al
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(logger.RequestLogger(log))

	// Yüklenen baskı dosyaları doğrudan servis edilir
	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")

	// Public
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(db))
	api.Post("/auth/login", auth.LoginHandler(db))
	api.Get("/presets", presets.ListPresetsHandler(db))
	api.Post("/webhooks/bepaid", payments.WebhookHandler(db, log))
	// Müşteri sipariş formu girişsiz çalışır; kalem ekleme ve ön ödeme public
	api.Post("/orders/:id/items", orders.AddItemHandler(db))
	api.Post("/orders/:id/prepay", payments.PrepayHandler(db))

	// Protected
	protected := api.Group("")
	protected.Use(auth.TokenMiddleware(db))

	protected.Get("/me", auth.MeHandler())
	protected.Get("/users", auth.ListUsersHandler(db))

	// Hesaplayıcılar
	protected.Get("/calculators/flyers-color", calculators.FlyersSchemaHandler())
	protected.Post("/calculators/flyers-color/price", calculators.FlyersPriceHandler(db))

	// Siparişler
	protected.Get("/orders", orders.ListOrdersHandler(db))
	protected.Post("/orders", orders.CreateOrderHandler(db))
	protected.Get("/order-statuses", orders.ListStatusesHandler(db))
	protected.Put("/orders/:id/status", orders.UpdateStatusHandler(db))
	protected.Post("/orders/:id/duplicate", orders.DuplicateOrderHandler(db))
	protected.Delete("/orders/:id", orders.DeleteOrderHandler(db))

	// Sipariş kalemleri
	protected.Patch("/orders/:orderId/items/:itemId", orders.UpdateItemHandler(db))
	protected.Delete("/orders/:orderId/items/:itemId", orders.DeleteItemHandler(db))

	// Baskı dosyaları
	protected.Get("/orders/:id/files", files.ListFilesHandler(db))
	protected.Post("/orders/:id/files", files.UploadFileHandler(db, cfg.UploadDir))
	protected.Delete("/orders/:id/files/:fileId", files.DeleteFileHandler(db, cfg.UploadDir))
	protected.Post("/orders/:id/files/:fileId/approve", files.ApproveFileHandler(db))

	// Malzemeler ve hareket defteri
	protected.Get("/materials", inventory.ListMaterialsHandler(db))
	protected.Get("/materials/moves", inventory.ListMovesHandler(db))
	protected.Get("/materials/low-stock", inventory.LowStockHandler(db))
	protected.Get("/materials/report/top", inventory.TopSpendHandler(db))
	protected.Get("/materials/report/forecast", inventory.ForecastHandler(db))

	// Reçeteler
	protected.Get("/product-materials/:category/:description", recipes.GetRecipeHandler(db))

	// Günlük raporlar
	protected.Get("/daily-reports", reports.ListDailyReportsHandler(db))
	protected.Get("/daily/:date", reports.GetDailyHandler(db))
	protected.Patch("/daily/:date", reports.PatchDailyHandler(db))
	protected.Post("/daily", reports.CreateDailyHandler(db))
	protected.Delete("/daily-reports/:id", reports.DeleteDailyReportHandler(db))
	protected.Get("/daily-reports/full/:date", reports.FullReportGetHandler(db))
	protected.Post("/daily-reports/full", reports.FullReportSaveHandler(db))
	protected.Get("/reports/daily/:date/summary", reports.DailySummaryHandler(db))

	// Baskı makineleri
	protected.Get("/printers", printers.ListPrintersHandler(db))
	protected.Get("/printers/counters", printers.CountersHandler(db))

	// Admin
	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireAdmin())

	adminRoutes.Post("/users", auth.CreateUserHandler(db))
	adminRoutes.Post("/materials", inventory.UpsertMaterialHandler(db))
	adminRoutes.Delete("/materials/:id", inventory.DeleteMaterialHandler(db))
	adminRoutes.Post("/materials/spend", inventory.SpendHandler(db))
	adminRoutes.Get("/materials/moves/export", inventory.ExportMovesHandler(db))
	adminRoutes.Post("/product-materials", recipes.SetRecipeHandler(db))
	adminRoutes.Post("/printers/:id/counters", printers.SubmitCounterHandler(db))
	adminRoutes.Post("/orders/:id/normalize-prices", orders.NormalizePricesHandler(db))

	log.Info("sunucu başlatılıyor", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal("sunucu durdu", zap.Error(err))
	}
}
