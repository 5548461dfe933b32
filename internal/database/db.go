package database

import (
	"fmt"

	"matbaa-backend/internal/config"
	"matbaa-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open: Postgres bağlantısını kurar, şemayı migrate eder ve boş tabloları
// başlangıç verisiyle doldurur. Dönen *gorm.DB handler kurucularına parametre
// olarak geçilir; paket seviyesinde global bağlantı tutulmaz.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		TranslateError: true, // unique ihlalleri gorm.ErrDuplicatedKey olarak gelsin
	})
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := Seed(db, log); err != nil {
		return nil, err
	}

	log.Info("veritabanı bağlantısı hazır, migration tamamlandı")
	return db, nil
}

// Migrate: tüm model şemalarını günceller.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.Item{},
		&models.Material{},
		&models.MaterialMove{},
		&models.ProductMaterial{},
		&models.DailyReport{},
		&models.PresetCategory{},
		&models.PresetItem{},
		&models.PresetExtra{},
		&models.OrderFile{},
		&models.OrderStatus{},
		&models.Printer{},
		&models.PrinterCounter{},
		&models.PricingFlyersTier{},
	)
	if err != nil {
		return fmt.Errorf("AutoMigrate hatası: %w", err)
	}
	return nil
}
