package database

import (
	"math"

	"matbaa-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type seedPreset struct {
	Category string
	Color    string
	Items    []models.PresetItem
	Extras   []models.PresetExtra
}

// Seed: katalog tabloları boşsa başlangıç verisini yükler.
// Kullanıcı seed edilmez; ilk admin /api/auth/register-admin ile açılır.
func Seed(db *gorm.DB, log *zap.Logger) error {
	if err := seedPresets(db, log); err != nil {
		return err
	}
	if err := seedOrderStatuses(db, log); err != nil {
		return err
	}
	if err := seedPrinters(db, log); err != nil {
		return err
	}
	return seedFlyersTiers(db, log)
}

func seedPresets(db *gorm.DB, log *zap.Logger) error {
	var count int64
	db.Model(&models.PresetCategory{}).Count(&count)
	if count > 0 {
		return nil
	}

	log.Info("preset kataloğu seed ediliyor")
	presets := []seedPreset{
		{
			Category: "Kartvizit", Color: "#1976d2",
			Items: []models.PresetItem{
				{Description: "Kartvizit 90x50, tek yüz", Price: 30},
				{Description: "Kartvizit 90x50, çift yüz", Price: 40},
			},
			Extras: []models.PresetExtra{
				{Name: "Mat selefon", Price: 10, Type: "checkbox"},
				{Name: "Parlak selefon", Price: 10, Type: "checkbox"},
			},
		},
		{
			Category: "El ilanı", Color: "#43a047",
			Items: []models.PresetItem{
				{Description: "El ilanı A6, 4+0", Price: 25},
				{Description: "El ilanı A5, 4+0", Price: 35},
				{Description: "El ilanı A4, 4+0", Price: 55},
			},
		},
		{
			Category: "Broşür", Color: "#ef6c00",
			Items: []models.PresetItem{
				{Description: "Broşür A4, 2 kırım", Price: 80},
				{Description: "Broşür A3, 1 kırım", Price: 95},
			},
		},
		{
			Category: "Afiş", Color: "#6d4c41",
			Items: []models.PresetItem{
				{Description: "Afiş A3", Price: 15},
				{Description: "Afiş A2", Price: 25},
				{Description: "Afiş A1", Price: 45},
			},
		},
		{
			Category: "Etiket", Color: "#8e24aa",
			Items: []models.PresetItem{
				{Description: "Kesimli etiket, küçük format", Price: 20},
				{Description: "Tabaka etiket A4", Price: 12},
			},
		},
		{
			Category: "Branda afiş", Color: "#0097a7",
			Items: []models.PresetItem{
				{Description: "Branda 1x1 m", Price: 30},
				{Description: "Branda 2x1 m", Price: 50},
			},
			Extras: []models.PresetExtra{
				{Name: "Kuşgözü (halka)", Price: 10, Type: "checkbox"},
			},
		},
		{
			Category: "Takvim", Color: "#c2185b",
			Items: []models.PresetItem{
				{Description: "Duvar takvimi (spiralli)", Price: 60},
				{Description: "Masa takvimi", Price: 25},
			},
		},
	}

	for _, p := range presets {
		cat := models.PresetCategory{Category: p.Category, Color: p.Color}
		if err := db.Create(&cat).Error; err != nil {
			return err
		}
		for _, it := range p.Items {
			it.CategoryID = cat.ID
			if err := db.Create(&it).Error; err != nil {
				return err
			}
		}
		for _, ex := range p.Extras {
			ex.CategoryID = cat.ID
			if err := db.Create(&ex).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedOrderStatuses(db *gorm.DB, log *zap.Logger) error {
	var count int64
	db.Model(&models.OrderStatus{}).Count(&count)
	if count > 0 {
		return nil
	}

	log.Info("sipariş durumları seed ediliyor")
	statuses := []models.OrderStatus{
		{Name: "Yeni", Color: "#90caf9", SortOrder: 1},
		{Name: "Hazırlanıyor", Color: "#ffe082", SortOrder: 2},
		{Name: "Baskıda", Color: "#ffab91", SortOrder: 3},
		{Name: "Hazır", Color: "#a5d6a7", SortOrder: 4},
		{Name: "Teslim edildi", Color: "#b0bec5", SortOrder: 5},
	}
	return db.Create(&statuses).Error
}

func seedPrinters(db *gorm.DB, log *zap.Logger) error {
	var count int64
	db.Model(&models.Printer{}).Count(&count)
	if count > 0 {
		return nil
	}

	log.Info("baskı makineleri seed ediliyor")
	printers := []models.Printer{
		{Code: "KM-C3080", Name: "Konica Minolta C3080"},
		{Code: "KM-C1100", Name: "Konica Minolta C1100"},
	}
	return db.Create(&printers).Error
}

func seedFlyersTiers(db *gorm.DB, log *zap.Logger) error {
	var count int64
	db.Model(&models.PricingFlyersTier{}).Count(&count)
	if count > 0 {
		return nil
	}

	log.Info("el ilanı fiyat kademeleri seed ediliyor")
	var tiers []models.PricingFlyersTier
	base := map[string]float64{"A6": 0.40, "A5": 0.45, "A4": 0.50}
	typeK := map[string]float64{"rush": 1.0, "online": 0.85, "promo": 0.55}
	steps := []struct {
		minQty int
		k      float64
	}{
		{0, 1.0},
		{200, 0.9},
		{500, 0.8},
		{1000, 0.7},
	}
	for format, b := range base {
		for priceType, tk := range typeK {
			for _, density := range []int{130, 150} {
				dk := 1.0
				if density == 150 {
					dk = 1.25
				}
				for _, s := range steps {
					tiers = append(tiers, models.PricingFlyersTier{
						Format:           format,
						PriceType:        priceType,
						PaperDensity:     density,
						MinQty:           s.minQty,
						SheetPriceSingle: round2(b * tk * dk * s.k),
					})
				}
			}
		}
	}
	return db.Create(&tiers).Error
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
