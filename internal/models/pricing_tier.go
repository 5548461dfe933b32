package models

// PricingFlyersTier: el ilanı hesaplayıcısının kademeli tabaka fiyatları.
// min_qty eşiğini geçen en büyük kademe uygulanır.
type PricingFlyersTier struct {
	ID               uint    `gorm:"primaryKey"`
	Format           string  `gorm:"size:5;not null;index:idx_flyers_tiers,priority:1"`  // A6 / A5 / A4
	PriceType        string  `gorm:"size:10;not null;index:idx_flyers_tiers,priority:2"` // rush / online / promo
	PaperDensity     int     `gorm:"not null;index:idx_flyers_tiers,priority:3"`         // 130 / 150
	MinQty           int     `gorm:"not null"`
	SheetPriceSingle float64 `gorm:"not null"` // SRA3 tek yüz fiyatı
}
