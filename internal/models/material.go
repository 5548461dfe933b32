package models

import "time"

type Material struct {
	ID               uint     `gorm:"primaryKey"`
	Name             string   `gorm:"size:150;not null;unique"`
	Unit             string   `gorm:"size:20;not null"` // tabaka, rulo, adet vs.
	Quantity         float64  `gorm:"not null"`         // anlık stok
	MinQuantity      *float64 // boşsa alt sınır yok
	SheetPriceSingle *float64 // hesaplayıcı için tek yüz tabaka fiyatı
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
