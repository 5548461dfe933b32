package models

import "time"

// Item: sipariş kalemi. Params içinde en azından "description" bulunur;
// kalem özel bileşenlerle (components) açıldıysa onlar da Params'a yazılır.
type Item struct {
	ID        uint    `gorm:"primaryKey"`
	OrderID   uint    `gorm:"index;not null"`
	Type      string  `gorm:"size:100;not null"`   // preset kategorisi
	Params    string  `gorm:"type:jsonb;not null"` // serbest alanlar (JSON)
	Price     float64 `gorm:"not null"`            // birim fiyat
	Quantity  int     `gorm:"not null;default:1"`
	PrinterID *uint   `gorm:"index"`
	Sides     int     `gorm:"not null;default:1"`
	Sheets    int     `gorm:"not null;default:0"`
	Waste     int     `gorm:"not null;default:0"`
	Clicks    int     `gorm:"not null;default:0"` // sheets * sides * 2
	CreatedAt time.Time
	UpdatedAt time.Time
}
