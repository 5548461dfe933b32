package models

import "time"

type Order struct {
	ID               uint    `gorm:"primaryKey"`
	Number           string  `gorm:"size:50;uniqueIndex"` // insert sonrası "ORD-0001" formatında atanır
	Status           int     `gorm:"not null;default:1"`  // order_statuses kataloğundaki sıra
	CustomerName     string  `gorm:"size:100"`
	CustomerPhone    string  `gorm:"size:30"`
	CustomerEmail    string  `gorm:"size:100"`
	PrepaymentAmount float64 `gorm:"not null;default:0"`
	PrepaymentStatus string  `gorm:"size:20"` // "", "pending", "paid", "successful", "failed"
	PaymentURL       string  `gorm:"size:255"`
	PaymentID        string  `gorm:"size:100;index"` // ödeme sağlayıcısının verdiği id
	UserID           *uint   `gorm:"index"`
	Items            []Item  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
