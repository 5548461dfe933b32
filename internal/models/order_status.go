package models

type OrderStatus struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:50;not null;unique"`
	Color     string `gorm:"size:10"`
	SortOrder int    `gorm:"not null;default:0"`
}
