package models

import "time"

// OrderFile: siparişe yüklenen baskı dosyası ve onay durumu.
type OrderFile struct {
	ID           uint   `gorm:"primaryKey"`
	OrderID      uint   `gorm:"index;not null"`
	Filename     string `gorm:"size:255;not null"` // diskteki benzersiz ad (uuid + uzantı)
	OriginalName string `gorm:"size:255"`
	Mime         string `gorm:"size:100"`
	Size         int64
	Approved     bool `gorm:"not null;default:false"`
	ApprovedAt   *time.Time
	ApprovedBy   *uint
	UploadedAt   time.Time `gorm:"autoCreateTime"`
}
