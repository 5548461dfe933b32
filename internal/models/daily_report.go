package models

import "time"

// DailyReport: (tarih, kullanıcı) başına tek satır. Sadece o günün tarihi için,
// tipik olarak login sırasında oluşturulur; geçmiş tarihe rapor açılamaz.
type DailyReport struct {
	ID           uint   `gorm:"primaryKey"`
	ReportDate   string `gorm:"size:10;not null;uniqueIndex:idx_daily_reports_date_user,priority:1"` // "YYYY-MM-DD"
	UserID       uint   `gorm:"not null;uniqueIndex:idx_daily_reports_date_user,priority:2"`
	User         User
	OrdersCount  int      `gorm:"not null;default:0"`
	TotalRevenue float64  `gorm:"not null;default:0"`
	CashActual   *float64 // kasadaki fiili nakit
	SnapshotJSON string   `gorm:"type:jsonb"` // günün siparişlerinin denormalize kopyası; jsonb boş string kabul etmediği için her zaman geçerli JSON yazılmalı
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
