package models

import "time"

type Printer struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"size:30;not null;unique"`
	Name string `gorm:"size:100;not null"`
}

// PrinterCounter: makinenin gün sonu klik sayacı; (printer, tarih) başına tek değer.
type PrinterCounter struct {
	ID          uint   `gorm:"primaryKey"`
	PrinterID   uint   `gorm:"not null;uniqueIndex:idx_printer_counters_printer_date,priority:1"`
	CounterDate string `gorm:"size:10;not null;uniqueIndex:idx_printer_counters_printer_date,priority:2"` // "YYYY-MM-DD"
	Value       int    `gorm:"not null"`
	CreatedAt   time.Time
}
