package models

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:100;not null;unique"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	Phone        string   `gorm:"size:30"`
	PasswordHash string   `gorm:"size:255;not null"`
	ApiToken     string   `gorm:"size:64;uniqueIndex;not null"` // opak API token, her istekte Bearer ile gönderilir
	Role         UserRole `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
