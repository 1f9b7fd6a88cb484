package models

import (
	"time"

	"gorm.io/gorm"
)

type Host struct {
	ID         string  `gorm:"type:uuid;primaryKey"`
	ExternalID *string `gorm:"size:64;uniqueIndex"`
	Name       string  `gorm:"size:255;not null"`
	Company    string  `gorm:"size:255;not null"`
	Email      *string `gorm:"size:320"`
	Phone      string  `gorm:"size:32;not null"`
	Location   *string `gorm:"size:32"`
	Status     int     `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Host) TableName() string {
	return "hosts"
}

type Account struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	HostID       string `gorm:"type:uuid;index;not null"`
	Email        string `gorm:"size:320;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:72;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Account) TableName() string {
	return "accounts"
}
