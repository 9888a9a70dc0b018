package models

import "time"

// AdminUser - учетная запись панели управления
type AdminUser struct {
	BaseModel
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string    `gorm:"type:varchar(255)"`
	PasswordHash string    `gorm:"not null"`
	Role         AdminRole `gorm:"type:varchar(20);not null;default:'admin'"`
	LastLoginAt  *time.Time
}
