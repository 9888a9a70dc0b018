package models

import (
	"time"
)

// BaseModel - общий набор полей.
// ID автоинкрементный: заявки и кампании адресуются числом.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
