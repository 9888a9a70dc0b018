package models

import (
	"gorm.io/datatypes"
)

// FrameZone - прямоугольная область рамки, куда вписывается фото
type FrameZone struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Shape  string `json:"shape,omitempty"` // rect, circle
}

// FrameTemplate - PNG-оверлей с прозрачными зонами под фото
type FrameTemplate struct {
	BaseModel
	CampaignID uint   `gorm:"not null;index"`
	Name       string `gorm:"type:varchar(255);not null"`
	StorageKey string `gorm:"not null"`
	URL        string
	MimeType   string
	Size       int64
	Width      int
	Height     int
	Zones      datatypes.JSONSlice[FrameZone]
	UsageCount int64 `gorm:"not null;default:0"`
}
