package models

import (
	"gorm.io/datatypes"
)

// Campaign - набор заявок и рамок под одну кампанию набора
type Campaign struct {
	BaseModel
	Title       string         `gorm:"type:varchar(255);not null"`
	Description string         `gorm:"type:text"`
	Status      CampaignStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	// Metadata - произвольные ключ-значение (даты, цели, ссылки)
	Metadata datatypes.JSONMap

	Frames []FrameTemplate `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE"`
}
