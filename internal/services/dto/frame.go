package dto

import (
	"time"

	"ambassador_backend/internal/models"
)

type FrameZoneRequest struct {
	X      int    `json:"x" validate:"min=0"`
	Y      int    `json:"y" validate:"min=0"`
	Width  int    `json:"width" validate:"min=1"`
	Height int    `json:"height" validate:"min=1"`
	Shape  string `json:"shape" validate:"is-frame-shape"`
}

// UpdateZonesRequest - новые зоны рамки
type UpdateZonesRequest struct {
	Zones []FrameZoneRequest `json:"zones" validate:"required,min=1,dive"`
}

// CreateFrameInput - данные загрузки рамки (multipart)
type CreateFrameInput struct {
	CampaignID  uint
	Name        string
	Zones       []FrameZoneRequest
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
}

type FrameResponse struct {
	ID         uint               `json:"id"`
	CampaignID uint               `json:"campaign_id"`
	Name       string             `json:"name"`
	URL        string             `json:"url"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	Zones      []models.FrameZone `json:"zones"`
	UsageCount int64              `json:"usage_count"`
	CreatedAt  time.Time          `json:"created_at"`
}

func NewFrameResponse(f *models.FrameTemplate) FrameResponse {
	zones := []models.FrameZone(f.Zones)
	if zones == nil {
		zones = []models.FrameZone{}
	}
	return FrameResponse{
		ID:         f.ID,
		CampaignID: f.CampaignID,
		Name:       f.Name,
		URL:        f.URL,
		Width:      f.Width,
		Height:     f.Height,
		Zones:      zones,
		UsageCount: f.UsageCount,
		CreatedAt:  f.CreatedAt,
	}
}

func ToFrameZones(in []FrameZoneRequest) []models.FrameZone {
	zones := make([]models.FrameZone, 0, len(in))
	for _, z := range in {
		shape := z.Shape
		if shape == "" {
			shape = "rect"
		}
		zones = append(zones, models.FrameZone{X: z.X, Y: z.Y, Width: z.Width, Height: z.Height, Shape: shape})
	}
	return zones
}
