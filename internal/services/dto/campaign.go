package dto

import (
	"time"

	"ambassador_backend/internal/models"
)

type CreateCampaignRequest struct {
	Title       string                 `json:"title" validate:"required,max=255"`
	Description string                 `json:"description"`
	Status      string                 `json:"status" validate:"is-campaign-status"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// UpdateCampaignRequest - частичное обновление, nil поля не трогаются
type UpdateCampaignRequest struct {
	Title       *string                `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string                `json:"description"`
	Status      *string                `json:"status" validate:"omitempty,is-campaign-status"`
	Metadata    map[string]interface{} `json:"metadata"`
}

type CampaignListQuery struct {
	Status string `form:"status" validate:"is-campaign-status"`
}

type CampaignResponse struct {
	ID          uint                   `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Status      models.CampaignStatus  `json:"status"`
	Metadata    map[string]interface{} `json:"metadata"`
	Frames      []FrameResponse        `json:"frames,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func NewCampaignResponse(c *models.Campaign) CampaignResponse {
	metadata := map[string]interface{}(c.Metadata)
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return CampaignResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Status:      c.Status,
		Metadata:    metadata,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
