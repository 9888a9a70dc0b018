package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ambassador_backend/internal/logger"
	"ambassador_backend/internal/models"
	"ambassador_backend/internal/repositories"
	"ambassador_backend/internal/services/dto"
	"ambassador_backend/pkg/apperrors"
)

const copySuffix = " (Copy)"

type CampaignService interface {
	Create(ctx context.Context, db *gorm.DB, req *dto.CreateCampaignRequest) (*dto.CampaignResponse, error)
	List(ctx context.Context, db *gorm.DB, status string) ([]dto.CampaignResponse, error)
	Get(ctx context.Context, db *gorm.DB, id uint) (*dto.CampaignResponse, error)
	Update(ctx context.Context, db *gorm.DB, id uint, req *dto.UpdateCampaignRequest) (*dto.CampaignResponse, error)
	Duplicate(ctx context.Context, db *gorm.DB, id uint) (*dto.CampaignResponse, error)
	Delete(ctx context.Context, db *gorm.DB, id uint) error
	Applications(ctx context.Context, db *gorm.DB, id uint, filter dto.ApplicationListFilter) (*dto.ApplicationListResponse, error)
}

type CampaignServiceImpl struct {
	campaignRepo       repositories.CampaignRepository
	applicationRepo    repositories.ApplicationRepository
	frameService       FrameService
	applicationService ApplicationService
}

func NewCampaignService(
	campaignRepo repositories.CampaignRepository,
	applicationRepo repositories.ApplicationRepository,
	frameService FrameService,
	applicationService ApplicationService,
) CampaignService {
	return &CampaignServiceImpl{
		campaignRepo:       campaignRepo,
		applicationRepo:    applicationRepo,
		frameService:       frameService,
		applicationService: applicationService,
	}
}

func (s *CampaignServiceImpl) Create(ctx context.Context, db *gorm.DB, req *dto.CreateCampaignRequest) (*dto.CampaignResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.ValidationError(map[string]string{"title": "Title is required"})
	}

	status := models.CampaignStatus(req.Status)
	if status == "" {
		status = models.CampaignStatusDraft
	}
	if !status.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"status": "Unknown campaign status"})
	}

	campaign := &models.Campaign{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Status:      status,
		Metadata:    datatypes.JSONMap(req.Metadata),
	}
	if err := s.campaignRepo.CreateCampaign(db, campaign); err != nil {
		return nil, apperrors.ErrPersistence(err)
	}

	logger.CtxInfo(ctx, "Campaign created", "campaign_id", campaign.ID)
	resp := dto.NewCampaignResponse(campaign)
	return &resp, nil
}

func (s *CampaignServiceImpl) List(ctx context.Context, db *gorm.DB, status string) ([]dto.CampaignResponse, error) {
	st := models.CampaignStatus(strings.TrimSpace(status))
	if st != "" && !st.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"status": "Unknown campaign status"})
	}

	campaigns, err := s.campaignRepo.FindCampaigns(db, st)
	if err != nil {
		return nil, apperrors.ErrPersistence(err)
	}

	out := make([]dto.CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		out = append(out, dto.NewCampaignResponse(&campaigns[i]))
	}
	return out, nil
}

// Get возвращает кампанию вместе с рамками
func (s *CampaignServiceImpl) Get(ctx context.Context, db *gorm.DB, id uint) (*dto.CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindCampaignByID(db, id)
	if err != nil {
		return nil, mapCampaignError(err)
	}

	frames, err := s.frameService.ListByCampaign(ctx, db, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewCampaignResponse(campaign)
	resp.Frames = frames
	return &resp, nil
}

func (s *CampaignServiceImpl) Update(ctx context.Context, db *gorm.DB, id uint, req *dto.UpdateCampaignRequest) (*dto.CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindCampaignByID(db, id)
	if err != nil {
		return nil, mapCampaignError(err)
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.ValidationError(map[string]string{"title": "Title is required"})
		}
		campaign.Title = title
	}
	if req.Description != nil {
		campaign.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		status := models.CampaignStatus(*req.Status)
		if !status.IsValid() {
			return nil, apperrors.ValidationError(map[string]string{"status": "Unknown campaign status"})
		}
		campaign.Status = status
	}
	if req.Metadata != nil {
		campaign.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.campaignRepo.UpdateCampaign(db, campaign); err != nil {
		return nil, mapCampaignError(err)
	}

	logger.CtxInfo(ctx, "Campaign updated", "campaign_id", id)
	return s.Get(ctx, db, id)
}

// Duplicate - копия всегда в статусе draft, рамки копируются вместе с файлами.
// Если транзакция откатилась, скопированные файлы удаляются.
func (s *CampaignServiceImpl) Duplicate(ctx context.Context, db *gorm.DB, id uint) (*dto.CampaignResponse, error) {
	var (
		copyID uint
		keys   []string
	)

	err := db.Transaction(func(tx *gorm.DB) error {
		src, err := s.campaignRepo.FindCampaignByID(tx, id)
		if err != nil {
			return err
		}

		metadata := datatypes.JSONMap{}
		for k, v := range src.Metadata {
			metadata[k] = v
		}

		dup := &models.Campaign{
			Title:       src.Title + copySuffix,
			Description: src.Description,
			Status:      models.CampaignStatusDraft,
			Metadata:    metadata,
		}
		if err := s.campaignRepo.CreateCampaign(tx, dup); err != nil {
			return err
		}
		copyID = dup.ID

		keys, err = s.frameService.CopyFrames(ctx, tx, src.ID, dup.ID)
		return err
	})
	if err != nil {
		s.frameService.DeleteFiles(ctx, keys)
		return nil, mapCampaignError(err)
	}

	logger.CtxInfo(ctx, "Campaign duplicated", "campaign_id", id, "copy_id", copyID)
	return s.Get(ctx, db, copyID)
}

// Delete удаляет кампанию с рамками. Заявки остаются, связь с кампанией снимается.
func (s *CampaignServiceImpl) Delete(ctx context.Context, db *gorm.DB, id uint) error {
	var keys []string

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.campaignRepo.FindCampaignByID(tx, id); err != nil {
			return err
		}

		var err error
		keys, err = s.frameService.DetachCampaignFrames(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.applicationRepo.DetachCampaign(tx, id); err != nil {
			return err
		}
		return s.campaignRepo.DeleteCampaign(tx, id)
	})
	if err != nil {
		return mapCampaignError(err)
	}

	s.frameService.DeleteFiles(ctx, keys)
	logger.CtxInfo(ctx, "Campaign deleted", "campaign_id", id, "frames", len(keys))
	return nil
}

func (s *CampaignServiceImpl) Applications(ctx context.Context, db *gorm.DB, id uint, filter dto.ApplicationListFilter) (*dto.ApplicationListResponse, error) {
	if _, err := s.campaignRepo.FindCampaignByID(db, id); err != nil {
		return nil, mapCampaignError(err)
	}

	filter.CampaignID = &id
	return s.applicationService.List(ctx, db, filter)
}

func mapCampaignError(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	if errors.Is(err, repositories.ErrCampaignNotFound) {
		return apperrors.ErrCampaignNotFound
	}
	return apperrors.ErrPersistence(err)
}
