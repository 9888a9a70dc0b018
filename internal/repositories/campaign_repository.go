package repositories

import (
	"errors"

	"gorm.io/gorm"

	"ambassador_backend/internal/models"
)

var ErrCampaignNotFound = errors.New("campaign not found")

type CampaignRepository interface {
	CreateCampaign(db *gorm.DB, campaign *models.Campaign) error
	FindCampaignByID(db *gorm.DB, id uint) (*models.Campaign, error)
	FindCampaigns(db *gorm.DB, status models.CampaignStatus) ([]models.Campaign, error)
	UpdateCampaign(db *gorm.DB, campaign *models.Campaign) error
	DeleteCampaign(db *gorm.DB, id uint) error
}

type CampaignRepositoryImpl struct{}

func NewCampaignRepository() CampaignRepository {
	return &CampaignRepositoryImpl{}
}

func (r *CampaignRepositoryImpl) CreateCampaign(db *gorm.DB, campaign *models.Campaign) error {
	return db.Create(campaign).Error
}

func (r *CampaignRepositoryImpl) FindCampaignByID(db *gorm.DB, id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := db.First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

func (r *CampaignRepositoryImpl) FindCampaigns(db *gorm.DB, status models.CampaignStatus) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	query := db.Order("created_at DESC").Order("id DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (r *CampaignRepositoryImpl) UpdateCampaign(db *gorm.DB, campaign *models.Campaign) error {
	result := db.Model(campaign).Select("title", "description", "status", "metadata").Updates(campaign)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

func (r *CampaignRepositoryImpl) DeleteCampaign(db *gorm.DB, id uint) error {
	result := db.Delete(&models.Campaign{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCampaignNotFound
	}
	return nil
}
