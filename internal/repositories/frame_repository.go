package repositories

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ambassador_backend/internal/models"
)

var ErrFrameNotFound = errors.New("frame template not found")

type FrameRepository interface {
	CreateFrame(db *gorm.DB, frame *models.FrameTemplate) error
	FindFrameByID(db *gorm.DB, id uint) (*models.FrameTemplate, error)
	FindFramesByCampaign(db *gorm.DB, campaignID uint) ([]models.FrameTemplate, error)
	UpdateZones(db *gorm.DB, id uint, zones []models.FrameZone) error
	IncrementUsage(db *gorm.DB, id uint) error
	DeleteFrame(db *gorm.DB, id uint) error
}

type FrameRepositoryImpl struct{}

func NewFrameRepository() FrameRepository {
	return &FrameRepositoryImpl{}
}

func (r *FrameRepositoryImpl) CreateFrame(db *gorm.DB, frame *models.FrameTemplate) error {
	return db.Create(frame).Error
}

func (r *FrameRepositoryImpl) FindFrameByID(db *gorm.DB, id uint) (*models.FrameTemplate, error) {
	var frame models.FrameTemplate
	if err := db.First(&frame, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFrameNotFound
		}
		return nil, err
	}
	return &frame, nil
}

func (r *FrameRepositoryImpl) FindFramesByCampaign(db *gorm.DB, campaignID uint) ([]models.FrameTemplate, error) {
	var frames []models.FrameTemplate
	err := db.Where("campaign_id = ?", campaignID).Order("id ASC").Find(&frames).Error
	return frames, err
}

func (r *FrameRepositoryImpl) UpdateZones(db *gorm.DB, id uint, zones []models.FrameZone) error {
	result := db.Model(&models.FrameTemplate{}).Where("id = ?", id).
		Update("zones", datatypes.JSONSlice[models.FrameZone](zones))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFrameNotFound
	}
	return nil
}

// IncrementUsage атомарно увеличивает счетчик, без read-modify-write
func (r *FrameRepositoryImpl) IncrementUsage(db *gorm.DB, id uint) error {
	result := db.Model(&models.FrameTemplate{}).Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFrameNotFound
	}
	return nil
}

func (r *FrameRepositoryImpl) DeleteFrame(db *gorm.DB, id uint) error {
	result := db.Delete(&models.FrameTemplate{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFrameNotFound
	}
	return nil
}
