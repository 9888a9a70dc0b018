package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"ambassador_backend/internal/models"
)

var (
	ErrApplicationNotFound        = errors.New("application not found")
	ErrApplicationAlreadyExists   = errors.New("application with this email already exists")
	ErrApplicationAlreadyVerified = errors.New("application already verified")
)

// ApplicationFilter - фильтр списка заявок.
// Пустой Status - все статусы, Limit <= 0 - без ограничения.
type ApplicationFilter struct {
	Status     models.ApplicationStatus
	CampaignID *uint
	Limit      int
	Offset     int
}

type ApplicationRepository interface {
	CreateApplication(db *gorm.DB, application *models.Application) error
	FindApplicationByID(db *gorm.DB, id uint) (*models.Application, error)
	FindApplicationByEmail(db *gorm.DB, email string) (*models.Application, error)
	ExistsByEmail(db *gorm.DB, email string) (bool, error)

	MarkVerified(db *gorm.DB, id uint, at time.Time) error
	ReplaceToken(db *gorm.DB, id uint, token string, at time.Time) error
	UpdateStatus(db *gorm.DB, id uint, status models.ApplicationStatus) error
	DeleteApplication(db *gorm.DB, id uint) error
	DetachCampaign(db *gorm.DB, campaignID uint) error

	FindApplications(db *gorm.DB, filter ApplicationFilter) ([]models.Application, int64, error)
	CountByStatus(db *gorm.DB, campaignID *uint) (map[models.ApplicationStatus]int64, error)
	FindApproved(db *gorm.DB, limit int) ([]models.Application, error)
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

func (r *ApplicationRepositoryImpl) CreateApplication(db *gorm.DB, application *models.Application) error {
	if err := db.Create(application).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrApplicationAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ApplicationRepositoryImpl) FindApplicationByID(db *gorm.DB, id uint) (*models.Application, error) {
	var application models.Application
	if err := db.First(&application, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) FindApplicationByEmail(db *gorm.DB, email string) (*models.Application, error) {
	var application models.Application
	if err := db.Where("email = ?", email).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) ExistsByEmail(db *gorm.DB, email string) (bool, error) {
	var count int64
	err := db.Model(&models.Application{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// MarkVerified переводит заявку в verified только если она еще не подтверждена.
// Из двух одновременных кликов выигрывает один, второй получает ErrApplicationAlreadyVerified.
func (r *ApplicationRepositoryImpl) MarkVerified(db *gorm.DB, id uint, at time.Time) error {
	result := db.Model(&models.Application{}).
		Where("id = ? AND verified = ?", id, false).
		Updates(map[string]interface{}{
			"verified":    true,
			"status":      models.ApplicationStatusVerified,
			"verified_at": at,
			"updated_at":  at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&models.Application{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrApplicationNotFound
	}
	return ErrApplicationAlreadyVerified
}

// ReplaceToken выдает новый код неподтвержденной заявке
func (r *ApplicationRepositoryImpl) ReplaceToken(db *gorm.DB, id uint, token string, at time.Time) error {
	result := db.Model(&models.Application{}).
		Where("id = ? AND verified = ?", id, false).
		Updates(map[string]interface{}{
			"verification_token": token,
			"token_issued_at":    at,
			"updated_at":         at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationAlreadyVerified
	}
	return nil
}

// UpdateStatus перезаписывает статус без проверки порядка переходов
func (r *ApplicationRepositoryImpl) UpdateStatus(db *gorm.DB, id uint, status models.ApplicationStatus) error {
	result := db.Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepositoryImpl) DeleteApplication(db *gorm.DB, id uint) error {
	result := db.Delete(&models.Application{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

// DetachCampaign отвязывает заявки от удаляемой кампании
func (r *ApplicationRepositoryImpl) DetachCampaign(db *gorm.DB, campaignID uint) error {
	return db.Model(&models.Application{}).
		Where("campaign_id = ?", campaignID).
		Update("campaign_id", nil).Error
}

func (r *ApplicationRepositoryImpl) FindApplications(db *gorm.DB, filter ApplicationFilter) ([]models.Application, int64, error) {
	query := db.Model(&models.Application{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CampaignID != nil {
		query = query.Where("campaign_id = ?", *filter.CampaignID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// id - вторичный ключ, created_at может совпадать до секунды
	query = query.Order("created_at DESC").Order("id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var applications []models.Application
	if err := query.Find(&applications).Error; err != nil {
		return nil, 0, err
	}
	return applications, total, nil
}

func (r *ApplicationRepositoryImpl) CountByStatus(db *gorm.DB, campaignID *uint) (map[models.ApplicationStatus]int64, error) {
	var rows []struct {
		Status models.ApplicationStatus
		Count  int64
	}

	query := db.Model(&models.Application{}).Select("status, COUNT(*) AS count")
	if campaignID != nil {
		query = query.Where("campaign_id = ?", *campaignID)
	}
	if err := query.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.ApplicationStatus]int64, len(models.ApplicationStatuses))
	for _, s := range models.ApplicationStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *ApplicationRepositoryImpl) FindApproved(db *gorm.DB, limit int) ([]models.Application, error) {
	var applications []models.Application
	query := db.Where("status = ?", models.ApplicationStatusApproved).
		Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}
