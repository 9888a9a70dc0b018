package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"ambassador_backend/internal/models"
)

var (
	ErrAdminNotFound      = errors.New("admin not found")
	ErrAdminAlreadyExists = errors.New("admin with this email already exists")
)

type AdminRepository interface {
	CreateAdmin(db *gorm.DB, admin *models.AdminUser) error
	FindAdminByEmail(db *gorm.DB, email string) (*models.AdminUser, error)
	FindAdminByID(db *gorm.DB, id uint) (*models.AdminUser, error)
	CountAdmins(db *gorm.DB) (int64, error)
	UpdateLastLogin(db *gorm.DB, id uint, at time.Time) error
}

type AdminRepositoryImpl struct{}

func NewAdminRepository() AdminRepository {
	return &AdminRepositoryImpl{}
}

func (r *AdminRepositoryImpl) CreateAdmin(db *gorm.DB, admin *models.AdminUser) error {
	if err := db.Create(admin).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrAdminAlreadyExists
		}
		return err
	}
	return nil
}

func (r *AdminRepositoryImpl) FindAdminByEmail(db *gorm.DB, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := db.Where("email = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepositoryImpl) FindAdminByID(db *gorm.DB, id uint) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := db.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepositoryImpl) CountAdmins(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.AdminUser{}).Count(&count).Error
	return count, err
}

func (r *AdminRepositoryImpl) UpdateLastLogin(db *gorm.DB, id uint, at time.Time) error {
	return db.Model(&models.AdminUser{}).Where("id = ?", id).Update("last_login_at", at).Error
}
