package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"ambassador_backend/internal/auth"
	"ambassador_backend/internal/logger"
	"ambassador_backend/internal/models"
	"ambassador_backend/internal/repositories"
	"ambassador_backend/internal/services/dto"
	"ambassador_backend/pkg/apperrors"
)

type AuthService interface {
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
	// SeedFirstAdmin создает администратора, если в системе нет ни одного
	SeedFirstAdmin(ctx context.Context, db *gorm.DB, email, password string) error
}

type AuthServiceImpl struct {
	adminRepo repositories.AdminRepository
	tokens    *auth.TokenManager
}

func NewAuthService(adminRepo repositories.AdminRepository, tokens *auth.TokenManager) AuthService {
	return &AuthServiceImpl{
		adminRepo: adminRepo,
		tokens:    tokens,
	}
}

// Login - аутентификация администратора
func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	admin, err := s.adminRepo.FindAdminByEmail(db, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, admin.PasswordHash) {
		logger.CtxWarn(ctx, "Failed admin login", "email", admin.Email)
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.GenerateToken(admin.ID, admin.Email, string(admin.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now().UTC()
	if err := s.adminRepo.UpdateLastLogin(db, admin.ID, now); err != nil {
		// вход не ломаем из-за статистики
		logger.CtxWithError(ctx, "Failed to update last login", err, "admin_id", admin.ID)
	}
	admin.LastLoginAt = &now

	return &dto.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		Admin: dto.AdminResponse{
			ID:          admin.ID,
			Email:       admin.Email,
			Name:        admin.Name,
			Role:        string(admin.Role),
			LastLoginAt: admin.LastLoginAt,
		},
	}, nil
}

func (s *AuthServiceImpl) SeedFirstAdmin(ctx context.Context, db *gorm.DB, email, password string) error {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		logger.CtxWarn(ctx, "First admin credentials are not set, skipping seeding")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		count, err := s.adminRepo.CountAdmins(tx)
		if err != nil {
			return err
		}
		if count > 0 {
			logger.CtxInfo(ctx, "Admin already exists, skipping seeding")
			return nil
		}

		if err := auth.ValidatePassword(password); err != nil {
			return err
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}

		admin := &models.AdminUser{
			Email:        email,
			Name:         strings.SplitN(email, "@", 2)[0],
			PasswordHash: hash,
			Role:         models.AdminRoleAdmin,
		}
		if err := s.adminRepo.CreateAdmin(tx, admin); err != nil {
			return err
		}

		logger.CtxInfo(ctx, "First admin created", "email", email)
		return nil
	})
}
