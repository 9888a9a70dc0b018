package services

import (
	"ambassador_backend/internal/auth"
	"ambassador_backend/internal/email"
	"ambassador_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	ApplicationService ApplicationService
	AuthService        AuthService
	CampaignService    CampaignService
	FrameService       FrameService
	TokenManager       *auth.TokenManager
	NonceManager       *auth.NonceManager
	EmailProvider      email.Provider
	Storage            storage.Storage
}
