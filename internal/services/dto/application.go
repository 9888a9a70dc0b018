package dto

import (
	"time"

	"ambassador_backend/internal/models"
)

// SubmitApplicationRequest - публичная форма заявки.
// Основные поля проверяет сервис в фиксированном порядке, поэтому тегов валидации здесь нет.
type SubmitApplicationRequest struct {
	Name       string `json:"name" form:"name"`
	Email      string `json:"email" form:"email"`
	Phone      string `json:"phone" form:"phone"`
	University string `json:"university" form:"university"`
	Major      string `json:"major" form:"major"`
	Year       string `json:"year" form:"year"`
	Motivation string `json:"motivation" form:"motivation"`
	CampaignID *uint  `json:"campaign_id,omitempty" form:"campaign_id"`
	Nonce      string `json:"nonce" form:"nonce"`
}

// VerifyQuery - параметры ссылки из письма
type VerifyQuery struct {
	Email string `form:"email"`
	Code  string `form:"code"`
}

// ResendVerificationRequest - повторная отправка ссылки
type ResendVerificationRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
	Nonce string `json:"nonce" form:"nonce"`
}

// ApplicationListQuery - фильтр дашборда
type ApplicationListQuery struct {
	Status     string `form:"status" json:"status" validate:"is-application-status"`
	CampaignID *uint  `form:"campaign_id" json:"campaign_id"`
}

// ApplicationListFilter - фильтр для сервиса.
// Page начинается с 1, PageSize <= 0 - значение из настроек.
type ApplicationListFilter struct {
	Status     string
	CampaignID *uint
	Page       int
	PageSize   int
}

// UpdateStatusRequest - смена статуса администратором.
// Значение проверяет сервис, чтобы ответ был InvalidStatus, а не общая ошибка валидации.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// BulkActionRequest - массовые действия над заявками
type BulkActionRequest struct {
	Action string `json:"action" validate:"required,is-bulk-action"`
	IDs    []uint `json:"ids" validate:"required,min=1,max=500"`
}

type BulkItemResult struct {
	ID      uint   `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type BulkActionResponse struct {
	Action    string           `json:"action"`
	Processed int              `json:"processed"`
	Failed    int              `json:"failed"`
	Results   []BulkItemResult `json:"results"`
}

// ApplicationResponse - заявка для админки. Код подтверждения наружу не отдается.
type ApplicationResponse struct {
	ID         uint                     `json:"id"`
	CampaignID *uint                    `json:"campaign_id,omitempty"`
	Name       string                   `json:"name"`
	Email      string                   `json:"email"`
	Phone      string                   `json:"phone"`
	University string                   `json:"university"`
	Major      string                   `json:"major"`
	Year       models.AcademicYear      `json:"year"`
	Motivation string                   `json:"motivation"`
	Status     models.ApplicationStatus `json:"status"`
	Verified   bool                     `json:"verified"`
	VerifiedAt *time.Time               `json:"verified_at,omitempty"`
	CreatedAt  time.Time                `json:"created_at"`
	UpdatedAt  time.Time                `json:"updated_at"`
}

type ApplicationListResponse struct {
	Items      []ApplicationResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// StatusCountsResponse - бейджи вкладок дашборда
type StatusCountsResponse struct {
	Counts map[models.ApplicationStatus]int64 `json:"counts"`
	Total  int64                              `json:"total"`
}

// AmbassadorCard - публичная карточка одобренного амбассадора
type AmbassadorCard struct {
	Name        string    `json:"name"`
	Initials    string    `json:"initials"`
	University  string    `json:"university"`
	Major       string    `json:"major,omitempty"`
	Year        string    `json:"year,omitempty"`
	MemberSince time.Time `json:"member_since"`
}

// FormResponse - ответ публичной формы
type FormResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NonceResponse - anti-forgery токен для публичной формы
type NonceResponse struct {
	Nonce     string    `json:"nonce"`
	Action    string    `json:"action"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewApplicationResponse(a *models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:         a.ID,
		CampaignID: a.CampaignID,
		Name:       a.Name,
		Email:      a.Email,
		Phone:      a.Phone,
		University: a.University,
		Major:      a.Major,
		Year:       a.Year,
		Motivation: a.Motivation,
		Status:     a.Status,
		Verified:   a.Verified,
		VerifiedAt: a.VerifiedAt,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
