package services

import (
	"context"
	"errors"
	"math"
	"net/url"
	"strings"
	"time"
	"unicode"

	"gorm.io/gorm"

	"ambassador_backend/internal/email"
	"ambassador_backend/internal/logger"
	"ambassador_backend/internal/models"
	"ambassador_backend/internal/repositories"
	"ambassador_backend/internal/services/dto"
	"ambassador_backend/internal/validator"
	"ambassador_backend/internal/workers"
	"ambassador_backend/pkg/apperrors"
)

const (
	defaultItemsPerPage = 100
	maxAmbassadorCards  = 50
)

// MailQueue - неблокирующая очередь писем (workers.MailWorker)
type MailQueue interface {
	Enqueue(kind string, msg *email.Email) bool
}

// ApplicationServiceConfig - настройки заявок
type ApplicationServiceConfig struct {
	// VerifyURL - абсолютный адрес эндпоинта подтверждения, к нему добавляются email и code
	VerifyURL        string
	TokenTTL         time.Duration // 0 - код не истекает
	RegistrationOpen bool
	AdminEmail       string
	NotifyAdmin      bool
	ItemsPerPage     int
	Now              func() time.Time
}

type ApplicationService interface {
	// Публичная часть
	Submit(ctx context.Context, db *gorm.DB, req *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error)
	Verify(ctx context.Context, db *gorm.DB, email, token string) error
	ResendVerification(ctx context.Context, db *gorm.DB, email string) error
	ListAmbassadors(ctx context.Context, db *gorm.DB, limit int) ([]dto.AmbassadorCard, error)

	// Дашборд
	Get(ctx context.Context, db *gorm.DB, id uint) (*dto.ApplicationResponse, error)
	List(ctx context.Context, db *gorm.DB, filter dto.ApplicationListFilter) (*dto.ApplicationListResponse, error)
	CountByStatus(ctx context.Context, db *gorm.DB, campaignID *uint) (*dto.StatusCountsResponse, error)
	SetStatus(ctx context.Context, db *gorm.DB, id uint, status string) (*dto.ApplicationResponse, error)
	Delete(ctx context.Context, db *gorm.DB, id uint) error
	BulkAction(ctx context.Context, db *gorm.DB, req *dto.BulkActionRequest) (*dto.BulkActionResponse, error)
}

type ApplicationServiceImpl struct {
	applicationRepo repositories.ApplicationRepository
	campaignRepo    repositories.CampaignRepository
	tokens          TokenService
	sanitizer       *Sanitizer
	validator       *validator.Validator
	composer        *email.Composer
	mail            MailQueue
	cfg             ApplicationServiceConfig
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	campaignRepo repositories.CampaignRepository,
	tokens TokenService,
	sanitizer *Sanitizer,
	v *validator.Validator,
	composer *email.Composer,
	mail MailQueue,
	cfg ApplicationServiceConfig,
) ApplicationService {
	if cfg.ItemsPerPage <= 0 {
		cfg.ItemsPerPage = defaultItemsPerPage
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	return &ApplicationServiceImpl{
		applicationRepo: applicationRepo,
		campaignRepo:    campaignRepo,
		tokens:          tokens,
		sanitizer:       sanitizer,
		validator:       v,
		composer:        composer,
		mail:            mail,
		cfg:             cfg,
	}
}

// NormalizeEmail - единая форма адреса для хранения и поиска
func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Submit - проверки идут строго по порядку: имя, email, университет, дубликат,
// затем год и кампания.
// При любой ошибке в БД ничего не пишется.
func (s *ApplicationServiceImpl) Submit(ctx context.Context, db *gorm.DB, req *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error) {
	if !s.cfg.RegistrationOpen {
		return nil, apperrors.ErrRegistrationClosed
	}

	name := s.sanitizer.Line(req.Name)
	if name == "" {
		return nil, apperrors.ErrInvalidName
	}

	emailAddr := NormalizeEmail(req.Email)
	if !s.validator.IsEmail(emailAddr) {
		return nil, apperrors.ErrInvalidEmail
	}

	university := s.sanitizer.Line(req.University)
	if university == "" {
		return nil, apperrors.ErrInvalidUniversity
	}

	exists, err := s.applicationRepo.ExistsByEmail(db, emailAddr)
	if err != nil {
		return nil, apperrors.ErrPersistence(err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateEmail
	}

	year := models.AcademicYear(strings.ToLower(strings.TrimSpace(req.Year)))
	if !year.IsValid() {
		return nil, apperrors.ErrInvalidYear
	}

	if req.CampaignID != nil {
		if _, err := s.campaignRepo.FindCampaignByID(db, *req.CampaignID); err != nil {
			if errors.Is(err, repositories.ErrCampaignNotFound) {
				return nil, apperrors.ErrCampaignNotFound
			}
			return nil, apperrors.ErrPersistence(err)
		}
	}

	token, err := s.tokens.Issue()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := s.cfg.Now()
	application := &models.Application{
		CampaignID:        req.CampaignID,
		Name:              name,
		Email:             emailAddr,
		Phone:             s.sanitizer.Line(req.Phone),
		University:        university,
		Major:             s.sanitizer.Line(req.Major),
		Year:              year,
		Motivation:        s.sanitizer.Text(req.Motivation),
		Status:            models.ApplicationStatusPending,
		VerificationToken: token,
		TokenIssuedAt:     now,
		Verified:          false,
	}

	// уникальный индекс ловит гонку двух одинаковых отправок после проверки выше
	if err := s.applicationRepo.CreateApplication(db, application); err != nil {
		if errors.Is(err, repositories.ErrApplicationAlreadyExists) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, apperrors.ErrPersistence(err)
	}

	logger.CtxInfo(ctx, "Application submitted", "application_id", application.ID)

	s.sendVerification(ctx, application)
	s.notifyAdmin(ctx, application)

	resp := dto.NewApplicationResponse(application)
	return &resp, nil
}

// Verify - подтверждение email по ссылке из письма.
// Неверный код неотличим от отсутствующей заявки.
func (s *ApplicationServiceImpl) Verify(ctx context.Context, db *gorm.DB, emailAddr, token string) error {
	application, err := s.applicationRepo.FindApplicationByEmail(db, NormalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return apperrors.ErrVerificationNotFound
		}
		return apperrors.ErrPersistence(err)
	}

	if !s.tokens.Matches(application.VerificationToken, strings.TrimSpace(token)) {
		logger.CtxWarn(ctx, "Verification code mismatch", "application_id", application.ID)
		return apperrors.ErrVerificationNotFound
	}

	if application.Verified {
		return apperrors.ErrAlreadyVerified
	}

	now := s.cfg.Now()
	if s.tokenExpired(application, now) {
		return apperrors.ErrTokenExpired
	}

	if err := s.applicationRepo.MarkVerified(db, application.ID, now); err != nil {
		switch {
		case errors.Is(err, repositories.ErrApplicationAlreadyVerified):
			return apperrors.ErrAlreadyVerified
		case errors.Is(err, repositories.ErrApplicationNotFound):
			return apperrors.ErrVerificationNotFound
		default:
			return apperrors.ErrPersistence(err)
		}
	}

	logger.CtxInfo(ctx, "Application email verified", "application_id", application.ID)
	return nil
}

// ResendVerification повторно отправляет ссылку.
// Код меняется только если у старого истек срок.
func (s *ApplicationServiceImpl) ResendVerification(ctx context.Context, db *gorm.DB, emailAddr string) error {
	application, err := s.applicationRepo.FindApplicationByEmail(db, NormalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return apperrors.ErrApplicationNotFound
		}
		return apperrors.ErrPersistence(err)
	}
	if application.Verified {
		return apperrors.ErrAlreadyVerified
	}

	now := s.cfg.Now()
	if s.tokenExpired(application, now) {
		token, err := s.tokens.Issue()
		if err != nil {
			return apperrors.InternalError(err)
		}
		if err := s.applicationRepo.ReplaceToken(db, application.ID, token, now); err != nil {
			if errors.Is(err, repositories.ErrApplicationAlreadyVerified) {
				return apperrors.ErrAlreadyVerified
			}
			return apperrors.ErrPersistence(err)
		}
		application.VerificationToken = token
		application.TokenIssuedAt = now
	}

	s.sendVerification(ctx, application)
	return nil
}

func (s *ApplicationServiceImpl) Get(ctx context.Context, db *gorm.DB, id uint) (*dto.ApplicationResponse, error) {
	application, err := s.applicationRepo.FindApplicationByID(db, id)
	if err != nil {
		return nil, mapApplicationError(err)
	}
	resp := dto.NewApplicationResponse(application)
	return &resp, nil
}

func (s *ApplicationServiceImpl) List(ctx context.Context, db *gorm.DB, filter dto.ApplicationListFilter) (*dto.ApplicationListResponse, error) {
	status := models.ApplicationStatus(strings.TrimSpace(filter.Status))
	if status != "" && !status.IsValid() {
		return nil, apperrors.ErrInvalidApplicationStatus
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = s.cfg.ItemsPerPage
	}

	applications, total, err := s.applicationRepo.FindApplications(db, repositories.ApplicationFilter{
		Status:     status,
		CampaignID: filter.CampaignID,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	})
	if err != nil {
		return nil, apperrors.ErrPersistence(err)
	}

	items := make([]dto.ApplicationResponse, 0, len(applications))
	for i := range applications {
		items = append(items, dto.NewApplicationResponse(&applications[i]))
	}

	return &dto.ApplicationListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

func (s *ApplicationServiceImpl) CountByStatus(ctx context.Context, db *gorm.DB, campaignID *uint) (*dto.StatusCountsResponse, error) {
	counts, err := s.applicationRepo.CountByStatus(db, campaignID)
	if err != nil {
		return nil, apperrors.ErrPersistence(err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &dto.StatusCountsResponse{Counts: counts, Total: total}, nil
}

// SetStatus - переход статуса администратором.
// Порядок переходов не проверяется: любой статус из списка можно поставить из любого.
func (s *ApplicationServiceImpl) SetStatus(ctx context.Context, db *gorm.DB, id uint, status string) (*dto.ApplicationResponse, error) {
	newStatus := models.ApplicationStatus(strings.TrimSpace(status))
	if !newStatus.IsValid() {
		return nil, apperrors.ErrInvalidApplicationStatus
	}

	if err := s.applicationRepo.UpdateStatus(db, id, newStatus); err != nil {
		return nil, mapApplicationError(err)
	}

	logger.CtxInfo(ctx, "Application status changed", "application_id", id, "status", newStatus)
	return s.Get(ctx, db, id)
}

func (s *ApplicationServiceImpl) Delete(ctx context.Context, db *gorm.DB, id uint) error {
	if err := s.applicationRepo.DeleteApplication(db, id); err != nil {
		return mapApplicationError(err)
	}
	logger.CtxInfo(ctx, "Application deleted", "application_id", id)
	return nil
}

// BulkAction обрабатывает каждую заявку отдельно, ошибка одной не отменяет остальные
func (s *ApplicationServiceImpl) BulkAction(ctx context.Context, db *gorm.DB, req *dto.BulkActionRequest) (*dto.BulkActionResponse, error) {
	resp := &dto.BulkActionResponse{
		Action:  req.Action,
		Results: make([]dto.BulkItemResult, 0, len(req.IDs)),
	}

	for _, id := range req.IDs {
		var err error
		switch req.Action {
		case validator.BulkActionApprove:
			_, err = s.SetStatus(ctx, db, id, string(models.ApplicationStatusApproved))
		case validator.BulkActionReject:
			_, err = s.SetStatus(ctx, db, id, string(models.ApplicationStatusRejected))
		case validator.BulkActionDelete:
			err = s.Delete(ctx, db, id)
		default:
			return nil, apperrors.ErrInvalidOperation("application", "Unknown bulk action")
		}

		result := dto.BulkItemResult{ID: id, Success: err == nil}
		if err != nil {
			resp.Failed++
			if appErr, ok := apperrors.AsAppError(err); ok {
				result.Error = string(appErr.Code)
			} else {
				result.Error = string(apperrors.CodeInternalError)
			}
		} else {
			resp.Processed++
		}
		resp.Results = append(resp.Results, result)
	}

	return resp, nil
}

// ListAmbassadors - одобренные амбассадоры для публичной страницы
func (s *ApplicationServiceImpl) ListAmbassadors(ctx context.Context, db *gorm.DB, limit int) ([]dto.AmbassadorCard, error) {
	if limit <= 0 || limit > maxAmbassadorCards {
		limit = maxAmbassadorCards
	}

	applications, err := s.applicationRepo.FindApproved(db, limit)
	if err != nil {
		return nil, apperrors.ErrPersistence(err)
	}

	cards := make([]dto.AmbassadorCard, 0, len(applications))
	for _, a := range applications {
		cards = append(cards, dto.AmbassadorCard{
			Name:        a.Name,
			Initials:    Initials(a.Name),
			University:  a.University,
			Major:       a.Major,
			Year:        yearLabel(a.Year),
			MemberSince: a.CreatedAt,
		})
	}
	return cards, nil
}

// --- helpers ---

func (s *ApplicationServiceImpl) tokenExpired(application *models.Application, now time.Time) bool {
	if s.cfg.TokenTTL <= 0 {
		return false
	}
	issuedAt := application.TokenIssuedAt
	if issuedAt.IsZero() {
		issuedAt = application.CreatedAt
	}
	return now.Sub(issuedAt) > s.cfg.TokenTTL
}

func (s *ApplicationServiceImpl) verificationURL(application *models.Application) string {
	params := url.Values{}
	params.Set("email", application.Email)
	params.Set("code", application.VerificationToken)

	sep := "?"
	if strings.Contains(s.cfg.VerifyURL, "?") {
		sep = "&"
	}
	return s.cfg.VerifyURL + sep + params.Encode()
}

// sendVerification ставит письмо в очередь. Ошибки только логируются: заявка уже сохранена.
func (s *ApplicationServiceImpl) sendVerification(ctx context.Context, application *models.Application) {
	if s.mail == nil || s.composer == nil {
		return
	}

	msg, err := s.composer.Verification(application.Email, application.Name, s.verificationURL(application))
	if err != nil {
		logger.CtxWithError(ctx, "Failed to compose verification email", apperrors.ErrMailDispatch(err),
			"application_id", application.ID)
		return
	}
	s.mail.Enqueue(workers.MailKindVerification, msg)
}

func (s *ApplicationServiceImpl) notifyAdmin(ctx context.Context, application *models.Application) {
	if !s.cfg.NotifyAdmin || s.cfg.AdminEmail == "" || s.mail == nil || s.composer == nil {
		return
	}

	msg, err := s.composer.AdminNotice(s.cfg.AdminEmail, email.TemplateData{
		"Name":       application.Name,
		"Email":      application.Email,
		"Phone":      application.Phone,
		"University": application.University,
		"Major":      application.Major,
		"Year":       yearLabel(application.Year),
		"Motivation": application.Motivation,
	})
	if err != nil {
		logger.CtxWithError(ctx, "Failed to compose admin notice", apperrors.ErrMailDispatch(err),
			"application_id", application.ID)
		return
	}
	s.mail.Enqueue(workers.MailKindAdminNotice, msg)
}

func mapApplicationError(err error) error {
	if errors.Is(err, repositories.ErrApplicationNotFound) {
		return apperrors.ErrApplicationNotFound
	}
	return apperrors.ErrPersistence(err)
}

// Initials - первые буквы первых двух слов имени
func Initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				out = append(out, unicode.ToUpper(r))
				break
			}
		}
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

func yearLabel(y models.AcademicYear) string {
	if y == "" {
		return ""
	}
	s := string(y)
	return strings.ToUpper(s[:1]) + s[1:]
}
