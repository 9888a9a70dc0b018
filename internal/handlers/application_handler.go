package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"ambassador_backend/internal/auth"
	"ambassador_backend/internal/logger"
	"ambassador_backend/internal/services"
	"ambassador_backend/internal/services/dto"
	"ambassador_backend/pkg/apperrors"
)

//go:embed templates/*.html
var pageFS embed.FS

var verifyErrorPage = template.Must(template.ParseFS(pageFS, "templates/verify_error.html"))

const (
	msgSecurityCheckFailed = "Security check failed"
	msgSubmitted           = "Application submitted successfully! Please check your email for verification."
	msgResent              = "If the application exists and is not verified yet, a new verification link has been sent."
)

// ApplicationHandler - публичная часть: форма, подтверждение email, карточки амбассадоров
type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
	nonces             *auth.NonceManager
	redirectURL        string
}

func NewApplicationHandler(
	base *BaseHandler,
	applicationService services.ApplicationService,
	nonces *auth.NonceManager,
	redirectURL string,
) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
		nonces:             nonces,
		redirectURL:        redirectURL,
	}
}

func (h *ApplicationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	applications := rg.Group("/applications")
	{
		applications.GET("/nonce", h.IssueNonce)
		applications.POST("", h.Submit)
		applications.GET("/verify", h.Verify)
		applications.POST("/resend-verification", h.ResendVerification)
	}

	rg.GET("/ambassadors", h.ListAmbassadors)
}

// IssueNonce - токен для публичной формы
func (h *ApplicationHandler) IssueNonce(c *gin.Context) {
	nonce, expiresAt, err := h.nonces.Issue(auth.ActionSubmitApplication)
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.NonceResponse{
		Nonce:     nonce,
		Action:    auth.ActionSubmitApplication,
		ExpiresAt: expiresAt,
	})
}

// Submit - отправка формы. Ответ всегда в конверте {success, message}.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req dto.SubmitApplicationRequest
	if err := c.ShouldBind(&req); err != nil {
		h.formError(c, apperrors.NewBadRequestError("Invalid request body"))
		return
	}

	if err := h.nonces.Verify(req.Nonce, auth.ActionSubmitApplication); err != nil {
		logger.CtxWarn(c.Request.Context(), "Form nonce rejected", "ip", c.ClientIP())
		h.formError(c, apperrors.ErrInvalidNonce)
		return
	}

	if _, err := h.applicationService.Submit(c.Request.Context(), h.GetDB(c), &req); err != nil {
		h.formError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FormResponse{Success: true, Message: msgSubmitted})
}

// Verify - переход по ссылке из письма
func (h *ApplicationHandler) Verify(c *gin.Context) {
	var q dto.VerifyQuery
	_ = c.ShouldBindQuery(&q)

	if q.Email == "" || q.Code == "" {
		h.verifyError(c, apperrors.ErrVerificationNotFound)
		return
	}

	if err := h.applicationService.Verify(c.Request.Context(), h.GetDB(c), q.Email, q.Code); err != nil {
		h.verifyError(c, err)
		return
	}

	c.Redirect(http.StatusFound, h.successRedirect())
}

func (h *ApplicationHandler) ResendVerification(c *gin.Context) {
	var req dto.ResendVerificationRequest
	if err := c.ShouldBind(&req); err != nil {
		h.formError(c, apperrors.NewBadRequestError("Invalid request body"))
		return
	}

	if err := h.nonces.Verify(req.Nonce, auth.ActionSubmitApplication); err != nil {
		h.formError(c, apperrors.ErrInvalidNonce)
		return
	}

	err := h.applicationService.ResendVerification(c.Request.Context(), h.GetDB(c), req.Email)
	switch {
	case err == nil, apperrors.Is(err, apperrors.ErrApplicationNotFound):
		// наличие адреса в базе не раскрываем
		c.JSON(http.StatusOK, dto.FormResponse{Success: true, Message: msgResent})
	default:
		h.formError(c, err)
	}
}

func (h *ApplicationHandler) ListAmbassadors(c *gin.Context) {
	limit := ParseQueryInt(c, "limit", 0)

	cards, err := h.applicationService.ListAmbassadors(c.Request.Context(), h.GetDB(c), limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ambassadors": cards})
}

// --- helpers ---

func (h *ApplicationHandler) formError(c *gin.Context, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.InternalError(err)
	}

	message := appErr.Message
	switch {
	case appErr.HTTPCode >= 500:
		logger.CtxWithError(c.Request.Context(), "Form submission failed", err)
		message = "Something went wrong. Please try again later."
	case apperrors.Is(appErr, apperrors.ErrInvalidNonce):
		message = msgSecurityCheckFailed
	}

	c.JSON(appErr.HTTPCode, dto.FormResponse{Success: false, Message: message})
}

func (h *ApplicationHandler) verifyError(c *gin.Context, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.InternalError(err)
	}
	if appErr.HTTPCode >= 500 {
		logger.CtxWithError(c.Request.Context(), "Email verification failed", err)
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(appErr.HTTPCode)
	_ = verifyErrorPage.Execute(c.Writer, gin.H{
		"Title":   "Email verification",
		"Message": appErr.Message,
		"HomeURL": h.redirectURL,
	})
}

func (h *ApplicationHandler) successRedirect() string {
	target := h.redirectURL
	if target == "" {
		target = "/"
	}

	u, err := url.Parse(target)
	if err != nil {
		return "/?cam_verified=1"
	}
	q := u.Query()
	q.Set("cam_verified", "1")
	u.RawQuery = q.Encode()
	return u.String()
}
