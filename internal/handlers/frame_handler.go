package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ambassador_backend/internal/config"
	"ambassador_backend/internal/services"
	"ambassador_backend/internal/services/dto"
	"ambassador_backend/pkg/apperrors"
)

// ============================================
// FRAME HANDLER
// ============================================

type FrameHandler struct {
	*BaseHandler
	frameService services.FrameService
	limits       config.UploadLimits
}

func NewFrameHandler(base *BaseHandler, frameService services.FrameService, limits config.UploadLimits) *FrameHandler {
	return &FrameHandler{
		BaseHandler:  base,
		frameService: frameService,
		limits:       limits,
	}
}

// ============================================
// ROUTES
// ============================================

// RegisterRoutes - публичные маршруты: карточка рамки и наложение фото
func (h *FrameHandler) RegisterRoutes(rg *gin.RouterGroup) {
	frames := rg.Group("/frames")
	{
		frames.GET("/:id", h.Get)
		frames.POST("/:id/render", h.Render)
	}
}

// RegisterAdminRoutes - управление рамками, группа уже закрыта AuthMiddleware
func (h *FrameHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/campaigns/:id/frames", h.ListByCampaign)
	admin.POST("/campaigns/:id/frames", h.Create)

	frames := admin.Group("/frames")
	{
		frames.GET("/:id", h.Get)
		frames.PUT("/:id/zones", h.UpdateZones)
		frames.DELETE("/:id", h.Delete)
	}
}

// ============================================
// HANDLERS
// ============================================

// Create - загрузка PNG рамки (multipart: file, name, zones как JSON)
func (h *FrameHandler) Create(c *gin.Context) {
	campaignID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.limits.MaxFrameSize+1<<20)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("file is required"))
		return
	}
	if fileHeader.Size > h.limits.MaxFrameSize {
		h.HandleServiceError(c, apperrors.ErrFileTooLarge)
		return
	}

	var zones []dto.FrameZoneRequest
	if raw := strings.TrimSpace(c.PostForm("zones")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &zones); err != nil {
			apperrors.HandleError(c, apperrors.NewBadRequestError("zones must be a JSON array"))
			return
		}
		if !h.validate(c, &dto.UpdateZonesRequest{Zones: zones}) {
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.limits.MaxFrameSize+1))
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}

	resp, err := h.frameService.Create(c.Request.Context(), h.GetDB(c), &dto.CreateFrameInput{
		CampaignID:  campaignID,
		Name:        strings.TrimSpace(c.PostForm("name")),
		Zones:       zones,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Data:        data,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *FrameHandler) ListByCampaign(c *gin.Context) {
	campaignID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	frames, err := h.frameService.ListByCampaign(c.Request.Context(), h.GetDB(c), campaignID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"frames": frames})
}

func (h *FrameHandler) Get(c *gin.Context) {
	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	resp, err := h.frameService.Get(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *FrameHandler) UpdateZones(c *gin.Context) {
	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.UpdateZonesRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.frameService.UpdateZones(c.Request.Context(), h.GetDB(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *FrameHandler) Delete(c *gin.Context) {
	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.frameService.Delete(c.Request.Context(), h.GetDB(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Render - фото участника в рамке, ответ image/png
func (h *FrameHandler) Render(c *gin.Context) {
	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.limits.MaxPhotoSize+1<<20)
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("photo is required"))
		return
	}
	if fileHeader.Size > h.limits.MaxPhotoSize {
		h.HandleServiceError(c, apperrors.ErrFileTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	photo, err := io.ReadAll(io.LimitReader(file, h.limits.MaxPhotoSize+1))
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}

	png, err := h.frameService.Render(c.Request.Context(), h.GetDB(c), id, photo)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}
