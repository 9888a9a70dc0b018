package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ambassador_backend/internal/auth"
	"ambassador_backend/internal/middleware"
	"ambassador_backend/internal/services"
	"ambassador_backend/internal/services/dto"
)

// AdminApplicationHandler - дашборд заявок
type AdminApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewAdminApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *AdminApplicationHandler {
	return &AdminApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

// RegisterRoutes ожидает группу, уже закрытую AuthMiddleware
func (h *AdminApplicationHandler) RegisterRoutes(admin *gin.RouterGroup) {
	applications := admin.Group("/applications")
	{
		read := applications.Group("")
		read.Use(middleware.RequirePermission(auth.PermApplicationsRead))
		{
			read.GET("", h.List)
			read.GET("/counts", h.Counts)
			read.GET("/:id", h.Get)
		}

		manage := applications.Group("")
		manage.Use(middleware.RequirePermission(auth.PermApplicationsManage))
		{
			manage.PUT("/:id/status", h.SetStatus)
			manage.DELETE("/:id", h.Delete)
			manage.POST("/bulk", h.Bulk)
		}
	}
}

func (h *AdminApplicationHandler) List(c *gin.Context) {
	var q dto.ApplicationListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}
	page, pageSize := ParsePagination(c)

	resp, err := h.applicationService.List(c.Request.Context(), h.GetDB(c), dto.ApplicationListFilter{
		Status:     q.Status,
		CampaignID: q.CampaignID,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AdminApplicationHandler) Counts(c *gin.Context) {
	var q dto.ApplicationListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	resp, err := h.applicationService.CountByStatus(c.Request.Context(), h.GetDB(c), q.CampaignID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AdminApplicationHandler) Get(c *gin.Context) {
	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	resp, err := h.applicationService.Get(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AdminApplicationHandler) SetStatus(c *gin.Context) {
	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.UpdateStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.applicationService.SetStatus(c.Request.Context(), h.GetDB(c), id, req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AdminApplicationHandler) Delete(c *gin.Context) {
	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.applicationService.Delete(c.Request.Context(), h.GetDB(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AdminApplicationHandler) Bulk(c *gin.Context) {
	var req dto.BulkActionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.applicationService.BulkAction(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
