package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ambassador_backend/internal/services"
	"ambassador_backend/internal/services/dto"
)

type CampaignHandler struct {
	*BaseHandler
	campaignService services.CampaignService
}

func NewCampaignHandler(base *BaseHandler, campaignService services.CampaignService) *CampaignHandler {
	return &CampaignHandler{
		BaseHandler:     base,
		campaignService: campaignService,
	}
}

// RegisterRoutes - группа уже с AuthMiddleware и правом на кампании
func (h *CampaignHandler) RegisterRoutes(admin *gin.RouterGroup) {
	campaigns := admin.Group("/campaigns")
	{
		campaigns.GET("", h.List)
		campaigns.POST("", h.Create)
		campaigns.GET("/:id", h.Get)
		campaigns.PUT("/:id", h.Update)
		campaigns.DELETE("/:id", h.Delete)
		campaigns.POST("/:id/duplicate", h.Duplicate)
		campaigns.GET("/:id/applications", h.Applications)
	}
}

func (h *CampaignHandler) List(c *gin.Context) {
	var q dto.CampaignListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	resp, err := h.campaignService.List(c.Request.Context(), h.GetDB(c), q.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaigns": resp})
}

func (h *CampaignHandler) Create(c *gin.Context) {
	var req dto.CreateCampaignRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.campaignService.Create(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *CampaignHandler) Get(c *gin.Context) {
	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	resp, err := h.campaignService.Get(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CampaignHandler) Update(c *gin.Context) {
	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.UpdateCampaignRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.campaignService.Update(c.Request.Context(), h.GetDB(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CampaignHandler) Delete(c *gin.Context) {
	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.campaignService.Delete(c.Request.Context(), h.GetDB(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CampaignHandler) Duplicate(c *gin.Context) {
	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	resp, err := h.campaignService.Duplicate(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *CampaignHandler) Applications(c *gin.Context) {
	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var q dto.ApplicationListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}
	page, pageSize := ParsePagination(c)

	resp, err := h.campaignService.Applications(c.Request.Context(), h.GetDB(c), id, dto.ApplicationListFilter{
		Status:   q.Status,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
