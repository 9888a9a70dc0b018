package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ambassador_backend/internal/auth"
	"ambassador_backend/internal/handlers"
	"ambassador_backend/internal/logger"
	"ambassador_backend/internal/middleware"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	tokens *auth.TokenManager,
) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.ApplicationHandler.RegisterRoutes(api)
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.FrameHandler.RegisterRoutes(api)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokens))
	{
		appHandlers.AdminApplicationHandler.RegisterRoutes(admin)

		campaigns := admin.Group("")
		campaigns.Use(middleware.RequirePermission(auth.PermCampaignsManage))
		appHandlers.CampaignHandler.RegisterRoutes(campaigns)
		appHandlers.FrameHandler.RegisterAdminRoutes(campaigns)
	}

	logger.Info("HTTP routes registered", "routes", len(ginRouter.Routes()))
}
