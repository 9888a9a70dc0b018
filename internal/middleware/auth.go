package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"ambassador_backend/internal/auth"
	"ambassador_backend/internal/logger"
	"ambassador_backend/pkg/apperrors"
	"ambassador_backend/pkg/contextkeys"
)

// AuthMiddleware - проверка JWT администратора.
// Bearer-заголовок браузер сам не подставляет, поэтому он же защищает админку от CSRF.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			c.Abort()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.ParseToken(tokenStr)
		if err == nil {
			// роль могли убрать из системы после выпуска токена
			err = auth.ValidateRole(claims.Role)
		}
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		c.Set(contextkeys.AdminIDKey, claims.AdminID)
		c.Set(contextkeys.AdminRoleKey, claims.Role)

		ctx := logger.WithAdminID(c.Request.Context(), strconv.FormatUint(uint64(claims.AdminID), 10))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequirePermission пропускает только роли с указанным разрешением
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(contextkeys.AdminRoleKey)
		if role == "" {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: no role"))
			c.Abort()
			return
		}

		if !auth.HasPermission(role, permission) {
			logger.CtxWarn(c.Request.Context(), "Permission denied", "role", role, "permission", permission)
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetAdminID извлекает ID администратора из контекста
func GetAdminID(c *gin.Context) uint {
	id, ok := c.Get(contextkeys.AdminIDKey)
	if !ok {
		return 0
	}
	adminID, _ := id.(uint)
	return adminID
}
