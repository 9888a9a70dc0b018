package auth

import (
	"errors"

	"ambassador_backend/internal/models"
)

// Роли панели управления
const (
	RoleAdmin  = string(models.AdminRoleAdmin)
	RoleEditor = string(models.AdminRoleEditor)
)

// Разрешения
const (
	PermApplicationsRead   = "applications:read"
	PermApplicationsManage = "applications:manage"
	PermCampaignsManage    = "campaigns:manage"
)

// Permissions список разрешений по ролям.
// editor видит заявки, но не меняет их статус.
var Permissions = map[string][]string{
	RoleAdmin: {
		PermApplicationsRead,
		PermApplicationsManage,
		PermCampaignsManage,
	},
	RoleEditor: {
		PermApplicationsRead,
	},
}

// HasPermission проверяет есть ли у роли указанное разрешение
func HasPermission(role, permission string) bool {
	permissions, exists := Permissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// IsAdmin проверяет является ли пользователь администратором
func IsAdmin(claims *Claims) bool {
	return claims != nil && claims.Role == RoleAdmin
}

// ValidateRole проверяет валидность роли
func ValidateRole(role string) error {
	switch role {
	case RoleAdmin, RoleEditor:
		return nil
	default:
		return errors.New("invalid role")
	}
}
