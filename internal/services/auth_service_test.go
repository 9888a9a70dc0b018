package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ambassador_backend/internal/auth"
	"ambassador_backend/internal/models"
	"ambassador_backend/internal/repositories"
	"ambassador_backend/internal/services"
	"ambassador_backend/internal/services/dto"
	"ambassador_backend/internal/testutil"
	"ambassador_backend/pkg/apperrors"
)

func TestAuthService_SeedAndLogin(t *testing.T) {
	db := testutil.NewTestDB(t)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	svc := services.NewAuthService(repositories.NewAdminRepository(), tokens)
	ctx := context.Background()

	require.NoError(t, svc.SeedFirstAdmin(ctx, db, "Root@Example.edu", "correct-horse"))
	// повторный запуск ничего не создает
	require.NoError(t, svc.SeedFirstAdmin(ctx, db, "other@example.edu", "another-pass"))

	var count int64
	db.Model(&models.AdminUser{}).Count(&count)
	assert.Equal(t, int64(1), count)

	_, err := svc.Login(ctx, db, &dto.LoginRequest{Email: "root@example.edu", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, db, &dto.LoginRequest{Email: "nobody@example.edu", Password: "correct-horse"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	resp, err := svc.Login(ctx, db, &dto.LoginRequest{Email: "ROOT@example.edu", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, auth.RoleAdmin, resp.Admin.Role)
	assert.NotNil(t, resp.Admin.LastLoginAt)

	claims, err := tokens.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.Admin.ID, claims.AdminID)
	assert.True(t, auth.IsAdmin(claims))
}

func TestAuthService_SeedSkipsWithoutCredentials(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := services.NewAuthService(repositories.NewAdminRepository(), auth.NewTokenManager("s", time.Hour))

	require.NoError(t, svc.SeedFirstAdmin(context.Background(), db, "", ""))
	assert.Error(t, svc.SeedFirstAdmin(context.Background(), db, "admin@example.edu", "short"))

	var count int64
	db.Model(&models.AdminUser{}).Count(&count)
	assert.Zero(t, count)
}
