package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ambassador_backend/database"
	"ambassador_backend/internal/logger"
)

// NewTestDB поднимает отдельную in-memory sqlite на каждый тест и мигрирует схему.
// cache=shared нужен, чтобы все соединения пула видели одну и ту же базу.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Init("test")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(database.DriverSQLite, dsn, "test")
	if err != nil {
		t.Fatalf("Не удалось открыть тестовую БД: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Не удалось выполнить AutoMigrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
