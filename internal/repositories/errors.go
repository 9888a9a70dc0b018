package repositories

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation - SQLSTATE unique_violation
const pgUniqueViolation = "23505"

// IsUniqueViolation распознает нарушение уникального индекса у любого из драйверов.
// С TranslateError gorm отдает ErrDuplicatedKey, но сырые ошибки pgx и sqlite
// тоже проверяем: транзакции и Exec иногда возвращают их без перевода.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
