package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"ambassador_backend/internal/models"
)

// Действия массовой обработки заявок
const (
	BulkActionApprove = "approve"
	BulkActionReject  = "reject"
	BulkActionDelete  = "delete"
)

// registerCustomRules регистрирует кастомные функции валидации
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// ошибка времени запуска, дальше работать нельзя
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-application-status", validateApplicationStatus)
	mustRegister("is-academic-year", validateAcademicYear)
	mustRegister("is-bulk-action", validateBulkAction)
	mustRegister("is-campaign-status", validateCampaignStatus)
	mustRegister("is-frame-shape", validateFrameShape)
}

// --- Функции валидации ---
// Пустые значения пропускаем, для этого есть 'required'.

func validateApplicationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ApplicationStatus(value).IsValid()
}

func validateAcademicYear(fl validator.FieldLevel) bool {
	return models.AcademicYear(fl.Field().String()).IsValid()
}

func validateBulkAction(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", BulkActionApprove, BulkActionReject, BulkActionDelete:
		return true
	default:
		return false
	}
}

func validateCampaignStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.CampaignStatus(value).IsValid()
}

func validateFrameShape(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "rect", "circle":
		return true
	default:
		return false
	}
}
