package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные ошибки домена заявок.
Переменные сравниваются через errors.Is (по указателю), поэтому
сервисы возвращают их как есть, а не копии.
*/

// =========================================================================
// Фабрики
// =========================================================================

// ErrInvalidOperation - невалидная операция (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrPersistence оборачивает ошибку хранилища
func ErrPersistence(err error) *AppError {
	return Wrap(err, CodePersistenceFailure, "application", "Failed to save application", http.StatusInternalServerError)
}

// ErrMailDispatch - письмо не ушло. Наружу не отдается, только в лог.
func ErrMailDispatch(err error) *AppError {
	return Wrap(err, CodeMailDispatchFailure, "mail", "Failed to send email", http.StatusBadGateway)
}

// =========================================================================
// Заявки
// =========================================================================

var ErrInvalidName = New(
	CodeInvalidName,
	"application",
	"Name is required",
	http.StatusBadRequest,
)

var ErrInvalidEmail = New(
	CodeInvalidEmail,
	"application",
	"Please provide a valid email address",
	http.StatusBadRequest,
)

var ErrInvalidUniversity = New(
	CodeInvalidUniversity,
	"application",
	"University is required",
	http.StatusBadRequest,
)

var ErrInvalidYear = New(
	CodeInvalidYear,
	"application",
	"Please select a valid academic year",
	http.StatusBadRequest,
)

// ErrDuplicateEmail - заявка с таким email уже есть
var ErrDuplicateEmail = New(
	CodeDuplicateEmail,
	"application",
	"This email has already been registered",
	http.StatusConflict,
)

var ErrApplicationNotFound = New(
	CodeNotFound,
	"application",
	"Application not found",
	http.StatusNotFound,
)

// ErrVerificationNotFound - нет заявки с такой парой email/код.
// Неверный код намеренно не отличается от отсутствующей заявки.
var ErrVerificationNotFound = New(
	CodeNotFound,
	"verification",
	"Invalid verification link",
	http.StatusNotFound,
)

var ErrAlreadyVerified = New(
	CodeAlreadyVerified,
	"verification",
	"This email has already been verified",
	http.StatusConflict,
)

var ErrTokenExpired = New(
	CodeTokenExpired,
	"verification",
	"Verification link has expired",
	http.StatusGone,
)

var ErrInvalidApplicationStatus = New(
	CodeInvalidStatus,
	"application",
	"Invalid status",
	http.StatusBadRequest,
)

var ErrRegistrationClosed = New(
	CodeRegistrationClosed,
	"application",
	"Registration is currently closed",
	http.StatusForbidden,
)

// ErrInvalidNonce - форма пришла без валидного anti-forgery токена
var ErrInvalidNonce = New(
	CodeInvalidNonce,
	"security",
	"Security check failed",
	http.StatusForbidden,
)

// =========================================================================
// Кампании и рамки
// =========================================================================

var ErrCampaignNotFound = New(
	CodeNotFound,
	"campaign",
	"Campaign not found",
	http.StatusNotFound,
)

var ErrFrameNotFound = New(
	CodeNotFound,
	"frame",
	"Frame template not found",
	http.StatusNotFound,
)

// ErrFileTooLarge - файл превышает лимит
var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

// ErrInvalidFileType - MIME-тип файла не разрешен
var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// ErrFrameHasNoZones - рамке не заданы зоны для фото
var ErrFrameHasNoZones = New(
	CodeInvalidOperation,
	"frame",
	"Frame template has no photo zones",
	http.StatusUnprocessableEntity,
)

// =========================================================================
// Auth
// =========================================================================

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)
