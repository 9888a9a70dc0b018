package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

// Общие, не-доменные коды ошибок
const (
	// Системные и неизвестные ошибки
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Общие ошибки бизнес-логики
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeLimitExceeded    ErrorCode = "LIMIT_EXCEEDED"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// Аутентификация и авторизация
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

// Коды заявок амбассадоров
const (
	CodeInvalidName         ErrorCode = "INVALID_NAME"
	CodeInvalidEmail        ErrorCode = "INVALID_EMAIL"
	CodeInvalidUniversity   ErrorCode = "INVALID_UNIVERSITY"
	CodeInvalidYear         ErrorCode = "INVALID_YEAR"
	CodeDuplicateEmail      ErrorCode = "DUPLICATE_EMAIL"
	CodeAlreadyVerified     ErrorCode = "ALREADY_VERIFIED"
	CodePersistenceFailure  ErrorCode = "PERSISTENCE_FAILURE"
	CodeMailDispatchFailure ErrorCode = "MAIL_DISPATCH_FAILURE"
	CodeRegistrationClosed  ErrorCode = "REGISTRATION_CLOSED"
	CodeInvalidNonce        ErrorCode = "INVALID_NONCE"
)
