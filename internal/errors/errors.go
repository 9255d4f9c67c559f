package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// AppError carries an internal message for logs and a polite user-facing
// message in the shop's language. Raw internal text is never shown to users.
type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func (e *AppError) Cause() error {
	return e.Unwrap()
}

// NewValidationError covers bad user input, e.g. a malformed phone number.
// Recovered locally: the step re-prompts without advancing.
func NewValidationError(msg string) *AppError {
	return &AppError{
		Code:        "E100",
		Message:     msg,
		UserMessage: "Ma’lumot formati noto‘g‘ri. Iltimos, qaytadan kiriting.",
		Severity:    SeverityLow,
		Retryable:   false,
		cause:       nil,
	}
}

// NewCatalogStaleError covers stale category tokens and vanished products.
// Users are directed to reopen the catalog; the turn never crashes.
func NewCatalogStaleError(msg string) *AppError {
	return &AppError{
		Code:        "E200",
		Message:     msg,
		UserMessage: "Katalog yangilandi. Iltimos, katalogni qaytadan oching.",
		Severity:    SeverityLow,
		Retryable:   false,
		cause:       nil,
	}
}

// NewDatabaseError covers catalog store and order log failures.
func NewDatabaseError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        "E300",
		Message:     fmt.Sprintf("Database error: %s", underlyingMsg),
		UserMessage: "Vaqtinchalik nosozlik, birozdan so‘ng qayta urinib ko‘ring.",
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}

// NewTransportError covers timeouts, rate limits, and network failures on
// outbound Telegram sends. Always retryable.
func NewTransportError(cause error) *AppError {
	return &AppError{
		Code:        "E400",
		Message:     fmt.Sprintf("Telegram transport error: %v", cause),
		UserMessage: "Xabar yuborishda nosozlik yuz berdi. Qayta urinib ko‘ring.",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

// NewStateError covers operations attempted in the wrong dialogue step.
func NewStateError(msg string) *AppError {
	return &AppError{
		Code:        "E500",
		Message:     msg,
		UserMessage: "Bu amalni hozirgi bosqichda bajarib bo‘lmaydi.",
		Severity:    SeverityMedium,
		Retryable:   false,
		cause:       nil,
	}
}
