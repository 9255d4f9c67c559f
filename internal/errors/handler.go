package errors

import (
	"context"
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"

	"github.com/santan-uz/santan-bot/pkg/logger"
)

const fallbackUserMessage = "Xatolik yuz berdi. Birozdan so‘ng qayta urinib ko‘ring."

// Handler turns internal errors into a log record, an optional Sentry event,
// and a polite Uzbek message for the chat.
type Handler struct {
	log           *slog.Logger
	sentryEnabled bool
}

func NewHandler(log *slog.Logger, sentryEnabled bool) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		log:           log,
		sentryEnabled: sentryEnabled,
	}
}

// Handle logs err and returns the user-facing message plus whether the user
// may simply retry the action.
func (h *Handler) Handle(ctx context.Context, err error) (string, bool) {
	if err == nil {
		return "", false
	}
	if ctx == nil {
		ctx = context.Background()
	}

	appErr := normalize(err)

	attrs := []slog.Attr{
		slog.String("code", appErr.Code),
		slog.String("message", appErr.Message),
		slog.String("severity", string(appErr.Severity)),
		slog.Bool("retryable", appErr.Retryable),
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		attrs = append(attrs, slog.String("correlation_id", id))
	}
	h.log.LogAttrs(ctx, slog.LevelError, "handler error", attrs...)

	if h.sentryEnabled && (appErr.Severity == SeverityCritical || appErr.Severity == SeverityHigh) {
		report(err, appErr)
	}

	msg := appErr.UserMessage
	if msg == "" {
		msg = fallbackUserMessage
	}

	return msg, appErr.Retryable
}

// normalize wraps errors from outside the package into a high-severity
// AppError so the logging and reporting paths stay uniform.
func normalize(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		return appErr
	}
	return &AppError{
		Code:      "INTERNAL",
		Message:   err.Error(),
		Severity:  SeverityHigh,
		Retryable: false,
	}
}

func report(err error, appErr *AppError) {
	sentry.WithScope(func(scope *sentry.Scope) {
		if appErr.Code != "" {
			scope.SetTag("code", appErr.Code)
		}
		if appErr.Severity != "" {
			scope.SetTag("severity", string(appErr.Severity))
		}
		sentry.CaptureException(err)
	})
}
