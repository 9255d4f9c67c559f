package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	telebot "gopkg.in/telebot.v3"

	"github.com/santan-uz/santan-bot/internal/bot/handlers"
	apperrors "github.com/santan-uz/santan-bot/internal/errors"
)

const genericFailureReply = "Xatolik yuz berdi. Iltimos, keyinroq urinib ko‘ring."

// RecoveryMiddleware keeps a panicking handler from taking down the poller.
// The user gets the generic failure reply; the panic is logged with its stack.
func RecoveryMiddleware(log *slog.Logger, errHandler *apperrors.Handler) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				log.Error("panic recovered in handler",
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())),
				)

				replyFailure(c, errHandler, apperrors.NewStateError(fmt.Sprintf("panic recovered: %v", r)))
				err = nil
			}()

			return next(c)
		}
	}
}

// ErrorHandlingMiddleware converts handler errors into a polite chat reply
// and swallows them so telebot does not retry the update.
func ErrorHandlingMiddleware(errHandler *apperrors.Handler) handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			if err := next(c); err != nil {
				replyFailure(c, errHandler, err)
			}
			return nil
		}
	}
}

func replyFailure(c telebot.Context, errHandler *apperrors.Handler, err error) {
	msg := genericFailureReply
	if errHandler != nil {
		if m, _ := errHandler.Handle(context.Background(), err); m != "" {
			msg = m
		}
	}
	if c != nil {
		_ = c.Send(msg)
	}
}

// LoggingMiddleware records one line per update with a correlation id, the
// sender, the routed action, and the handler's duration.
func LoggingMiddleware(log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			start := time.Now()
			correlationID := uuid.NewString()

			err := next(c)

			var userID int64
			if c != nil && c.Sender() != nil {
				userID = c.Sender().ID
			}

			log.Info("handled update",
				slog.String("correlation_id", correlationID),
				slog.Int64("user_id", userID),
				slog.String("action", updateAction(c)),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)

			return err
		}
	}
}

func updateAction(c telebot.Context) string {
	if c == nil {
		return ""
	}
	if cb := c.Callback(); cb != nil {
		return cb.Data
	}
	return c.Text()
}
