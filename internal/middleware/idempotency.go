// Package middleware holds cross-cutting handler wrappers shared by the
// bot's router.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/santan-uz/santan-bot/internal/bot/handlers"
	"github.com/santan-uz/santan-bot/internal/idempotency"
)

// Telegram re-delivers an update when the long poll times out before the
// handler finishes; a day of memory comfortably outlives any re-delivery.
const updateDedupTTL = 24 * time.Hour

// Idempotency runs each Telegram update at most once, keyed on the callback
// or message identity. Updates without a stable key pass through untouched,
// as does everything when no manager is configured.
func Idempotency(manager idempotency.Manager, log *slog.Logger) handlers.Middleware {
	if manager == nil {
		return func(next handlers.Handler) handlers.Handler {
			return next
		}
	}
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			key := updateKey(c)
			if key == "" {
				return next(c)
			}

			_, err := manager.Execute(context.Background(), key, updateDedupTTL,
				func(context.Context) (string, error) {
					return "", next(c)
				})
			switch {
			case err == nil:
				return nil
			case errors.Is(err, idempotency.ErrInProgress):
				// A duplicate arrived while the first delivery is still
				// being handled; drop it.
				return nil
			default:
				log.Error("idempotent handler failed", slog.String("key", key), slog.Any("error", err))
				return err
			}
		}
	}
}

// updateKey derives a stable identity for an update: the callback id when
// Telegram supplies one, otherwise chat id + message id.
func updateKey(c telebot.Context) string {
	if c == nil {
		return ""
	}

	if cb := c.Callback(); cb != nil {
		if cb.ID != "" {
			return "cb:" + cb.ID
		}
		if cb.Message != nil {
			return "cb-msg:" + chatMessageKey(cb.Message)
		}
	}

	if msg := c.Message(); msg != nil && msg.ID != 0 {
		return "msg:" + chatMessageKey(msg)
	}

	return ""
}

func chatMessageKey(msg *telebot.Message) string {
	var chatID int64
	if msg.Chat != nil {
		chatID = msg.Chat.ID
	}
	return strconv.FormatInt(chatID, 10) + ":" + strconv.Itoa(msg.ID)
}
