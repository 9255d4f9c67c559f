package middleware

import (
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/santan-uz/santan-bot/internal/bot/handlers"
	"github.com/santan-uz/santan-bot/pkg/metrics"
)

// Metrics measures execution time and outcome per update kind. Actions are
// normalized to the callback prefix or command name so label cardinality
// stays bounded regardless of what users type.
func Metrics(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordUpdate(actionLabel(c), status, time.Since(start))

		return err
	}
}

func actionLabel(c telebot.Context) string {
	if c == nil {
		return "unknown"
	}

	if cb := c.Callback(); cb != nil {
		data := strings.TrimPrefix(cb.Data, "\f")
		if prefix, _, found := strings.Cut(data, "|"); found {
			return "cb:" + prefix
		}
		if data != "" {
			return "cb:" + data
		}
		return "cb:unknown"
	}

	text := c.Text()
	switch {
	case text == "":
		return "update"
	case strings.HasPrefix(text, "/"):
		cmd, _, _ := strings.Cut(text, " ")
		cmd, _, _ = strings.Cut(cmd, "@")
		return cmd
	default:
		return "text"
	}
}
