package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/santan-uz/santan-bot/internal/bot/keyboard"
	"github.com/santan-uz/santan-bot/internal/session"
	"github.com/santan-uz/santan-bot/internal/texts"
)

// NewCancelHandler drops the active dialogue and returns to the main menu.
func NewCancelHandler(machine *session.Machine, txt *texts.Catalog, kb *keyboard.Builder, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		if err := machine.Clear(contextOf(c), sender.ID); err != nil {
			log.Error("failed to clear session on cancel",
				slog.Int64("user_id", sender.ID),
				slog.Any("error", err),
			)
		}

		return c.Send(txt.T("order.cancelled"), kb.MainMenu())
	}
}
