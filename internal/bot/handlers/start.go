package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/santan-uz/santan-bot/internal/bot/keyboard"
	"github.com/santan-uz/santan-bot/internal/notify"
	"github.com/santan-uz/santan-bot/internal/texts"
)

// NewStartHandler greets the user and shows the main menu.
func NewStartHandler(txt *texts.Catalog, kb *keyboard.Builder) Handler {
	return func(c telebot.Context) error {
		return c.Send(txt.T("start.greeting"), kb.MainMenu(), telebot.ModeHTML)
	}
}

// NewMenuHandler re-sends the main menu keyboard.
func NewMenuHandler(txt *texts.Catalog, kb *keyboard.Builder) Handler {
	return func(c telebot.Context) error {
		return c.Send(txt.T("menu.main"), kb.MainMenu())
	}
}

// NewChatIDHandler replies with the current chat's numeric ID. Used by staff
// to discover group IDs for the workers chat and broadcast lists.
func NewChatIDHandler(txt *texts.Catalog) Handler {
	return func(c telebot.Context) error {
		chat := c.Chat()
		if chat == nil {
			return nil
		}
		return c.Send(txt.F("chatid", chat.ID))
	}
}

// NewFAQHandler sends the static FAQ text.
func NewFAQHandler(txt *texts.Catalog, kb *keyboard.Builder) Handler {
	return func(c telebot.Context) error {
		return c.Send(txt.T("faq.body"), kb.MainMenu(), telebot.ModeHTML)
	}
}

// NewOperatorHandler acknowledges the customer and relays their request to
// the workers chat.
func NewOperatorHandler(txt *texts.Catalog, notifier notify.Notifier, workersChatID int64, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if err := c.Send(txt.T("operator.ack")); err != nil {
			return err
		}

		if workersChatID == 0 {
			return nil
		}

		sender := c.Sender()
		if sender == nil {
			return nil
		}

		alert := txt.F("operator.alert", sender.ID, sender.Username, SenderFullName(sender))
		if err := notifier.Send(contextOf(c), workersChatID, alert, telebot.ModeHTML); err != nil {
			log.Error("failed to relay operator request",
				slog.Int64("user_id", sender.ID),
				slog.Any("error", err),
			)
		}

		return nil
	}
}
