// Package handlers contains the Telegram update handlers for the shop bot.
package handlers

import (
	"context"
	"strings"

	telebot "gopkg.in/telebot.v3"
)

// Handler processes bot commands and messages.
type Handler func(c telebot.Context) error

// CallbackHandler processes inline callback events.
type CallbackHandler func(c telebot.Context) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler

// SenderFullName joins the sender's first and last name.
func SenderFullName(u *telebot.User) string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// IsPrivateChat reports whether the update came from a one-on-one chat.
func IsPrivateChat(c telebot.Context) bool {
	chat := c.Chat()
	return chat != nil && chat.Type == telebot.ChatPrivate
}

// contextOf returns the context used for downstream calls made on behalf of
// a Telegram update. telebot v3 does not thread a context through handlers.
func contextOf(_ telebot.Context) context.Context {
	return context.Background()
}
