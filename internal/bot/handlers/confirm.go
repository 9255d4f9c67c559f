package handlers

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/santan-uz/santan-bot/internal/bot/keyboard"
	"github.com/santan-uz/santan-bot/internal/idempotency"
	"github.com/santan-uz/santan-bot/internal/order"
	"github.com/santan-uz/santan-bot/internal/session"
	"github.com/santan-uz/santan-bot/internal/texts"
)

const confirmTTL = 24 * time.Hour

// NewConfirmYesCallback submits the order. The submission is keyed on the
// summary message so a double tap of the button cannot place two orders.
func NewConfirmYesCallback(
	machine *session.Machine,
	orders *order.Service,
	idem idempotency.Manager,
	txt *texts.Catalog,
	kb *keyboard.Builder,
	log *slog.Logger,
) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		cb := c.Callback()
		sender := c.Sender()
		if cb == nil || sender == nil {
			return nil
		}

		ctx := contextOf(c)
		sess, err := machine.Get(ctx, sender.ID)
		if err != nil {
			if stderrors.Is(err, session.ErrSessionNotFound) {
				return c.Respond(&telebot.CallbackResponse{})
			}
			return err
		}
		if sess.Step != session.StepConfirming {
			return c.Respond(&telebot.CallbackResponse{})
		}

		messageID := 0
		if cb.Message != nil {
			messageID = cb.Message.ID
		}
		key := idempotency.Key("confirm", sender.ID, messageID)

		result, err := idem.Execute(ctx, key, confirmTTL, func(execCtx context.Context) (string, error) {
			orders.Submit(execCtx, order.Customer{
				ID:       sender.ID,
				Username: sender.Username,
				FullName: SenderFullName(sender),
			}, sess)

			if clearErr := machine.Clear(execCtx, sender.ID); clearErr != nil {
				log.Error("failed to clear session after order",
					slog.Int64("user_id", sender.ID),
					slog.Any("error", clearErr),
				)
			}

			return txt.T("order.accepted"), nil
		})
		if err != nil {
			if stderrors.Is(err, idempotency.ErrInProgress) {
				return c.Respond(&telebot.CallbackResponse{})
			}
			return err
		}

		if err := c.Edit(result.Response); err != nil {
			return err
		}
		if result.FromCache {
			return nil
		}

		return c.Send(txt.T("menu.main"), kb.MainMenu())
	}
}

// NewConfirmNoCallback rewinds the dialogue to item collection. Previously
// entered fields stay in the session so they can be overwritten in order.
func NewConfirmNoCallback(machine *session.Machine, txt *texts.Catalog, kb *keyboard.Builder) CallbackHandler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		ctx := contextOf(c)
		sess, err := machine.Get(ctx, sender.ID)
		if err != nil {
			if stderrors.Is(err, session.ErrSessionNotFound) {
				return c.Respond(&telebot.CallbackResponse{})
			}
			return err
		}
		if sess.Step != session.StepConfirming {
			return c.Respond(&telebot.CallbackResponse{})
		}

		if _, err := machine.Update(ctx, sender.ID, func(sess *session.Session) error {
			sess.Step = session.StepCollectingItems
			return nil
		}); err != nil {
			return err
		}

		if err := c.Edit(txt.T("order.declined")); err != nil {
			return err
		}

		return c.Send(txt.T("menu.main"), kb.MainMenu())
	}
}
