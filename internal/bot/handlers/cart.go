package handlers

import (
	stderrors "errors"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/santan-uz/santan-bot/internal/bot/keyboard"
	"github.com/santan-uz/santan-bot/internal/cart"
	"github.com/santan-uz/santan-bot/internal/session"
	"github.com/santan-uz/santan-bot/internal/texts"
)

// NewAddToCartCallback adds one unit of a product to the user's cart.
func NewAddToCartCallback(machine *session.Machine, txt *texts.Catalog) CallbackHandler {
	return func(c telebot.Context) error {
		cb := c.Callback()
		sender := c.Sender()
		if cb == nil || sender == nil {
			return nil
		}

		sku, err := keyboard.DecodeSKU(strings.TrimSpace(cb.Data))
		if err != nil {
			return err
		}

		_, err = machine.Update(contextOf(c), sender.ID, func(sess *session.Session) error {
			sess.Cart = cart.Merge(sess.Cart, sku, 1)
			return nil
		})
		if err != nil {
			return err
		}

		return c.Respond(&telebot.CallbackResponse{Text: txt.T("catalog.added")})
	}
}

// NewCartHandler shows the priced cart in response to the menu button.
func NewCartHandler(machine *session.Machine, cartman *cart.Manager, txt *texts.Catalog, kb *keyboard.Builder) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		text, empty, err := cartText(c, machine, cartman, txt, sender.ID)
		if err != nil {
			return err
		}
		if empty {
			return c.Send(txt.T("cart.empty"))
		}

		return c.Send(text, kb.CartView(), telebot.ModeHTML)
	}
}

// NewCartViewCallback shows the priced cart in place of the tapped message.
func NewCartViewCallback(machine *session.Machine, cartman *cart.Manager, txt *texts.Catalog, kb *keyboard.Builder) CallbackHandler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		text, empty, err := cartText(c, machine, cartman, txt, sender.ID)
		if err != nil {
			return err
		}
		if empty {
			return c.Edit(txt.T("cart.empty"))
		}

		return c.Edit(text, kb.CartView(), telebot.ModeHTML)
	}
}

// NewCheckoutCallback freezes the cart into an order description and jumps
// the dialogue to address collection.
func NewCheckoutCallback(machine *session.Machine, cartman *cart.Manager, txt *texts.Catalog) CallbackHandler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}
		ctx := contextOf(c)

		sess, err := machine.Get(ctx, sender.ID)
		if err != nil && !stderrors.Is(err, session.ErrSessionNotFound) {
			return err
		}
		if sess == nil || len(sess.Cart) == 0 {
			return c.Respond(&telebot.CallbackResponse{Text: txt.T("cart.empty"), ShowAlert: true})
		}

		checkout, err := cartman.Checkout(ctx, sess.Cart)
		if err != nil {
			if stderrors.Is(err, cart.ErrEmptyCart) {
				return c.Respond(&telebot.CallbackResponse{Text: txt.T("cart.empty"), ShowAlert: true})
			}
			return err
		}

		_, err = machine.Update(ctx, sender.ID, func(sess *session.Session) error {
			sess.Items = checkout.Items
			sess.CartTotal = checkout.Total
			sess.Step = session.StepCollectingAddress
			return nil
		})
		if err != nil {
			return err
		}

		return c.Edit(txt.T("order.ask_address_checkout"))
	}
}

func cartText(c telebot.Context, machine *session.Machine, cartman *cart.Manager, txt *texts.Catalog, userID int64) (string, bool, error) {
	ctx := contextOf(c)

	sess, err := machine.Get(ctx, userID)
	if err != nil {
		if stderrors.Is(err, session.ErrSessionNotFound) {
			return "", true, nil
		}
		return "", false, err
	}
	if len(sess.Cart) == 0 {
		return "", true, nil
	}

	summary, err := cartman.Totals(ctx, sess.Cart)
	if err != nil {
		return "", false, err
	}
	if len(summary.Lines) == 0 {
		return "", true, nil
	}

	text := txt.F("cart.view",
		strings.Join(summary.Lines, "\n"),
		summary.Quote.Subtotal,
		summary.Quote.Discount,
		summary.Quote.Delivery,
		summary.Quote.Total,
	)

	return text, false, nil
}
