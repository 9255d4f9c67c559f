package handlers

import (
	stderrors "errors"
	"fmt"

	telebot "gopkg.in/telebot.v3"

	"github.com/santan-uz/santan-bot/internal/bot/keyboard"
	"github.com/santan-uz/santan-bot/internal/session"
	"github.com/santan-uz/santan-bot/internal/texts"
)

// NewOrderStartHandler opens the order dialogue and asks for the item list.
// The cart, if any, is kept so a later checkout can still use it.
func NewOrderStartHandler(machine *session.Machine, txt *texts.Catalog, kb *keyboard.Builder) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		_, err := machine.Update(contextOf(c), sender.ID, func(sess *session.Session) error {
			sess.Step = session.StepCollectingItems
			return nil
		})
		if err != nil {
			return err
		}

		return c.Send(txt.T("order.start"), kb.Remove())
	}
}

// NewItemsStepHandler stores the free-text item list and asks for the address.
func NewItemsStepHandler(machine *session.Machine, txt *texts.Catalog, kb *keyboard.Builder) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		_, err := machine.Update(contextOf(c), sender.ID, func(sess *session.Session) error {
			sess.Items = c.Text()
			sess.Step = session.StepCollectingAddress
			return nil
		})
		if err != nil {
			return err
		}

		private := IsPrivateChat(c)
		prompt := txt.T("order.ask_address")
		if !private {
			prompt += txt.T("order.group_location_note")
		}

		return c.Send(prompt, kb.LocationKeyboard(private))
	}
}

// NewAddressStepHandler stores the typed address and asks for the phone number.
func NewAddressStepHandler(machine *session.Machine, txt *texts.Catalog, kb *keyboard.Builder) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		_, err := machine.Update(contextOf(c), sender.ID, func(sess *session.Session) error {
			sess.Address = c.Text()
			sess.Step = session.StepCollectingPhone
			return nil
		})
		if err != nil {
			return err
		}

		return c.Send(txt.T("order.ask_phone"), kb.PhoneKeyboard())
	}
}

// NewPhoneStepHandler validates the typed phone number. An invalid number
// re-prompts without advancing the dialogue.
func NewPhoneStepHandler(machine *session.Machine, txt *texts.Catalog, kb *keyboard.Builder) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		phone, ok := session.ValidatePhone(c.Text())
		if !ok {
			return c.Send(txt.T("order.bad_phone"))
		}

		_, err := machine.Update(contextOf(c), sender.ID, func(sess *session.Session) error {
			sess.Phone = phone
			sess.Step = session.StepCollectingNote
			return nil
		})
		if err != nil {
			return err
		}

		return c.Send(txt.T("order.ask_note"), kb.BackKeyboard())
	}
}

// NewNoteStepHandler stores the note verbatim and shows the order summary.
func NewNoteStepHandler(machine *session.Machine, txt *texts.Catalog, kb *keyboard.Builder) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		sess, err := machine.Update(contextOf(c), sender.ID, func(sess *session.Session) error {
			sess.Note = c.Text()
			sess.Step = session.StepConfirming
			return nil
		})
		if err != nil {
			return err
		}

		return c.Send(summaryText(txt, sess), kb.ConfirmButtons(), telebot.ModeHTML)
	}
}

// NewContactHandler accepts a shared contact as the phone number. Shared
// contacts bypass format validation; only a "+" prefix is ensured.
func NewContactHandler(machine *session.Machine, txt *texts.Catalog, kb *keyboard.Builder) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		msg := c.Message()
		if sender == nil || msg == nil || msg.Contact == nil {
			return nil
		}

		ctx := contextOf(c)
		sess, err := machine.Get(ctx, sender.ID)
		if err != nil || sess.Step != session.StepCollectingPhone {
			return nil
		}

		phone := session.NormalizeContactPhone(msg.Contact.PhoneNumber)
		_, err = machine.Update(ctx, sender.ID, func(sess *session.Session) error {
			sess.Phone = phone
			sess.Step = session.StepCollectingNote
			return nil
		})
		if err != nil {
			return err
		}

		return c.Send(txt.T("order.phone_accepted"), kb.BackKeyboard())
	}
}

// NewLocationHandler stores a shared location. While the dialogue waits for
// an address the location also becomes the delivery address and the flow
// advances to phone collection; outside that step it is only remembered.
func NewLocationHandler(machine *session.Machine, txt *texts.Catalog, kb *keyboard.Builder) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		msg := c.Message()
		if sender == nil || msg == nil || msg.Location == nil {
			return nil
		}

		loc := fmt.Sprintf("%.6f,%.6f", msg.Location.Lat, msg.Location.Lng)

		var fromAddress bool
		_, err := machine.Update(contextOf(c), sender.ID, func(sess *session.Session) error {
			sess.Location = loc
			if sess.Step == session.StepCollectingAddress {
				fromAddress = true
				sess.Address = txt.F("order.geo_address", loc)
				sess.Step = session.StepCollectingPhone
			}
			return nil
		})
		if err != nil {
			return err
		}

		if fromAddress {
			return c.Send(txt.T("order.location_received_checkout"), kb.PhoneKeyboard())
		}

		return c.Send(txt.F("order.location_received", loc))
	}
}

// NewBackHandler rewinds the dialogue one step and repeats the relevant prompt.
func NewBackHandler(machine *session.Machine, txt *texts.Catalog, kb *keyboard.Builder) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		ctx := contextOf(c)
		sess, err := machine.Get(ctx, sender.ID)
		if err != nil {
			if stderrors.Is(err, session.ErrSessionNotFound) {
				return c.Send(txt.T("menu.main"), kb.MainMenu())
			}
			return err
		}

		switch sess.Step {
		case session.StepCollectingAddress:
			if _, err := machine.Update(ctx, sender.ID, func(sess *session.Session) error {
				sess.Step = session.StepCollectingItems
				return nil
			}); err != nil {
				return err
			}
			return c.Send(txt.T("order.start"), kb.Remove())
		case session.StepCollectingPhone:
			if _, err := machine.Update(ctx, sender.ID, func(sess *session.Session) error {
				sess.Step = session.StepCollectingAddress
				return nil
			}); err != nil {
				return err
			}
			private := IsPrivateChat(c)
			return c.Send(txt.T("order.ask_address"), kb.LocationKeyboard(private))
		case session.StepCollectingNote:
			if _, err := machine.Update(ctx, sender.ID, func(sess *session.Session) error {
				sess.Step = session.StepCollectingPhone
				return nil
			}); err != nil {
				return err
			}
			return c.Send(txt.T("order.ask_phone"), kb.PhoneKeyboard())
		default:
			return c.Send(txt.T("menu.main"), kb.MainMenu())
		}
	}
}

func summaryText(txt *texts.Catalog, sess *session.Session) string {
	totalLine := ""
	if sess.CartTotal > 0 {
		totalLine = txt.F("order.summary_total", sess.CartTotal)
	}

	location := sess.Location
	if location == "" {
		location = txt.T("order.location_missing")
	}

	return txt.F("order.summary",
		sess.Items,
		sess.Address,
		sess.Phone,
		sess.Note,
		totalLine,
		location,
	)
}
