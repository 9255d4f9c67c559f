package keyboard

import (
	telebot "gopkg.in/telebot.v3"
)

// MainMenu builds the persistent reply keyboard shown in the idle state.
func (b *Builder) MainMenu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{ResizeKeyboard: true}
	markup.ReplyKeyboard = [][]telebot.ReplyButton{
		{
			{Text: b.txt.T("menu.catalog")},
			{Text: b.txt.T("menu.cart")},
		},
		{
			{Text: b.txt.T("menu.order")},
			{Text: b.txt.T("menu.faq")},
		},
		{
			{Text: b.txt.T("menu.location")},
			{Text: b.txt.T("menu.operator")},
		},
	}
	return markup
}

// PhoneKeyboard builds a one-time keyboard with a contact share button.
func (b *Builder) PhoneKeyboard() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	markup.ReplyKeyboard = [][]telebot.ReplyButton{
		{{Text: b.txt.T("menu.share_phone"), Contact: true}},
		{{Text: b.txt.T("menu.back")}},
	}
	return markup
}

// LocationKeyboard builds the address prompt keyboard. The true share-location
// button only works in private chats; groups get a plain back keyboard.
func (b *Builder) LocationKeyboard(private bool) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{ResizeKeyboard: true}

	if private {
		markup.ReplyKeyboard = [][]telebot.ReplyButton{
			{{Text: b.txt.T("menu.share_location"), Location: true}},
			{{Text: b.txt.T("menu.back")}},
		}
		return markup
	}

	markup.ReplyKeyboard = [][]telebot.ReplyButton{
		{{Text: b.txt.T("menu.back")}},
	}
	return markup
}

// BackKeyboard builds a keyboard with only the back button.
func (b *Builder) BackKeyboard() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{ResizeKeyboard: true}
	markup.ReplyKeyboard = [][]telebot.ReplyButton{
		{{Text: b.txt.T("menu.back")}},
	}
	return markup
}

// Remove hides the current reply keyboard.
func (b *Builder) Remove() *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{RemoveKeyboard: true}
}
