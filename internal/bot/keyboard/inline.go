package keyboard

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/santan-uz/santan-bot/internal/catalog"
	"github.com/santan-uz/santan-bot/internal/texts"
)

// Builder creates the bot's reply and inline keyboards.
type Builder struct {
	txt *texts.Catalog
	log *slog.Logger
}

// NewBuilder returns a new Builder instance.
func NewBuilder(txt *texts.Catalog, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{txt: txt, log: log}
}

// CategoryMenu builds one button per category, each opening its first page.
func (b *Builder) CategoryMenu(categories []catalog.CategorySummary, tokens *catalog.TokenCodec) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	rows := make([][]telebot.InlineButton, 0, len(categories))

	for _, cat := range categories {
		data, err := EncodeCategoryPage(tokens.Encode(cat.Name), 0)
		if err != nil {
			b.log.Warn("skipping category button", slog.String("category", cat.Name), slog.Any("error", err))
			continue
		}

		rows = append(rows, []telebot.InlineButton{{
			Text: b.txt.F("catalog.category_button", cat.Name, cat.Count),
			Data: data,
		}})
	}

	markup.InlineKeyboard = rows
	return markup
}

// ProductPage builds a page of product buttons plus a navigation row with
// previous, cart and next buttons.
func (b *Builder) ProductPage(items []catalog.SearchResult, token string, page int, hasNext bool) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	rows := make([][]telebot.InlineButton, 0, len(items)+1)

	for _, item := range items {
		data, err := EncodeProduct(item.SKU)
		if err != nil {
			b.log.Warn("skipping product button", slog.String("sku", item.SKU), slog.Any("error", err))
			continue
		}

		rows = append(rows, []telebot.InlineButton{{
			Text: b.txt.F("catalog.product_button", item.Title, item.Price),
			Data: data,
		}})
	}

	nav := make([]telebot.InlineButton, 0, 3)
	if page > 0 {
		if data, err := EncodeCategoryPage(token, page-1); err == nil {
			nav = append(nav, telebot.InlineButton{Text: b.txt.T("catalog.prev"), Data: data})
		}
	}
	nav = append(nav, telebot.InlineButton{Text: b.txt.T("menu.cart"), Data: CallbackCartView})
	if hasNext {
		if data, err := EncodeCategoryPage(token, page+1); err == nil {
			nav = append(nav, telebot.InlineButton{Text: b.txt.T("catalog.next"), Data: data})
		}
	}
	rows = append(rows, nav)

	markup.InlineKeyboard = rows
	return markup
}

// ProductCard builds add-to-cart and view-cart buttons under a product card.
func (b *Builder) ProductCard(sku string) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}

	rows := make([][]telebot.InlineButton, 0, 2)
	if data, err := EncodeAdd(sku); err == nil {
		rows = append(rows, []telebot.InlineButton{{Text: b.txt.T("catalog.add_to_cart"), Data: data}})
	} else {
		b.log.Warn("skipping add button", slog.String("sku", sku), slog.Any("error", err))
	}
	rows = append(rows, []telebot.InlineButton{{Text: b.txt.T("menu.cart"), Data: CallbackCartView}})

	markup.InlineKeyboard = rows
	return markup
}

// CartView builds the checkout button shown under the cart summary.
func (b *Builder) CartView() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{{Text: b.txt.T("cart.checkout"), Data: CallbackCartCheckout}},
	}
	return markup
}

// ConfirmButtons builds the order summary confirmation buttons.
func (b *Builder) ConfirmButtons() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			{Text: b.txt.T("order.confirm_yes"), Data: CallbackConfirmYes},
			{Text: b.txt.T("order.confirm_no"), Data: CallbackConfirmNo},
		},
	}
	return markup
}

// SearchResults builds one product button per search hit.
func (b *Builder) SearchResults(items []catalog.SearchResult) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	rows := make([][]telebot.InlineButton, 0, len(items))

	for _, item := range items {
		data, err := EncodeProduct(item.SKU)
		if err != nil {
			b.log.Warn("skipping search result button", slog.String("sku", item.SKU), slog.Any("error", err))
			continue
		}

		rows = append(rows, []telebot.InlineButton{{
			Text: b.txt.F("catalog.product_button", item.Title, item.Price),
			Data: data,
		}})
	}

	markup.InlineKeyboard = rows
	return markup
}
