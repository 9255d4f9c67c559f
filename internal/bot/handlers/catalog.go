package handlers

import (
	stderrors "errors"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/santan-uz/santan-bot/internal/bot/keyboard"
	"github.com/santan-uz/santan-bot/internal/catalog"
	"github.com/santan-uz/santan-bot/internal/notify"
	"github.com/santan-uz/santan-bot/internal/texts"
)

// NewCatalogHandler shows the category menu.
func NewCatalogHandler(txt *texts.Catalog, kb *keyboard.Builder, store catalog.Store, tokens *catalog.TokenCodec) Handler {
	return func(c telebot.Context) error {
		categories, err := store.ListCategories(contextOf(c))
		if err != nil {
			return err
		}
		if len(categories) == 0 {
			return c.Send(txt.T("catalog.empty"))
		}

		return c.Send(txt.T("catalog.pick_category"), kb.CategoryMenu(categories, tokens))
	}
}

// NewCategoryPageCallback renders one page of a category in place of the
// category menu message.
func NewCategoryPageCallback(txt *texts.Catalog, kb *keyboard.Builder, store catalog.Store, tokens *catalog.TokenCodec, pageSize int) CallbackHandler {
	return func(c telebot.Context) error {
		cb := c.Callback()
		if cb == nil {
			return nil
		}

		token, page, err := keyboard.DecodeCategoryPage(strings.TrimSpace(cb.Data))
		if err != nil {
			return err
		}

		category, err := tokens.Decode(token)
		if err != nil {
			if stderrors.Is(err, catalog.ErrTokenNotFound) {
				// The token map was rebuilt since this keyboard was sent.
				return c.Edit(txt.T("catalog.stale"))
			}
			return err
		}

		items, err := store.SearchProducts(contextOf(c), "", pageSize, page*pageSize, category)
		if err != nil {
			return err
		}

		hasNext := catalog.HasNextPage(len(items), pageSize)
		markup := kb.ProductPage(items, token, page, hasNext)

		return c.Edit(txt.F("catalog.category_header", category), markup)
	}
}

// NewProductCallback sends a product card with an add-to-cart button.
func NewProductCallback(txt *texts.Catalog, kb *keyboard.Builder, store catalog.Store, notifier notify.Notifier, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		cb := c.Callback()
		if cb == nil {
			return nil
		}

		sku, err := keyboard.DecodeSKU(strings.TrimSpace(cb.Data))
		if err != nil {
			return err
		}

		product, err := store.GetProduct(contextOf(c), sku)
		if err != nil {
			if stderrors.Is(err, catalog.ErrProductNotFound) {
				return c.Respond(&telebot.CallbackResponse{Text: txt.T("catalog.not_found"), ShowAlert: true})
			}
			return err
		}

		caption := txt.F("catalog.product_card", product.Title, product.Price, product.SKU)
		markup := kb.ProductCard(product.SKU)

		image := product.ImageURL
		if image == "" {
			image = product.ImagePath
		}

		chat := c.Chat()
		if image != "" && chat != nil {
			return notifier.SendPhoto(contextOf(c), chat.ID, image, caption, markup)
		}

		return c.Send(caption, markup)
	}
}

// NewFindHandler searches products by title substring or exact sku.
func NewFindHandler(txt *texts.Catalog, kb *keyboard.Builder, store catalog.Store, pageSize int) Handler {
	return func(c telebot.Context) error {
		query := strings.TrimSpace(strings.TrimPrefix(c.Text(), "/find"))
		if query == "" {
			return c.Send(txt.T("find.usage"))
		}

		items, err := store.SearchProducts(contextOf(c), query, pageSize, 0, "")
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return c.Send(txt.T("find.empty"))
		}

		return c.Send(txt.T("find.results"), kb.SearchResults(items))
	}
}
