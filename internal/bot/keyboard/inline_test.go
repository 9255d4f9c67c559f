package keyboard

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santan-uz/santan-bot/internal/catalog"
	"github.com/santan-uz/santan-bot/internal/texts"
)

func testBuilder(t *testing.T) *Builder {
	t.Helper()
	txt, err := texts.Load()
	require.NoError(t, err)
	return NewBuilder(txt, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestMainMenuLayout(t *testing.T) {
	b := testBuilder(t)

	markup := b.MainMenu()
	assert.True(t, markup.ResizeKeyboard)
	require.Len(t, markup.ReplyKeyboard, 3)
	for _, row := range markup.ReplyKeyboard {
		assert.Len(t, row, 2)
	}
	assert.Equal(t, "🛒 Katalog", markup.ReplyKeyboard[0][0].Text)
	assert.Equal(t, "🧑‍🍳 Operator bilan bog‘lanish", markup.ReplyKeyboard[2][1].Text)
}

func TestPhoneKeyboardHasContactButton(t *testing.T) {
	b := testBuilder(t)

	markup := b.PhoneKeyboard()
	assert.True(t, markup.OneTimeKeyboard)
	require.Len(t, markup.ReplyKeyboard, 2)
	assert.True(t, markup.ReplyKeyboard[0][0].Contact)
}

func TestLocationKeyboardPrivateVsGroup(t *testing.T) {
	b := testBuilder(t)

	private := b.LocationKeyboard(true)
	require.Len(t, private.ReplyKeyboard, 2)
	assert.True(t, private.ReplyKeyboard[0][0].Location)

	group := b.LocationKeyboard(false)
	require.Len(t, group.ReplyKeyboard, 1)
	assert.Equal(t, "◀️ Ortga", group.ReplyKeyboard[0][0].Text)
}

func TestCategoryMenuEncodesTokens(t *testing.T) {
	b := testBuilder(t)
	tokens := catalog.NewTokenCodec(time.Hour, nil)

	markup := b.CategoryMenu([]catalog.CategorySummary{
		{Name: "Gigiyena", Count: 12},
		{Name: "Other", Count: 3},
	}, tokens)

	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "Gigiyena (12)", markup.InlineKeyboard[0][0].Text)

	token, page, err := DecodeCategoryPage(markup.InlineKeyboard[0][0].Data)
	require.NoError(t, err)
	assert.Equal(t, 0, page)

	name, err := tokens.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "Gigiyena", name)
}

func TestProductPageNavigation(t *testing.T) {
	b := testBuilder(t)
	items := []catalog.SearchResult{
		{SKU: "S1", Title: "Sovun", Price: 12000},
		{SKU: "S2", Title: "Shampun", Price: 35000},
	}

	first := b.ProductPage(items, "tok1234567", 0, true)
	require.Len(t, first.InlineKeyboard, 3)
	nav := first.InlineKeyboard[2]
	require.Len(t, nav, 2)
	assert.Equal(t, "🧺 Savatcha", nav[0].Text)
	assert.Equal(t, "▶️ Keyingi", nav[1].Text)
	assert.Equal(t, "CAT|tok1234567|1", nav[1].Data)

	middle := b.ProductPage(items, "tok1234567", 2, true)
	nav = middle.InlineKeyboard[2]
	require.Len(t, nav, 3)
	assert.Equal(t, "◀️ Oldingi", nav[0].Text)
	assert.Equal(t, "CAT|tok1234567|1", nav[0].Data)
	assert.Equal(t, "CAT|tok1234567|3", nav[2].Data)

	last := b.ProductPage(items, "tok1234567", 2, false)
	nav = last.InlineKeyboard[2]
	require.Len(t, nav, 2)
	assert.Equal(t, "◀️ Oldingi", nav[0].Text)
	assert.Equal(t, CallbackCartView, nav[1].Data)
}

func TestProductCardButtons(t *testing.T) {
	b := testBuilder(t)

	markup := b.ProductCard("SKU-9")
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "ADD|SKU-9", markup.InlineKeyboard[0][0].Data)
	assert.Equal(t, CallbackCartView, markup.InlineKeyboard[1][0].Data)
}

func TestConfirmButtons(t *testing.T) {
	b := testBuilder(t)

	markup := b.ConfirmButtons()
	require.Len(t, markup.InlineKeyboard, 1)
	row := markup.InlineKeyboard[0]
	require.Len(t, row, 2)
	assert.Equal(t, CallbackConfirmYes, row[0].Data)
	assert.Equal(t, CallbackConfirmNo, row[1].Data)
}
