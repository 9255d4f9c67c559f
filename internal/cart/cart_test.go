package cart

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santan-uz/santan-bot/internal/catalog"
	"github.com/santan-uz/santan-bot/internal/pricing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStore() *catalog.MemoryStore {
	return catalog.NewMemoryStore(
		catalog.Product{SKU: "soap-1", Title: "Sovun", Price: 8000, Category: "Gigiyena"},
		catalog.Product{SKU: "gel-1", Title: "Dush geli", Price: 35000, Category: "Gigiyena"},
	)
}

func TestMerge(t *testing.T) {
	t.Run("adding same sku twice merges into one line", func(t *testing.T) {
		lines := Merge(nil, "soap-1", 1)
		lines = Merge(lines, "soap-1", 1)

		require.Len(t, lines, 1)
		assert.Equal(t, Line{SKU: "soap-1", Qty: 2}, lines[0])
	})

	t.Run("distinct skus append in order", func(t *testing.T) {
		lines := Merge(nil, "soap-1", 1)
		lines = Merge(lines, "gel-1", 3)

		require.Len(t, lines, 2)
		assert.Equal(t, Line{SKU: "soap-1", Qty: 1}, lines[0])
		assert.Equal(t, Line{SKU: "gel-1", Qty: 3}, lines[1])
	})

	t.Run("non-positive quantity is coerced to one", func(t *testing.T) {
		lines := Merge(nil, "soap-1", 0)
		require.Len(t, lines, 1)
		assert.Equal(t, 1, lines[0].Qty)
	})
}

func TestManager_Totals(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(testStore(), pricing.Rules{}, testLogger())

	summary, err := manager.Totals(ctx, []Line{
		{SKU: "soap-1", Qty: 2},
		{SKU: "gel-1", Qty: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(51000), summary.Quote.Subtotal)
	require.Len(t, summary.Lines, 2)
	assert.Equal(t, "Sovun x2 — 8000 so‘m", summary.Lines[0])
	assert.Equal(t, "Dush geli x1 — 35000 so‘m", summary.Lines[1])
}

func TestManager_Totals_DanglingSKUSilentlyDropped(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(testStore(), pricing.Rules{}, testLogger())

	summary, err := manager.Totals(ctx, []Line{
		{SKU: "soap-1", Qty: 1},
		{SKU: "vanished", Qty: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(8000), summary.Quote.Subtotal)
	assert.Len(t, summary.Lines, 1)
}

func TestManager_Totals_AppliesPricingRules(t *testing.T) {
	ctx := context.Background()
	rules := pricing.Rules{DiscountPercent: 10, DeliveryFee: 15000, FreeShippingOver: 100000}
	manager := NewManager(testStore(), rules, testLogger())

	summary, err := manager.Totals(ctx, []Line{{SKU: "gel-1", Qty: 4}})
	require.NoError(t, err)

	// 140000 - 14000 = 126000, over the threshold, delivery waived.
	assert.Equal(t, int64(140000), summary.Quote.Subtotal)
	assert.Equal(t, int64(14000), summary.Quote.Discount)
	assert.Equal(t, int64(0), summary.Quote.Delivery)
	assert.Equal(t, int64(126000), summary.Quote.Total)
}

func TestManager_Checkout(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(testStore(), pricing.Rules{DeliveryFee: 15000}, testLogger())

	checkout, err := manager.Checkout(ctx, []Line{
		{SKU: "soap-1", Qty: 2},
		{SKU: "gel-1", Qty: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, "Sovun x2 — 8000 so‘m; Dush geli x1 — 35000 so‘m", checkout.Items)
	assert.Equal(t, int64(66000), checkout.Total)
}

func TestManager_Checkout_EmptyCart(t *testing.T) {
	manager := NewManager(testStore(), pricing.Rules{}, testLogger())

	_, err := manager.Checkout(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}
