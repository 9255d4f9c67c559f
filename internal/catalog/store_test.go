package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedStore() *MemoryStore {
	return NewMemoryStore(
		Product{SKU: "soap-1", Title: "Sovun", Price: 8000, Category: "Gigiyena"},
		Product{SKU: "gel-1", Title: "Dush geli", Price: 35000, Category: "Gigiyena"},
		Product{SKU: "paper-1", Title: "Tualet qog'ozi", Price: 12000, Category: "Uy-ro'zg'or"},
		Product{SKU: "shampoo-1", Title: "Shampun", Price: 41000, Category: "Gigiyena"},
		Product{SKU: "brush-1", Title: "Tish cho'tkasi", Price: 9000},
	)
}

func TestMemoryStore_ListCategories(t *testing.T) {
	ctx := context.Background()

	categories, err := seedStore().ListCategories(ctx)
	require.NoError(t, err)

	require.Len(t, categories, 3)
	assert.Equal(t, CategorySummary{Name: "Gigiyena", Count: 3}, categories[0])
	assert.Equal(t, CategorySummary{Name: "Other", Count: 1}, categories[1])
	assert.Equal(t, CategorySummary{Name: "Uy-ro'zg'or", Count: 1}, categories[2])
}

func TestMemoryStore_GetProduct(t *testing.T) {
	ctx := context.Background()
	store := seedStore()

	product, err := store.GetProduct(ctx, "soap-1")
	require.NoError(t, err)
	assert.Equal(t, "Sovun", product.Title)

	_, err = store.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryStore_SearchProducts(t *testing.T) {
	ctx := context.Background()
	store := seedStore()

	testCases := []struct {
		name     string
		query    string
		limit    int
		offset   int
		category string
		wantSKUs []string
	}{
		{
			name:     "empty query matches all, ordered by title",
			query:    "",
			limit:    10,
			wantSKUs: []string{"gel-1", "shampoo-1", "soap-1", "brush-1", "paper-1"},
		},
		{
			name:     "substring on title",
			query:    "sovun",
			limit:    10,
			wantSKUs: []string{"soap-1"},
		},
		{
			name:     "substring on sku",
			query:    "gel",
			limit:    10,
			wantSKUs: []string{"gel-1"},
		},
		{
			name:     "category filter",
			query:    "",
			limit:    10,
			category: "Gigiyena",
			wantSKUs: []string{"gel-1", "shampoo-1", "soap-1"},
		},
		{
			name:     "pagination offset",
			query:    "",
			limit:    2,
			offset:   2,
			wantSKUs: []string{"soap-1", "brush-1"},
		},
		{
			name:     "offset beyond result set",
			query:    "",
			limit:    2,
			offset:   100,
			wantSKUs: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			results, err := store.SearchProducts(ctx, tc.query, tc.limit, tc.offset, tc.category)
			require.NoError(t, err)

			skus := make([]string, 0, len(results))
			for _, result := range results {
				skus = append(skus, result.SKU)
			}

			if tc.wantSKUs == nil {
				assert.Empty(t, skus)
				return
			}
			assert.Equal(t, tc.wantSKUs, skus)
		})
	}
}

func TestHasNextPage(t *testing.T) {
	assert.True(t, HasNextPage(6, 6))
	assert.False(t, HasNextPage(5, 6))
	assert.False(t, HasNextPage(0, 6))
	assert.False(t, HasNextPage(6, 0))
}
