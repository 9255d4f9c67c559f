// Package catalog provides read-only access to the product catalog.
package catalog

import (
	"context"
	"errors"
)

// ErrProductNotFound indicates that no product exists for the requested sku.
var ErrProductNotFound = errors.New("product not found")

// Product is an immutable catalog entry sourced by the import pipeline.
type Product struct {
	SKU         string
	Title       string
	Price       int64
	Category    string
	Subcategory string
	Description string
	ImageURL    string
	ImagePath   string
	Stock       int
}

// CategorySummary pairs a category name with its product count.
type CategorySummary struct {
	Name  string
	Count int
}

// SearchResult is the reduced product view returned by paginated search.
type SearchResult struct {
	SKU   string
	Title string
	Price int64
}

// Store defines the read operations the bot needs from the product catalog.
type Store interface {
	// ListCategories returns all categories ordered by name ascending.
	ListCategories(ctx context.Context) ([]CategorySummary, error)
	// GetProduct returns the product for the given sku or ErrProductNotFound.
	GetProduct(ctx context.Context, sku string) (*Product, error)
	// SearchProducts matches query against title or sku by substring containment.
	// An empty query matches everything. An empty category disables the filter.
	// Results are ordered by title ascending.
	SearchProducts(ctx context.Context, query string, limit, offset int, category string) ([]SearchResult, error)
}

// HasNextPage reports whether a further page should be offered. A page is
// considered non-final exactly when it came back full; the store is never
// asked for a total count.
func HasNextPage(returned, pageSize int) bool {
	return pageSize > 0 && returned == pageSize
}
