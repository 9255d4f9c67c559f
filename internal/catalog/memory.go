package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store used in development mode and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]Product
}

// NewMemoryStore builds a MemoryStore seeded with the provided products.
func NewMemoryStore(products ...Product) *MemoryStore {
	store := &MemoryStore{products: make(map[string]Product, len(products))}
	for _, product := range products {
		store.products[product.SKU] = product
	}
	return store
}

// Put inserts or replaces a product.
func (s *MemoryStore) Put(product Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.SKU] = product
}

// Delete removes a product if present.
func (s *MemoryStore) Delete(sku string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, sku)
}

// ListCategories returns category summaries ordered by name ascending.
func (s *MemoryStore) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, product := range s.products {
		name := product.Category
		if name == "" {
			name = "Other"
		}
		counts[name]++
	}

	categories := make([]CategorySummary, 0, len(counts))
	for name, count := range counts {
		categories = append(categories, CategorySummary{Name: name, Count: count})
	}

	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// GetProduct returns the product for sku or ErrProductNotFound.
func (s *MemoryStore) GetProduct(ctx context.Context, sku string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[sku]
	if !ok {
		return nil, ErrProductNotFound
	}

	return &product, nil
}

// SearchProducts performs case-insensitive substring matching with offset pagination.
func (s *MemoryStore) SearchProducts(ctx context.Context, query string, limit, offset int, category string) ([]SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)

	var matched []SearchResult
	for _, product := range s.products {
		name := product.Category
		if name == "" {
			name = "Other"
		}
		if category != "" && name != category {
			continue
		}

		if needle != "" &&
			!strings.Contains(strings.ToLower(product.Title), needle) &&
			!strings.Contains(strings.ToLower(product.SKU), needle) {
			continue
		}

		matched = append(matched, SearchResult{SKU: product.SKU, Title: product.Title, Price: product.Price})
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].Title < matched[j].Title })

	if offset >= len(matched) {
		return nil, nil
	}

	matched = matched[offset:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, nil
}
