package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

type postgresStore struct {
	db  *sql.DB
	log *slog.Logger
}

// NewPostgresStore creates a SQL-backed catalog store.
func NewPostgresStore(db *sql.DB, log *slog.Logger) Store {
	if log == nil {
		log = slog.Default()
	}

	return &postgresStore{
		db:  db,
		log: log,
	}
}

// ListCategories groups products by category, folding NULL into "Other".
func (s *postgresStore) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	const query = `
		SELECT COALESCE(NULLIF(category, ''), 'Other') AS c, COUNT(*)
		FROM products
		GROUP BY c
		ORDER BY c
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.log.Error("failed to list categories", slog.Any("error", err))
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []CategorySummary
	for rows.Next() {
		var summary CategorySummary
		if err := rows.Scan(&summary.Name, &summary.Count); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}

	return categories, nil
}

// GetProduct retrieves a single product by sku.
func (s *postgresStore) GetProduct(ctx context.Context, sku string) (*Product, error) {
	const query = `
		SELECT sku, title, price, COALESCE(category, ''), COALESCE(subcategory, ''),
		       COALESCE(description, ''), COALESCE(image_url, ''), COALESCE(image_path, ''), stock
		FROM products
		WHERE sku = $1
	`

	row := s.db.QueryRowContext(ctx, query, sku)

	var product Product
	if err := row.Scan(
		&product.SKU,
		&product.Title,
		&product.Price,
		&product.Category,
		&product.Subcategory,
		&product.Description,
		&product.ImageURL,
		&product.ImagePath,
		&product.Stock,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}

		s.log.Error("failed to fetch product", slog.String("sku", sku), slog.Any("error", err))
		return nil, fmt.Errorf("select product by sku: %w", err)
	}

	return &product, nil
}

// SearchProducts runs a substring search over title and sku with offset pagination.
func (s *postgresStore) SearchProducts(ctx context.Context, query string, limit, offset int, category string) ([]SearchResult, error) {
	sqlQuery := `
		SELECT sku, title, price
		FROM products
		WHERE (title ILIKE '%' || $1 || '%' OR sku ILIKE '%' || $1 || '%')
	`
	args := []interface{}{query}

	if category != "" {
		sqlQuery += fmt.Sprintf(" AND COALESCE(NULLIF(category, ''), 'Other') = $%d", len(args)+1)
		args = append(args, category)
	}

	sqlQuery += fmt.Sprintf(" ORDER BY title LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		s.log.Error("failed to search products", slog.String("query", query), slog.Any("error", err))
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []SearchResult
	for rows.Next() {
		var result SearchResult
		if err := rows.Scan(&result.SKU, &result.Title, &result.Price); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search rows: %w", err)
	}

	return results, nil
}
