// Package cart implements the per-user shopping cart and its checkout
// projection into an order description.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/santan-uz/santan-bot/internal/catalog"
	"github.com/santan-uz/santan-bot/internal/pricing"
)

// ErrEmptyCart indicates that checkout was requested on a cart with no lines.
var ErrEmptyCart = errors.New("cart is empty")

// Line is a single cart position. SKU is unique within a cart.
type Line struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

// Merge adds qty of sku to lines, incrementing the existing line when the sku
// is already present. The sku is not validated against the catalog here; a
// dangling sku is silently dropped when totals are computed.
func Merge(lines []Line, sku string, qty int) []Line {
	if qty < 1 {
		qty = 1
	}

	for i := range lines {
		if lines[i].SKU == sku {
			lines[i].Qty += qty
			return lines
		}
	}

	return append(lines, Line{SKU: sku, Qty: qty})
}

// Summary is the priced view of a cart.
type Summary struct {
	Lines []string
	Quote pricing.Quote
}

// Checkout is the order-description projection used to pre-populate a session.
type Checkout struct {
	Items string
	Total int64
}

// Manager resolves cart lines against the catalog and prices them.
type Manager struct {
	store catalog.Store
	rules pricing.Rules
	log   *slog.Logger
}

// NewManager builds a cart manager over the given catalog store and pricing rules.
func NewManager(store catalog.Store, rules pricing.Rules, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}

	return &Manager{
		store: store,
		rules: rules,
		log:   log,
	}
}

// Totals resolves every line, skipping skus the catalog no longer knows, and
// prices the remaining subtotal.
func (m *Manager) Totals(ctx context.Context, lines []Line) (Summary, error) {
	var subtotal int64
	display := make([]string, 0, len(lines))

	for _, line := range lines {
		product, err := m.store.GetProduct(ctx, line.SKU)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				m.log.Debug("dropping dangling cart sku", slog.String("sku", line.SKU))
				continue
			}
			return Summary{}, fmt.Errorf("resolve cart line %q: %w", line.SKU, err)
		}

		subtotal += product.Price * int64(line.Qty)
		display = append(display, fmt.Sprintf("%s x%d — %d so‘m", product.Title, line.Qty, product.Price))
	}

	return Summary{
		Lines: display,
		Quote: pricing.Calculate(subtotal, m.rules),
	}, nil
}

// Checkout joins the display lines into a single item description and returns
// the grand total used to pre-populate the order session.
func (m *Manager) Checkout(ctx context.Context, lines []Line) (Checkout, error) {
	if len(lines) == 0 {
		return Checkout{}, ErrEmptyCart
	}

	summary, err := m.Totals(ctx, lines)
	if err != nil {
		return Checkout{}, err
	}

	return Checkout{
		Items: strings.Join(summary.Lines, "; "),
		Total: summary.Quote.Total,
	}, nil
}
