// Package idempotency deduplicates repeated callback taps so a double
// press of the confirm button submits a single order.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrInProgress is returned when another handler is processing the same key.
var ErrInProgress = errors.New("operation with this key is already in progress")

// Operation produces the reply text for a deduplicated action.
type Operation func(ctx context.Context) (string, error)

// Result carries the operation's reply and whether it was served from cache.
type Result struct {
	Response  string
	FromCache bool
}

// Manager executes operations at most once per key within a TTL window.
type Manager interface {
	Execute(ctx context.Context, key string, ttl time.Duration, fn Operation) (*Result, error)
}

type manager struct {
	store Store
	log   *slog.Logger
}

// NewManager constructs a Manager over the given store.
func NewManager(store Store, log *slog.Logger) Manager {
	if log == nil {
		log = slog.Default()
	}

	return &manager{
		store: store,
		log:   log,
	}
}

func (m *manager) Execute(ctx context.Context, key string, ttl time.Duration, fn Operation) (*Result, error) {
	if fn == nil {
		return nil, errors.New("operation fn cannot be nil")
	}

	record, err := m.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if record != nil && record.Status == StatusCompleted {
		return &Result{Response: record.Response, FromCache: true}, nil
	}

	locked, err := m.store.Lock(ctx, key, 5*time.Minute)
	if err != nil {
		return nil, err
	}
	if !locked {
		// Another handler is processing the same tap right now.
		return nil, ErrInProgress
	}
	defer m.store.ReleaseLock(ctx, key)

	// The first Get may have raced with a handler that completed between
	// Get and Lock; re-check under the lock.
	record, err = m.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if record != nil && record.Status == StatusCompleted {
		return &Result{Response: record.Response, FromCache: true}, nil
	}

	response, err := fn(ctx)
	if err != nil {
		return nil, err
	}

	if err := m.store.Set(ctx, key, &Record{
		Status:   StatusCompleted,
		Response: response,
	}, ttl); err != nil {
		return nil, err
	}

	return &Result{Response: response, FromCache: false}, nil
}

// Key builds a deterministic idempotency key from the provided parts.
func Key(parts ...interface{}) string {
	h := sha256.New()
	for _, part := range parts {
		fmt.Fprintf(h, "%v:", part)
	}

	return hex.EncodeToString(h.Sum(nil))
}
