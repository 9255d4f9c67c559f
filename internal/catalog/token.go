package catalog

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const tokenLength = 10

// ErrTokenNotFound indicates that a category token is unknown, typically after
// a restart or eviction. Callers must degrade to a "reopen the catalog"
// message rather than failing the turn.
var ErrTokenNotFound = errors.New("category token not found")

type tokenEntry struct {
	name      string
	expiresAt time.Time
}

// TokenCodec maps category names to short stable tokens that fit into the
// Telegram callback payload limit. The reverse table is populated on every
// Encode and evicted after the configured TTL.
type TokenCodec struct {
	mu      sync.RWMutex
	entries map[string]tokenEntry
	ttl     time.Duration
	log     *slog.Logger
}

// NewTokenCodec constructs a codec whose reverse-lookup entries live for ttl.
// A non-positive ttl keeps entries until Reset.
func NewTokenCodec(ttl time.Duration, log *slog.Logger) *TokenCodec {
	if log == nil {
		log = slog.Default()
	}

	return &TokenCodec{
		entries: make(map[string]tokenEntry),
		ttl:     ttl,
		log:     log,
	}
}

// Encode derives the token for a category name and refreshes the reverse mapping.
// Empty names fold into "Other" to match the catalog grouping.
func (c *TokenCodec) Encode(name string) string {
	if name == "" {
		name = "Other"
	}

	sum := md5.Sum([]byte(name))
	token := hex.EncodeToString(sum[:])[:tokenLength]

	expiresAt := time.Time{}
	if c.ttl > 0 {
		expiresAt = time.Now().Add(c.ttl)
	}

	c.mu.Lock()
	c.entries[token] = tokenEntry{name: name, expiresAt: expiresAt}
	c.mu.Unlock()

	return token
}

// Decode resolves a token back to its category name.
func (c *TokenCodec) Decode(token string) (string, error) {
	c.mu.RLock()
	entry, ok := c.entries[token]
	c.mu.RUnlock()

	if !ok {
		return "", ErrTokenNotFound
	}

	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, token)
		c.mu.Unlock()
		return "", ErrTokenNotFound
	}

	return entry.name, nil
}

// Len returns the number of live reverse mappings.
func (c *TokenCodec) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset drops the entire reverse table, mirroring a process restart.
func (c *TokenCodec) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]tokenEntry)
}

// Run evicts expired entries on the given interval until ctx is cancelled.
func (c *TokenCodec) Run(ctx context.Context, interval time.Duration) {
	if c == nil || c.ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("category token cleaner stopped")
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *TokenCodec) evictExpired() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for token, entry := range c.entries {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			delete(c.entries, token)
			evicted++
		}
	}

	if evicted > 0 {
		c.log.Debug("evicted expired category tokens", slog.Int("count", evicted))
	}
}
