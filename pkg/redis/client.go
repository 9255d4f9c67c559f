// Package redis builds the shared go-redis client used for session
// storage, per-user dialogue locks, idempotency keys, and the task queue.
package redis

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/santan-uz/santan-bot/pkg/config"
)

const connectTimeout = 5 * time.Second

// Client carries the verified go-redis connection.
type Client struct {
	*redis.Client
}

// New connects to Redis and fails fast when the server is unreachable, so a
// misconfigured address surfaces at startup rather than on the first update.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}

	return &Client{rdb}, nil
}
