package errors

import (
	"context"
	"errors"
	"time"
)

const (
	maxAttempts    = 4
	initialBackoff = 100 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// WithRetry runs fn up to maxAttempts times, doubling the pause between
// attempts. Only errors marked retryable are retried; everything else is
// returned as-is. Used for outbound Telegram sends where transient transport
// failures must not break the user-facing turn.
func WithRetry(ctx context.Context, fn func() error) error {
	if fn == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	backoff := initialBackoff

	var err error
	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err = fn()
		if err == nil || !IsRetryable(err) || attempt == maxAttempts {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// IsRetryable reports whether err carries the retryable flag.
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		return appErr.Retryable
	}
	return false
}
