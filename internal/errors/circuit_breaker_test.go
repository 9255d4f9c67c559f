package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerStaysClosedBelowThreshold(t *testing.T) {
	cb := NewCircuitBreaker()
	boom := errors.New("send failed")

	for i := 0; i < breakerMinSamples; i++ {
		var fn func() error
		if i%3 == 0 {
			fn = func() error { return boom }
		} else {
			fn = func() error { return nil }
		}
		_ = cb.Call(fn)
	}

	assert.Equal(t, BreakerClosed, cb.State())
}

func TestBreakerTripsOnSustainedFailure(t *testing.T) {
	cb := NewCircuitBreaker()
	boom := errors.New("send failed")

	for i := 0; i < breakerMinSamples; i++ {
		_ = cb.Call(func() error { return boom })
	}

	require.Equal(t, BreakerOpen, cb.State())

	// While open, calls are rejected without running fn.
	err := cb.Call(func() error {
		t.Fatal("fn must not run while the breaker is open")
		return nil
	})
	assert.ErrorIs(t, err, ErrBreakerOpen)
}

func TestBreakerRecoversAfterCooldown(t *testing.T) {
	cb := NewCircuitBreaker()
	boom := errors.New("send failed")

	for i := 0; i < breakerMinSamples; i++ {
		_ = cb.Call(func() error { return boom })
	}
	require.Equal(t, BreakerOpen, cb.State())

	// Rewind the trip time instead of sleeping through the cooldown.
	cb.mu.Lock()
	cb.openedAt = cb.openedAt.Add(-2 * breakerCooldown)
	cb.mu.Unlock()

	for i := 0; i < breakerProbeQuota; i++ {
		require.NoError(t, cb.Call(func() error { return nil }))
	}

	assert.Equal(t, BreakerClosed, cb.State())
}

func TestBreakerReopensOnFailedProbe(t *testing.T) {
	cb := NewCircuitBreaker()
	boom := errors.New("send failed")

	for i := 0; i < breakerMinSamples; i++ {
		_ = cb.Call(func() error { return boom })
	}

	cb.mu.Lock()
	cb.openedAt = cb.openedAt.Add(-2 * breakerCooldown)
	cb.mu.Unlock()

	_ = cb.Call(func() error { return boom })

	assert.Equal(t, BreakerOpen, cb.State())
}
