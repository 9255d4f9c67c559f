package errors

import (
	"errors"
	"sync"
	"time"
)

const (
	breakerFailureRate = 0.5
	breakerMinSamples  = 10
	breakerCooldown    = 30 * time.Second
	breakerProbeQuota  = 3
)

// BreakerState is the circuit breaker's current mode.
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

// ErrBreakerOpen is returned while the cooldown window is still running.
var ErrBreakerOpen = errors.New("notification channel temporarily disabled")

var errProbeQuotaExceeded = errors.New("probe quota exhausted")

// CircuitBreaker shields the staff notification channel: once the Telegram
// API fails persistently, further sends are short-circuited until a probe
// succeeds after the cooldown.
type CircuitBreaker struct {
	mu        sync.Mutex
	state     BreakerState
	failures  int
	successes int
	samples   int
	openedAt  time.Time
}

func NewCircuitBreaker() *CircuitBreaker {
	return &CircuitBreaker{state: BreakerClosed}
}

// Call runs fn unless the breaker is open. Results feed the failure-rate
// window that decides when to trip.
func (cb *CircuitBreaker) Call(fn func() error) error {
	if fn == nil {
		return nil
	}

	if err := cb.admit(); err != nil {
		return err
	}

	err := fn()
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) admit() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case BreakerOpen:
		if time.Since(cb.openedAt) < breakerCooldown {
			return ErrBreakerOpen
		}
		cb.state = BreakerHalfOpen
		cb.reset()
	case BreakerHalfOpen:
		if cb.samples >= breakerProbeQuota {
			return errProbeQuotaExceeded
		}
	}

	return nil
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.samples++

	if err != nil {
		cb.failures++
		if cb.state == BreakerHalfOpen {
			cb.trip()
			return
		}
		if cb.samples >= breakerMinSamples &&
			float64(cb.failures)/float64(cb.samples) >= breakerFailureRate {
			cb.trip()
		}
		return
	}

	cb.successes++
	if cb.state == BreakerHalfOpen && cb.successes >= breakerProbeQuota {
		cb.state = BreakerClosed
		cb.reset()
	}
}

// State reports the breaker's current mode.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) trip() {
	cb.state = BreakerOpen
	cb.openedAt = time.Now()
	cb.reset()
}

func (cb *CircuitBreaker) reset() {
	cb.failures = 0
	cb.successes = 0
	cb.samples = 0
}
