package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	lockStripes = 64

	distLockKeyPattern = "order:lock:%d"
	distLockTTL        = 5 * time.Second
)

var (
	// ErrInvalidTransition indicates that an update attempted an illegal step change.
	ErrInvalidTransition = errors.New("invalid step transition")
	// ErrSessionLocked indicates that a concurrent operation already holds the
	// distributed lock for the user.
	ErrSessionLocked = errors.New("session is locked, try again later")
)

var transitionRecorder = func(from, to string) {}

// RegisterTransitionRecorder allows external packages to observe step transitions.
func RegisterTransitionRecorder(recorder func(from, to string)) {
	if recorder == nil {
		transitionRecorder = func(string, string) {}
		return
	}

	transitionRecorder = recorder
}

// Machine serializes all session reads and writes per user so that concurrent
// events for the same user can never both observe and advance from the same
// step. Events for distinct users do not contend: locks are striped by user
// id, and an optional Redis lock extends the guarantee across instances.
type Machine struct {
	storage     Storage
	log         *slog.Logger
	redisClient *redis.Client
	locks       [lockStripes]sync.Mutex
}

// NewMachine creates a session machine over the given storage backend.
// redisClient may be nil for single-instance deployments.
func NewMachine(storage Storage, log *slog.Logger, redisClient *redis.Client) *Machine {
	if log == nil {
		log = slog.Default()
	}

	return &Machine{
		storage:     storage,
		log:         log,
		redisClient: redisClient,
	}
}

// Get returns the user's session or ErrSessionNotFound.
func (m *Machine) Get(ctx context.Context, userID int64) (*Session, error) {
	return m.storage.Get(ctx, userID)
}

// All returns every active session.
func (m *Machine) All(ctx context.Context) ([]*Session, error) {
	return m.storage.All(ctx)
}

// Update atomically applies fn to the user's session under the per-user lock.
// A missing session is materialized as idle before fn runs, so entry handlers
// can transition it in the same call. The mutation is persisted only when fn
// succeeds and the resulting step change is legal.
func (m *Machine) Update(ctx context.Context, userID int64, fn func(*Session) error) (*Session, error) {
	unlock, err := m.lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, err := m.storage.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		sess = New(userID)
	}

	previous := sess.Step
	if err := fn(sess); err != nil {
		return nil, err
	}

	if !IsTransitionAllowed(previous, sess.Step) {
		m.log.Warn("invalid step transition",
			slog.Int64("user_id", userID),
			slog.String("from", string(previous)),
			slog.String("to", string(sess.Step)),
		)
		return nil, ErrInvalidTransition
	}

	if sess.Step != previous {
		transitionRecorder(string(previous), string(sess.Step))
	}

	if err := m.storage.Set(ctx, userID, sess); err != nil {
		return nil, err
	}

	return sess, nil
}

// Clear removes the user's session while holding the lock. A cleared session
// is equivalent to idle.
func (m *Machine) Clear(ctx context.Context, userID int64) error {
	unlock, err := m.lock(ctx, userID)
	if err != nil {
		return err
	}
	defer unlock()

	current := StepIdle
	if sess, err := m.storage.Get(ctx, userID); err == nil && sess != nil {
		current = sess.Step
	}

	if current != StepIdle {
		transitionRecorder(string(current), string(StepIdle))
	}

	return m.storage.Clear(ctx, userID)
}

func (m *Machine) lock(ctx context.Context, userID int64) (func(), error) {
	stripe := &m.locks[uint64(userID)%lockStripes]
	stripe.Lock()

	if m.redisClient == nil {
		return stripe.Unlock, nil
	}

	key := fmt.Sprintf(distLockKeyPattern, userID)
	acquired, err := m.redisClient.SetNX(ctx, key, 1, distLockTTL).Result()
	if err != nil {
		stripe.Unlock()
		m.log.Error("failed to acquire session lock", slog.Int64("user_id", userID), slog.Any("error", err))
		return nil, err
	}

	if !acquired {
		stripe.Unlock()
		m.log.Warn("session lock already held", slog.Int64("user_id", userID))
		return nil, ErrSessionLocked
	}

	return func() {
		if err := m.redisClient.Del(ctx, key).Err(); err != nil {
			m.log.Error("failed to release session lock", slog.Int64("user_id", userID), slog.Any("error", err))
		}
		stripe.Unlock()
	}, nil
}
