package session

import (
	"context"
	"errors"
)

// ErrSessionNotFound indicates that a user has no stored session. Callers
// treat this as an idle user; non-entry input is ignored.
var ErrSessionNotFound = errors.New("session not found")

// Storage defines the persistence contract for order sessions.
type Storage interface {
	// Get returns the session for the specified user or ErrSessionNotFound.
	Get(ctx context.Context, userID int64) (*Session, error)
	// Set saves the provided session for the specified user.
	Set(ctx context.Context, userID int64, sess *Session) error
	// Clear removes the session for the specified user.
	Clear(ctx context.Context, userID int64) error
	// All returns every stored session.
	All(ctx context.Context) ([]*Session, error)
}
