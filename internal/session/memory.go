package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage keeps sessions in process memory. It is the default backend
// for single-instance deployments; the registry lives for the process
// lifetime with explicit create-on-first-use and delete-on-confirm.
type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryStorage constructs an empty in-memory session registry.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		sessions: make(map[int64]*Session),
	}
}

// Get returns a copy of the stored session or ErrSessionNotFound.
func (s *MemoryStorage) Get(ctx context.Context, userID int64) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return cloneSession(sess), nil
}

// Set stores a copy of the session for the user.
func (s *MemoryStorage) Set(ctx context.Context, userID int64, sess *Session) error {
	sess.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[userID] = cloneSession(sess)
	return nil
}

// Clear removes the session for the user.
func (s *MemoryStorage) Clear(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}

// All returns copies of every stored session.
func (s *MemoryStorage) All(ctx context.Context) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, cloneSession(sess))
	}

	return sessions, nil
}

// cloneSession copies a session so callers never share cart slices with the store.
func cloneSession(sess *Session) *Session {
	if sess == nil {
		return nil
	}

	clone := *sess
	if len(sess.Cart) > 0 {
		clone.Cart = append(clone.Cart[:0:0], sess.Cart...)
	}

	return &clone
}
