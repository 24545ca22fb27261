package store

import (
	"errors"
	"sync"

	"parkezy/internal/models"
)

// ErrSessionExists indicates a current session is already set.
var ErrSessionExists = errors.New("store: current session already set")

// SessionStore holds the at-most-one live session plus an append-only history
// of finished ones. Mutations to the current session must come from a single
// writer (the lifecycle engine); readers take snapshots.
type SessionStore struct {
	mu      sync.RWMutex
	current *models.Session
	history []*models.Session
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// SetCurrent installs the live session. Rejected while one is present.
func (s *SessionStore) SetCurrent(session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return ErrSessionExists
	}
	s.current = session
	return nil
}

// Current returns the live session pointer, or nil. Only the owning engine
// may mutate the result.
func (s *SessionStore) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// CurrentSnapshot returns a detached copy of the live session for display.
func (s *SessionStore) CurrentSnapshot() (*models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	return s.current.Clone(), true
}

// ClearCurrent removes and returns the live session.
func (s *SessionStore) ClearCurrent() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.current
	s.current = nil
	return cur
}

// AppendHistory freezes a finished session into history. The stored entry is
// a copy, so later mutation of the argument cannot reach it.
func (s *SessionStore) AppendHistory(session *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, session.Clone())
}

// History returns finished sessions in the order they ended.
func (s *SessionStore) History() []models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.Session, 0, len(s.history))
	for _, h := range s.history {
		result = append(result, *h.Clone())
	}
	return result
}
