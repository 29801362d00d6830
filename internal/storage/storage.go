package storage

import (
	"sync"
	"time"

	"github.com/lehigh-university-libraries/cropper/internal/session"
)

// Entry wraps a session so that requests against it are serialized.
type Entry struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	session *session.Session
}

// Do runs fn with exclusive access to the session.
func (e *Entry) Do(fn func(s *session.Session) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.session)
}

// SessionStore holds the sessions of a running server in memory only.
type SessionStore struct {
	sessions map[string]*Entry
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Entry),
	}
}

func (s *SessionStore) Get(sessionID string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, exists := s.sessions[sessionID]
	return entry, exists
}

// Set stores sess under sessionID, replacing any existing entry.
func (s *SessionStore) Set(sessionID string, sess *session.Session) *Entry {
	entry := &Entry{
		ID:        sessionID,
		CreatedAt: time.Now(),
		session:   sess,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = entry
	return entry
}

func (s *SessionStore) GetAll() map[string]*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*Entry, len(s.sessions))
	for k, v := range s.sessions {
		result[k] = v
	}
	return result
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len reports how many sessions are stored
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
