package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"smart_email_generator/generator"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists sessions between requests. Loaded sessions have no
// agent attached and are private to the caller until saved again.
type SessionStore interface {
	Save(ctx context.Context, sess *generator.Session) error
	Load(ctx context.Context, id string) (*generator.Session, error)
}

type memoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*generator.Session
}

// NewMemoryStore keeps sessions in process. ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) SessionStore {
	return &memoryStore{ttl: ttl, sessions: make(map[string]*generator.Session)}
}

func (s *memoryStore) Save(_ context.Context, sess *generator.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := sess.Clone()
	stored.Attach(nil)
	s.sessions[sess.ID] = stored
	s.pruneLocked(time.Now())
	return nil
}

func (s *memoryStore) Load(_ context.Context, id string) (*generator.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || s.expired(sess, time.Now()) {
		return nil, ErrSessionNotFound
	}
	return sess.Clone(), nil
}

func (s *memoryStore) expired(sess *generator.Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.UpdatedAt) > s.ttl
}

func (s *memoryStore) pruneLocked(now time.Time) {
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
		}
	}
}

func newSessionID() string {
	return uuid.NewString()
}

// sessionLocks serialises requests that touch the same session.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *sessionLocks) lock(id string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}
