package session

import (
	"context"
	"sync"
	"time"
)

// Memory is a map-backed store for dev and tests.
type Memory struct {
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]Session
	expiry   map[string]time.Time
}

// NewMemory creates an in-memory store with per-session TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:      ttl,
		sessions: make(map[string]Session),
		expiry:   make(map[string]time.Time),
	}
}

// Save stores the session, resetting its TTL.
func (m *Memory) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	m.expiry[s.ID] = time.Now().Add(m.ttl)
	return nil
}

// Get returns the session or ErrNoSession when missing or expired.
func (m *Memory) Get(_ context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNoSession
	}
	if time.Now().After(m.expiry[id]) {
		delete(m.sessions, id)
		delete(m.expiry, id)
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Delete removes the session; deleting a missing session is not an error.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.expiry, id)
	return nil
}
