package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local session store, used in development where a
// restart logging everyone out is acceptable.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Create stores the session and sweeps out sessions that have expired.
func (m *MemoryStore) Create(_ context.Context, s Session) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	now := m.now()
	m.mu.Lock()
	for key, existing := range m.sessions {
		if existing.Expired(now) {
			delete(m.sessions, key)
		}
	}
	m.sessions[id] = s
	m.mu.Unlock()
	return id, nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.Expired(m.now()) {
		_ = m.Delete(ctx, id)
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	clear(m.sessions)
	m.mu.Unlock()
	return nil
}
