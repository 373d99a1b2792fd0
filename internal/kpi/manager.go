package kpi

import (
	"context"
	"sync"
)

// Manager owns the live sessions, one per authenticated user. Sessions
// are created (and loaded) on first use and dropped explicitly on
// logout, replacing the ambient shared state the dashboard used to keep.
type Manager struct {
	store Store
	opts  []Option

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// sessionEntry gates the first load so concurrent requests for a new
// user all wait for it instead of seeing unloaded catalog state.
type sessionEntry struct {
	session *Session
	once    sync.Once
	loadErr error
}

func NewManager(store Store, opts ...Option) *Manager {
	return &Manager{
		store:    store,
		opts:     opts,
		sessions: make(map[string]*sessionEntry),
	}
}

// Session returns the user's session, creating and loading it on first
// sight. Concurrent first requests share a single load. A load failure
// discards the half-initialized session so the next request retries
// from scratch.
func (m *Manager) Session(ctx context.Context, userID string) (*Session, error) {
	m.mu.Lock()
	e, ok := m.sessions[userID]
	if !ok {
		e = &sessionEntry{session: NewSession(userID, m.store, m.opts...)}
		m.sessions[userID] = e
	}
	m.mu.Unlock()

	e.once.Do(func() {
		e.loadErr = e.session.Load(ctx)
	})
	if e.loadErr != nil {
		m.drop(userID, e)
		return nil, e.loadErr
	}
	return e.session, nil
}

// Drop tears down the user's session.
func (m *Manager) Drop(userID string) {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
}

// drop removes the entry only if it is still the one in the map, so a
// failed load cannot evict a newer session created in the meantime.
func (m *Manager) drop(userID string, e *sessionEntry) {
	m.mu.Lock()
	if m.sessions[userID] == e {
		delete(m.sessions, userID)
	}
	m.mu.Unlock()
}

// Active reports the number of live sessions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
