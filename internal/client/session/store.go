package session

import (
	"context"
	"sync"

	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/domain"
)

// Session is the client-side credential: the bearer token plus a cached user
// snapshot. The snapshot only seeds optimistic UI; authorization decisions
// always go back to the server.
type Session struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Store is one storage tier for the active session. Exactly one tier holds
// the session at any time.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context) (*Session, error)
	Clear(ctx context.Context) error
}

// MemoryStore is the ephemeral tier: it vanishes with the process, the way
// session-scoped browser storage vanishes with the browsing session.
type MemoryStore struct {
	mu      sync.Mutex
	session *Session
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	return nil
}

func (m *MemoryStore) Load(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}
