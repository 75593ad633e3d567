package sessions

import (
	"context"
	"sync"
)

// MemoryRepository keeps sessions in process. Used when neither Redis nor
// MongoDB is configured; sessions do not survive a restart.
type MemoryRepository struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sessions: map[string]Session{}}
}

func (m *MemoryRepository) Create(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.TokenHash] = *s
	return nil
}

func (m *MemoryRepository) Get(ctx context.Context, tokenHash string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[tokenHash]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, tokenHash)
	return nil
}
