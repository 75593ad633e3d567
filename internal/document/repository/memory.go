package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ristorante/site/internal/content"
	"github.com/ristorante/site/internal/document"
)

var (
	ErrNotFound = errors.New("document not found")
)

// Repository stores the single live document of each collection.
type Repository interface {
	// Latest returns the most recently updated document or ErrNotFound.
	Latest(ctx context.Context, collection string) (*document.Record, error)
	// Upsert merges fields onto the latest document and bumps its
	// updatedAt, or inserts a new document. created reports an insert.
	Upsert(ctx context.Context, collection string, fields map[string]any) (rec *document.Record, created bool, err error)
}

// MemoryRepo keeps documents in process memory. Used by tests and when
// MongoDB is not configured.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string][]*document.Record
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string][]*document.Record), now: time.Now}
}

func (m *MemoryRepo) latest(collection string) *document.Record {
	var best *document.Record
	for _, r := range m.store[collection] {
		if best == nil || !r.UpdatedAt.Before(best.UpdatedAt) {
			best = r
		}
	}
	return best
}

func (m *MemoryRepo) Latest(ctx context.Context, collection string) (*document.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r := m.latest(collection)
	if r == nil {
		return nil, ErrNotFound
	}
	return clone(r), nil
}

func (m *MemoryRepo) Upsert(ctx context.Context, collection string, fields map[string]any) (*document.Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	fields = document.StripReserved(fields)

	if r := m.latest(collection); r != nil {
		r.Fields = content.Merge(r.Fields, content.CloneTree(fields))
		r.UpdatedAt = now
		return clone(r), false, nil
	}

	r := &document.Record{
		ID:        uuid.NewString(),
		Fields:    content.CloneTree(fields),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.store[collection] = append(m.store[collection], r)
	return clone(r), true, nil
}

func clone(r *document.Record) *document.Record {
	cp := *r
	cp.Fields = content.CloneTree(r.Fields)
	return &cp
}
