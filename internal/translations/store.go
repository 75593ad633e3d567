package translations

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ristorante/site/internal/content"
	"github.com/ristorante/site/internal/gateway"
	"github.com/ristorante/site/internal/notify"
	"github.com/ristorante/site/internal/store"
	"github.com/ristorante/site/pkg/logger"
)

// Persister loads and saves the translations collection. LoadTranslations
// returns the stored document ({translations: {...}}) or gateway.ErrNotFound.
type Persister interface {
	LoadTranslations(ctx context.Context) (map[string]any, error)
	SaveTranslations(ctx context.Context, table map[string]any) error
}

// Store owns the live translation table.
type Store struct {
	mu       sync.RWMutex
	table    Table
	persist  Persister
	notifier notify.Notifier
	saver    *store.Saver
	log      *logger.Scoped
}

func NewStore(p Persister, n notify.Notifier) *Store {
	return &Store{
		table:    Defaults(),
		persist:  p,
		notifier: n,
		saver:    store.NewSaver(gateway.CollectionTranslations, n),
		log:      logger.Component("translations"),
	}
}

// Init fetches the stored table, seeding the defaults when none exists.
func (s *Store) Init(ctx context.Context) error {
	raw, err := s.persist.LoadTranslations(ctx)
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		s.log.Infof("no stored translations, seeding defaults")
		s.save()
		return nil
	case err != nil:
		s.notifier.Warn(fmt.Sprintf("failed to load translations, using defaults: %v", err))
		return err
	}

	table, err := Decode(raw)
	if err != nil {
		s.notifier.Warn("received translations in an invalid format, using defaults")
		return err
	}
	s.mu.Lock()
	s.table = table
	s.mu.Unlock()
	return nil
}

// Get looks key up in lang, falling back to the key.
func (s *Store) Get(key, lang string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Lookup(key, lang)
}

// Entry returns the pair stored under key.
func (s *Store) Entry(key string) (content.Bilingual, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.table[key]
	return b, ok
}

// All returns a copy of the whole table.
func (s *Store) All() Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Clone()
}

// SetAll replaces the whole table.
func (s *Store) SetAll(t Table) {
	s.mu.Lock()
	s.table = t.Clone()
	s.mu.Unlock()
	s.save()
}

// EditEntry replaces the entry for key, keeping every other entry.
func (s *Store) EditEntry(key string, pair content.Bilingual) {
	s.mu.Lock()
	next := s.table.Clone()
	next[key] = pair
	s.table = next
	s.mu.Unlock()
	s.save()
}

func (s *Store) Saving() bool { return s.saver.Saving() }

func (s *Store) Wait() { s.saver.Wait() }

func (s *Store) save() {
	snapshot := s.All().Tree()
	s.saver.Go(func(ctx context.Context) error {
		return s.persist.SaveTranslations(ctx, snapshot)
	})
}
