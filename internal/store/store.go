package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ristorante/site/internal/content"
	"github.com/ristorante/site/internal/gateway"
	"github.com/ristorante/site/internal/notify"
	"github.com/ristorante/site/pkg/logger"
)

var ErrUnknownPage = errors.New("unknown page")

// Persister loads and saves the content collection. LoadContent returns
// gateway.ErrNotFound when nothing has been stored yet.
type Persister interface {
	LoadContent(ctx context.Context) (map[string]any, error)
	SaveContent(ctx context.Context, doc map[string]any) error
}

// Store owns the in-memory content document. Writes apply synchronously
// and are persisted in the background.
type Store struct {
	mu       sync.RWMutex
	doc      content.Document
	persist  Persister
	notifier notify.Notifier
	saver    *Saver
	log      *logger.Scoped
}

// New returns a store seeded with the default document.
func New(p Persister, n notify.Notifier) *Store {
	return &Store{
		doc:      content.Defaults(),
		persist:  p,
		notifier: n,
		saver:    NewSaver(gateway.CollectionContent, n),
		log:      logger.Component("store"),
	}
}

// Init fetches the remote document. When none exists the defaults are
// written back. Transport errors and malformed payloads leave the defaults
// in place with a single warning.
func (s *Store) Init(ctx context.Context) error {
	raw, err := s.persist.LoadContent(ctx)
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		s.log.Infof("no stored content, seeding defaults")
		s.save()
		return nil
	case err != nil:
		s.notifier.Warn(fmt.Sprintf("failed to load content, using defaults: %v", err))
		return err
	}

	doc, err := content.FromTree(raw)
	if err != nil {
		s.notifier.Warn("received content in an invalid format, using defaults")
		return err
	}

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	s.log.Infof("content loaded")
	return nil
}

// Get returns a deep copy of the current document.
func (s *Store) Get() content.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// MergeTop shallow-merges partial onto the root. Only general and pages are
// meaningful keys; anything else is ignored.
func (s *Store) MergeTop(partial map[string]any) {
	s.mu.Lock()
	if g, ok := content.AsTree(partial["general"]); ok {
		s.doc.General = content.CloneTree(g)
	}
	if p, ok := content.AsTree(partial["pages"]); ok {
		s.doc.Pages = content.CloneTree(p)
	}
	s.mu.Unlock()
	s.save()
}

// MergePage shallow-merges partial onto pages[page].
func (s *Store) MergePage(page string, partial map[string]any) error {
	if !content.IsPage(page) {
		return fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}
	s.mu.Lock()
	current := s.doc.Page(page)
	pages := content.Merge(s.doc.Pages, nil)
	pages[page] = content.Merge(current, content.CloneTree(partial))
	s.doc.Pages = pages
	s.mu.Unlock()
	s.save()
	return nil
}

// Saving reports whether a background save is in flight.
func (s *Store) Saving() bool { return s.saver.Saving() }

// Wait blocks until in-flight saves have finished.
func (s *Store) Wait() { s.saver.Wait() }

func (s *Store) save() {
	snapshot := s.Get().Tree()
	s.saver.Go(func(ctx context.Context) error {
		return s.persist.SaveContent(ctx, snapshot)
	})
}
