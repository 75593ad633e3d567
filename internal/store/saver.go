package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ristorante/site/internal/notify"
	"github.com/ristorante/site/pkg/metrics"
)

// Saver runs fire-and-forget persist calls. Each call gets its own goroutine;
// calls are neither sequenced nor cancelled, so the last one to reach the
// remote store wins.
type Saver struct {
	collection string
	notifier   notify.Notifier
	wg         sync.WaitGroup
	inflight   atomic.Int32
}

func NewSaver(collection string, n notify.Notifier) *Saver {
	return &Saver{collection: collection, notifier: n}
}

// Go starts fn in the background. A failure is reported to the notifier;
// the caller's in-memory state is never rolled back.
func (s *Saver) Go(fn func(ctx context.Context) error) {
	s.inflight.Add(1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.inflight.Add(-1)
		if err := fn(context.Background()); err != nil {
			metrics.ContentSaves.WithLabelValues(s.collection, "error").Inc()
			s.notifier.Warn(fmt.Sprintf("failed to save %s: %v", s.collection, err))
			return
		}
		metrics.ContentSaves.WithLabelValues(s.collection, "ok").Inc()
		s.notifier.Info(s.collection + " saved")
	}()
}

// Saving reports whether any save is still in flight.
func (s *Saver) Saving() bool { return s.inflight.Load() > 0 }

// Wait blocks until every started save has returned.
func (s *Saver) Wait() { s.wg.Wait() }
