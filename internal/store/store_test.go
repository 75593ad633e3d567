package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/ristorante/site/internal/content"
	"github.com/ristorante/site/internal/gateway"
	"github.com/ristorante/site/internal/notify"
	"github.com/stretchr/testify/require"
)

type fakePersister struct {
	mu      sync.Mutex
	loaded  map[string]any
	loadErr error
	saveErr error
	saved   []map[string]any
}

func (f *fakePersister) LoadContent(ctx context.Context) (map[string]any, error) {
	return f.loaded, f.loadErr
}

func (f *fakePersister) SaveContent(ctx context.Context, doc map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, doc)
	return f.saveErr
}

func (f *fakePersister) saves() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.saved...)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestInitAdoptsWellFormedDocument(t *testing.T) {
	remote := map[string]any{
		"_id":     "x",
		"general": map[string]any{"logo": "/remote.png"},
		"pages":   map[string]any{"home": map[string]any{"hero": map[string]any{}}},
	}
	p := &fakePersister{loaded: remote}
	rec := notify.NewRecorder(10)
	s := New(p, rec)

	require.NoError(t, s.Init(context.Background()))
	doc := s.Get()
	require.Equal(t, map[string]any{"logo": "/remote.png"}, doc.General)
	require.Equal(t, map[string]any{"home": map[string]any{"hero": map[string]any{}}}, doc.Pages)
	require.Zero(t, rec.Count(notify.LevelWarn))
	require.Empty(t, p.saves())
}

func TestInitMalformedUsesDefaultsWithOneWarning(t *testing.T) {
	p := &fakePersister{loaded: map[string]any{"foo": 1.0}}
	rec := notify.NewRecorder(10)
	s := New(p, rec)

	err := s.Init(context.Background())
	require.ErrorIs(t, err, content.ErrMalformed)
	require.Equal(t, mustJSON(t, content.Defaults()), mustJSON(t, s.Get()))
	require.Equal(t, 1, rec.Count(notify.LevelWarn))
}

func TestInitNotFoundSeedsDefaults(t *testing.T) {
	p := &fakePersister{loadErr: gateway.ErrNotFound}
	s := New(p, notify.NewRecorder(10))

	require.NoError(t, s.Init(context.Background()))
	s.Wait()
	saves := p.saves()
	require.Len(t, saves, 1)
	require.Equal(t, mustJSON(t, content.Defaults().Tree()), mustJSON(t, saves[0]))
}

func TestInitTransportErrorKeepsDefaults(t *testing.T) {
	p := &fakePersister{loadErr: errors.New("connection refused")}
	rec := notify.NewRecorder(10)
	s := New(p, rec)

	require.Error(t, s.Init(context.Background()))
	require.Equal(t, mustJSON(t, content.Defaults()), mustJSON(t, s.Get()))
	require.Equal(t, 1, rec.Count(notify.LevelWarn))
	require.Empty(t, p.saves())
}

func TestMergePageLeavesSiblingsUntouched(t *testing.T) {
	p := &fakePersister{}
	s := New(p, notify.NewRecorder(10))
	before := s.Get()

	require.NoError(t, s.MergePage(content.PageContact, map[string]any{"phone": "+39 000"}))
	s.Wait()
	after := s.Get()

	require.Equal(t, "+39 000", after.Pages[content.PageContact].(map[string]any)["phone"])
	require.Equal(t, mustJSON(t, before.General), mustJSON(t, after.General))
	for _, page := range content.Pages {
		if page == content.PageContact {
			continue
		}
		require.Equal(t, mustJSON(t, before.Pages[page]), mustJSON(t, after.Pages[page]), page)
	}
	bc := before.Pages[content.PageContact].(map[string]any)
	ac := after.Pages[content.PageContact].(map[string]any)
	for k := range bc {
		if k == "phone" {
			continue
		}
		require.Equal(t, mustJSON(t, bc[k]), mustJSON(t, ac[k]), k)
	}
	require.Len(t, p.saves(), 1)
}

func TestMergePageUnknownPage(t *testing.T) {
	s := New(&fakePersister{}, notify.NewRecorder(10))
	err := s.MergePage("blog", map[string]any{"x": "y"})
	require.ErrorIs(t, err, ErrUnknownPage)
}

func TestMergeTopReplacesOnlyGivenSections(t *testing.T) {
	s := New(&fakePersister{}, notify.NewRecorder(10))
	pagesBefore := mustJSON(t, s.Get().Pages)

	s.MergeTop(map[string]any{"general": map[string]any{"logo": "/new.png"}})
	s.Wait()

	doc := s.Get()
	require.Equal(t, map[string]any{"logo": "/new.png"}, doc.General)
	require.Equal(t, pagesBefore, mustJSON(t, doc.Pages))
}

func TestGetReturnsIsolatedCopy(t *testing.T) {
	s := New(&fakePersister{}, notify.NewRecorder(10))
	doc := s.Get()
	doc.General["logo"] = "/mutated.png"
	require.Equal(t, "/logo.png", s.Get().General["logo"])
}

func TestSaveFailureKeepsMemoryAndWarns(t *testing.T) {
	p := &fakePersister{saveErr: errors.New("boom")}
	rec := notify.NewRecorder(10)
	s := New(p, rec)

	require.NoError(t, s.MergePage(content.PageContact, map[string]any{"email": "a@b.c"}))
	s.Wait()

	require.False(t, s.Saving())
	require.Equal(t, "a@b.c", s.Get().Pages[content.PageContact].(map[string]any)["email"])
	require.Equal(t, 1, rec.Count(notify.LevelWarn))
}
