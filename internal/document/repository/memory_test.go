package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ristorante/site/internal/content"
	"github.com/ristorante/site/internal/document"
	"github.com/stretchr/testify/require"
)

func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestMemoryRepoUpsert(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	r.now = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := r.Latest(ctx, document.CollectionContent)
	require.ErrorIs(t, err, ErrNotFound)

	rec, created, err := r.Upsert(ctx, document.CollectionContent, map[string]any{"general": map[string]any{"a": "1"}, "pages": map[string]any{}})
	require.NoError(t, err)
	require.True(t, created)
	require.NotEmpty(t, rec.ID)

	rec2, created, err := r.Upsert(ctx, document.CollectionContent, map[string]any{"general": map[string]any{"b": "2"}, "_id": "ignored"})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, rec.ID, rec2.ID)
	require.Equal(t, rec.CreatedAt, rec2.CreatedAt)
	require.True(t, rec2.UpdatedAt.After(rec.UpdatedAt))
	// shallow merge at the root: general is replaced, pages kept
	require.Equal(t, map[string]any{"b": "2"}, rec2.Fields["general"])
	require.Equal(t, map[string]any{}, rec2.Fields["pages"])

	got, err := r.Latest(ctx, document.CollectionContent)
	require.NoError(t, err)
	require.Equal(t, rec2.Fields, got.Fields)

	_, err = r.Latest(ctx, document.CollectionTranslations)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	rec, _, err := r.Upsert(ctx, document.CollectionContent, map[string]any{"general": map[string]any{"a": "1"}})
	require.NoError(t, err)
	rec.Fields["general"].(map[string]any)["a"] = "mutated"

	got, err := r.Latest(ctx, document.CollectionContent)
	require.NoError(t, err)
	require.Equal(t, "1", got.Fields["general"].(map[string]any)["a"])
}

func TestSaveOfLoadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	r.now = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	_, _, err := r.Upsert(ctx, document.CollectionContent, content.Defaults().Tree())
	require.NoError(t, err)

	loaded, err := r.Latest(ctx, document.CollectionContent)
	require.NoError(t, err)
	saved, created, err := r.Upsert(ctx, document.CollectionContent, loaded.Body())
	require.NoError(t, err)
	require.False(t, created)

	require.Equal(t, loaded.ID, saved.ID)
	require.Equal(t, loaded.CreatedAt, saved.CreatedAt)
	require.Equal(t, loaded.Fields, saved.Fields)
	require.NotEqual(t, loaded.UpdatedAt, saved.UpdatedAt)
}

func TestNormalizeBSON(t *testing.T) {
	in := map[string]any{"a": []any{int32(1), map[string]any{"b": int64(2)}}}
	require.Equal(t, map[string]any{"a": []any{1.0, map[string]any{"b": 2.0}}}, normalize(in))
}
