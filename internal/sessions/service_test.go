package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateAndValidateSession(t *testing.T) {
	svc := NewService(NewMemoryRepository(), time.Hour)
	ctx := context.Background()
	r, err := svc.CreateSession(ctx, "admin")
	require.NoError(t, err)
	require.Len(t, r, 64)

	sess, err := svc.ValidateRefresh(ctx, r)
	require.NoError(t, err)
	require.Equal(t, "admin", sess.Sub)

	require.NoError(t, svc.DeleteRefresh(ctx, r))
	_, err = svc.ValidateRefresh(ctx, r)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestExpiredSessionIsRemoved(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, time.Hour)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &Session{TokenHash: Digest("old"), Sub: "admin", ExpiresAt: time.Now().UTC().Add(-time.Minute)}))

	_, err := svc.ValidateRefresh(ctx, "old")
	require.ErrorIs(t, err, ErrInvalidRefresh)
	got, err := repo.Get(ctx, Digest("old"))
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRotateConsumesOldToken(t *testing.T) {
	svc := NewService(NewMemoryRepository(), time.Hour)
	ctx := context.Background()
	first, err := svc.CreateSession(ctx, "admin")
	require.NoError(t, err)

	sess, second, err := svc.Rotate(ctx, first)
	require.NoError(t, err)
	require.Equal(t, "admin", sess.Sub)
	require.NotEqual(t, first, second)

	_, _, err = svc.Rotate(ctx, first)
	require.ErrorIs(t, err, ErrInvalidRefresh)
	_, err = svc.ValidateRefresh(ctx, second)
	require.NoError(t, err)
}

func TestDefaultTTL(t *testing.T) {
	svc := NewService(NewMemoryRepository(), 0)
	require.Equal(t, 7*24*time.Hour, svc.ttl)
}

func TestOnlyDigestIsStored(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, time.Hour)
	r, err := svc.CreateSession(context.Background(), "admin")
	require.NoError(t, err)

	require.Len(t, repo.sessions, 1)
	for hash, s := range repo.sessions {
		require.Equal(t, Digest(r), hash)
		require.NotEqual(t, r, hash)
		require.Equal(t, hash, s.TokenHash)
	}
}

func TestSessionExpiresAfterTTL(t *testing.T) {
	svc := NewService(NewMemoryRepository(), time.Hour)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	r, err := svc.CreateSession(ctx, "admin")
	require.NoError(t, err)
	now = now.Add(59 * time.Minute)
	_, err = svc.ValidateRefresh(ctx, r)
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = svc.ValidateRefresh(ctx, r)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}
