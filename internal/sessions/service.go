package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

var ErrInvalidRefresh = errors.New("invalid or expired refresh token")

// Service issues and rotates refresh sessions on top of a Repository.
type Service struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time
}

func NewService(r Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Service{repo: r, ttl: ttl, now: time.Now}
}

// CreateSession stores a new refresh session for sub and returns its token.
func (s *Service) CreateSession(ctx context.Context, sub string) (string, error) {
	r, err := newRefreshToken()
	if err != nil {
		return "", err
	}
	now := s.now().UTC().Truncate(time.Second)
	sess := &Session{
		TokenHash: Digest(r),
		Sub:       sub,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return "", err
	}
	return r, nil
}

// ValidateRefresh returns the session behind refresh or ErrInvalidRefresh.
func (s *Service) ValidateRefresh(ctx context.Context, refresh string) (*Session, error) {
	hash := Digest(refresh)
	sess, err := s.repo.Get(ctx, hash)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrInvalidRefresh
	}
	if sess.Expired(s.now()) {
		_ = s.repo.Delete(ctx, hash)
		return nil, ErrInvalidRefresh
	}
	return sess, nil
}

// Rotate consumes refresh and hands out a new refresh token for the same subject.
func (s *Service) Rotate(ctx context.Context, refresh string) (*Session, string, error) {
	sess, err := s.ValidateRefresh(ctx, refresh)
	if err != nil {
		return nil, "", err
	}
	if err := s.repo.Delete(ctx, sess.TokenHash); err != nil {
		return nil, "", err
	}
	next, err := s.CreateSession(ctx, sess.Sub)
	if err != nil {
		return nil, "", err
	}
	return sess, next, nil
}

func (s *Service) DeleteRefresh(ctx context.Context, refresh string) error {
	return s.repo.Delete(ctx, Digest(refresh))
}

func newRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
