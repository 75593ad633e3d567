package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ristorante/site/internal/config"
	"github.com/ristorante/site/pkg/middleware"
)

// RoleAdmin is the only role the site issues.
const RoleAdmin = "admin"

var (
	ErrMissingExpiry = errors.New("token has no expiry")
	ErrWrongRole     = errors.New("token does not grant admin access")
)

// Claims carried by an admin access token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 admin access tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// FromConfig builds an issuer from the JWT section.
func FromConfig(cfg *config.Config) *Issuer {
	return NewIssuer(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
}

func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue creates a signed access token for sub. Every token gets its own jti
// so revoking one never affects a token issued in the same second.
func (i *Issuer) Issue(sub string) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	claims := Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, exp, nil
}

// Verify implements middleware.Verifier.
func (i *Issuer) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, err
	}
	if claims.ExpiresAt == nil {
		return nil, ErrMissingExpiry
	}
	if claims.Role != RoleAdmin {
		return nil, ErrWrongRole
	}
	return &token{claims: claims}, nil
}

// ExpiresAt reads the exp claim without checking the signature. Used to size
// blacklist entries for tokens that are being revoked anyway.
func ExpiresAt(raw string) (time.Time, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrMissingExpiry
	}
	return claims.ExpiresAt.Time, nil
}

type token struct {
	claims Claims
}

func (t *token) Claims(v interface{}) error {
	b, err := json.Marshal(t.claims)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
