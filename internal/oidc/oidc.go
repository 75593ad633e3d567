package oidc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/ristorante/site/internal/config"
	"github.com/ristorante/site/pkg/middleware"
)

// ErrNotConfigured is returned when the Keycloak section is incomplete.
var ErrNotConfigured = errors.New("keycloak is not configured")

// idVerifier is satisfied by *oidc.IDTokenVerifier and by test fakes.
type idVerifier interface {
	Verify(ctx context.Context, raw string) (*oidc.IDToken, error)
}

// Verifier accepts ID tokens issued by the staff SSO realm as admin tokens.
type Verifier struct {
	verifier idVerifier
}

// Issuer returns the realm issuer URL for cfg.
func Issuer(cfg config.KeycloakConfig) string {
	return strings.TrimRight(cfg.URL, "/") + "/realms/" + cfg.Realm
}

// NewVerifier discovers the realm and builds a verifier for its client ID.
func NewVerifier(ctx context.Context, cfg config.KeycloakConfig) (*Verifier, error) {
	if cfg.URL == "" || cfg.Realm == "" || cfg.ClientID == "" {
		return nil, ErrNotConfigured
	}
	provider, err := oidc.NewProvider(ctx, Issuer(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	return &Verifier{verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})}, nil
}

// Verify implements middleware.Verifier.
func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	return idToken, nil
}
