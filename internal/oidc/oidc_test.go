package oidc

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ristorante/site/internal/config"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://sso.example.com/realms/ristorante"
	testClientID = "site-admin"
)

func staticVerifier(t *testing.T) (*Verifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ks := &gooidc.StaticKeySet{PublicKeys: []crypto.PublicKey{key.Public()}}
	return &Verifier{verifier: gooidc.NewVerifier(testIssuer, ks, &gooidc.Config{ClientID: testClientID})}, key
}

func sign(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return raw
}

func TestVerifyAcceptsRealmToken(t *testing.T) {
	v, key := staticVerifier(t)
	raw := sign(t, key, jwt.MapClaims{
		"iss": testIssuer,
		"aud": testClientID,
		"sub": "chef",
		"exp": time.Now().Add(time.Minute).Unix(),
		"iat": time.Now().Unix(),
	})
	tok, err := v.Verify(context.Background(), raw)
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "chef", claims["sub"])
}

func TestVerifyRejectsOtherAudience(t *testing.T) {
	v, key := staticVerifier(t)
	raw := sign(t, key, jwt.MapClaims{
		"iss": testIssuer,
		"aud": "someone-else",
		"sub": "chef",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	_, err := v.Verify(context.Background(), raw)
	require.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	v, key := staticVerifier(t)
	raw := sign(t, key, jwt.MapClaims{
		"iss": testIssuer,
		"aud": testClientID,
		"sub": "chef",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	_, err := v.Verify(context.Background(), raw)
	require.Error(t, err)
}

func TestNewVerifierRequiresConfig(t *testing.T) {
	_, err := NewVerifier(context.Background(), config.KeycloakConfig{URL: "http://kc"})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewVerifierDiscoveryFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	_, err := NewVerifier(context.Background(), config.KeycloakConfig{URL: srv.URL, Realm: "ristorante", ClientID: testClientID})
	require.Error(t, err)
	require.Contains(t, err.Error(), "discover")
}

func TestIssuer(t *testing.T) {
	require.Equal(t, "https://sso.example.com/realms/ristorante",
		Issuer(config.KeycloakConfig{URL: "https://sso.example.com/", Realm: "ristorante"}))
}
