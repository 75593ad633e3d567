package tokens

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ristorante/site/internal/config"
)

const secret = "test-secret-32-bytes-should-be-long-enough"

func TestIssue_ValidAndClaims(t *testing.T) {
	iss := NewIssuer(secret, 2*time.Minute)
	tokenStr, exp, err := iss.Issue("admin")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if time.Until(exp) <= time.Minute {
		t.Fatalf("unexpected expiry: %v", exp)
	}

	parsed, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("claims type assertion failed")
	}
	if claims["sub"] != "admin" || claims["role"] != RoleAdmin {
		t.Fatalf("unexpected claims: %v", claims)
	}
	if claims["jti"] == "" {
		t.Fatalf("expected a jti claim")
	}
}

func TestIssue_UniquePerCall(t *testing.T) {
	iss := NewIssuer(secret, time.Minute)
	a, _, _ := iss.Issue("admin")
	b, _, _ := iss.Issue("admin")
	if a == b {
		t.Fatalf("two tokens issued for the same subject must differ")
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.AccessTokenTTL = time.Minute
	iss := FromConfig(cfg)

	raw, _, err := iss.Issue("admin")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	tok, err := iss.Verify(context.Background(), raw)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	var claims map[string]interface{}
	if err := tok.Claims(&claims); err != nil {
		t.Fatalf("Claims error: %v", err)
	}
	if claims["sub"] != "admin" {
		t.Fatalf("unexpected sub claim: %v", claims["sub"])
	}
}

func TestVerify_Expired(t *testing.T) {
	iss := NewIssuer(secret, time.Minute)
	raw, _, err := iss.Issue("admin")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	iss.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := iss.Verify(context.Background(), raw); err == nil {
		t.Fatalf("expected verify to fail after expiry")
	}
}

func TestVerify_WrongSecretFails(t *testing.T) {
	raw, _, err := NewIssuer("secret-one-32-bytes-xxxxxxxxxxxxxxxx", time.Minute).Issue("admin")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := NewIssuer("different-secret-xxxxxxxxxxxxxxxx", time.Minute).Verify(context.Background(), raw); err == nil {
		t.Fatalf("expected verify to fail with wrong secret")
	}
}

func TestVerify_Malformed(t *testing.T) {
	if _, err := NewIssuer(secret, time.Minute).Verify(context.Background(), "not.a.jwt"); err == nil {
		t.Fatalf("expected verify to fail for malformed token")
	}
}

// Rejected when alg=none (unsigned token)
func TestVerify_AlgNoneRejected(t *testing.T) {
	headerEnc := (*jwt.Token)(nil).EncodeSegment([]byte(`{"alg":"none"}`))
	payloadEnc := (*jwt.Token)(nil).EncodeSegment([]byte(`{"sub":"admin","role":"admin","exp":9999999999}`))
	tok := headerEnc + "." + payloadEnc + "."
	if _, err := NewIssuer(secret, time.Minute).Verify(context.Background(), tok); err == nil {
		t.Fatalf("expected verify to reject alg=none token")
	}
}

func TestVerify_MissingExpiryRejected(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "admin", "role": "admin"}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewIssuer(secret, time.Minute).Verify(context.Background(), raw); err != ErrMissingExpiry {
		t.Fatalf("expected ErrMissingExpiry, got %v", err)
	}
}

func TestVerify_WrongRoleRejected(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x", "role": "viewer", "exp": time.Now().Add(time.Minute).Unix()}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewIssuer(secret, time.Minute).Verify(context.Background(), raw); err != ErrWrongRole {
		t.Fatalf("expected ErrWrongRole, got %v", err)
	}
}

// Tampering with payload must fail signature verification
func TestVerify_TamperedPayload(t *testing.T) {
	iss := NewIssuer(secret, 5*time.Minute)
	tokenStr, _, err := iss.Issue("user-t")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token parts")
	}
	payloadBytes, _ := jwt.NewParser().DecodeSegment(parts[1])
	parts[1] = (*jwt.Token)(nil).EncodeSegment([]byte(strings.Replace(string(payloadBytes), "user-t", "attacker", 1)))
	if _, err := iss.Verify(context.Background(), strings.Join(parts, ".")); err == nil {
		t.Fatalf("expected signature verification to fail for tampered token")
	}
}

func TestExpiresAt(t *testing.T) {
	raw, exp, err := NewIssuer(secret, time.Hour).Issue("admin")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	got, err := ExpiresAt(raw)
	if err != nil {
		t.Fatalf("ExpiresAt error: %v", err)
	}
	if got.Unix() != exp.Unix() {
		t.Fatalf("ExpiresAt = %v, want %v", got, exp)
	}
	if _, err := ExpiresAt("garbage"); err == nil {
		t.Fatalf("expected error for garbage token")
	}
}
