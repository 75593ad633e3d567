package sessions

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Session is a refresh session of the site admin. Only a digest of the
// refresh token is stored; the token itself goes to the client once.
type Session struct {
	ID        string    `bson:"_id,omitempty" json:"id,omitempty"`
	TokenHash string    `bson:"tokenHash" json:"-"`
	Sub       string    `bson:"sub" json:"sub"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Digest is the lookup key stored for a refresh token.
func Digest(refresh string) string {
	sum := sha256.Sum256([]byte(refresh))
	return hex.EncodeToString(sum[:])
}
