package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/ristorante/site/internal/config"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Credentials is the single admin account of the site. Password may be
// plain text or a bcrypt hash ($2a$/$2b$/$2y$).
type Credentials struct {
	Username string
	Password string
}

func FromConfig(cfg config.AdminConfig) Credentials {
	return Credentials{Username: cfg.Username, Password: cfg.Password}
}

// Check compares the submitted pair against the configured account.
// Both fields are always compared so timing does not reveal which one failed.
func (c Credentials) Check(username, password string) error {
	if c.Username == "" || c.Password == "" {
		return ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	passOK := c.matchPassword(password)
	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}

func (c Credentials) matchPassword(password string) bool {
	if isBcrypt(c.Password) {
		return bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
