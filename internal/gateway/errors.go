package gateway

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a collection holds no document yet.
var ErrNotFound = errors.New("document not found")

// StatusError is returned for any non-2xx response other than 404.
type StatusError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Status, e.Body)
}

// Collection names on the persistence service.
const (
	CollectionContent      = "content"
	CollectionTranslations = "translations"
)
