package document

import (
	"errors"
	"time"
)

// Collections served by the persistence service. Each holds at most one
// live document: the most recently updated one.
const (
	CollectionContent      = "content"
	CollectionTranslations = "translations"
)

var ErrUnknownCollection = errors.New("unknown collection")

// IsCollection reports whether name is a served collection.
func IsCollection(name string) bool {
	return name == CollectionContent || name == CollectionTranslations
}

// Reserved keys are owned by storage and never taken from a request body.
const (
	KeyID        = "_id"
	KeyCreatedAt = "createdAt"
	KeyUpdatedAt = "updatedAt"
)

// Record is a stored document: the client's fields plus storage metadata.
type Record struct {
	ID        string
	Fields    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Body returns the wire form: the fields with _id, createdAt and updatedAt.
func (r *Record) Body() map[string]any {
	out := make(map[string]any, len(r.Fields)+3)
	for k, v := range r.Fields {
		out[k] = v
	}
	out[KeyID] = r.ID
	out[KeyCreatedAt] = r.CreatedAt.UTC().Format(time.RFC3339Nano)
	out[KeyUpdatedAt] = r.UpdatedAt.UTC().Format(time.RFC3339Nano)
	return out
}

// StripReserved returns body without the storage-owned keys.
func StripReserved(body map[string]any) map[string]any {
	out := make(map[string]any, len(body))
	for k, v := range body {
		switch k {
		case KeyID, KeyCreatedAt, KeyUpdatedAt, "__v":
			continue
		}
		out[k] = v
	}
	return out
}
