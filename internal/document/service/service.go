package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ristorante/site/internal/content"
	"github.com/ristorante/site/internal/document"
	"github.com/ristorante/site/internal/document/repository"
	"github.com/ristorante/site/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrInvalid reports a body that cannot be stored as-is.
	ErrInvalid = errors.New("invalid document")
)

// Service defines the persistence operations used by the handler layer.
type Service interface {
	// Load returns the live document of collection or ErrNotFound.
	Load(ctx context.Context, collection string) (*document.Record, error)
	// Save upserts body into collection; created reports an insert.
	Save(ctx context.Context, collection string, body map[string]any) (rec *document.Record, created bool, err error)
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() Service {
	return &documentService{repo: repository.NewMemoryRepo()}
}

// NewMongoService returns a Service backed by MongoDB. The caller owns the
// client and its lifetime.
func NewMongoService(db *mongo.Database) Service {
	return &documentService{repo: repository.NewMongoRepo(db)}
}

// New wraps an arbitrary repository.
func New(repo repository.Repository) Service {
	return &documentService{repo: repo}
}

type documentService struct {
	repo repository.Repository
}

func (s *documentService) Load(ctx context.Context, collection string) (*document.Record, error) {
	if !document.IsCollection(collection) {
		return nil, fmt.Errorf("%w: %q", document.ErrUnknownCollection, collection)
	}
	rec, err := s.repo.Latest(ctx, collection)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return rec, err
}

func (s *documentService) Save(ctx context.Context, collection string, body map[string]any) (*document.Record, bool, error) {
	if !document.IsCollection(collection) {
		return nil, false, fmt.Errorf("%w: %q", document.ErrUnknownCollection, collection)
	}
	body = document.StripReserved(body)
	if collection == document.CollectionTranslations {
		body = wrapTranslations(body)
	}

	_, err := s.repo.Latest(ctx, collection)
	inserting := errors.Is(err, repository.ErrNotFound)
	if err != nil && !inserting {
		return nil, false, err
	}
	if inserting {
		if err := validateInsert(collection, body); err != nil {
			return nil, false, err
		}
	}

	rec, created, err := s.repo.Upsert(ctx, collection, body)
	if err != nil {
		return nil, false, err
	}
	if created {
		logger.Infof("document: inserted %s %s", collection, rec.ID)
	} else {
		logger.Debugf("document: updated %s %s", collection, rec.ID)
	}
	return rec, created, nil
}

// wrapTranslations accepts both {translations: {...}} and a bare table.
func wrapTranslations(body map[string]any) map[string]any {
	if _, ok := content.AsTree(body["translations"]); ok {
		return body
	}
	if len(body) == 0 {
		return body
	}
	return map[string]any{"translations": body}
}

func validateInsert(collection string, body map[string]any) error {
	switch collection {
	case document.CollectionContent:
		if err := content.Validate(body); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	case document.CollectionTranslations:
		if _, ok := content.AsTree(body["translations"]); !ok {
			return fmt.Errorf("%w: translations table is required", ErrInvalid)
		}
	}
	return nil
}
