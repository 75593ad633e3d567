package gateway

import (
	"context"
	"errors"

	"github.com/ristorante/site/internal/document/service"
)

// Local serves the persister interfaces from an in-process document service.
type Local struct {
	svc service.Service
}

func NewLocal(svc service.Service) *Local {
	return &Local{svc: svc}
}

func (l *Local) LoadContent(ctx context.Context) (map[string]any, error) {
	return l.load(ctx, CollectionContent)
}

func (l *Local) SaveContent(ctx context.Context, doc map[string]any) error {
	_, _, err := l.svc.Save(ctx, CollectionContent, doc)
	return err
}

func (l *Local) LoadTranslations(ctx context.Context) (map[string]any, error) {
	return l.load(ctx, CollectionTranslations)
}

func (l *Local) SaveTranslations(ctx context.Context, table map[string]any) error {
	_, _, err := l.svc.Save(ctx, CollectionTranslations, map[string]any{"translations": table})
	return err
}

func (l *Local) load(ctx context.Context, collection string) (map[string]any, error) {
	rec, err := l.svc.Load(ctx, collection)
	if errors.Is(err, service.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.Body(), nil
}
