package editor

import (
	"fmt"
	"sync"

	"github.com/ristorante/site/internal/content"
	"github.com/ristorante/site/internal/store"
	"github.com/ristorante/site/internal/translations"
	"github.com/ristorante/site/pkg/metrics"
)

// Editor runs parse, infer and apply against the live stores. Mutations are
// serialized so each one builds on the result of the previous.
type Editor struct {
	mu           sync.Mutex
	content      *store.Store
	translations *translations.Store
}

func New(c *store.Store, t *translations.Store) *Editor {
	return &Editor{content: c, translations: t}
}

// Form returns the edit form for key within area.
func (e *Editor) Form(area, raw string) (EditKind, error) {
	k, err := ParseKey(area, raw)
	if err != nil {
		return nil, err
	}
	doc := e.content.Get()
	if k.Target == TargetTranslation {
		var value any
		if b, ok := e.translations.Entry(k.Field); ok {
			value = map[string]any{"it": b.It, "en": b.En}
		}
		return Infer(doc, k, value), nil
	}
	value, _ := Lookup(doc, k)
	return Infer(doc, k, value), nil
}

// Submit applies value at key and commits the resulting update.
func (e *Editor) Submit(area, raw string, value any) (Update, error) {
	k, err := ParseKey(area, raw)
	if err != nil {
		return Update{}, err
	}
	var u Update
	err = e.run(func(doc content.Document) (Update, error) {
		u, err = Apply(doc, k, value)
		return u, err
	})
	if err != nil {
		return Update{}, err
	}
	metrics.ContentEdits.WithLabelValues(k.Target.String()).Inc()
	return u, nil
}

func (e *Editor) DeleteCategory(id string) error {
	return e.run(func(doc content.Document) (Update, error) { return DeleteCategory(doc, id) })
}

func (e *Editor) DeleteMenuItem(id string) error {
	return e.run(func(doc content.Document) (Update, error) { return DeleteMenuItem(doc, id) })
}

func (e *Editor) DeleteGalleryImage(id string) error {
	return e.run(func(doc content.Document) (Update, error) { return DeleteGalleryImage(doc, id) })
}

// AddCategory stores a new category. An empty id gets a generated one.
func (e *Editor) AddCategory(c content.MenuCategory) (content.MenuCategory, error) {
	if c.ID == "" {
		c.ID = NewCategoryDraft().ID
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.addRecord(content.PageMenu, "categories", c.ID, c); err != nil {
		return content.MenuCategory{}, err
	}
	return c, nil
}

// AddMenuItem stores a new menu item. An empty id gets a generated one and
// an empty category defaults to the first live category.
func (e *Editor) AddMenuItem(it content.MenuItem) (content.MenuItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	draft := NewMenuItemDraft(e.content.Get())
	if it.ID == "" {
		it.ID = draft.ID
	}
	if it.Category == "" {
		it.Category = draft.Category
	}
	if err := e.addRecord(content.PageMenu, "items", it.ID, it); err != nil {
		return content.MenuItem{}, err
	}
	return it, nil
}

func (e *Editor) AddGalleryImage() (content.GalleryImage, error) {
	var img content.GalleryImage
	err := e.run(func(doc content.Document) (u Update, err error) {
		u, img, err = AddGalleryImage(doc)
		return u, err
	})
	if err != nil {
		return content.GalleryImage{}, err
	}
	return img, nil
}

// addRecord expects e.mu to be held.
func (e *Editor) addRecord(page, section, id string, rec any) error {
	k, err := ParseKey(page, section+"."+id)
	if err != nil {
		return err
	}
	doc := e.content.Get()
	if _, exists := Lookup(doc, k); exists {
		return fmt.Errorf("%w: %s %q already exists", ErrInvalidKey, section, id)
	}
	u, err := Apply(doc, k, rec)
	if err != nil {
		return err
	}
	return e.commit(u)
}

// run reads, computes and commits under e.mu.
func (e *Editor) run(op func(content.Document) (Update, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	u, err := op(e.content.Get())
	if err != nil {
		return err
	}
	return e.commit(u)
}

func (e *Editor) commit(u Update) error {
	switch u.Scope {
	case ScopeTranslation:
		e.translations.EditEntry(u.TranslationKey, u.Translation)
		return nil
	case ScopeTop:
		e.content.MergeTop(u.Partial)
		return nil
	default:
		return e.content.MergePage(u.Page, u.Partial)
	}
}
