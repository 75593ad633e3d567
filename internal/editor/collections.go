package editor

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/ristorante/site/internal/content"
)

// DeleteCategory removes a menu category. It refuses while any menu item
// still references the category.
func DeleteCategory(doc content.Document, id string) (Update, error) {
	menu := doc.Page(content.PageMenu)
	cats, err := recordList(menu, "categories")
	if err != nil {
		return Update{}, err
	}
	if content.IndexByID(cats, id) < 0 {
		return Update{}, fmt.Errorf("%w: category %q", ErrRecordNotFound, id)
	}

	items, err := recordList(menu, "items")
	if err != nil {
		return Update{}, err
	}
	// raw records, so an item that no longer decodes still blocks
	blockers := 0
	for _, el := range items {
		if rec, ok := content.AsTree(el); ok {
			if cat, _ := rec["category"].(string); cat == id {
				blockers++
			}
		}
	}
	if blockers > 0 {
		return Update{}, &CategoryInUseError{ID: id, Count: blockers}
	}

	return Update{
		Scope:   ScopePage,
		Page:    content.PageMenu,
		Partial: map[string]any{"categories": without(cats, id)},
	}, nil
}

// DeleteMenuItem removes a menu item. Featured references to it are left in
// place and dropped when the home page is rendered.
func DeleteMenuItem(doc content.Document, id string) (Update, error) {
	return deleteRecord(doc, content.PageMenu, "items", id)
}

// DeleteGalleryImage removes a gallery image.
func DeleteGalleryImage(doc content.Document, id string) (Update, error) {
	return deleteRecord(doc, content.PageGallery, "images", id)
}

func deleteRecord(doc content.Document, page, section, id string) (Update, error) {
	list, err := recordList(doc.Page(page), section)
	if err != nil {
		return Update{}, err
	}
	if content.IndexByID(list, id) < 0 {
		return Update{}, fmt.Errorf("%w: %s %q", ErrRecordNotFound, section, id)
	}
	return Update{
		Scope:   ScopePage,
		Page:    page,
		Partial: map[string]any{section: without(list, id)},
	}, nil
}

func without(list []any, id string) []any {
	out := make([]any, 0, len(list))
	for _, el := range list {
		if rec, ok := content.AsTree(el); ok {
			if rid, _ := rec["id"].(string); rid == id {
				continue
			}
		}
		out = append(out, el)
	}
	return out
}

// NewCategoryDraft returns an empty category with a fresh id.
func NewCategoryDraft() content.MenuCategory {
	return content.MenuCategory{ID: "category_" + uuid.NewString()}
}

// NewMenuItemDraft returns an empty menu item with a fresh id, placed in
// the first live category.
func NewMenuItemDraft(doc content.Document) content.MenuItem {
	item := content.MenuItem{ID: "item_" + uuid.NewString()}
	if cats := doc.Categories(); len(cats) > 0 {
		item.Category = cats[0].ID
	}
	return item
}

// AddGalleryImage appends a placeholder image and returns it with the update.
func AddGalleryImage(doc content.Document) (Update, content.GalleryImage, error) {
	img := content.GalleryImage{
		ID:  "img_" + uuid.NewString(),
		Src: content.PlaceholderImage,
		Alt: content.Bilingual{It: "Nuova immagine", En: "New image"},
	}
	list, err := recordList(doc.Page(content.PageGallery), "images")
	if err != nil {
		return Update{}, img, err
	}
	rec, err := content.EncodeRecord(img)
	if err != nil {
		return Update{}, img, err
	}
	next := make([]any, len(list), len(list)+1)
	copy(next, list)
	next = append(next, rec)
	return Update{
		Scope:   ScopePage,
		Page:    content.PageGallery,
		Partial: map[string]any{"images": next},
	}, img, nil
}
