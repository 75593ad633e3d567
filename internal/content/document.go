package content

import (
	_ "embed"
	"encoding/json"
	"errors"
)

//go:embed defaults.json
var defaultsJSON []byte

// ErrMalformed is returned for a payload that lacks the general or pages object.
var ErrMalformed = errors.New("content document must carry general and pages objects")

// Document is the single site content document.
type Document struct {
	General Tree `json:"general"`
	Pages   Tree `json:"pages"`
}

// Defaults returns a fresh copy of the seed document.
func Defaults() Document {
	var doc Document
	if err := json.Unmarshal(defaultsJSON, &doc); err != nil {
		panic("content: invalid embedded defaults: " + err.Error())
	}
	return doc
}

// Validate reports whether raw is a well-formed content document: both
// general and pages must be objects. Other top-level keys are ignored.
func Validate(raw map[string]any) error {
	if raw == nil {
		return ErrMalformed
	}
	if _, ok := AsTree(raw["general"]); !ok {
		return ErrMalformed
	}
	if _, ok := AsTree(raw["pages"]); !ok {
		return ErrMalformed
	}
	return nil
}

// FromTree adopts a validated payload. Only general and pages are kept;
// storage metadata such as _id or updatedAt is dropped.
func FromTree(raw map[string]any) (Document, error) {
	if err := Validate(raw); err != nil {
		return Document{}, err
	}
	return Document{
		General: CloneTree(raw["general"].(map[string]any)),
		Pages:   CloneTree(raw["pages"].(map[string]any)),
	}, nil
}

// Tree returns the document in its wire form.
func (d Document) Tree() Tree {
	return Tree{"general": CloneTree(d.General), "pages": CloneTree(d.Pages)}
}

// Clone deep-copies the document.
func (d Document) Clone() Document {
	return Document{General: CloneTree(d.General), Pages: CloneTree(d.Pages)}
}

// Page returns the subtree for name. A page missing from the stored document
// falls back to the default shape for that page.
func (d Document) Page(name string) Tree {
	if p, ok := AsTree(d.Pages[name]); ok {
		return p
	}
	if p, ok := AsTree(Defaults().Pages[name]); ok {
		return p
	}
	return Tree{}
}

// SiteName returns general.siteName, empty when it is not bilingual.
func (d Document) SiteName() Bilingual {
	b, _ := DecodeBilingual(d.General["siteName"])
	return b
}

// Categories decodes pages.menu.categories, skipping malformed entries.
func (d Document) Categories() []MenuCategory {
	list, _ := AsList(d.Page(PageMenu)["categories"])
	out := make([]MenuCategory, 0, len(list))
	for _, el := range list {
		var c MenuCategory
		if err := DecodeRecord(el, &c); err == nil && c.ID != "" {
			out = append(out, c)
		}
	}
	return out
}

// MenuItems decodes pages.menu.items, skipping malformed entries.
func (d Document) MenuItems() []MenuItem {
	list, _ := AsList(d.Page(PageMenu)["items"])
	out := make([]MenuItem, 0, len(list))
	for _, el := range list {
		var it MenuItem
		if err := DecodeRecord(el, &it); err == nil && it.ID != "" {
			out = append(out, it)
		}
	}
	return out
}

// HasCategory reports whether a category with id exists.
func (d Document) HasCategory(id string) bool {
	for _, c := range d.Categories() {
		if c.ID == id {
			return true
		}
	}
	return false
}
