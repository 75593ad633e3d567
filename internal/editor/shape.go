package editor

import (
	"encoding/json"
	"strings"

	"github.com/ristorante/site/internal/content"
)

// EditKind is the closed set of edit forms. Each variant carries exactly
// what its form needs.
type EditKind interface {
	Kind() string
	editKind()
}

type ImagePath struct {
	Value       string `json:"value"`
	Placeholder string `json:"placeholder"`
}

// Leaf is a single-line editor. Value is a string, or a float64 when Numeric.
type Leaf struct {
	Value   any  `json:"value"`
	Numeric bool `json:"numeric"`
}

type BilingualText struct {
	Value     content.Bilingual `json:"value"`
	Multiline bool              `json:"multiline"`
}

type TimeRangeForm struct {
	Value content.TimeRange `json:"value"`
}

type CategoryRecord struct {
	Record content.MenuCategory `json:"record"`
	New    bool                 `json:"new"`
}

// MenuItemRecord offers the live categories as options for the category select.
type MenuItemRecord struct {
	Record     content.MenuItem       `json:"record"`
	Categories []content.MenuCategory `json:"categories"`
	New        bool                   `json:"new"`
}

type StaffRecord struct {
	Record content.StaffMember `json:"record"`
	New    bool                `json:"new"`
}

// IDSelection is a checkbox list over the whole menu; Selected keeps order.
type IDSelection struct {
	Selected []string           `json:"selected"`
	Options  []content.MenuItem `json:"options"`
}

type Unsupported struct {
	Reason string `json:"reason"`
}

func (ImagePath) Kind() string      { return "image_path" }
func (Leaf) Kind() string           { return "leaf" }
func (BilingualText) Kind() string  { return "bilingual" }
func (TimeRangeForm) Kind() string  { return "time_range" }
func (CategoryRecord) Kind() string { return "category" }
func (MenuItemRecord) Kind() string { return "menu_item" }
func (StaffRecord) Kind() string    { return "staff_member" }
func (IDSelection) Kind() string    { return "id_selection" }
func (Unsupported) Kind() string    { return "unsupported" }

func (ImagePath) editKind()      {}
func (Leaf) editKind()           {}
func (BilingualText) editKind()  {}
func (TimeRangeForm) editKind()  {}
func (CategoryRecord) editKind() {}
func (MenuItemRecord) editKind() {}
func (StaffRecord) editKind()    {}
func (IDSelection) editKind()    {}
func (Unsupported) editKind()    {}

// MarshalKind encodes k as a JSON object with a "kind" discriminator.
func MarshalKind(k EditKind) ([]byte, error) {
	b, err := json.Marshal(k)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	m["kind"] = k.Kind()
	return json.Marshal(m)
}

// long-form fields get a multi-line bilingual editor.
var longForm = map[string]bool{
	"content":     true,
	"description": true,
	"bio":         true,
	"aboutText":   true,
	"text":        true,
}

func isImageKey(k Key) bool {
	raw := k.Raw
	return strings.HasSuffix(raw, ".src") ||
		raw == "hero.backgroundImage" ||
		raw == "sections.about.image" ||
		strings.Contains(raw, ".image") ||
		k.Field == "image" ||
		(k.Area == AreaSettings && k.Field == "logo")
}

// Lookup returns the current value addressed by k. Translation keys are
// not part of the document and always report false.
func Lookup(doc content.Document, k Key) (any, bool) {
	switch k.Target {
	case TargetSiteName:
		v, ok := doc.General["siteName"]
		return v, ok
	case TargetGeneral:
		v, ok := doc.General[k.Field]
		return v, ok
	case TargetTranslation:
		return nil, false
	}

	page := doc.Page(k.Area)
	switch k.Target {
	case TargetLeaf, TargetNested, TargetDictEntry, TargetFeaturedItems:
		return walk(page, k.Path)
	case TargetRecord:
		rec, _, ok := findRecord(page, k.Section, k.ID)
		return rec, ok
	case TargetRecordField:
		rec, _, ok := findRecord(page, k.Section, k.ID)
		if !ok {
			return nil, false
		}
		v, ok := rec[k.Field]
		return v, ok
	}
	return nil, false
}

func walk(node content.Tree, path []string) (any, bool) {
	var cur any = node
	for _, seg := range path {
		t, ok := content.AsTree(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = t[seg]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func findRecord(page content.Tree, section, id string) (content.Tree, int, bool) {
	list, ok := content.AsList(page[section])
	if !ok {
		return nil, -1, false
	}
	i := content.IndexByID(list, id)
	if i < 0 {
		return nil, -1, false
	}
	rec, _ := content.AsTree(list[i])
	return rec, i, true
}

// Infer picks the edit form for value at k. value is usually the result of
// Lookup; nil means the addressed record or entry does not exist yet.
func Infer(doc content.Document, k Key, value any) EditKind {
	if s, ok := value.(string); ok && isImageKey(k) {
		return ImagePath{Value: s, Placeholder: content.PlaceholderImage}
	}

	switch v := value.(type) {
	case string:
		if k.Target == TargetRecord || k.Target == TargetFeaturedItems {
			break
		}
		return Leaf{Value: v}
	case float64:
		if k.Target == TargetRecord || k.Target == TargetFeaturedItems {
			break
		}
		return Leaf{Value: v, Numeric: true}
	}

	if b, ok := content.DecodeBilingual(value); ok && k.Target != TargetRecord {
		return BilingualText{Value: b, Multiline: longForm[k.Last()]}
	}
	if k.Target == TargetTranslation && value == nil {
		return BilingualText{Multiline: longForm[k.Last()]}
	}

	if content.IsTimeRange(value) {
		var tr content.TimeRange
		if err := content.DecodeRecord(value, &tr); err == nil {
			return TimeRangeForm{Value: tr}
		}
	}

	if k.Target == TargetRecord {
		return inferRecord(doc, k, value)
	}
	if k.Target == TargetFeaturedItems {
		return inferSelection(doc, value)
	}

	if value == nil {
		return Unsupported{Reason: "nothing stored at " + k.Raw}
	}
	return Unsupported{Reason: "no editor for the value at " + k.Raw}
}

func inferRecord(doc content.Document, k Key, value any) EditKind {
	isNew := value == nil
	if !isNew {
		if _, ok := content.AsTree(value); !ok {
			return Unsupported{Reason: k.Raw + " is not a record"}
		}
	}

	switch {
	case k.Area == content.PageMenu && k.Section == "categories":
		rec := content.MenuCategory{ID: k.ID}
		if !isNew && content.DecodeRecord(value, &rec) != nil {
			return Unsupported{Reason: k.Raw + " is not a category record"}
		}
		rec.ID = k.ID
		return CategoryRecord{Record: rec, New: isNew}
	case k.Area == content.PageMenu && k.Section == "items":
		rec := content.MenuItem{ID: k.ID}
		if isNew {
			if cats := doc.Categories(); len(cats) > 0 {
				rec.Category = cats[0].ID
			}
		} else if content.DecodeRecord(value, &rec) != nil {
			return Unsupported{Reason: k.Raw + " is not a menu item record"}
		}
		rec.ID = k.ID
		return MenuItemRecord{Record: rec, Categories: doc.Categories(), New: isNew}
	case k.Area == content.PageStaff && k.Section == "team":
		rec := content.StaffMember{ID: k.ID}
		if !isNew && content.DecodeRecord(value, &rec) != nil {
			return Unsupported{Reason: k.Raw + " is not a staff record"}
		}
		rec.ID = k.ID
		return StaffRecord{Record: rec, New: isNew}
	}
	return Unsupported{Reason: k.Section + " records are edited one field at a time"}
}

func inferSelection(doc content.Document, value any) EditKind {
	selected := []string{}
	if value != nil {
		list, ok := content.AsList(value)
		if !ok {
			return Unsupported{Reason: "featured items is not a list"}
		}
		for _, el := range list {
			switch v := el.(type) {
			case string:
				selected = append(selected, v)
			case map[string]any:
				// embedded records from older documents
				if id, _ := v["id"].(string); id != "" {
					selected = append(selected, id)
				}
			}
		}
	}
	return IDSelection{Selected: selected, Options: doc.MenuItems()}
}
