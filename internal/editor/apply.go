package editor

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/ristorante/site/internal/content"
)

// Scope says which store operation an Update goes through.
type Scope int

const (
	ScopePage Scope = iota
	ScopeTop
	ScopeTranslation
)

func (s Scope) String() string {
	switch s {
	case ScopeTop:
		return "top"
	case ScopeTranslation:
		return "translation"
	default:
		return "page"
	}
}

// Update is a correctly scoped partial ready for the stores: MergePage for
// ScopePage, MergeTop for ScopeTop, EditEntry for ScopeTranslation.
type Update struct {
	Scope          Scope
	Page           string
	Partial        map[string]any
	TranslationKey string
	Translation    content.Bilingual
}

var hhmm = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// bilingual fields carried by each record collection.
var recordBilingual = map[string][]string{
	"categories": {"name"},
	"items":      {"name", "description"},
	"team":       {"role", "bio"},
	"images":     {"alt"},
}

// Apply folds edited back into doc at k and returns the partial to merge.
// doc itself is never modified.
func Apply(doc content.Document, k Key, edited any) (Update, error) {
	v, err := content.Normalize(edited)
	if err != nil {
		return Update{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	switch k.Target {
	case TargetTranslation:
		b, ok := content.DecodeBilingual(v)
		if !ok {
			return Update{}, fmt.Errorf("%w: translation %q needs an it/en pair", ErrShapeMismatch, k.Raw)
		}
		return Update{Scope: ScopeTranslation, TranslationKey: k.Field, Translation: b}, nil

	case TargetSiteName, TargetGeneral:
		current, found := Lookup(doc, k)
		nv, err := conform(doc, k, current, found, v)
		if err != nil {
			return Update{}, err
		}
		general := content.Merge(doc.General, content.Tree{k.Field: nv})
		return Update{Scope: ScopeTop, Partial: map[string]any{"general": general}}, nil

	case TargetLeaf, TargetNested:
		current, found := Lookup(doc, k)
		nv, err := conform(doc, k, current, found, v)
		if err != nil {
			return Update{}, err
		}
		return pageUpdate(doc, k.Area, k.Path, nv)

	case TargetDictEntry:
		return applyDictEntry(doc, k, v)
	case TargetFeaturedItems:
		return applyFeatured(doc, k, v)
	case TargetRecord:
		return applyRecord(doc, k, v)
	case TargetRecordField:
		return applyRecordField(doc, k, v)
	}
	return Update{}, fmt.Errorf("%w: %s", ErrUnsupported, k.Raw)
}

// pageUpdate rebuilds the objects along path and returns the top-level
// section of the page as the partial, leaving every sibling as it was.
func pageUpdate(doc content.Document, page string, path []string, value any) (Update, error) {
	next, err := setPath(doc.Page(page), path, value)
	if err != nil {
		return Update{}, err
	}
	return Update{
		Scope:   ScopePage,
		Page:    page,
		Partial: map[string]any{path[0]: next[path[0]]},
	}, nil
}

func setPath(node content.Tree, path []string, value any) (content.Tree, error) {
	if len(path) == 1 {
		return content.Merge(node, content.Tree{path[0]: value}), nil
	}
	child := content.Tree{}
	if raw, exists := node[path[0]]; exists && raw != nil {
		t, ok := content.AsTree(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not an object", ErrShapeMismatch, path[0])
		}
		child = t
	}
	inner, err := setPath(child, path[1:], value)
	if err != nil {
		return nil, err
	}
	return content.Merge(node, content.Tree{path[0]: inner}), nil
}

// conform checks edited against the form inferred for the current value and
// returns the value to store.
func conform(doc content.Document, k Key, current any, found bool, edited any) (any, error) {
	if !found || current == nil {
		switch edited.(type) {
		case string, float64:
			return edited, nil
		}
		if content.IsBilingual(edited) {
			return edited, nil
		}
		return nil, fmt.Errorf("%w: cannot create %s with this value", ErrUnsupported, k.Raw)
	}

	switch kind := Infer(doc, k, current).(type) {
	case ImagePath:
		if _, ok := edited.(string); !ok {
			return nil, fmt.Errorf("%w: %s expects an image path", ErrShapeMismatch, k.Raw)
		}
		return edited, nil
	case Leaf:
		if kind.Numeric {
			return asNumber(k, edited)
		}
		if _, ok := edited.(string); !ok {
			return nil, fmt.Errorf("%w: %s expects text", ErrShapeMismatch, k.Raw)
		}
		return edited, nil
	case BilingualText:
		return mergeBilingual(k.Raw, current, edited)
	case TimeRangeForm:
		return mergeTimeRange(k.Raw, current, edited)
	case Unsupported:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, kind.Reason)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, k.Raw)
	}
}

func asNumber(k Key, v any) (any, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects a number", ErrInvalidValue, k.Raw)
		}
		return f, nil
	}
	return nil, fmt.Errorf("%w: %s expects a number", ErrShapeMismatch, k.Raw)
}

// mergeBilingual accepts a full or partial it/en pair and merges it onto
// current so both languages stay present.
func mergeBilingual(name string, current, edited any) (any, error) {
	e, ok := content.AsTree(edited)
	if !ok || len(e) == 0 {
		return nil, fmt.Errorf("%w: %s expects an it/en pair", ErrShapeMismatch, name)
	}
	out := content.Tree{"it": "", "en": ""}
	if c, ok := content.AsTree(current); ok {
		for _, lang := range []string{content.LangIT, content.LangEN} {
			if s, ok := c[lang].(string); ok {
				out[lang] = s
			}
		}
	}
	for key, val := range e {
		s, ok := val.(string)
		if (key != content.LangIT && key != content.LangEN) || !ok {
			return nil, fmt.Errorf("%w: %s expects an it/en pair", ErrShapeMismatch, name)
		}
		out[key] = s
	}
	return out, nil
}

func mergeTimeRange(name string, current, edited any) (any, error) {
	e, ok := content.AsTree(edited)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects open/close times", ErrShapeMismatch, name)
	}
	out := content.Tree{}
	if c, ok := content.AsTree(current); ok {
		out["open"], out["close"] = c["open"], c["close"]
	}
	for key, val := range e {
		if key != "open" && key != "close" {
			return nil, fmt.Errorf("%w: %s has unexpected field %q", ErrShapeMismatch, name, key)
		}
		out[key] = val
	}
	open, _ := out["open"].(string)
	closing, _ := out["close"].(string)
	// both empty marks the day closed
	if open == "" && closing == "" && out["open"] != nil && out["close"] != nil {
		return out, nil
	}
	for _, key := range []string{"open", "close"} {
		s, ok := out[key].(string)
		if !ok || !hhmm.MatchString(s) {
			return nil, fmt.Errorf("%w: %s.%s must be HH:MM", ErrInvalidValue, name, key)
		}
	}
	return out, nil
}

func applyDictEntry(doc content.Document, k Key, v any) (Update, error) {
	current, _ := Lookup(doc, k)
	var nv any
	switch k.Section {
	case "hours":
		tr, err := mergeTimeRange(k.Raw, current, v)
		if err != nil {
			return Update{}, err
		}
		nv = tr
	default:
		if _, ok := v.(string); !ok {
			return Update{}, fmt.Errorf("%w: %s expects a link", ErrShapeMismatch, k.Raw)
		}
		nv = v
	}
	return pageUpdate(doc, k.Area, k.Path, nv)
}

func applyFeatured(doc content.Document, k Key, v any) (Update, error) {
	var list []any
	if v != nil {
		l, ok := content.AsList(v)
		if !ok {
			return Update{}, fmt.Errorf("%w: featured items expects a list of ids", ErrShapeMismatch)
		}
		list = l
	}
	seen := map[string]bool{}
	ids := make([]any, 0, len(list))
	for _, el := range list {
		id, ok := el.(string)
		if !ok {
			return Update{}, fmt.Errorf("%w: featured items expects a list of ids", ErrShapeMismatch)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return pageUpdate(doc, k.Area, k.Path, ids)
}

func applyRecord(doc content.Document, k Key, v any) (Update, error) {
	page := doc.Page(k.Area)
	list, err := recordList(page, k.Section)
	if err != nil {
		return Update{}, err
	}
	idx := content.IndexByID(list, k.ID)
	var orig content.Tree
	if idx >= 0 {
		orig, _ = content.AsTree(list[idx])
	}

	var current any
	if orig != nil {
		current = orig
	}
	if kind, ok := Infer(doc, k, current).(Unsupported); ok {
		return Update{}, fmt.Errorf("%w: %s", ErrUnsupported, kind.Reason)
	}

	var rec content.Tree
	if k.Section == "categories" && isPartialBilingual(v) {
		var base content.Tree
		if orig != nil {
			base = orig
		} else {
			base = content.Tree{"id": k.ID}
		}
		name, err := mergeBilingual(k.Raw, base["name"], v)
		if err != nil {
			return Update{}, err
		}
		rec = content.Merge(base, content.Tree{"name": name})
	} else {
		e, ok := content.AsTree(v)
		if !ok {
			return Update{}, fmt.Errorf("%w: %s expects a record", ErrShapeMismatch, k.Raw)
		}
		if id, has := e["id"]; has && id != k.ID {
			return Update{}, fmt.Errorf("%w: %s", ErrImmutableID, k.ID)
		}
		rec = mergeRecord(orig, e)
		rec["id"] = k.ID
	}

	if err := completeRecord(doc, k, rec); err != nil {
		return Update{}, err
	}

	next := make([]any, len(list), len(list)+1)
	copy(next, list)
	if idx >= 0 {
		next[idx] = rec
	} else {
		next = append(next, rec)
	}
	return Update{Scope: ScopePage, Page: k.Area, Partial: map[string]any{k.Section: next}}, nil
}

func applyRecordField(doc content.Document, k Key, v any) (Update, error) {
	page := doc.Page(k.Area)
	list, err := recordList(page, k.Section)
	if err != nil {
		return Update{}, err
	}
	idx := content.IndexByID(list, k.ID)
	if idx < 0 {
		return Update{}, fmt.Errorf("%w: %s %q", ErrRecordNotFound, k.Section, k.ID)
	}
	rec, _ := content.AsTree(list[idx])

	if k.Field == "id" {
		if v != k.ID {
			return Update{}, fmt.Errorf("%w: %s", ErrImmutableID, k.ID)
		}
		return Update{Scope: ScopePage, Page: k.Area, Partial: map[string]any{k.Section: list}}, nil
	}

	current, found := rec[k.Field]
	nv, err := conform(doc, k, current, found, v)
	if err != nil {
		return Update{}, err
	}
	next := make([]any, len(list))
	copy(next, list)
	next[idx] = content.Merge(rec, content.Tree{k.Field: nv})
	return Update{Scope: ScopePage, Page: k.Area, Partial: map[string]any{k.Section: next}}, nil
}

func recordList(page content.Tree, section string) ([]any, error) {
	raw, exists := page[section]
	if !exists || raw == nil {
		return nil, nil
	}
	list, ok := content.AsList(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a list", ErrShapeMismatch, section)
	}
	return list, nil
}

// mergeRecord overlays edited onto orig; nested objects are merged one
// level deep so a partial bilingual pair keeps the other language.
func mergeRecord(orig, edited content.Tree) content.Tree {
	out := content.Merge(orig, nil)
	for key, val := range edited {
		if ov, ok := content.AsTree(out[key]); ok {
			if ev, ok := content.AsTree(val); ok {
				out[key] = content.Merge(ov, ev)
				continue
			}
		}
		out[key] = content.Clone(val)
	}
	return out
}

func isPartialBilingual(v any) bool {
	t, ok := content.AsTree(v)
	if !ok || len(t) == 0 {
		return false
	}
	for key, val := range t {
		if _, ok := val.(string); !ok || (key != content.LangIT && key != content.LangEN) {
			return false
		}
	}
	return true
}

// completeRecord fills missing languages, normalises prices and checks
// the category reference of menu items.
func completeRecord(doc content.Document, k Key, rec content.Tree) error {
	for _, field := range recordBilingual[k.Section] {
		pair, err := mergeBilingual(k.Raw+"."+field, nil, orEmptyPair(rec[field]))
		if err != nil {
			return err
		}
		rec[field] = pair
	}

	if k.Section != "items" {
		return nil
	}
	switch p := rec["price"].(type) {
	case float64:
		rec["price"] = strconv.FormatFloat(p, 'f', 2, 64)
	case nil:
		rec["price"] = ""
	case string:
	default:
		return fmt.Errorf("%w: price must be text or a number", ErrShapeMismatch)
	}
	cat, _ := rec["category"].(string)
	if !doc.HasCategory(cat) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
	}
	return nil
}

func orEmptyPair(v any) any {
	if v == nil {
		return content.Tree{"it": ""}
	}
	return v
}
