package editor

import (
	"fmt"
	"strings"

	"github.com/ristorante/site/internal/content"
)

// Areas besides the five pages.
const (
	AreaSettings     = "settings"
	AreaTranslations = "translations"
)

// Target says what a key addresses once parsed.
type Target int

const (
	TargetLeaf          Target = iota // pages[p][field]
	TargetNested                      // pages[p][a][b] or pages[p][a][b][c]
	TargetRecord                      // whole record in a list-of-records
	TargetRecordField                 // one field of one record
	TargetDictEntry                   // contact hours.<day> / social.<platform>
	TargetFeaturedItems               // home sections.featured.items
	TargetSiteName                    // general.siteName
	TargetGeneral                     // general[field]
	TargetTranslation                 // translation table entry
)

var targetNames = [...]string{
	"leaf", "nested", "record", "record_field", "dict_entry",
	"featured_items", "site_name", "general", "translation",
}

func (t Target) String() string {
	if int(t) < len(targetNames) {
		return targetNames[t]
	}
	return fmt.Sprintf("target(%d)", int(t))
}

// Key is a parsed editing key.
type Key struct {
	Area    string
	Raw     string
	Target  Target
	Section string // first path segment (collection or dictionary name)
	ID      string // record id, weekday or platform
	Field   string // addressed field; the whole key for translations
	Path    []string
}

// Last returns the final segment, used to pick long-form editors.
func (k Key) Last() string {
	if len(k.Path) == 0 {
		return k.Raw
	}
	return k.Path[len(k.Path)-1]
}

// recordCollections lists, per page, the sections holding records with ids.
var recordCollections = map[string][]string{
	content.PageMenu:    {"categories", "items"},
	content.PageStaff:   {"team"},
	content.PageGallery: {"images"},
}

// fieldEditable lists the pages whose records may be edited one field at a time.
var fieldEditable = map[string]string{
	content.PageGallery: "images",
	content.PageStaff:   "team",
}

func isRecordCollection(page, section string) bool {
	for _, s := range recordCollections[page] {
		if s == section {
			return true
		}
	}
	return false
}

// ParseKey resolves raw within area into a structured key.
func ParseKey(area, raw string) (Key, error) {
	k := Key{Area: area, Raw: raw}
	if raw == "" {
		return k, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}

	if area == AreaTranslations {
		k.Target = TargetTranslation
		k.Field = raw
		k.Path = strings.Split(raw, ".")
		return k, nil
	}

	segs := strings.Split(raw, ".")
	for _, s := range segs {
		if s == "" {
			return k, fmt.Errorf("%w: %q has an empty segment", ErrInvalidKey, raw)
		}
	}
	k.Path = segs

	if area == AreaSettings {
		return parseSettings(k, segs)
	}
	if !content.IsPage(area) {
		return k, fmt.Errorf("%w: unknown area %q", ErrInvalidKey, area)
	}

	switch len(segs) {
	case 1:
		k.Target = TargetLeaf
		k.Field = segs[0]
	case 2:
		k.Section = segs[0]
		switch {
		case isRecordCollection(area, segs[0]):
			k.Target = TargetRecord
			k.ID = segs[1]
		case area == content.PageContact && segs[0] == "hours":
			if !content.IsWeekday(segs[1]) {
				return k, fmt.Errorf("%w: unknown weekday %q", ErrInvalidKey, segs[1])
			}
			k.Target = TargetDictEntry
			k.ID = segs[1]
		case area == content.PageContact && segs[0] == "social":
			if !content.IsSocialPlatform(segs[1]) {
				return k, fmt.Errorf("%w: unknown social platform %q", ErrInvalidKey, segs[1])
			}
			k.Target = TargetDictEntry
			k.ID = segs[1]
		default:
			k.Target = TargetNested
			k.Field = segs[1]
		}
	case 3:
		k.Section = segs[0]
		switch {
		case area == content.PageHome && raw == "sections.featured.items":
			k.Target = TargetFeaturedItems
		case fieldEditable[area] == segs[0]:
			k.Target = TargetRecordField
			k.ID = segs[1]
			k.Field = segs[2]
		case isRecordCollection(area, segs[0]):
			return k, fmt.Errorf("%w: %s records are edited whole", ErrInvalidKey, segs[0])
		default:
			k.Target = TargetNested
			k.Field = segs[2]
		}
	default:
		return k, fmt.Errorf("%w: %q has %d segments, at most 3 are allowed", ErrInvalidKey, raw, len(segs))
	}
	return k, nil
}

func parseSettings(k Key, segs []string) (Key, error) {
	switch {
	case len(segs) == 1 && segs[0] == "siteName",
		len(segs) == 2 && segs[0] == "general" && segs[1] == "siteName":
		k.Target = TargetSiteName
		k.Field = "siteName"
	case len(segs) == 1:
		k.Target = TargetGeneral
		k.Field = segs[0]
	case len(segs) == 2 && segs[0] == "general":
		k.Target = TargetGeneral
		k.Field = segs[1]
	default:
		return k, fmt.Errorf("%w: settings key %q", ErrInvalidKey, k.Raw)
	}
	return k, nil
}
