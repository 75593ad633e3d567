package translations

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ristorante/site/internal/content"
	"github.com/ristorante/site/pkg/logger"
)

//go:embed defaults.json
var defaultsJSON []byte

// ErrMalformed is returned when a stored translations document does not
// carry a table of bilingual entries.
var ErrMalformed = errors.New("translations document must carry a translations table")

// Table maps dot-namespaced keys such as nav.home to bilingual text.
type Table map[string]content.Bilingual

func Defaults() Table {
	var t Table
	if err := json.Unmarshal(defaultsJSON, &t); err != nil {
		panic("translations: invalid embedded defaults: " + err.Error())
	}
	return t
}

// Lookup returns the text for key in lang. A missing key, or an empty text
// for that language, yields the key itself.
func (t Table) Lookup(key, lang string) string {
	entry, ok := t[key]
	if !ok {
		logger.Warnf("translation key not found: %s", key)
		return key
	}
	if s := entry.In(lang); s != "" {
		return s
	}
	return key
}

func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Tree converts the table into its JSON-shaped form.
func (t Table) Tree() map[string]any {
	out := make(map[string]any, len(t))
	for k, v := range t {
		out[k] = map[string]any{"it": v.It, "en": v.En}
	}
	return out
}

// Decode reads a stored translations document, {translations: {...}}.
// Every entry must be a bilingual pair.
func Decode(raw map[string]any) (Table, error) {
	inner, ok := content.AsTree(raw["translations"])
	if !ok {
		return nil, ErrMalformed
	}
	return DecodeTable(inner)
}

// DecodeTable reads a bare table of bilingual entries.
func DecodeTable(raw map[string]any) (Table, error) {
	out := make(Table, len(raw))
	for k, v := range raw {
		b, ok := content.DecodeBilingual(v)
		if !ok {
			return nil, fmt.Errorf("%w: entry %q is not bilingual", ErrMalformed, k)
		}
		out[k] = b
	}
	return out, nil
}
