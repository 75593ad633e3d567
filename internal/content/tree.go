package content

import (
	"encoding/json"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Tree is a JSON-shaped object: values are string, float64, bool, nil,
// []any or map[string]any.
type Tree = map[string]any

// Clone deep-copies a JSON-shaped value.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = Clone(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = Clone(vv)
		}
		return out
	default:
		return v
	}
}

// CloneTree is Clone for objects; nil stays nil.
func CloneTree(t Tree) Tree {
	if t == nil {
		return nil
	}
	return Clone(t).(map[string]any)
}

// Normalize converts any Go value into its JSON-shaped equivalent.
func Normalize(v any) (any, error) {
	switch v.(type) {
	case nil, string, float64, bool:
		return v, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	return out, nil
}

// Merge returns a copy of dst with every key of src written over it.
// Neither argument is modified.
func Merge(dst, src Tree) Tree {
	out := make(Tree, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		out[k] = v
	}
	return out
}

// AsTree returns v as an object when it is one.
func AsTree(v any) (Tree, bool) {
	t, ok := v.(map[string]any)
	return t, ok
}

// AsList returns v as an array when it is one.
func AsList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// IsBilingual reports whether v is an object with exactly the string keys it and en.
func IsBilingual(v any) bool {
	t, ok := AsTree(v)
	if !ok || len(t) != 2 {
		return false
	}
	_, itOK := t["it"].(string)
	_, enOK := t["en"].(string)
	return itOK && enOK
}

// IsTimeRange reports whether v is an object carrying open and close keys.
func IsTimeRange(v any) bool {
	t, ok := AsTree(v)
	if !ok {
		return false
	}
	_, hasOpen := t["open"]
	_, hasClose := t["close"]
	return hasOpen && hasClose
}

// IsNumber reports whether v is a JSON number.
func IsNumber(v any) bool {
	_, ok := v.(float64)
	return ok
}

// IndexByID finds the element of a list-of-records whose id equals id.
func IndexByID(list []any, id string) int {
	for i, el := range list {
		if rec, ok := AsTree(el); ok {
			if rid, _ := rec["id"].(string); rid == id {
				return i
			}
		}
	}
	return -1
}

// DecodeRecord fills out (a pointer to a record struct) from a content tree.
// Numeric prices are accepted and converted to strings.
func DecodeRecord(src any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(src); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// EncodeRecord turns a record struct into its tree form.
func EncodeRecord(rec any) (Tree, error) {
	v, err := Normalize(rec)
	if err != nil {
		return nil, err
	}
	t, ok := AsTree(v)
	if !ok {
		return nil, fmt.Errorf("encode record: %T is not an object", rec)
	}
	return t, nil
}

// DecodeBilingual converts a bilingual tree into a Bilingual value.
func DecodeBilingual(v any) (Bilingual, bool) {
	if !IsBilingual(v) {
		return Bilingual{}, false
	}
	t := v.(map[string]any)
	return Bilingual{It: t["it"].(string), En: t["en"].(string)}, true
}
