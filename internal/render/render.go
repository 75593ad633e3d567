// Package render projects the content document into per-language page views.
// Views are read-only: nothing here writes back to the document.
package render

import (
	"strings"

	"github.com/ristorante/site/internal/content"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Translator resolves translation keys, returning the key itself on a miss.
type Translator interface {
	Get(key, lang string) string
}

var supported = []language.Tag{language.Italian, language.English}

var matcher = language.NewMatcher(supported)

// Negotiate picks it or en from an explicit query value first, then the
// Accept-Language header. Italian is the default.
func Negotiate(query, acceptLanguage string) string {
	switch strings.ToLower(strings.TrimSpace(query)) {
	case content.LangIT:
		return content.LangIT
	case content.LangEN:
		return content.LangEN
	}
	if acceptLanguage == "" {
		return content.LangIT
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return content.LangIT
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return content.LangIT
	}
	if supported[idx] == language.English {
		return content.LangEN
	}
	return content.LangIT
}

func tagFor(lang string) language.Tag {
	if lang == content.LangEN {
		return language.English
	}
	return language.Italian
}

func image(src string) string {
	if src == "" {
		return content.PlaceholderImage
	}
	return src
}

func text(v any, lang string) string {
	b, _ := content.DecodeBilingual(v)
	return b.In(lang)
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func sub(t content.Tree, key string) content.Tree {
	s, _ := content.AsTree(t[key])
	return s
}

// label translates key and falls back to a title-cased name when the key is
// missing from the table.
func label(tr Translator, key, name, lang string) string {
	if s := tr.Get(key, lang); s != key {
		return s
	}
	return cases.Title(tagFor(lang)).String(name)
}
