package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultsShape(t *testing.T) {
	doc := Defaults()
	require.NoError(t, Validate(doc.Tree()))
	for _, p := range Pages {
		_, ok := AsTree(doc.Pages[p])
		require.True(t, ok, "page %s missing", p)
	}
	require.Equal(t, Bilingual{It: "Il Ristorante", En: "The Restaurant"}, doc.SiteName())
	require.Len(t, doc.Categories(), 5)
	require.Len(t, doc.MenuItems(), 10)

	for _, it := range doc.MenuItems() {
		require.True(t, doc.HasCategory(it.Category), "item %s references %s", it.ID, it.Category)
	}
}

func TestDefaultsAreIndependentCopies(t *testing.T) {
	a := Defaults()
	a.General["logo"] = "/other.png"
	b := Defaults()
	require.Equal(t, "/logo.png", b.General["logo"])
}

func TestValidate(t *testing.T) {
	require.ErrorIs(t, Validate(nil), ErrMalformed)
	require.ErrorIs(t, Validate(map[string]any{"foo": 1.0}), ErrMalformed)
	require.ErrorIs(t, Validate(map[string]any{"general": Tree{}, "pages": "x"}), ErrMalformed)
	require.NoError(t, Validate(map[string]any{"general": Tree{}, "pages": Tree{}}))
}

func TestFromTreeDropsMetadata(t *testing.T) {
	doc, err := FromTree(map[string]any{
		"_id":       "abc",
		"updatedAt": "2024-01-01T00:00:00Z",
		"general":   Tree{"logo": "/l.png"},
		"pages":     Tree{"home": Tree{}},
	})
	require.NoError(t, err)
	require.Equal(t, Tree{"general": Tree{"logo": "/l.png"}, "pages": Tree{"home": Tree{}}}, doc.Tree())
}

func TestPageFallsBackToDefaultShape(t *testing.T) {
	doc := Document{General: Tree{}, Pages: Tree{"home": Tree{"hero": Tree{}}}}
	require.Equal(t, Tree{"hero": Tree{}}, doc.Page(PageHome))

	staff := doc.Page(PageStaff)
	team, ok := AsList(staff["team"])
	require.True(t, ok)
	require.Len(t, team, 4)
}

func TestCloneIsDeep(t *testing.T) {
	doc := Defaults()
	cp := doc.Clone()
	cp.Pages[PageMenu].(map[string]any)["items"].([]any)[0].(map[string]any)["price"] = "99"
	require.Equal(t, "8.50", doc.MenuItems()[0].Price)
}

func TestShapeHelpers(t *testing.T) {
	require.True(t, IsBilingual(Tree{"it": "a", "en": ""}))
	require.False(t, IsBilingual(Tree{"it": "a"}))
	require.False(t, IsBilingual(Tree{"it": "a", "en": "b", "x": "c"}))
	require.False(t, IsBilingual(Tree{"it": 1.0, "en": "b"}))
	require.True(t, IsTimeRange(Tree{"open": "12:00", "close": "22:00"}))
	require.False(t, IsTimeRange(Tree{"open": "12:00"}))
}

func TestDecodeRecordAcceptsNumericPrice(t *testing.T) {
	var it MenuItem
	err := DecodeRecord(Tree{
		"id":          "x",
		"name":        Tree{"it": "a", "en": "b"},
		"description": Tree{"it": "", "en": ""},
		"price":       12.5,
		"category":    "starters",
	}, &it)
	require.NoError(t, err)
	require.Equal(t, "12.5", it.Price)
	require.Equal(t, "b", it.Name.In(LangEN))
	require.Equal(t, "a", it.Name.In("de"))
}

func TestEncodeRecordOmitsEmptyImage(t *testing.T) {
	tree, err := EncodeRecord(MenuItem{ID: "x", Category: "drinks"})
	require.NoError(t, err)
	_, has := tree["image"]
	require.False(t, has)
	require.Equal(t, Tree{"it": "", "en": ""}, tree["name"])
}

func TestMergeLeavesInputsUntouched(t *testing.T) {
	dst := Tree{"a": 1.0, "b": 2.0}
	out := Merge(dst, Tree{"b": 3.0})
	require.Equal(t, Tree{"a": 1.0, "b": 3.0}, out)
	require.Equal(t, 2.0, dst["b"])
}
