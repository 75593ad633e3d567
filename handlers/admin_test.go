package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ristorante/site/internal/content"
	"github.com/ristorante/site/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRequiresToken(t *testing.T) {
	s := newSite(t, nil, nil)
	w, _ := do(t, s.router, http.MethodGet, "/api/admin/status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = do(t, s.router, http.MethodGet, "/api/admin/status", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminForm(t *testing.T) {
	s := newSite(t, nil, nil)
	tok := s.token(t)

	w, out := do(t, s.router, http.MethodGet, "/api/admin/form?area=home&key=hero.title", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bilingual", out["kind"])
	assert.Equal(t, "Benvenuti al Nostro Ristorante", out["value"].(map[string]interface{})["it"])

	w, out = do(t, s.router, http.MethodGet, "/api/admin/form?area=home&key=sections.featured.items", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "id_selection", out["kind"])
	assert.Equal(t, []interface{}{"1", "3", "7"}, out["selected"])

	w, out = do(t, s.router, http.MethodGet, "/api/admin/form?area=gallery&key=images.1", tok, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "unsupported", out["kind"])

	w, _ = do(t, s.router, http.MethodGet, "/api/admin/form?area=kitchen&key=x", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminSubmitMenuItemKeepsOtherLanguage(t *testing.T) {
	s := newSite(t, nil, nil)
	tok := s.token(t)
	before := s.content.Get()

	w, out := do(t, s.router, http.MethodPut, "/api/admin/content", tok, gin.H{
		"area": "menu", "key": "items.1", "value": gin.H{"name": gin.H{"en": "Tomato bruschetta"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "page", out["scope"])
	assert.Equal(t, "menu", out["page"])

	var item, old content.MenuItem
	for _, it := range s.content.Get().MenuItems() {
		if it.ID == "1" {
			item = it
		}
	}
	for _, it := range before.MenuItems() {
		if it.ID == "1" {
			old = it
		}
	}
	assert.Equal(t, "Tomato bruschetta", item.Name.En)
	assert.Equal(t, old.Name.It, item.Name.It)
	assert.Equal(t, old.Price, item.Price)
	assert.Equal(t, old.Category, item.Category)
}

func TestAdminSubmitErrors(t *testing.T) {
	s := newSite(t, nil, nil)
	tok := s.token(t)
	cases := []struct {
		name string
		body gin.H
		code int
	}{
		{"bad hours", gin.H{"area": "contact", "key": "hours.monday", "value": gin.H{"open": "25:00", "close": "23:00"}}, http.StatusBadRequest},
		{"menu field key", gin.H{"area": "menu", "key": "items.1.name", "value": "x"}, http.StatusBadRequest},
		{"id change", gin.H{"area": "menu", "key": "items.1", "value": gin.H{"id": "99"}}, http.StatusUnprocessableEntity},
		{"unknown category", gin.H{"area": "menu", "key": "items.1", "value": gin.H{"category": "pizza"}}, http.StatusUnprocessableEntity},
		{"missing record", gin.H{"area": "gallery", "key": "images.nope.src", "value": "/x.jpg"}, http.StatusNotFound},
		{"missing key", gin.H{"area": "home"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, out := do(t, s.router, http.MethodPut, "/api/admin/content", tok, tc.body)
			assert.Equal(t, tc.code, w.Code, w.Body.String())
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestAdminSubmitSettingsAndTranslation(t *testing.T) {
	s := newSite(t, nil, nil)
	tok := s.token(t)

	w, out := do(t, s.router, http.MethodPut, "/api/admin/content", tok, gin.H{
		"area": "settings", "key": "siteName", "value": gin.H{"it": "Da Mario"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "top", out["scope"])
	assert.Equal(t, content.Bilingual{It: "Da Mario", En: "The Restaurant"}, s.content.Get().SiteName())

	w, out = do(t, s.router, http.MethodPut, "/api/admin/content", tok, gin.H{
		"area": "translations", "key": "nav.home", "value": gin.H{"it": "Inizio", "en": "Start"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "translation", out["scope"])
	assert.Equal(t, "Start", s.translations.Get("nav.home", content.LangEN))
}

func TestAdminCategoryLifecycle(t *testing.T) {
	s := newSite(t, nil, nil)
	tok := s.token(t)

	w, out := do(t, s.router, http.MethodDelete, "/api/admin/menu/categories/drinks", tok, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.EqualValues(t, 2, out["blockers"])

	w, _ = do(t, s.router, http.MethodDelete, "/api/admin/menu/categories/nope", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, cat := do(t, s.router, http.MethodPost, "/api/admin/menu/categories", tok, gin.H{"name": gin.H{"it": "Pizze", "en": "Pizzas"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	catID := cat["id"].(string)
	assert.True(t, strings.HasPrefix(catID, "category_"))
	assert.True(t, s.content.Get().HasCategory(catID))

	w, item := do(t, s.router, http.MethodPost, "/api/admin/menu/items", tok, gin.H{
		"name": gin.H{"it": "Margherita", "en": "Margherita"}, "price": 9.5, "category": catID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "9.50", item["price"])
	itemID := item["id"].(string)

	w, out = do(t, s.router, http.MethodDelete, "/api/admin/menu/categories/"+catID, tok, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.EqualValues(t, 1, out["blockers"])

	w, _ = do(t, s.router, http.MethodDelete, "/api/admin/menu/items/"+itemID, tok, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w, _ = do(t, s.router, http.MethodDelete, "/api/admin/menu/categories/"+catID, tok, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, s.content.Get().HasCategory(catID))

	w, _ = do(t, s.router, http.MethodPost, "/api/admin/menu/items", tok, gin.H{"category": "pizza"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAdminGalleryImages(t *testing.T) {
	s := newSite(t, nil, nil)
	tok := s.token(t)

	w, img := do(t, s.router, http.MethodPost, "/api/admin/gallery/images", tok, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, content.PlaceholderImage, img["src"])
	id := img["id"].(string)

	w, _ = do(t, s.router, http.MethodPut, "/api/admin/content", tok, gin.H{"area": "gallery", "key": "images." + id + ".src", "value": "/media/images/a.jpg"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = do(t, s.router, http.MethodDelete, "/api/admin/gallery/images/"+id, tok, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = do(t, s.router, http.MethodDelete, "/api/admin/gallery/images/"+id, tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminTranslationsReplace(t *testing.T) {
	s := newSite(t, nil, nil)
	tok := s.token(t)

	w, out := do(t, s.router, http.MethodPut, "/api/admin/translations", tok, gin.H{"nav.home": gin.H{"it": "Casa", "en": "Home"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, out["count"])
	assert.Equal(t, "nav.menu", s.translations.Get("nav.menu", content.LangIT))

	w, _ = do(t, s.router, http.MethodPut, "/api/admin/translations", tok, gin.H{"translations": gin.H{"nav.menu": gin.H{"it": "Menù", "en": "Menu"}}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Menù", s.translations.Get("nav.menu", content.LangIT))

	w, _ = do(t, s.router, http.MethodPut, "/api/admin/translations", tok, gin.H{"nav.home": "Casa"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, out = do(t, s.router, http.MethodGet, "/api/admin/translations", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, out["translations"], "nav.menu")
}

func TestAdminStatusNoticesAndPersistence(t *testing.T) {
	s := newSite(t, nil, nil)
	tok := s.token(t)

	w, _ := do(t, s.router, http.MethodPut, "/api/admin/content", tok, gin.H{"area": "contact", "key": "phone", "value": "+39 06 123"})
	require.Equal(t, http.StatusOK, w.Code)
	s.wait()

	w, out := do(t, s.router, http.MethodGet, "/api/admin/status", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, out["saving"])

	w, out = do(t, s.router, http.MethodGet, "/api/admin/notices", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	notices := out["notices"].([]interface{})
	require.NotEmpty(t, notices)
	last := notices[len(notices)-1].(map[string]interface{})
	assert.Equal(t, "content saved", last["message"])

	rec, err := s.svc.Load(context.Background(), gateway.CollectionContent)
	require.NoError(t, err)
	doc, err := content.FromTree(rec.Body())
	require.NoError(t, err)
	assert.Equal(t, "+39 06 123", doc.Page(content.PageContact)["phone"])

	w, out = do(t, s.router, http.MethodGet, "/api/admin/content", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, out, "general")
	assert.Contains(t, out, "pages")
}
