package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ristorante/site/internal/content"
	"github.com/ristorante/site/internal/render"
	"github.com/ristorante/site/internal/store"
	"github.com/ristorante/site/internal/translations"
	"github.com/ristorante/site/pkg/metrics"
)

// PagesHandler serves the public, language-resolved page projections.
type PagesHandler struct {
	content      *store.Store
	translations *translations.Store
}

func NewPagesHandler(c *store.Store, t *translations.Store) *PagesHandler {
	return &PagesHandler{content: c, translations: t}
}

func (h *PagesHandler) Register(rg gin.IRouter) {
	api := rg.Group("/api")
	api.GET("/site", h.Site)
	api.GET("/pages/:page", h.Page)
	api.GET("/i18n/:key", h.Translate)
}

func lang(c *gin.Context) string {
	l := render.Negotiate(c.Query("lang"), c.GetHeader("Accept-Language"))
	c.Header("Content-Language", l)
	c.Header("Vary", "Accept-Language")
	return l
}

// Site returns the chrome shared by every page: name, logo, navigation.
func (h *PagesHandler) Site(c *gin.Context) {
	l := lang(c)
	c.JSON(http.StatusOK, render.Site(h.content.Get(), h.translations, l))
}

// Page renders one of the five pages. Menu accepts ?category=.
func (h *PagesHandler) Page(c *gin.Context) {
	page := c.Param("page")
	if !content.IsPage(page) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown page"})
		return
	}
	l := lang(c)
	doc := h.content.Get()
	metrics.RenderRequests.WithLabelValues(page).Inc()

	switch page {
	case content.PageHome:
		c.JSON(http.StatusOK, render.Home(doc, l))
	case content.PageMenu:
		c.JSON(http.StatusOK, render.Menu(doc, h.translations, l, c.Query("category")))
	case content.PageGallery:
		c.JSON(http.StatusOK, render.Gallery(doc, l))
	case content.PageStaff:
		c.JSON(http.StatusOK, render.Staff(doc, l))
	case content.PageContact:
		c.JSON(http.StatusOK, render.Contact(doc, h.translations, l))
	}
}

// Translate looks one key up; unknown keys come back as the key itself.
func (h *PagesHandler) Translate(c *gin.Context) {
	key := c.Param("key")
	l := lang(c)
	c.JSON(http.StatusOK, gin.H{"key": key, "lang": l, "text": h.translations.Get(key, l)})
}
