package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ristorante/site/internal/content"
	"github.com/ristorante/site/internal/editor"
	"github.com/ristorante/site/internal/notify"
	"github.com/ristorante/site/internal/store"
	"github.com/ristorante/site/internal/translations"
	"github.com/ristorante/site/pkg/logger"
)

// EditRequest is the body of PUT /api/admin/content.
type EditRequest struct {
	Area  string      `json:"area" binding:"required"`
	Key   string      `json:"key" binding:"required"`
	Value interface{} `json:"value"`
}

// AdminHandler exposes the editor core to the admin UI.
type AdminHandler struct {
	editor       *editor.Editor
	content      *store.Store
	translations *translations.Store
	notices      *notify.Recorder
}

func NewAdminHandler(ed *editor.Editor, c *store.Store, t *translations.Store, n *notify.Recorder) *AdminHandler {
	return &AdminHandler{editor: ed, content: c, translations: t, notices: n}
}

// Register mounts the admin routes on rg, which the caller protects.
func (h *AdminHandler) Register(rg gin.IRouter) {
	a := rg.Group("/api/admin")
	a.GET("/content", h.GetContent)
	a.GET("/form", h.Form)
	a.PUT("/content", h.Submit)
	a.POST("/menu/categories", h.AddCategory)
	a.DELETE("/menu/categories/:id", h.DeleteCategory)
	a.POST("/menu/items", h.AddMenuItem)
	a.DELETE("/menu/items/:id", h.DeleteMenuItem)
	a.POST("/gallery/images", h.AddGalleryImage)
	a.DELETE("/gallery/images/:id", h.DeleteGalleryImage)
	a.GET("/translations", h.GetTranslations)
	a.PUT("/translations", h.PutTranslations)
	a.GET("/status", h.Status)
	a.GET("/notices", h.Notices)
}

// GetContent returns the whole live document.
func (h *AdminHandler) GetContent(c *gin.Context) {
	c.JSON(http.StatusOK, h.content.Get().Tree())
}

// Form infers the editor for ?area=&key=.
func (h *AdminHandler) Form(c *gin.Context) {
	kind, err := h.editor.Form(c.Query("area"), c.Query("key"))
	if err != nil {
		editorError(c, err)
		return
	}
	b, err := editor.MarshalKind(kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode form"})
		return
	}
	status := http.StatusOK
	if _, ok := kind.(editor.Unsupported); ok {
		status = http.StatusUnprocessableEntity
	}
	c.Data(status, "application/json; charset=utf-8", b)
}

// Submit writes value back at key and returns the scope that changed.
func (h *AdminHandler) Submit(c *gin.Context) {
	var req EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.editor.Submit(req.Area, req.Key, req.Value)
	if err != nil {
		editorError(c, err)
		return
	}
	resp := gin.H{"scope": u.Scope.String()}
	switch u.Scope {
	case editor.ScopeTranslation:
		resp["key"] = u.TranslationKey
		resp["value"] = u.Translation
	case editor.ScopeTop:
		resp["value"] = h.content.Get().General
	default:
		resp["page"] = u.Page
		resp["value"] = h.content.Get().Page(u.Page)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) AddCategory(c *gin.Context) {
	var cat content.MenuCategory
	if !bindRecord(c, &cat) {
		return
	}
	created, err := h.editor.AddCategory(cat)
	if err != nil {
		editorError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	h.deleted(c, h.editor.DeleteCategory(c.Param("id")))
}

func (h *AdminHandler) AddMenuItem(c *gin.Context) {
	var it content.MenuItem
	if !bindRecord(c, &it) {
		return
	}
	created, err := h.editor.AddMenuItem(it)
	if err != nil {
		editorError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *AdminHandler) DeleteMenuItem(c *gin.Context) {
	h.deleted(c, h.editor.DeleteMenuItem(c.Param("id")))
}

// AddGalleryImage appends a placeholder image to be edited afterwards.
func (h *AdminHandler) AddGalleryImage(c *gin.Context) {
	img, err := h.editor.AddGalleryImage()
	if err != nil {
		editorError(c, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}

func (h *AdminHandler) DeleteGalleryImage(c *gin.Context) {
	h.deleted(c, h.editor.DeleteGalleryImage(c.Param("id")))
}

func (h *AdminHandler) deleted(c *gin.Context, err error) {
	if err != nil {
		editorError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) GetTranslations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"translations": h.translations.All()})
}

// PutTranslations replaces the whole table. Both {"translations": {...}} and
// a bare table are accepted.
func (h *AdminHandler) PutTranslations(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var (
		table translations.Table
		err   error
	)
	if _, wrapped := body["translations"]; wrapped {
		table, err = translations.Decode(body)
	} else {
		table, err = translations.DecodeTable(body)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.translations.SetAll(table)
	c.JSON(http.StatusOK, gin.H{"count": len(table)})
}

// Status reports whether a background save is still running.
func (h *AdminHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"saving":             h.content.Saving() || h.translations.Saving(),
		"contentSaving":      h.content.Saving(),
		"translationsSaving": h.translations.Saving(),
	})
}

func (h *AdminHandler) Notices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notices": h.notices.Recent()})
}

// bindRecord decodes a record body leniently (numeric prices are accepted).
func bindRecord(c *gin.Context, out interface{}) bool {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	if p, ok := body["price"].(float64); ok {
		body["price"] = strconv.FormatFloat(p, 'f', 2, 64)
	}
	if err := content.DecodeRecord(body, out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// editorError maps editor and store errors to HTTP responses.
func editorError(c *gin.Context, err error) {
	var inUse *editor.CategoryInUseError
	switch {
	case errors.As(err, &inUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "blockers": inUse.Count})
	case errors.Is(err, editor.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, editor.ErrInvalidKey),
		errors.Is(err, editor.ErrInvalidValue),
		errors.Is(err, store.ErrUnknownPage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, editor.ErrShapeMismatch),
		errors.Is(err, editor.ErrUnsupported),
		errors.Is(err, editor.ErrImmutableID),
		errors.Is(err, editor.ErrUnknownCategory):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Errorf("admin edit failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "edit failed"})
	}
}
