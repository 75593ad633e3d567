package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ristorante/site/internal/storage"
	"github.com/ristorante/site/pkg/logger"
)

const maxUploadBytes = 10 << 20

// MediaStore is the part of the object store the site needs.
type MediaStore interface {
	Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// MediaHandler uploads images for image-path fields and serves them back.
// A nil store answers 503.
type MediaHandler struct {
	store MediaStore
}

func NewMediaHandler(s MediaStore) *MediaHandler {
	return &MediaHandler{store: s}
}

// RegisterPublic mounts GET /media/*key.
func (h *MediaHandler) RegisterPublic(rg gin.IRouter) {
	rg.GET(strings.TrimSuffix(storage.MediaPrefix, "/")+"/*key", h.Serve)
}

// RegisterAdmin mounts POST /api/admin/media on a protected router.
func (h *MediaHandler) RegisterAdmin(rg gin.IRouter) {
	rg.POST("/api/admin/media", h.Upload)
}

// Upload stores the multipart "file" field and returns its public path.
func (h *MediaHandler) Upload(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media storage is not configured"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	path, err := h.store.Upload(c.Request.Context(), f, fh.Size, fh.Header.Get("Content-Type"))
	if errors.Is(err, storage.ErrUnsupportedType) {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		logger.Errorf("media upload failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"path": path})
}

// Serve streams a stored image.
func (h *MediaHandler) Serve(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media storage is not configured"})
		return
	}
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" || strings.Contains(key, "..") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	rc, contentType, err := h.store.Open(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	defer rc.Close()
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}
