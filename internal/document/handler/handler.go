package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ristorante/site/internal/document"
	"github.com/ristorante/site/internal/document/service"
	"github.com/ristorante/site/pkg/logger"
)

// RegisterDocumentRoutes mounts GET/POST /api/content and /api/translations.
func RegisterDocumentRoutes(r gin.IRouter, svc service.Service) {
	for _, name := range []string{document.CollectionContent, document.CollectionTranslations} {
		collection := name
		r.GET("/api/"+collection, func(c *gin.Context) {
			rec, err := svc.Load(c.Request.Context(), collection)
			if err != nil {
				if errors.Is(err, service.ErrNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"error": "no " + collection + " found"})
					return
				}
				logger.Errorf("document: load %s: %v", collection, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, rec.Body())
		})

		r.POST("/api/"+collection, func(c *gin.Context) {
			var body map[string]any
			if err := c.ShouldBindJSON(&body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			rec, created, err := svc.Save(c.Request.Context(), collection, body)
			if err != nil {
				if errors.Is(err, service.ErrInvalid) {
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				logger.Errorf("document: save %s: %v", collection, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			status := http.StatusOK
			if created {
				status = http.StatusCreated
			}
			c.JSON(status, rec.Body())
		})
	}
}
