package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers Swagger/OpenAPI endpoints for the site API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>ristorante-site · Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// OpenAPI document for the public, auth and admin endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "ristorante-site", "version": "v1.0.0" },
  "components": { "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } } },
  "paths": {
    "/api/site": { "get": { "summary": "Site name, logo and navigation", "parameters": [{"name":"lang","in":"query","schema":{"type":"string","enum":["it","en"]}}], "responses": { "200": { "description": "site chrome" } } } },
    "/api/pages/{page}": { "get": { "summary": "Render a page (home, menu, gallery, staff, contact)", "parameters": [{"name":"page","in":"path","required":true,"schema":{"type":"string"}},{"name":"lang","in":"query","schema":{"type":"string"}},{"name":"category","in":"query","schema":{"type":"string"}}], "responses": { "200": { "description": "page view" }, "404": { "description": "unknown page" } } } },
    "/api/i18n/{key}": { "get": { "summary": "Translate a UI key", "responses": { "200": { "description": "text, or the key when missing" } } } },
    "/api/content": {
      "get": { "summary": "Latest stored content document", "responses": { "200": { "description": "document" }, "404": { "description": "nothing stored yet" } } },
      "post": { "summary": "Create or merge the content document", "responses": { "200": { "description": "updated" }, "201": { "description": "created" }, "400": { "description": "invalid body" } } }
    },
    "/api/translations": {
      "get": { "summary": "Latest stored translation table", "responses": { "200": { "description": "document" }, "404": { "description": "nothing stored yet" } } },
      "post": { "summary": "Create or replace the translation table", "responses": { "200": { "description": "updated" }, "201": { "description": "created" } } }
    },
    "/auth/login": {
      "post": {
        "summary": "Admin login",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"username":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "tokens returned" }, "401": { "description": "invalid credentials" } }
      }
    },
    "/auth/refresh": {
      "post": { "summary": "Rotate refresh token and issue a new access token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "new tokens" }, "401": { "description": "invalid refresh" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Logout and invalidate refresh token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "logged out" } } }
    },
    "/api/admin/content": {
      "get": { "security": [{"bearer": []}], "summary": "Live content document", "responses": { "200": { "description": "document" } } },
      "put": { "security": [{"bearer": []}], "summary": "Write a value back at area/key", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"area":{"type":"string"},"key":{"type":"string"},"value":{}}}}}}, "responses": { "200": { "description": "updated scope" }, "400": { "description": "invalid key or value" }, "404": { "description": "record not found" }, "422": { "description": "shape mismatch" } } }
    },
    "/api/admin/form": { "get": { "security": [{"bearer": []}], "summary": "Infer the editor for area/key", "responses": { "200": { "description": "edit kind" }, "422": { "description": "not editable" } } } },
    "/api/admin/menu/categories": { "post": { "security": [{"bearer": []}], "summary": "Add a menu category", "responses": { "201": { "description": "created" } } } },
    "/api/admin/menu/categories/{id}": { "delete": { "security": [{"bearer": []}], "summary": "Delete a menu category", "responses": { "204": { "description": "deleted" }, "404": { "description": "not found" }, "409": { "description": "category still used by menu items" } } } },
    "/api/admin/menu/items": { "post": { "security": [{"bearer": []}], "summary": "Add a menu item", "responses": { "201": { "description": "created" } } } },
    "/api/admin/menu/items/{id}": { "delete": { "security": [{"bearer": []}], "summary": "Delete a menu item", "responses": { "204": { "description": "deleted" } } } },
    "/api/admin/gallery/images": { "post": { "security": [{"bearer": []}], "summary": "Append a placeholder gallery image", "responses": { "201": { "description": "created" } } } },
    "/api/admin/gallery/images/{id}": { "delete": { "security": [{"bearer": []}], "summary": "Delete a gallery image", "responses": { "204": { "description": "deleted" } } } },
    "/api/admin/translations": {
      "get": { "security": [{"bearer": []}], "summary": "Live translation table", "responses": { "200": { "description": "table" } } },
      "put": { "security": [{"bearer": []}], "summary": "Replace the translation table", "responses": { "200": { "description": "replaced" } } }
    },
    "/api/admin/status": { "get": { "security": [{"bearer": []}], "summary": "Background save state", "responses": { "200": { "description": "saving flag" } } } },
    "/api/admin/notices": { "get": { "security": [{"bearer": []}], "summary": "Recent warnings and confirmations", "responses": { "200": { "description": "notices" } } } },
    "/api/admin/media": { "post": { "security": [{"bearer": []}], "summary": "Upload an image", "responses": { "201": { "description": "path to use in image fields" }, "415": { "description": "not an image" }, "503": { "description": "media storage not configured" } } } },
    "/media/{key}": { "get": { "summary": "Serve an uploaded image", "responses": { "200": { "description": "image bytes" }, "404": { "description": "not found" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
