// Command content runs the persistence service on its own: the latest
// content and translations documents over GET/POST /api/content and
// /api/translations.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ristorante/site/internal/config"
	"github.com/ristorante/site/internal/database"
	"github.com/ristorante/site/internal/document/handler"
	"github.com/ristorante/site/internal/document/service"
	"github.com/ristorante/site/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	port := os.Getenv("CONTENT_SERVICE_PORT")
	if port == "" {
		port = cfg.Server.Port
	}

	var svc service.Service
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectMongo(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err != nil {
			logger.Warnf("cannot connect to MongoDB (%v), using memory-backed repository", err)
			svc = service.NewMemoryService()
		} else {
			defer func() { _ = client.Disconnect(context.Background()) }()
			svc = service.NewMongoService(client.Database(cfg.MongoDB.Database))
		}
	} else {
		svc = service.NewMemoryService()
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "healthy") })
	handler.RegisterDocumentRoutes(r, svc)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("content service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
