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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/ristorante/site/handlers"
	"github.com/ristorante/site/internal/auth"
	"github.com/ristorante/site/internal/config"
	"github.com/ristorante/site/internal/database"
	"github.com/ristorante/site/internal/document/handler"
	"github.com/ristorante/site/internal/document/service"
	"github.com/ristorante/site/internal/editor"
	"github.com/ristorante/site/internal/gateway"
	"github.com/ristorante/site/internal/notify"
	"github.com/ristorante/site/internal/oidc"
	"github.com/ristorante/site/internal/sessions"
	"github.com/ristorante/site/internal/storage"
	"github.com/ristorante/site/internal/store"
	"github.com/ristorante/site/internal/tokens"
	"github.com/ristorante/site/internal/translations"
	"github.com/ristorante/site/pkg/logger"
	"github.com/ristorante/site/pkg/metrics"
	"github.com/ristorante/site/pkg/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v keycloak=%v minio=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Keycloak.URL != "", cfg.MinIO.Endpoint != "")
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Persistence: Mongo when reachable, otherwise memory.
	var svc service.Service
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		mongoClient, err = database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second)
		if err != nil {
			logger.Warnf("%v; content is kept in memory only", err)
		} else {
			logger.Infof("connected to MongoDB database %q", cfg.MongoDB.Database)
		}
	}
	if mongoClient != nil {
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		svc = service.NewMongoService(mongoClient.Database(cfg.MongoDB.Database))
	} else {
		svc = service.NewMemoryService()
	}

	notices := notify.NewRecorder(50)
	local := gateway.NewLocal(svc)
	contentStore := store.New(local, notices)
	translationStore := translations.NewStore(local, notices)
	if err := contentStore.Init(ctx); err != nil {
		logger.Warnf("content init: %v", err)
	}
	if err := translationStore.Init(ctx); err != nil {
		logger.Warnf("translations init: %v", err)
	}

	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			logger.Infof("connected to Redis %s:%s", cfg.Redis.Host, cfg.Redis.Port)
			defer rdb.Close()
		}
	}

	var srepo sessions.Repository
	switch {
	case rdb != nil:
		srepo = sessions.NewRedisRepository(rdb, "")
		logger.Info("sessions: redis")
	case mongoClient != nil:
		mrepo, err := sessions.NewMongoRepository(ctx, mongoClient.Database(cfg.MongoDB.Database).Collection("sessions"))
		if err != nil {
			logger.Warnf("sessions: mongo indexes: %v", err)
			break
		}
		srepo = mrepo
		logger.Info("sessions: mongo")
	}
	if srepo == nil {
		srepo = sessions.NewMemoryRepository()
		logger.Warn("sessions: memory only, admins are logged out on restart")
	}
	sessionSvc := sessions.NewService(srepo, cfg.JWT.RefreshTokenTTL)
	blacklist := sessions.NewBlacklist(rdb)

	issuer := tokens.FromConfig(cfg)
	verifiers := []middleware.Verifier{issuer}
	var sso *oidc.Verifier
	if cfg.Keycloak.URL != "" && cfg.Keycloak.ClientID != "" {
		sso, err = oidc.NewVerifier(ctx, cfg.Keycloak)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifiers = append(verifiers, sso)
			logger.Infof("OIDC verifier ready for %s", oidc.Issuer(cfg.Keycloak))
		}
	}

	var media handlers.MediaStore
	var minioStore *storage.MinIOStorage
	if cfg.MinIO.Endpoint != "" {
		minioStore, err = storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("media uploads disabled: %v", err)
		} else {
			media = minioStore
		}
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Length", "Content-Language"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			r.Use(middleware.RedisRateLimitMiddleware(rdb, "global", cfg.RateLimit.RPS, cfg.RateLimit.Burst, window))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}
	// Login is always throttled: six attempts a minute plus a burst of five.
	loginLimit := middleware.RedisRateLimitMiddleware(rdb, "login", 0.1, 5, time.Minute)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		rctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		ready := true
		deps := map[string]bool{}

		if mongoClient != nil {
			deps["mongo"] = mongoClient.Ping(rctx, nil) == nil
			ready = ready && deps["mongo"]
		}
		if rdb != nil {
			deps["redis"] = rdb.Ping(rctx).Err() == nil
			ready = ready && deps["redis"]
		}
		if cfg.Keycloak.URL != "" {
			deps["oidc"] = sso != nil
			ready = ready && deps["oidc"]
		}
		if minioStore != nil {
			deps["media"] = minioStore.Ping(rctx) == nil
		}

		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status": status,
			"deps":   deps,
			"saving": contentStore.Saving() || translationStore.Saving(),
			"uptime": time.Since(startTime).String(),
		})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterSwagger(r)
	handler.RegisterDocumentRoutes(r, svc)
	handlers.NewPagesHandler(contentStore, translationStore).Register(r)
	handlers.NewAuthHandler(auth.FromConfig(cfg.Admin), issuer, sessionSvc, blacklist).Register(r, loginLimit)

	mh := handlers.NewMediaHandler(media)
	mh.RegisterPublic(r)

	protected := r.Group("/", middleware.AuthMiddleware(blacklist, verifiers...))
	handlers.NewAdminHandler(editor.New(contentStore, translationStore), contentStore, translationStore, notices).Register(protected)
	mh.RegisterAdmin(protected)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("site server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
	// let in-flight saves reach the database
	contentStore.Wait()
	translationStore.Wait()
}
