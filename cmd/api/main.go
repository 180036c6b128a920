package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/spotnsend/spotnsend-api/internal/config"
	"github.com/spotnsend/spotnsend-api/internal/domain/admin"
	"github.com/spotnsend/spotnsend-api/internal/domain/audit"
	"github.com/spotnsend/spotnsend-api/internal/domain/authority"
	"github.com/spotnsend/spotnsend-api/internal/domain/category"
	"github.com/spotnsend/spotnsend-api/internal/domain/dispatch"
	"github.com/spotnsend/spotnsend-api/internal/domain/media"
	"github.com/spotnsend/spotnsend-api/internal/domain/notification"
	"github.com/spotnsend/spotnsend-api/internal/domain/report"
	"github.com/spotnsend/spotnsend-api/internal/domain/user"
	"github.com/spotnsend/spotnsend-api/internal/middleware"
	"github.com/spotnsend/spotnsend-api/internal/pkg/database"
	"github.com/spotnsend/spotnsend-api/internal/pkg/jwt"
	"github.com/spotnsend/spotnsend-api/internal/pkg/logger"
	"github.com/spotnsend/spotnsend-api/internal/pkg/queue"
	pkgresponse "github.com/spotnsend/spotnsend-api/internal/pkg/response"
	"github.com/spotnsend/spotnsend-api/internal/pkg/storage"
	"github.com/spotnsend/spotnsend-api/internal/realtime"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to init logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting SpotnSend API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	amqpConn, amqpCh, err := queue.Connect(cfg.AmqpURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
	}
	defer queue.Close(amqpConn, amqpCh)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	s3, err := storage.NewS3Storage(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create S3 storage")
	}

	// ---------- WebSocket hub ----------
	hub := realtime.NewHub(redis)
	go hub.Run()
	defer hub.Stop()

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	auditRepo := audit.NewRepository(db)
	authorityRepo := authority.NewRepository(db)
	dispatchRepo := dispatch.NewRepository(db)
	reportRepo := report.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	categoryRepo := category.NewRepository(db)
	adminRepo := admin.NewRepository(db)

	// ---------- Services ----------
	var enqueuer notification.Enqueuer
	if amqpCh != nil {
		enqueuer = notification.NewAMQPEnqueuer(amqpCh, cfg.DeliveryQueueName)
	}
	notificationService := notification.NewService(notificationRepo, hub, enqueuer)
	dispatchService := dispatch.NewService(dispatchRepo)
	var waker report.MediaWaker
	if redis != nil {
		waker = &redisWaker{client: redis}
	}
	reportService := report.NewService(reportRepo, dispatchRepo, auditRepo, notificationService, hub, waker)
	adminService := admin.NewService(adminRepo, userRepo, auditRepo)
	userService := user.NewService(userRepo)

	// ---------- Handlers ----------
	reportHandler := report.NewHandler(reportService)
	userHandler := user.NewHandler(userService)
	dispatchHandler := dispatch.NewHandler(dispatchService)
	authorityHandler := authority.NewHandler(authorityRepo)
	notificationHandler := notification.NewHandler(notificationService)
	categoryHandler := category.NewHandler(categoryRepo)
	mediaHandler := media.NewHandler(s3)
	adminHandler := admin.NewHandler(adminService, reportService)
	wsHandler := realtime.NewHandler(hub, cfg.AllowedOrigins)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint; mobile clients pass the token as a query param
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(wsHandler.ServeWS)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Mount("/users", userHandler.Routes(authMiddleware))
		r.Mount("/reports", reportHandler.Routes(authMiddleware))
		r.Mount("/dispatches", dispatchHandler.Routes(authMiddleware))
		r.Mount("/authorities", authorityHandler.Routes(authMiddleware))
		r.Mount("/notifications", notificationHandler.Routes(authMiddleware))
		r.Mount("/categories", categoryHandler.Routes(authMiddleware))
		r.Mount("/media", mediaHandler.Routes(authMiddleware))
		r.Mount("/admin", adminHandler.Routes(authMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// redisWaker nudges the thumbnail worker over redis pub/sub
type redisWaker struct {
	client *goredis.Client
}

func (w *redisWaker) Wake(ctx context.Context) {
	if err := w.client.Publish(ctx, report.ThumbnailWakeChannel, "1").Err(); err != nil {
		log.Debug().Err(err).Msg("Thumbnail wake publish failed")
	}
}
