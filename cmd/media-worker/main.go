package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"

	"github.com/spotnsend/spotnsend-api/internal/config"
	"github.com/spotnsend/spotnsend-api/internal/domain/report"
	"github.com/spotnsend/spotnsend-api/internal/pkg/database"
	"github.com/spotnsend/spotnsend-api/internal/pkg/logger"
	"github.com/spotnsend/spotnsend-api/internal/pkg/storage"
)

const (
	pollInterval  = 15 * time.Second
	batchSize     = 20
	thumbMaxEdge  = 480
	thumbJPEGQual = 80
)

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to init logger")
	}

	log.Info().Msg("Starting media worker")

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// pub/sub wakeups between polls so fresh uploads do not wait a full tick
	wake := make(chan struct{}, 1)
	if redis != nil {
		pubsub := redis.Subscribe(ctx, report.ThumbnailWakeChannel)
		defer pubsub.Close()
		go func() {
			for range pubsub.Channel() {
				select {
				case wake <- struct{}{}:
				default:
				}
			}
		}()
	}

	w := &worker{store: report.NewMediaStore(db), storage: s3}

	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		w.processBatch(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			case <-wake:
			}
			w.processBatch(ctx)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down media worker...")
	cancel()
	log.Info().Msg("Media worker exited")
}

type worker struct {
	store   *report.MediaStore
	storage *storage.S3Storage
}

func (w *worker) processBatch(ctx context.Context) {
	media, err := w.store.PendingThumbnails(ctx, batchSize)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list pending thumbnails")
		return
	}
	for _, m := range media {
		if ctx.Err() != nil {
			return
		}
		if err := w.generate(ctx, m); err != nil {
			log.Warn().Err(err).
				Str("media_id", m.ID.String()).
				Msg("Thumbnail generation failed, falling back to original")
			// leave a non-null value so the row is not retried forever
			if err := w.store.SetThumbnailURL(ctx, m.ID, m.StorageURL); err != nil {
				log.Error().Err(err).Str("media_id", m.ID.String()).Msg("Fallback write failed")
			}
			continue
		}
		log.Info().Str("media_id", m.ID.String()).Msg("Thumbnail generated")
	}
}

func (w *worker) generate(ctx context.Context, m *report.Media) error {
	key := w.storage.KeyFromURL(m.StorageURL)
	if key == "" {
		return fmt.Errorf("cannot derive storage key from %s", m.StorageURL)
	}

	body, err := w.storage.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("fetch original: %w", err)
	}
	defer body.Close()

	img, err := imaging.Decode(body, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	thumb := imaging.Fit(img, thumbMaxEdge, thumbMaxEdge, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(thumbJPEGQual)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	thumbKey := fmt.Sprintf("thumbs/%s.jpg", m.ID)
	if err := w.storage.Put(ctx, thumbKey, &buf, "image/jpeg"); err != nil {
		return fmt.Errorf("upload thumbnail: %w", err)
	}

	return w.store.SetThumbnailURL(ctx, m.ID, w.storage.PublicURL(thumbKey))
}
