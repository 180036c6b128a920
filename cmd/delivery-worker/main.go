package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/spotnsend/spotnsend-api/internal/config"
	"github.com/spotnsend/spotnsend-api/internal/domain/notification"
	"github.com/spotnsend/spotnsend-api/internal/pkg/database"
	"github.com/spotnsend/spotnsend-api/internal/pkg/logger"
	"github.com/spotnsend/spotnsend-api/internal/pkg/queue"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to init logger")
	}

	log.Info().Str("queue", cfg.DeliveryQueueName).Msg("Starting delivery worker")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	amqpConn, amqpCh, err := queue.Connect(cfg.AmqpURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
	}
	if amqpCh == nil {
		log.Fatal().Msg("AMQP_URL is required for the delivery worker")
	}
	defer queue.Close(amqpConn, amqpCh)

	deliveries, err := queue.Consume(amqpCh, cfg.DeliveryQueueName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start consuming")
	}

	repo := notification.NewRepository(db)
	worker := &worker{repo: repo}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range deliveries {
			worker.handle(msg)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down delivery worker...")
	queue.Close(amqpConn, amqpCh)
	<-done
	log.Info().Msg("Delivery worker exited")
}

type worker struct {
	repo notification.Repository
}

func (w *worker) handle(msg amqp.Delivery) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var job notification.DeliveryJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		log.Error().Err(err).Msg("Malformed delivery job, dropping")
		_ = msg.Nack(false, false)
		return
	}

	sendErr := w.send(ctx, &job)

	status := notification.DeliverySent
	var lastError *string
	if sendErr != nil {
		status = notification.DeliveryFailed
		s := sendErr.Error()
		lastError = &s
	}

	if err := w.repo.UpdateDeliveryStatus(ctx, job.DeliveryID, status, lastError); err != nil {
		log.Error().Err(err).
			Str("delivery_id", job.DeliveryID.String()).
			Msg("Failed to record delivery outcome, requeueing")
		_ = msg.Nack(false, true)
		return
	}

	log.Info().
		Str("delivery_id", job.DeliveryID.String()).
		Str("channel", string(job.Channel)).
		Str("status", string(status)).
		Msg("Delivery processed")
	_ = msg.Ack(false)
}

// send hands the job to the channel's provider. Provider integrations (FCM,
// SMS gateway, SMTP) plug in here; until they land every channel is a
// logged no-op so the pipeline around them can run end to end.
func (w *worker) send(ctx context.Context, job *notification.DeliveryJob) error {
	switch job.Channel {
	case notification.ChannelPush, notification.ChannelSMS, notification.ChannelEmail:
		log.Debug().
			Str("channel", string(job.Channel)).
			Str("user_id", job.UserID.String()).
			Str("title", job.Title).
			Msg("Dispatching to provider")
		return nil
	default:
		return notification.ErrInvalidChannel
	}
}
