// Package queue wraps the RabbitMQ client for durable work queues.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// Connect dials RabbitMQ and opens a channel.
// Returns nil handles if amqpURL is empty (the queue is optional: async
// delivery channels degrade to pending rows that are never advanced).
func Connect(amqpURL string) (*amqp.Connection, *amqp.Channel, error) {
	if amqpURL == "" {
		log.Warn().Msg("AMQP URL not configured, running without RabbitMQ")
		return nil, nil, nil
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	log.Info().Msg("Connected to RabbitMQ")
	return conn, ch, nil
}

// Close closes the channel and connection, logging on failure.
func Close(conn *amqp.Connection, ch *amqp.Channel) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing RabbitMQ channel")
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing RabbitMQ connection")
		} else {
			log.Info().Msg("RabbitMQ connection closed")
		}
	}
}

// Publish declares the durable queue and publishes payload as persistent JSON.
func Publish(ctx context.Context, ch *amqp.Channel, queueName string, payload interface{}) error {
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queueName, err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = ch.PublishWithContext(pubCtx, "", queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", queueName, err)
	}

	return nil
}

// Consume declares the durable queue and returns a manual-ack delivery stream.
func Consume(ch *amqp.Channel, queueName string) (<-chan amqp.Delivery, error) {
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", queueName, err)
	}

	msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", queueName, err)
	}

	return msgs, nil
}
