package notification

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/spotnsend/spotnsend-api/internal/pkg/queue"
)

// DeliveryJob is the queued unit of work for external channels. It carries
// everything the delivery worker needs so the worker only touches the
// database to record the outcome.
type DeliveryJob struct {
	DeliveryID     uuid.UUID       `json:"delivery_id"`
	NotificationID uuid.UUID       `json:"notification_id"`
	UserID         uuid.UUID       `json:"user_id"`
	Channel        Channel         `json:"channel"`
	Title          string          `json:"title"`
	Body           string          `json:"body"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

// Enqueuer hands delivery jobs to the queue
type Enqueuer interface {
	EnqueueDelivery(ctx context.Context, job *DeliveryJob) error
}

// AMQPEnqueuer publishes delivery jobs to a durable RabbitMQ queue
type AMQPEnqueuer struct {
	ch        *amqp.Channel
	queueName string
}

// NewAMQPEnqueuer creates a queue-backed enqueuer
func NewAMQPEnqueuer(ch *amqp.Channel, queueName string) *AMQPEnqueuer {
	return &AMQPEnqueuer{ch: ch, queueName: queueName}
}

// EnqueueDelivery publishes the job as a persistent message
func (e *AMQPEnqueuer) EnqueueDelivery(ctx context.Context, job *DeliveryJob) error {
	return queue.Publish(ctx, e.ch, e.queueName, job)
}
