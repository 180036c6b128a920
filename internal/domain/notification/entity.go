package notification

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type classifies a notification
type Type string

const (
	TypeSystem       Type = "system"
	TypeReportUpdate Type = "report_update"
	TypeVerification Type = "verification"
	TypeReminder     Type = "reminder"
)

// ValidType reports whether t is a known notification type.
func ValidType(t Type) bool {
	switch t {
	case TypeSystem, TypeReportUpdate, TypeVerification, TypeReminder:
		return true
	}
	return false
}

// Channel is a delivery channel. in_app is delivered inline over the
// websocket; the rest go through the delivery queue.
type Channel string

const (
	ChannelInApp Channel = "in_app"
	ChannelPush  Channel = "push"
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// ValidChannel reports whether c is a known delivery channel.
func ValidChannel(c Channel) bool {
	switch c {
	case ChannelInApp, ChannelPush, ChannelSMS, ChannelEmail:
		return true
	}
	return false
}

// External reports whether the channel is processed by the delivery worker.
func (c Channel) External() bool {
	return c != ChannelInApp
}

// DeliveryStatus tracks a delivery attempt
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

// Notification represents a message addressed to one user
type Notification struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	UserID          uuid.UUID       `db:"user_id" json:"user_id"`
	Type            Type            `db:"type" json:"type"`
	Title           string          `db:"title" json:"title"`
	Body            string          `db:"body" json:"body"`
	Payload         json.RawMessage `db:"payload" json:"payload,omitempty"`
	RelatedReportID uuid.NullUUID   `db:"related_report_id" json:"-"`
	SeenAt          sql.NullTime    `db:"seen_at" json:"-"`
	DeletedAt       sql.NullTime    `db:"deleted_at" json:"-"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// Delivery is one channel-specific delivery attempt for a notification,
// unique per (notification, channel).
type Delivery struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	NotificationID uuid.UUID      `db:"notification_id" json:"notification_id"`
	Channel        Channel        `db:"channel" json:"channel"`
	Status         DeliveryStatus `db:"status" json:"status"`
	Attempts       int            `db:"attempts" json:"attempts"`
	LastError      sql.NullString `db:"last_error" json:"-"`
	SentAt         sql.NullTime   `db:"sent_at" json:"-"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// SeenMark is one notification acknowledged by MarkSeen
type SeenMark struct {
	ID     uuid.UUID `db:"id" json:"id"`
	SeenAt time.Time `db:"seen_at" json:"seen_at"`
}
