package notification

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SendRequest creates and delivers a notification. Channels defaults to
// in_app when empty.
type SendRequest struct {
	UserID          uuid.UUID       `json:"user_id" validate:"required"`
	Type            string          `json:"type" validate:"required,notification_type"`
	Title           string          `json:"title" validate:"required,max=200"`
	Body            string          `json:"body" validate:"required,max=2000"`
	Payload         json.RawMessage `json:"payload"`
	RelatedReportID *uuid.UUID      `json:"related_report_id"`
	Channels        []string        `json:"channels" validate:"omitempty,max=4,dive,delivery_channel"`
}

// IDsRequest addresses a batch of the caller's notifications
type IDsRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1,max=100"`
}

// NotificationResponse is the wire shape of a notification
type NotificationResponse struct {
	ID              uuid.UUID       `json:"id"`
	Type            Type            `json:"type"`
	Title           string          `json:"title"`
	Body            string          `json:"body"`
	Payload         json.RawMessage `json:"payload,omitempty"`
	RelatedReportID *uuid.UUID      `json:"related_report_id,omitempty"`
	SeenAt          *time.Time      `json:"seen_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ResponseFromEntity converts a notification to its wire shape
func ResponseFromEntity(n *Notification) *NotificationResponse {
	resp := &NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		Payload:   n.Payload,
		CreatedAt: n.CreatedAt,
	}
	if n.RelatedReportID.Valid {
		id := n.RelatedReportID.UUID
		resp.RelatedReportID = &id
	}
	if n.SeenAt.Valid {
		t := n.SeenAt.Time
		resp.SeenAt = &t
	}
	return resp
}
