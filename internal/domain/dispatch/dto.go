package dispatch

import (
	"time"

	"github.com/google/uuid"
)

// UpdateDispatchRequest for PATCH /dispatches/{id}
type UpdateDispatchRequest struct {
	Status string  `json:"status" validate:"required,dispatch_status"`
	Notes  *string `json:"notes" validate:"omitempty,max=2000"`
}

// DispatchResponse is the API shape of a dispatch
type DispatchResponse struct {
	ID             uuid.UUID  `json:"id"`
	ReportID       uuid.UUID  `json:"report_id"`
	AuthorityID    uuid.UUID  `json:"authority_id"`
	AuthorityName  string     `json:"authority_name,omitempty"`
	Status         Status     `json:"status"`
	Channel        Channel    `json:"channel"`
	NotifiedAt     *time.Time `json:"notified_at,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	DismissedAt    *time.Time `json:"dismissed_at,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ResponseFromEntity converts a dispatch to its API shape
func ResponseFromEntity(d *Dispatch) *DispatchResponse {
	resp := &DispatchResponse{
		ID:          d.ID,
		ReportID:    d.ReportID,
		AuthorityID: d.AuthorityID,
		Status:      d.Status,
		Channel:     d.Channel,
		Notes:       d.Notes.String,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.NotifiedAt.Valid {
		t := d.NotifiedAt.Time
		resp.NotifiedAt = &t
	}
	if d.AcknowledgedAt.Valid {
		t := d.AcknowledgedAt.Time
		resp.AcknowledgedAt = &t
	}
	if d.DismissedAt.Valid {
		t := d.DismissedAt.Time
		resp.DismissedAt = &t
	}
	return resp
}

// ResponseFromJoined converts a dispatch joined with its authority name
func ResponseFromJoined(d *WithAuthority) *DispatchResponse {
	resp := ResponseFromEntity(&d.Dispatch)
	resp.AuthorityName = d.AuthorityName
	return resp
}
