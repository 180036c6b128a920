package dispatch

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents dispatch state
type Status string

const (
	StatusPending      Status = "pending"
	StatusNotified     Status = "notified"
	StatusAcknowledged Status = "acknowledged"
	StatusDismissed    Status = "dismissed"
)

// ValidStatus reports whether s is one of the four dispatch states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusNotified, StatusAcknowledged, StatusDismissed:
		return true
	}
	return false
}

// Channel represents how an authority is reached
type Channel string

const (
	ChannelInApp Channel = "in_app"
)

// Dispatch is a trackable notification obligation from a report to one
// authority, unique per (report, authority).
type Dispatch struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ReportID    uuid.UUID `db:"report_id" json:"report_id"`
	AuthorityID uuid.UUID `db:"authority_id" json:"authority_id"`
	Status      Status    `db:"status" json:"status"`
	Channel     Channel   `db:"channel" json:"channel"`

	// Stamped exactly when the corresponding status is reached; a stamp is
	// never reverted, re-entering a state re-stamps it.
	NotifiedAt     sql.NullTime `db:"notified_at" json:"notified_at,omitempty"`
	AcknowledgedAt sql.NullTime `db:"acknowledged_at" json:"acknowledged_at,omitempty"`
	DismissedAt    sql.NullTime `db:"dismissed_at" json:"dismissed_at,omitempty"`

	Notes     sql.NullString `db:"notes" json:"notes,omitempty"`
	CreatedBy uuid.NullUUID  `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// Transition moves the dispatch into status at the given time, stamping the
// timestamp that belongs to the target state. All four states are mutually
// reachable: there is deliberately no guard, an authority may re-open a
// dismissed dispatch or be re-notified after acknowledging.
func (d *Dispatch) Transition(status Status, now time.Time) {
	d.Status = status
	d.UpdatedAt = now

	switch status {
	case StatusNotified:
		d.NotifiedAt = sql.NullTime{Time: now, Valid: true}
	case StatusAcknowledged:
		d.AcknowledgedAt = sql.NullTime{Time: now, Valid: true}
	case StatusDismissed:
		d.DismissedAt = sql.NullTime{Time: now, Valid: true}
	}
}

// ApplyUpdate is the full moderation update: a Transition plus the audit
// fields. The acting moderator always overwrites created_by (last write
// wins); notes only change when provided.
func (d *Dispatch) ApplyUpdate(status Status, notes *string, actorID uuid.UUID, now time.Time) {
	d.Transition(status, now)
	if notes != nil {
		d.Notes = sql.NullString{String: *notes, Valid: true}
	}
	if actorID != uuid.Nil {
		d.CreatedBy = uuid.NullUUID{UUID: actorID, Valid: true}
	}
}

// WithAuthority is a dispatch together with the authority's display name,
// used by report aggregation.
type WithAuthority struct {
	Dispatch
	AuthorityName string `db:"authority_name" json:"authority_name"`
}
