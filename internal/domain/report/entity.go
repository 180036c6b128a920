package report

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status represents report review state
type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusArchived    Status = "archived"
)

// ValidStatus reports whether s is a known report status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected, StatusArchived:
		return true
	}
	return false
}

// Priority represents report urgency
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ValidPriority reports whether p is a known priority.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// NotifyScope says who should be alerted about a report
type NotifyScope string

const (
	ScopePeople     NotifyScope = "people"
	ScopeGovernment NotifyScope = "government"
	ScopeBoth       NotifyScope = "both"
)

// WantsAuthorities reports whether this scope triggers authority dispatch.
func (s NotifyScope) WantsAuthorities() bool {
	return s == ScopeGovernment || s == ScopeBoth
}

// MediaType represents attachment kind
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Report represents a citizen incident report
type Report struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	UserID        uuid.UUID     `db:"user_id" json:"user_id"`
	CategoryID    int64         `db:"category_id" json:"category_id"`
	SubcategoryID sql.NullInt64 `db:"subcategory_id" json:"subcategory_id,omitempty"`
	Status        Status        `db:"status" json:"status"`
	Priority      Priority      `db:"priority" json:"priority"`
	NotifyScope   NotifyScope   `db:"notify_scope" json:"notify_scope"`
	Description   string        `db:"description" json:"description"`

	// WGS84 degrees
	Latitude  float64 `db:"latitude" json:"latitude"`
	Longitude float64 `db:"longitude" json:"longitude"`

	LocationName        sql.NullString `db:"location_name" json:"location_name,omitempty"`
	Address             sql.NullString `db:"address" json:"address,omitempty"`
	City                sql.NullString `db:"city" json:"city,omitempty"`
	AlertRadiusMeters   sql.NullInt64  `db:"alert_radius_meters" json:"alert_radius_meters,omitempty"`
	GovernmentTicketRef sql.NullString `db:"government_ticket_ref" json:"government_ticket_ref,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Stamped whenever status reaches approved; never cleared, even when
	// the status later regresses.
	ResolvedAt sql.NullTime `db:"resolved_at" json:"resolved_at,omitempty"`
}

// Media is a stored attachment of a report. The raw bytes live in object
// storage; this row only carries locators.
type Media struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	ReportID     uuid.UUID       `db:"report_id" json:"report_id"`
	MediaType    MediaType       `db:"media_type" json:"media_type"`
	StorageURL   string          `db:"storage_url" json:"storage_url"`
	ThumbnailURL sql.NullString  `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	Metadata     json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	IsCover      bool            `db:"is_cover" json:"is_cover"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// Feedback is an append-only comment on a report
type Feedback struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ReportID  uuid.UUID `db:"report_id" json:"report_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FeedbackWithUser carries the author's display name for aggregation
type FeedbackWithUser struct {
	Feedback
	UserName string `db:"full_name" json:"full_name"`
}

// Flag is a user's complaint about a report, unique per (report, user).
// Re-flagging overwrites reason and details.
type Flag struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	ReportID  uuid.UUID      `db:"report_id" json:"report_id"`
	UserID    uuid.UUID      `db:"user_id" json:"user_id"`
	Reason    string         `db:"reason" json:"reason"`
	Details   sql.NullString `db:"details" json:"details,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Nearby is a report ranked by great-circle distance from a query point
type Nearby struct {
	Report
	DistanceMeters float64 `db:"distance_meters" json:"distance_meters"`
}

// Detail is the full aggregate returned by GetReport
type Detail struct {
	Report
	CategoryName    string         `db:"category_name" json:"category_name"`
	SubcategoryName sql.NullString `db:"subcategory_name" json:"subcategory_name,omitempty"`
	ReporterName    string         `db:"reporter_name" json:"reporter_name"`
	ReporterStatus  string         `db:"account_status" json:"reporter_status"`
}

// AdminRow is a report row with joined names for the moderation listing
type AdminRow struct {
	Report
	CategoryName string `db:"category_name" json:"category_name"`
	ReporterName string `db:"reporter_name" json:"reporter_name"`
}
