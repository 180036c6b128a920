package report

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/spotnsend/spotnsend-api/internal/domain/dispatch"
)

// MediaInput is one attachment locator in a create request
type MediaInput struct {
	URL          string          `json:"url" validate:"required,url"`
	Kind         string          `json:"kind" validate:"omitempty,media_type"`
	ThumbnailURL string          `json:"thumbnail_url" validate:"omitempty,url"`
	Metadata     json.RawMessage `json:"metadata"`
	IsCover      bool            `json:"is_cover"`
}

// CreateReportRequest is the payload for submitting a report
type CreateReportRequest struct {
	CategoryID        int64           `json:"category_id" validate:"required,gt=0"`
	SubcategoryID     *int64          `json:"subcategory_id" validate:"omitempty,gt=0"`
	Description       string          `json:"description" validate:"required,min=10,max=4000"`
	Latitude          float64         `json:"latitude" validate:"required,latitude"`
	Longitude         float64         `json:"longitude" validate:"required,longitude"`
	LocationName      string          `json:"location_name" validate:"omitempty,max=255"`
	Address           string          `json:"address" validate:"omitempty,max=500"`
	City              string          `json:"city" validate:"omitempty,max=100"`
	AlertRadiusMeters *int            `json:"alert_radius_meters" validate:"omitempty,gte=50,lte=20000"`
	NotifyScope       string          `json:"notify_scope" validate:"omitempty,notify_scope"`
	Priority          string          `json:"priority" validate:"omitempty,report_priority"`
	Media             []MediaInput    `json:"media" validate:"omitempty,max=5,dive"`
}

// UpdateReportStatusRequest is a partial moderation update. Omitted fields
// keep their current values.
type UpdateReportStatusRequest struct {
	Status   *string `json:"status" validate:"omitempty,report_status"`
	Priority *string `json:"priority" validate:"omitempty,report_priority"`
	Notes    *string `json:"notes" validate:"omitempty,max=2000"`
}

// FeedbackRequest adds a comment to a report
type FeedbackRequest struct {
	Comment string `json:"comment" validate:"required,min=2,max=2000"`
}

// FlagRequest flags a report for moderator attention
type FlagRequest struct {
	Reason  string  `json:"reason" validate:"required,max=100"`
	Details *string `json:"details" validate:"omitempty,max=2000"`
}

// ReportResponse is the wire shape of a report
type ReportResponse struct {
	ID                  uuid.UUID   `json:"id"`
	UserID              uuid.UUID   `json:"user_id"`
	CategoryID          int64       `json:"category_id"`
	SubcategoryID       *int64      `json:"subcategory_id,omitempty"`
	Status              Status      `json:"status"`
	Priority            Priority    `json:"priority"`
	NotifyScope         NotifyScope `json:"notify_scope"`
	Description         string      `json:"description"`
	Latitude            float64     `json:"latitude"`
	Longitude           float64     `json:"longitude"`
	LocationName        *string     `json:"location_name,omitempty"`
	Address             *string     `json:"address,omitempty"`
	City                *string     `json:"city,omitempty"`
	AlertRadiusMeters   *int64      `json:"alert_radius_meters,omitempty"`
	GovernmentTicketRef *string     `json:"government_ticket_ref,omitempty"`
	ResolvedAt          *time.Time  `json:"resolved_at,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// ResponseFromEntity converts a Report to its wire shape
func ResponseFromEntity(r *Report) *ReportResponse {
	resp := &ReportResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		CategoryID:  r.CategoryID,
		Status:      r.Status,
		Priority:    r.Priority,
		NotifyScope: r.NotifyScope,
		Description: r.Description,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.SubcategoryID.Valid {
		resp.SubcategoryID = &r.SubcategoryID.Int64
	}
	if r.LocationName.Valid {
		resp.LocationName = &r.LocationName.String
	}
	if r.Address.Valid {
		resp.Address = &r.Address.String
	}
	if r.City.Valid {
		resp.City = &r.City.String
	}
	if r.AlertRadiusMeters.Valid {
		resp.AlertRadiusMeters = &r.AlertRadiusMeters.Int64
	}
	if r.GovernmentTicketRef.Valid {
		resp.GovernmentTicketRef = &r.GovernmentTicketRef.String
	}
	if r.ResolvedAt.Valid {
		t := r.ResolvedAt.Time
		resp.ResolvedAt = &t
	}
	return resp
}

// MediaResponse is the wire shape of an attachment
type MediaResponse struct {
	ID           uuid.UUID       `json:"id"`
	MediaType    MediaType       `json:"media_type"`
	StorageURL   string          `json:"storage_url"`
	ThumbnailURL *string         `json:"thumbnail_url,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	IsCover      bool            `json:"is_cover"`
	CreatedAt    time.Time       `json:"created_at"`
}

func mediaResponse(m *Media) *MediaResponse {
	resp := &MediaResponse{
		ID:         m.ID,
		MediaType:  m.MediaType,
		StorageURL: m.StorageURL,
		Metadata:   m.Metadata,
		IsCover:    m.IsCover,
		CreatedAt:  m.CreatedAt,
	}
	if m.ThumbnailURL.Valid {
		resp.ThumbnailURL = &m.ThumbnailURL.String
	}
	return resp
}

// FeedbackResponse is the wire shape of a feedback entry
type FeedbackResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// DetailResponse is the full aggregate returned for a single report
type DetailResponse struct {
	ReportResponse
	CategoryName    string                       `json:"category_name"`
	SubcategoryName *string                      `json:"subcategory_name,omitempty"`
	ReporterName    string                       `json:"reporter_name"`
	Media           []*MediaResponse             `json:"media"`
	Feedback        []*FeedbackResponse          `json:"feedback"`
	Dispatches      []*dispatch.DispatchResponse `json:"dispatches"`
}

// CreateReportResponse reports the created entity plus the dispatch fanout size
type CreateReportResponse struct {
	Report              *ReportResponse `json:"report"`
	AuthoritiesNotified int             `json:"authorities_notified"`
}

// NearbyResponse is a report with its distance from the query point
type NearbyResponse struct {
	ReportResponse
	DistanceMeters float64 `json:"distance_meters"`
}
