package admin

import (
	"time"

	"github.com/google/uuid"
)

// ReviewRequest settles a pending verification
type ReviewRequest struct {
	Decision string  `json:"decision" validate:"required,oneof=approved rejected"`
	Notes    *string `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateUserStatusRequest moves a user's account standing
type UpdateUserStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=pending verified suspended"`
	Notes  *string `json:"notes" validate:"omitempty,max=2000"`
}

// VerificationResponse is the wire shape of a verification
type VerificationResponse struct {
	ID           uuid.UUID          `json:"id"`
	UserID       uuid.UUID          `json:"user_id"`
	UserName     string             `json:"user_name,omitempty"`
	DocumentType string             `json:"document_type"`
	DocumentURL  string             `json:"document_url"`
	Status       VerificationStatus `json:"status"`
	Notes        *string            `json:"notes,omitempty"`
	ReviewedBy   *uuid.UUID         `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time         `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// ResponseFromEntity converts a verification to its wire shape
func ResponseFromEntity(v *Verification) *VerificationResponse {
	resp := &VerificationResponse{
		ID:           v.ID,
		UserID:       v.UserID,
		DocumentType: v.DocumentType,
		DocumentURL:  v.DocumentURL,
		Status:       v.Status,
		CreatedAt:    v.CreatedAt,
	}
	if v.Notes.Valid {
		resp.Notes = &v.Notes.String
	}
	if v.ReviewedBy.Valid {
		id := v.ReviewedBy.UUID
		resp.ReviewedBy = &id
	}
	if v.ReviewedAt.Valid {
		t := v.ReviewedAt.Time
		resp.ReviewedAt = &t
	}
	return resp
}
