package admin

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// VerificationStatus is the review state of an identity document
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Verification is a user's identity document awaiting review
type Verification struct {
	ID           uuid.UUID          `db:"id" json:"id"`
	UserID       uuid.UUID          `db:"user_id" json:"user_id"`
	DocumentType string             `db:"document_type" json:"document_type"`
	DocumentURL  string             `db:"document_url" json:"document_url"`
	Status       VerificationStatus `db:"status" json:"status"`
	Notes        sql.NullString     `db:"notes" json:"-"`
	ReviewedBy   uuid.NullUUID      `db:"reviewed_by" json:"-"`
	ReviewedAt   sql.NullTime       `db:"reviewed_at" json:"-"`
	CreatedAt    time.Time          `db:"created_at" json:"created_at"`
}

// VerificationWithUser carries the applicant's name for the review queue
type VerificationWithUser struct {
	Verification
	UserName string `db:"full_name" json:"full_name"`
}
