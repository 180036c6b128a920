package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// AccountStatus represents account standing
type AccountStatus string

const (
	StatusPending   AccountStatus = "pending"
	StatusVerified  AccountStatus = "verified"
	StatusSuspended AccountStatus = "suspended"
)

// ValidAccountStatus reports whether s is a known account status.
func ValidAccountStatus(s AccountStatus) bool {
	switch s {
	case StatusPending, StatusVerified, StatusSuspended:
		return true
	}
	return false
}

// User holds the profile fields this service reads. Registration and
// credential handling belong to the identity service.
type User struct {
	ID               uuid.UUID      `db:"id" json:"id"`
	FullName         string         `db:"full_name" json:"full_name"`
	Username         sql.NullString `db:"username" json:"username,omitempty"`
	Email            string         `db:"email" json:"email"`
	PhoneCountryCode sql.NullString `db:"phone_country_code" json:"phone_country_code,omitempty"`
	PhoneNumber      sql.NullString `db:"phone_number" json:"phone_number,omitempty"`
	Role             string         `db:"role" json:"role"`
	AccountStatus    AccountStatus  `db:"account_status" json:"account_status"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// Settings holds per-user interface settings with server-side defaults
type Settings struct {
	UserID          uuid.UUID `db:"user_id" json:"-"`
	Language        string    `db:"language" json:"language"`
	Theme           string    `db:"theme" json:"theme"`
	TwoFactorPrompt bool      `db:"two_factor_prompt" json:"two_factor_prompt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// NotificationPreferences holds per-channel opt-in flags
type NotificationPreferences struct {
	UserID               uuid.UUID `db:"user_id" json:"-"`
	NotificationsEnabled bool      `db:"notifications_enabled" json:"notifications_enabled"`
	PushEnabled          bool      `db:"push_enabled" json:"push_enabled"`
	EmailEnabled         bool      `db:"email_enabled" json:"email_enabled"`
	SMSEnabled           bool      `db:"sms_enabled" json:"sms_enabled"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// MapPreferences holds the default map view for a user
type MapPreferences struct {
	UserID                    uuid.UUID `db:"user_id" json:"-"`
	DefaultRadiusMeters       int       `db:"default_radius_meters" json:"default_radius_meters"`
	DefaultView               string    `db:"default_view" json:"default_view"`
	IncludeFavoritesByDefault bool      `db:"include_favorites_by_default" json:"include_favorites_by_default"`
	UpdatedAt                 time.Time `db:"updated_at" json:"updated_at"`
}

// FavoriteSpot is a saved location a user watches for incidents
type FavoriteSpot struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"-"`
	Name         string    `db:"name" json:"name"`
	Latitude     float64   `db:"latitude" json:"latitude"`
	Longitude    float64   `db:"longitude" json:"longitude"`
	RadiusMeters int       `db:"radius_meters" json:"radius_meters"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// CategoryFilter marks a category the user has selected on the map
type CategoryFilter struct {
	CategoryID int64 `db:"category_id" json:"category_id"`
	IsSelected bool  `db:"is_selected" json:"is_selected"`
}

// AccountStats summarizes a user's activity for the profile screen
type AccountStats struct {
	ReportsCount  int           `db:"reports_count" json:"reports_count"`
	FeedbackCount int           `db:"feedback_count" json:"feedback_count"`
	AccountStatus AccountStatus `db:"account_status" json:"account_status"`
}

// AdminRow is a user row with activity counts for the moderation listing
type AdminRow struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	FullName      string         `db:"full_name" json:"full_name"`
	Username      sql.NullString `db:"username" json:"username,omitempty"`
	Email         string         `db:"email" json:"email"`
	Role          string         `db:"role" json:"role"`
	AccountStatus AccountStatus  `db:"account_status" json:"account_status"`
	ReportsCount  int            `db:"reports_count" json:"reports_count"`
	FeedbackCount int            `db:"feedback_count" json:"feedback_count"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}
