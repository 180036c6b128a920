package authority

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Authority is an organization with a service location and a set of handled
// report categories. This service only reads authorities; their management
// lives elsewhere.
type Authority struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Phone     sql.NullString `db:"phone" json:"phone,omitempty"`
	Email     sql.NullString `db:"email" json:"email,omitempty"`
	City      sql.NullString `db:"city" json:"city,omitempty"`
	Latitude  float64        `db:"latitude" json:"latitude"`
	Longitude float64        `db:"longitude" json:"longitude"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Nearby is an authority ranked by great-circle distance from a query point
type Nearby struct {
	Authority
	DistanceMeters float64 `db:"distance_meters" json:"distance_meters"`
}
