package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is one immutable record of a moderation or administrative action.
// Events are only ever inserted; there is no update or delete path.
type Event struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	TableName string          `db:"table_name" json:"table_name"`
	RecordID  string          `db:"record_id" json:"record_id"`
	UserID    uuid.NullUUID   `db:"user_id" json:"user_id,omitempty"` // null for system actions
	Action    string          `db:"action" json:"action"`
	Changes   json.RawMessage `db:"changes" json:"changes,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
