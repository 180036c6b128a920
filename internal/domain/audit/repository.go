package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines audit trail access. Append and read only.
type Repository interface {
	Record(ctx context.Context, tableName, recordID string, userID uuid.NullUUID, action string, changes json.RawMessage) error
	List(ctx context.Context, tableName, recordID string, limit, offset int) ([]*Event, int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates audit repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Record(ctx context.Context, tableName, recordID string, userID uuid.NullUUID, action string, changes json.RawMessage) error {
	query := `
		INSERT INTO audit_events (id, table_name, record_id, user_id, action, changes, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, '{}'::jsonb), $7)
	`
	_, err := r.db.ExecContext(ctx, query, uuid.New(), tableName, recordID, userID, action, changes, time.Now())
	return err
}

// List returns events newest first, optionally filtered by exact table name
// and record id.
func (r *repository) List(ctx context.Context, tableName, recordID string, limit, offset int) ([]*Event, int, error) {
	where := ` WHERE ($1 = '' OR table_name = $1) AND ($2 = '' OR record_id = $2)`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM audit_events`+where, tableName, recordID); err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM audit_events` + where + ` ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	var events []*Event
	if err := r.db.SelectContext(ctx, &events, query, tableName, recordID, limit, offset); err != nil {
		return nil, 0, err
	}

	return events, total, nil
}
