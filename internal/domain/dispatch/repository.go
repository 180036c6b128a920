package dispatch

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines dispatch data access
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Dispatch, error)
	Update(ctx context.Context, id uuid.UUID, status Status, notes *string, actorID uuid.UUID) (*Dispatch, error)
	ListByReport(ctx context.Context, reportID uuid.UUID) ([]*WithAuthority, error)
	ListByAuthority(ctx context.Context, authorityID uuid.UUID, statuses []Status, limit, offset int) ([]*Dispatch, int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates dispatch repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Dispatch, error) {
	query := `SELECT * FROM report_authority_dispatches WHERE id = $1`
	var d Dispatch
	err := r.db.GetContext(ctx, &d, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// Update loads the dispatch under a row lock, applies the transition through
// the entity so stamping follows a single rule, and writes the result back.
func (r *repository) Update(ctx context.Context, id uuid.UUID, status Status, notes *string, actorID uuid.UUID) (*Dispatch, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var d Dispatch
	err = tx.GetContext(ctx, &d, `SELECT * FROM report_authority_dispatches WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	d.ApplyUpdate(status, notes, actorID, time.Now().UTC())

	query := `
		UPDATE report_authority_dispatches SET
			status = $2,
			notes = $3,
			notified_at = $4,
			acknowledged_at = $5,
			dismissed_at = $6,
			created_by = $7,
			updated_at = $8
		WHERE id = $1
		RETURNING *
	`
	err = tx.GetContext(ctx, &d, query,
		d.ID, d.Status, d.Notes, d.NotifiedAt, d.AcknowledgedAt, d.DismissedAt, d.CreatedBy, d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) ListByReport(ctx context.Context, reportID uuid.UUID) ([]*WithAuthority, error) {
	query := `
		SELECT d.*, a.name AS authority_name
		FROM report_authority_dispatches d
		JOIN authorities a ON a.id = d.authority_id
		WHERE d.report_id = $1
		ORDER BY d.created_at
	`
	var dispatches []*WithAuthority
	err := r.db.SelectContext(ctx, &dispatches, query, reportID)
	return dispatches, err
}

func (r *repository) ListByAuthority(ctx context.Context, authorityID uuid.UUID, statuses []Status, limit, offset int) ([]*Dispatch, int, error) {
	filter := make([]string, 0, len(statuses))
	for _, s := range statuses {
		filter = append(filter, string(s))
	}

	countQuery := `
		SELECT COUNT(*) FROM report_authority_dispatches
		WHERE authority_id = $1 AND ($2::text[] IS NULL OR status = ANY($2))
	`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, authorityID, textArray(filter)); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM report_authority_dispatches
		WHERE authority_id = $1 AND ($2::text[] IS NULL OR status = ANY($2))
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	var dispatches []*Dispatch
	if err := r.db.SelectContext(ctx, &dispatches, query, authorityID, textArray(filter), limit, offset); err != nil {
		return nil, 0, err
	}

	return dispatches, total, nil
}
