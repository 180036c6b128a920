package admin

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines verification review data access
type Repository interface {
	ListPending(ctx context.Context, limit, offset int) ([]*VerificationWithUser, int, error)
	Review(ctx context.Context, id, reviewerID uuid.UUID, decision VerificationStatus, notes *string) (*Verification, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates verification repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListPending(ctx context.Context, limit, offset int) ([]*VerificationWithUser, int, error) {
	countQuery := `SELECT COUNT(*) FROM account_verifications WHERE status = 'pending'`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT v.*, u.full_name
		FROM account_verifications v
		JOIN users u ON u.id = v.user_id
		WHERE v.status = 'pending'
		ORDER BY v.created_at ASC
		LIMIT $1 OFFSET $2
	`
	var rows []*VerificationWithUser
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Review settles a pending verification and moves the applicant's account
// status in the same transaction: approved makes the account verified,
// rejected suspends it. A verification that is not pending anymore returns
// ErrAlreadyReviewed.
func (r *repository) Review(ctx context.Context, id, reviewerID uuid.UUID, decision VerificationStatus, notes *string) (*Verification, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var current Verification
	err = tx.GetContext(ctx, &current,
		`SELECT * FROM account_verifications WHERE id = $1 FOR UPDATE`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if current.Status != VerificationPending {
		return nil, ErrAlreadyReviewed
	}

	query := `
		UPDATE account_verifications SET
			status = $2,
			notes = COALESCE($3, notes),
			reviewed_by = $4,
			reviewed_at = NOW()
		WHERE id = $1
		RETURNING *
	`
	var reviewed Verification
	if err := tx.GetContext(ctx, &reviewed, query, id, decision, notes, reviewerID); err != nil {
		return nil, err
	}

	accountStatus := "verified"
	if decision == VerificationRejected {
		accountStatus = "suspended"
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE users SET account_status = $2, updated_at = NOW() WHERE id = $1`,
		reviewed.UserID, accountStatus)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &reviewed, nil
}
