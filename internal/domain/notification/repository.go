package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines notification data access
type Repository interface {
	Create(ctx context.Context, n *Notification, channels []Channel) ([]*Delivery, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, int, error)
	MarkSeen(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*SeenMark, error)
	SoftDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error)
	UpdateDeliveryStatus(ctx context.Context, deliveryID uuid.UUID, status DeliveryStatus, lastError *string) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates notification repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create persists the notification and one pending delivery per channel in a
// single transaction. Duplicate channels collapse to one delivery row.
func (r *repository) Create(ctx context.Context, n *Notification, channels []Channel) ([]*Delivery, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO notifications (
			id, user_id, type, title, body, payload, related_report_id, created_at
		) VALUES ($1, $2, $3, $4, $5, COALESCE($6, '{}'::jsonb), $7, NOW())
		RETURNING created_at
	`
	err = tx.QueryRowxContext(ctx, query,
		n.ID, n.UserID, n.Type, n.Title, n.Body, n.Payload, n.RelatedReportID,
	).Scan(&n.CreatedAt)
	if err != nil {
		return nil, err
	}

	deliveryQuery := `
		INSERT INTO notification_deliveries (
			id, notification_id, channel, status, attempts, created_at, updated_at
		) VALUES ($1, $2, $3, 'pending', 0, NOW(), NOW())
		ON CONFLICT (notification_id, channel) DO NOTHING
	`
	for _, ch := range channels {
		if _, err := tx.ExecContext(ctx, deliveryQuery, uuid.New(), n.ID, ch); err != nil {
			return nil, err
		}
	}

	var deliveries []*Delivery
	err = tx.SelectContext(ctx, &deliveries,
		`SELECT * FROM notification_deliveries WHERE notification_id = $1 ORDER BY created_at`, n.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return deliveries, nil
}

// List returns the user's notifications newest first, excluding soft-deleted
// ones.
func (r *repository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, int, error) {
	countQuery := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND deleted_at IS NULL`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM notifications
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var notifications []*Notification
	if err := r.db.SelectContext(ctx, &notifications, query, userID, limit, offset); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// MarkSeen stamps seen_at on the caller's own live notifications among ids
// and returns what was actually touched. Foreign and deleted ids are
// silently ignored; already-seen rows keep their original stamp.
func (r *repository) MarkSeen(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*SeenMark, error) {
	query := `
		UPDATE notifications
		SET seen_at = COALESCE(seen_at, NOW())
		WHERE user_id = $1 AND id = ANY($2) AND deleted_at IS NULL
		RETURNING id, seen_at
	`
	var marks []*SeenMark
	err := r.db.SelectContext(ctx, &marks, query, userID, pq.Array(ids))
	return marks, err
}

// SoftDelete hides the caller's own notifications among ids. Returns how
// many rows actually changed.
func (r *repository) SoftDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error) {
	query := `
		UPDATE notifications
		SET deleted_at = NOW()
		WHERE user_id = $1 AND id = ANY($2) AND deleted_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, userID, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// UpdateDeliveryStatus records the outcome of one delivery attempt. Moving
// to sent stamps sent_at once.
func (r *repository) UpdateDeliveryStatus(ctx context.Context, deliveryID uuid.UUID, status DeliveryStatus, lastError *string) error {
	query := `
		UPDATE notification_deliveries SET
			status = $2,
			attempts = attempts + 1,
			last_error = $3,
			sent_at = CASE WHEN $2 = 'sent' AND sent_at IS NULL THEN NOW() ELSE sent_at END,
			updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, deliveryID, status, lastError)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDeliveryNotFound
	}
	return nil
}
