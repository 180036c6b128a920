package report

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/spotnsend/spotnsend-api/internal/domain/authority"
)

// FanoutParams controls authority dispatch discovery during creation. A nil
// FanoutParams skips dispatch entirely.
type FanoutParams struct {
	RadiusMeters int
	CategoryIDs  []int64
	Limit        int
	Channel      string
}

// AdminFilter narrows the moderation listing
type AdminFilter struct {
	Statuses   []string
	Priorities []string
	CategoryID int64
	City       string
}

// NearbyParams is a proximity query over reports
type NearbyParams struct {
	Latitude       float64
	Longitude      float64
	RadiusMeters   int
	CategoryIDs    []int64
	SubcategoryIDs []int64
	Statuses       []string
	Limit          int
	Offset         int
}

// Repository defines report data access
type Repository interface {
	Create(ctx context.Context, rep *Report, media []*Media, fanout *FanoutParams) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*Detail, []*Media, []*FeedbackWithUser, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status, priority *string) (*Report, error)
	AddFeedback(ctx context.Context, f *Feedback) error
	UpsertFlag(ctx context.Context, f *Flag) (*Flag, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Report, int, error)
	ListForAdmin(ctx context.Context, filter AdminFilter, limit, offset int) ([]*AdminRow, int, error)
	FindNearby(ctx context.Context, p NearbyParams) ([]*Nearby, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates report repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create persists a report, its media rows, and, when fanout is set, one
// pending dispatch per nearby authority. Everything commits or rolls back as
// one unit. Returns the number of dispatch rows actually inserted; duplicates
// for the same (report, authority) pair are silently skipped.
func (r *repository) Create(ctx context.Context, rep *Report, media []*Media, fanout *FanoutParams) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO reports (
			id, user_id, category_id, subcategory_id, status, priority,
			notify_scope, description, latitude, longitude,
			location_name, address, city, alert_radius_meters,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err = tx.QueryRowxContext(ctx, query,
		rep.ID, rep.UserID, rep.CategoryID, rep.SubcategoryID,
		rep.Status, rep.Priority, rep.NotifyScope, rep.Description,
		rep.Latitude, rep.Longitude,
		rep.LocationName, rep.Address, rep.City, rep.AlertRadiusMeters,
	).Scan(&rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return 0, err
	}

	mediaQuery := `
		INSERT INTO report_media (
			id, report_id, media_type, storage_url, thumbnail_url,
			metadata, is_cover, created_at
		) VALUES ($1, $2, $3, $4, $5, COALESCE($6, '{}'::jsonb), $7, NOW())
		RETURNING created_at
	`
	for _, m := range media {
		err = tx.QueryRowxContext(ctx, mediaQuery,
			m.ID, rep.ID, m.MediaType, m.StorageURL, m.ThumbnailURL,
			m.Metadata, m.IsCover,
		).Scan(&m.CreatedAt)
		if err != nil {
			return 0, err
		}
	}

	dispatched := 0
	if fanout != nil {
		ids, err := authority.NearbyIDs(ctx, tx,
			rep.Latitude, rep.Longitude, fanout.RadiusMeters, fanout.CategoryIDs, fanout.Limit)
		if err != nil {
			return 0, err
		}
		dispatchQuery := `
			INSERT INTO report_authority_dispatches (
				id, report_id, authority_id, status, channel, created_at, updated_at
			) VALUES ($1, $2, $3, 'pending', $4, NOW(), NOW())
			ON CONFLICT (report_id, authority_id) DO NOTHING
		`
		for _, authorityID := range ids {
			res, err := tx.ExecContext(ctx, dispatchQuery,
				uuid.New(), rep.ID, authorityID, fanout.Channel)
			if err != nil {
				return 0, err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return 0, err
			}
			dispatched += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return dispatched, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	query := `SELECT * FROM reports WHERE id = $1`
	var rep Report
	err := r.db.GetContext(ctx, &rep, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// GetDetail loads the report with joined names plus its media (cover first)
// and feedback (newest first). Dispatches are assembled by the service layer.
func (r *repository) GetDetail(ctx context.Context, id uuid.UUID) (*Detail, []*Media, []*FeedbackWithUser, error) {
	query := `
		SELECT r.*,
		       c.name AS category_name,
		       s.name AS subcategory_name,
		       u.full_name AS reporter_name,
		       u.account_status
		FROM reports r
		JOIN report_categories c ON c.id = r.category_id
		LEFT JOIN report_subcategories s ON s.id = r.subcategory_id
		JOIN users u ON u.id = r.user_id
		WHERE r.id = $1
	`
	var detail Detail
	err := r.db.GetContext(ctx, &detail, query, id)
	if err == sql.ErrNoRows {
		return nil, nil, nil, nil
	}
	if err != nil {
		return nil, nil, nil, err
	}

	mediaQuery := `
		SELECT * FROM report_media
		WHERE report_id = $1
		ORDER BY is_cover DESC, created_at ASC
	`
	var media []*Media
	if err := r.db.SelectContext(ctx, &media, mediaQuery, id); err != nil {
		return nil, nil, nil, err
	}

	feedbackQuery := `
		SELECT f.*, u.full_name
		FROM report_feedbacks f
		JOIN users u ON u.id = f.user_id
		WHERE f.report_id = $1
		ORDER BY f.created_at DESC
	`
	var feedback []*FeedbackWithUser
	if err := r.db.SelectContext(ctx, &feedback, feedbackQuery, id); err != nil {
		return nil, nil, nil, err
	}

	return &detail, media, feedback, nil
}

// UpdateStatus applies a partial moderation update. Nil fields keep their
// current values. Every transition into approved stamps resolved_at; moving
// away from approved leaves the stamp in place.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status, priority *string) (*Report, error) {
	query := `
		UPDATE reports SET
			status = COALESCE($2, status),
			priority = COALESCE($3, priority),
			resolved_at = CASE WHEN $2 = 'approved' THEN NOW() ELSE resolved_at END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`
	var rep Report
	err := r.db.GetContext(ctx, &rep, query, id, status, priority)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *repository) AddFeedback(ctx context.Context, f *Feedback) error {
	query := `
		INSERT INTO report_feedbacks (id, report_id, user_id, comment, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`
	return r.db.QueryRowxContext(ctx, query, f.ID, f.ReportID, f.UserID, f.Comment).
		Scan(&f.CreatedAt)
}

// UpsertFlag inserts a flag or, when the user already flagged the report,
// overwrites reason and details on the existing row.
func (r *repository) UpsertFlag(ctx context.Context, f *Flag) (*Flag, error) {
	query := `
		INSERT INTO report_flags (id, report_id, user_id, reason, details, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (report_id, user_id) DO UPDATE SET
			reason = EXCLUDED.reason,
			details = EXCLUDED.details
		RETURNING *
	`
	var saved Flag
	err := r.db.GetContext(ctx, &saved, query, f.ID, f.ReportID, f.UserID, f.Reason, f.Details)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Report, int, error) {
	countQuery := `SELECT COUNT(*) FROM reports WHERE user_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM reports
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var reports []*Report
	if err := r.db.SelectContext(ctx, &reports, query, userID, limit, offset); err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *repository) ListForAdmin(ctx context.Context, filter AdminFilter, limit, offset int) ([]*AdminRow, int, error) {
	where := `
		WHERE ($1::text[] IS NULL OR r.status = ANY($1))
		  AND ($2::text[] IS NULL OR r.priority = ANY($2))
		  AND ($3::bigint = 0 OR r.category_id = $3)
		  AND ($4::text = '' OR LOWER(r.city) = LOWER($4))
	`
	args := []interface{}{
		textArray(filter.Statuses), textArray(filter.Priorities),
		filter.CategoryID, filter.City,
	}

	countQuery := `SELECT COUNT(*) FROM reports r` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT r.*, c.name AS category_name, u.full_name AS reporter_name
		FROM reports r
		JOIN report_categories c ON c.id = r.category_id
		JOIN users u ON u.id = r.user_id
	` + where + `
		ORDER BY r.created_at DESC
		LIMIT $5 OFFSET $6
	`
	var rows []*AdminRow
	if err := r.db.SelectContext(ctx, &rows, query, append(args, limit, offset)...); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// FindNearby returns reports within p.RadiusMeters of the center, closest
// first. Empty filter slices mean no filter on that dimension.
func (r *repository) FindNearby(ctx context.Context, p NearbyParams) ([]*Nearby, error) {
	query := `
		SELECT * FROM (
			SELECT a.*, ` + haversineExpr + ` AS distance_meters
			FROM reports a
			WHERE ($4::bigint[] IS NULL OR a.category_id = ANY($4))
			  AND ($5::bigint[] IS NULL OR a.subcategory_id = ANY($5))
			  AND ($6::text[] IS NULL OR a.status = ANY($6))
		) ranked
		WHERE ranked.distance_meters <= $3
		ORDER BY ranked.distance_meters
		LIMIT $7 OFFSET $8
	`
	var nearby []*Nearby
	err := r.db.SelectContext(ctx, &nearby, query,
		p.Latitude, p.Longitude, p.RadiusMeters,
		int64Array(p.CategoryIDs), int64Array(p.SubcategoryIDs), textArray(p.Statuses),
		p.Limit, p.Offset)
	return nearby, err
}

// haversineExpr ranks rows by great-circle distance on a spherical Earth.
// Bind order is (center lat, center lon).
const haversineExpr = `
	2 * 6371000 * asin(sqrt(
		power(sin(radians(a.latitude - $1) / 2), 2) +
		cos(radians($1)) * cos(radians(a.latitude)) *
		power(sin(radians(a.longitude - $2) / 2), 2)
	))`

func int64Array(values []int64) interface{} {
	if len(values) == 0 {
		return nil
	}
	return pq.Array(values)
}

func textArray(values []string) interface{} {
	if len(values) == 0 {
		return nil
	}
	return pq.Array(values)
}
