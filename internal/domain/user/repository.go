package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ProfilePatch carries the optional profile fields; nil leaves a field untouched.
type ProfilePatch struct {
	Email            *string
	PhoneCountryCode *string
	PhoneNumber      *string
}

// SettingsPatch carries optional settings fields for the upsert.
type SettingsPatch struct {
	Language        *string
	Theme           *string
	TwoFactorPrompt *bool
}

// NotificationPatch carries optional per-channel flags for the upsert.
type NotificationPatch struct {
	NotificationsEnabled *bool
	PushEnabled          *bool
	EmailEnabled         *bool
	SMSEnabled           *bool
}

// MapPatch carries optional map defaults for the upsert.
type MapPatch struct {
	DefaultRadiusMeters       *int
	DefaultView               *string
	IncludeFavoritesByDefault *bool
}

// Repository defines user data access
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*User, error)
	AccountStats(ctx context.Context, id uuid.UUID) (*AccountStats, error)

	GetSettings(ctx context.Context, userID uuid.UUID) (*Settings, error)
	UpsertSettings(ctx context.Context, userID uuid.UUID, patch SettingsPatch) (*Settings, error)
	GetNotificationPreferences(ctx context.Context, userID uuid.UUID) (*NotificationPreferences, error)
	UpsertNotificationPreferences(ctx context.Context, userID uuid.UUID, patch NotificationPatch) (*NotificationPreferences, error)
	GetMapPreferences(ctx context.Context, userID uuid.UUID) (*MapPreferences, error)
	UpsertMapPreferences(ctx context.Context, userID uuid.UUID, patch MapPatch) (*MapPreferences, error)

	ListFavoriteSpots(ctx context.Context, userID uuid.UUID) ([]*FavoriteSpot, error)
	CreateFavoriteSpot(ctx context.Context, spot *FavoriteSpot) (*FavoriteSpot, error)
	DeleteFavoriteSpot(ctx context.Context, userID, spotID uuid.UUID) (bool, error)

	ListCategoryFilters(ctx context.Context, userID uuid.UUID) ([]*CategoryFilter, error)
	ReplaceCategoryFilters(ctx context.Context, userID uuid.UUID, categoryIDs []int64) error

	ListForAdmin(ctx context.Context, status, role string, limit, offset int) ([]*AdminRow, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status AccountStatus) (*User, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates user repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT * FROM users WHERE id = $1`
	var u User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*User, error) {
	query := `
		UPDATE users SET
			email = COALESCE($2, email),
			phone_country_code = COALESCE($3, phone_country_code),
			phone_number = COALESCE($4, phone_number),
			updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`
	var u User
	err := r.db.GetContext(ctx, &u, query, id, patch.Email, patch.PhoneCountryCode, patch.PhoneNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) AccountStats(ctx context.Context, id uuid.UUID) (*AccountStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM reports r WHERE r.user_id = u.id) AS reports_count,
			(SELECT COUNT(*) FROM report_feedbacks rf WHERE rf.user_id = u.id) AS feedback_count,
			u.account_status
		FROM users u
		WHERE u.id = $1
	`
	var s AccountStats
	err := r.db.GetContext(ctx, &s, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) GetSettings(ctx context.Context, userID uuid.UUID) (*Settings, error) {
	query := `SELECT * FROM user_settings WHERE user_id = $1`
	var s Settings
	err := r.db.GetContext(ctx, &s, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// UpsertSettings inserts defaults on first write; later writes only touch the
// fields the patch carries.
func (r *repository) UpsertSettings(ctx context.Context, userID uuid.UUID, patch SettingsPatch) (*Settings, error) {
	query := `
		INSERT INTO user_settings (user_id, language, theme, two_factor_prompt)
		VALUES ($1, COALESCE($2, 'en'), COALESCE($3, 'light'), COALESCE($4, FALSE))
		ON CONFLICT (user_id) DO UPDATE SET
			language = COALESCE($2, user_settings.language),
			theme = COALESCE($3, user_settings.theme),
			two_factor_prompt = COALESCE($4, user_settings.two_factor_prompt),
			updated_at = NOW()
		RETURNING *
	`
	var s Settings
	if err := r.db.GetContext(ctx, &s, query, userID, patch.Language, patch.Theme, patch.TwoFactorPrompt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) GetNotificationPreferences(ctx context.Context, userID uuid.UUID) (*NotificationPreferences, error) {
	query := `SELECT * FROM user_notification_preferences WHERE user_id = $1`
	var p NotificationPreferences
	err := r.db.GetContext(ctx, &p, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpsertNotificationPreferences(ctx context.Context, userID uuid.UUID, patch NotificationPatch) (*NotificationPreferences, error) {
	query := `
		INSERT INTO user_notification_preferences (
			user_id, notifications_enabled, push_enabled, email_enabled, sms_enabled
		) VALUES ($1, COALESCE($2, TRUE), COALESCE($3, TRUE), COALESCE($4, TRUE), COALESCE($5, FALSE))
		ON CONFLICT (user_id) DO UPDATE SET
			notifications_enabled = COALESCE($2, user_notification_preferences.notifications_enabled),
			push_enabled = COALESCE($3, user_notification_preferences.push_enabled),
			email_enabled = COALESCE($4, user_notification_preferences.email_enabled),
			sms_enabled = COALESCE($5, user_notification_preferences.sms_enabled),
			updated_at = NOW()
		RETURNING *
	`
	var p NotificationPreferences
	err := r.db.GetContext(ctx, &p, query, userID,
		patch.NotificationsEnabled, patch.PushEnabled, patch.EmailEnabled, patch.SMSEnabled)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetMapPreferences(ctx context.Context, userID uuid.UUID) (*MapPreferences, error) {
	query := `SELECT * FROM user_map_preferences WHERE user_id = $1`
	var p MapPreferences
	err := r.db.GetContext(ctx, &p, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpsertMapPreferences(ctx context.Context, userID uuid.UUID, patch MapPatch) (*MapPreferences, error) {
	query := `
		INSERT INTO user_map_preferences (user_id, default_radius_meters, default_view, include_favorites_by_default)
		VALUES ($1, COALESCE($2, 1000), COALESCE($3, 'map'), COALESCE($4, TRUE))
		ON CONFLICT (user_id) DO UPDATE SET
			default_radius_meters = COALESCE($2, user_map_preferences.default_radius_meters),
			default_view = COALESCE($3, user_map_preferences.default_view),
			include_favorites_by_default = COALESCE($4, user_map_preferences.include_favorites_by_default),
			updated_at = NOW()
		RETURNING *
	`
	var p MapPreferences
	err := r.db.GetContext(ctx, &p, query, userID,
		patch.DefaultRadiusMeters, patch.DefaultView, patch.IncludeFavoritesByDefault)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListFavoriteSpots(ctx context.Context, userID uuid.UUID) ([]*FavoriteSpot, error) {
	query := `SELECT * FROM favorite_spots WHERE user_id = $1 ORDER BY created_at DESC`
	var spots []*FavoriteSpot
	err := r.db.SelectContext(ctx, &spots, query, userID)
	return spots, err
}

func (r *repository) CreateFavoriteSpot(ctx context.Context, spot *FavoriteSpot) (*FavoriteSpot, error) {
	query := `
		INSERT INTO favorite_spots (id, user_id, name, latitude, longitude, radius_meters)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *
	`
	var created FavoriteSpot
	err := r.db.GetContext(ctx, &created, query,
		spot.ID, spot.UserID, spot.Name, spot.Latitude, spot.Longitude, spot.RadiusMeters)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteFavoriteSpot removes a spot only when it belongs to the caller.
func (r *repository) DeleteFavoriteSpot(ctx context.Context, userID, spotID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM favorite_spots WHERE id = $1 AND user_id = $2`, spotID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *repository) ListCategoryFilters(ctx context.Context, userID uuid.UUID) ([]*CategoryFilter, error) {
	query := `SELECT category_id, is_selected FROM user_category_filters WHERE user_id = $1 ORDER BY category_id`
	var filters []*CategoryFilter
	err := r.db.SelectContext(ctx, &filters, query, userID)
	return filters, err
}

// ReplaceCategoryFilters swaps the user's selection atomically: the old set
// is deleted and the new one inserted in one transaction.
func (r *repository) ReplaceCategoryFilters(ctx context.Context, userID uuid.UUID, categoryIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_category_filters WHERE user_id = $1`, userID); err != nil {
		return err
	}
	if len(categoryIDs) > 0 {
		insert := `
			INSERT INTO user_category_filters (user_id, category_id, is_selected)
			SELECT $1, unnest($2::bigint[]), TRUE
		`
		if _, err := tx.ExecContext(ctx, insert, userID, pq.Array(categoryIDs)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) ListForAdmin(ctx context.Context, status, role string, limit, offset int) ([]*AdminRow, int, error) {
	where := ` WHERE ($1 = '' OR u.account_status = $1) AND ($2 = '' OR u.role = $2)`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users u`+where, status, role); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT u.id, u.full_name, u.username, u.email, u.role, u.account_status, u.created_at,
		       (SELECT COUNT(*) FROM reports r WHERE r.user_id = u.id) AS reports_count,
		       (SELECT COUNT(*) FROM report_feedbacks rf WHERE rf.user_id = u.id) AS feedback_count
		FROM users u` + where + `
		ORDER BY u.created_at DESC
		LIMIT $3 OFFSET $4
	`
	var rows []*AdminRow
	if err := r.db.SelectContext(ctx, &rows, query, status, role, limit, offset); err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status AccountStatus) (*User, error) {
	query := `UPDATE users SET account_status = $2, updated_at = NOW() WHERE id = $1 RETURNING *`
	var u User
	err := r.db.GetContext(ctx, &u, query, id, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
