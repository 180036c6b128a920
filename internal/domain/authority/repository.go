package authority

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// haversineExpr ranks rows by great-circle distance on a spherical Earth.
// The alias table must expose latitude/longitude columns; bind order is
// (center lat, center lon).
const haversineExpr = `
	2 * 6371000 * asin(sqrt(
		power(sin(radians(a.latitude - $1) / 2), 2) +
		cos(radians($1)) * cos(radians(a.latitude)) *
		power(sin(radians(a.longitude - $2) / 2), 2)
	))`

// Repository defines authority data access
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Authority, error)
	FindNearby(ctx context.Context, lat, lon float64, radiusMeters int, categoryIDs []int64, limit, offset int) ([]*Nearby, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates authority repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Authority, error) {
	query := `SELECT * FROM authorities WHERE id = $1`
	var a Authority
	err := r.db.GetContext(ctx, &a, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindNearby returns authorities within radiusMeters of the center, closest
// first. categoryIDs narrows to authorities handling any of the categories;
// empty means no category filter. An empty result is not an error.
func (r *repository) FindNearby(ctx context.Context, lat, lon float64, radiusMeters int, categoryIDs []int64, limit, offset int) ([]*Nearby, error) {
	query := `
		SELECT * FROM (
			SELECT a.*, ` + haversineExpr + ` AS distance_meters
			FROM authorities a
			WHERE $4::bigint[] IS NULL OR EXISTS (
				SELECT 1 FROM authority_categories ac
				WHERE ac.authority_id = a.id AND ac.category_id = ANY($4)
			)
		) ranked
		WHERE ranked.distance_meters <= $3
		ORDER BY ranked.distance_meters
		LIMIT $5 OFFSET $6
	`
	var nearby []*Nearby
	err := r.db.SelectContext(ctx, &nearby, query, lat, lon, radiusMeters, int64Array(categoryIDs), limit, offset)
	return nearby, err
}

// NearbyIDs resolves the ids of authorities within radiusMeters of the
// center, closest first. It runs against any executor so report creation can
// call it inside its own transaction.
func NearbyIDs(ctx context.Context, ext sqlx.ExtContext, lat, lon float64, radiusMeters int, categoryIDs []int64, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM (
			SELECT a.id, ` + haversineExpr + ` AS distance_meters
			FROM authorities a
			WHERE $4::bigint[] IS NULL OR EXISTS (
				SELECT 1 FROM authority_categories ac
				WHERE ac.authority_id = a.id AND ac.category_id = ANY($4)
			)
		) ranked
		WHERE ranked.distance_meters <= $3
		ORDER BY ranked.distance_meters
		LIMIT $5
	`
	var ids []uuid.UUID
	err := sqlx.SelectContext(ctx, ext, &ids, query, lat, lon, radiusMeters, int64Array(categoryIDs), limit)
	return ids, err
}

func int64Array(values []int64) interface{} {
	if len(values) == 0 {
		return nil
	}
	return pq.Array(values)
}
