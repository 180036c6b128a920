package category

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Repository defines category data access. The catalog is read-only here;
// categories are managed by migrations.
type Repository interface {
	ListAll(ctx context.Context) ([]*WithSubcategories, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates category repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListAll(ctx context.Context) ([]*WithSubcategories, error) {
	var categories []*Category
	err := r.db.SelectContext(ctx, &categories,
		`SELECT * FROM report_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}

	var subcategories []*Subcategory
	err = r.db.SelectContext(ctx, &subcategories,
		`SELECT * FROM report_subcategories ORDER BY name`)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[int64][]*Subcategory)
	for _, s := range subcategories {
		byCategory[s.CategoryID] = append(byCategory[s.CategoryID], s)
	}

	out := make([]*WithSubcategories, len(categories))
	for i, c := range categories {
		subs := byCategory[c.ID]
		if subs == nil {
			subs = []*Subcategory{}
		}
		out[i] = &WithSubcategories{Category: *c, Subcategories: subs}
	}
	return out, nil
}
