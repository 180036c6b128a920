package category

import "time"

// Category groups reports and routes authority dispatch
type Category struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Icon      string    `db:"icon" json:"icon,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Subcategory narrows a category
type Subcategory struct {
	ID         int64     `db:"id" json:"id"`
	CategoryID int64     `db:"category_id" json:"category_id"`
	Name       string    `db:"name" json:"name"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// WithSubcategories is the listing shape
type WithSubcategories struct {
	Category
	Subcategories []*Subcategory `json:"subcategories"`
}
