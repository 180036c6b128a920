package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ThumbnailWakeChannel is the redis channel the API pings after inserting
// media rows; the thumbnail worker listens on it between polls.
const ThumbnailWakeChannel = "media:thumbnails:wake"

// MediaStore is the slice of media access the thumbnail worker needs
type MediaStore struct {
	db *sqlx.DB
}

// NewMediaStore creates media store
func NewMediaStore(db *sqlx.DB) *MediaStore {
	return &MediaStore{db: db}
}

// PendingThumbnails returns image attachments that have no thumbnail yet,
// oldest first.
func (s *MediaStore) PendingThumbnails(ctx context.Context, limit int) ([]*Media, error) {
	query := `
		SELECT * FROM report_media
		WHERE thumbnail_url IS NULL AND media_type = 'image'
		ORDER BY created_at ASC
		LIMIT $1
	`
	var media []*Media
	err := s.db.SelectContext(ctx, &media, query, limit)
	return media, err
}

// SetThumbnailURL records the generated thumbnail location
func (s *MediaStore) SetThumbnailURL(ctx context.Context, id uuid.UUID, url string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE report_media SET thumbnail_url = $2 WHERE id = $1`, id, url)
	return err
}
