package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"realtyshare/internal/models"
)

var ErrMediaNotFound = errors.New("media item not found")

// MediaRepository persists shared media metadata and likes.
type MediaRepository interface {
	CreateMedia(ctx context.Context, ownerID int, mediaURL, mediaType, fileName string) (models.MediaItem, error)
	GetMedia(ctx context.Context, mediaID int) (models.MediaItem, error)
	ListMedia(ctx context.Context, viewerID int) ([]models.MediaItemView, error)
	ToggleLike(ctx context.Context, mediaID, userID int) (liked bool, err error)
	DeleteMedia(ctx context.Context, mediaID int) error
}

// MediaRepo is a sqlx implementation of MediaRepository.
type MediaRepo struct {
	db *sqlx.DB
}

// NewMediaRepo constructs a MediaRepo.
func NewMediaRepo(db *sqlx.DB) *MediaRepo {
	return &MediaRepo{db: db}
}

// CreateMedia records an already-uploaded media item.
func (r *MediaRepo) CreateMedia(ctx context.Context, ownerID int, mediaURL, mediaType, fileName string) (models.MediaItem, error) {
	var item models.MediaItem
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO media_items (owner_id, media_url, media_type, file_name) VALUES ($1, $2, $3, $4)
         RETURNING id, owner_id, media_url, media_type, file_name, created_at`,
		ownerID, mediaURL, mediaType, fileName).StructScan(&item)
	return item, err
}

// GetMedia fetches a media item by id.
func (r *MediaRepo) GetMedia(ctx context.Context, mediaID int) (models.MediaItem, error) {
	var item models.MediaItem
	err := r.db.GetContext(ctx, &item,
		`SELECT id, owner_id, media_url, media_type, file_name, created_at FROM media_items WHERE id=$1`, mediaID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MediaItem{}, ErrMediaNotFound
	}
	return item, err
}

// ListMedia returns every media item, newest first, with like counts and the
// viewer's own like state.
func (r *MediaRepo) ListMedia(ctx context.Context, viewerID int) ([]models.MediaItemView, error) {
	var items []models.MediaItemView
	err := r.db.SelectContext(ctx, &items,
		`SELECT m.id, m.owner_id, m.media_url, m.media_type, m.file_name, m.created_at,
                COUNT(l.user_id) AS likes_count,
                BOOL_OR(l.user_id = $1) IS TRUE AS liked_by_me
         FROM media_items m
         LEFT JOIN media_likes l ON l.media_id = m.id
         GROUP BY m.id
         ORDER BY m.created_at DESC, m.id DESC`, viewerID)
	return items, err
}

// ToggleLike likes the item if the user has not liked it, unlikes otherwise.
func (r *MediaRepo) ToggleLike(ctx context.Context, mediaID, userID int) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM media_likes WHERE media_id=$1 AND user_id=$2`, mediaID, userID)
	if err != nil {
		return false, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if removed > 0 {
		return false, nil
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO media_likes (media_id, user_id) VALUES ($1, $2)
         ON CONFLICT (media_id, user_id) DO NOTHING`, mediaID, userID); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteMedia removes a media item; likes cascade.
func (r *MediaRepo) DeleteMedia(ctx context.Context, mediaID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM media_items WHERE id=$1`, mediaID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrMediaNotFound)
}
