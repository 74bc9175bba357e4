package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sumire/teltube/internal/domain"
)

const channelVideoSelect = `SELECT v.id, v.user_id, v.title, v.description, v.video_url, v.thumbnail_url,
		v.duration, v.views, v.created_at, u.name AS channel_name, u.avatar_url AS channel_avatar
	FROM videos v
	JOIN users u ON v.user_id = u.id`

// VideoRepository handles video catalog data access.
type VideoRepository struct {
	db *sqlx.DB
}

// NewVideoRepository creates a new VideoRepository.
func NewVideoRepository(db *sqlx.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// ListByUser returns every video owned by the user, newest first.
func (r *VideoRepository) ListByUser(ctx context.Context, userID int64) ([]domain.ChannelVideo, error) {
	videos := []domain.ChannelVideo{}
	err := r.db.SelectContext(ctx, &videos,
		channelVideoSelect+`
	WHERE v.user_id = $1
	ORDER BY v.created_at DESC, v.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list videos for user %d: %w", userID, err)
	}
	return videos, nil
}

// ListRecent returns the newest videos across all users.
func (r *VideoRepository) ListRecent(ctx context.Context, limit int) ([]domain.ChannelVideo, error) {
	videos := []domain.ChannelVideo{}
	err := r.db.SelectContext(ctx, &videos,
		channelVideoSelect+`
	ORDER BY v.created_at DESC, v.id DESC
	LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent videos: %w", err)
	}
	return videos, nil
}

// Create inserts a video record.
func (r *VideoRepository) Create(ctx context.Context, v domain.NewVideo) (*domain.CreatedVideo, error) {
	var created domain.CreatedVideo
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO videos (user_id, title, description, video_url, thumbnail_url, duration)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, title, video_url, thumbnail_url, created_at`,
		v.UserID, v.Title, v.Description, v.VideoURL, v.ThumbnailURL, v.Duration,
	).StructScan(&created)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return nil, &domain.ValidationError{Field: "user_id", Message: "user does not exist"}
		}
		return nil, fmt.Errorf("create video: %w", err)
	}
	return &created, nil
}

// IncrementViews adds one view in a single statement and returns the new count.
func (r *VideoRepository) IncrementViews(ctx context.Context, videoID int64) (int64, error) {
	var views int64
	err := r.db.GetContext(ctx, &views,
		`UPDATE videos SET views = views + 1 WHERE id = $1 RETURNING views`, videoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("increment views for video %d: %w", videoID, err)
	}
	return views, nil
}
