package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sumire/teltube/internal/domain"
)

// RecentLimit caps the unfiltered catalog listing.
const RecentLimit = 50

// VideoStore defines the video data access interface consumed by VideoService.
type VideoStore interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.ChannelVideo, error)
	ListRecent(ctx context.Context, limit int) ([]domain.ChannelVideo, error)
	Create(ctx context.Context, v domain.NewVideo) (*domain.CreatedVideo, error)
	IncrementViews(ctx context.Context, videoID int64) (int64, error)
}

// VideoConfig toggles optional catalog behaviour.
type VideoConfig struct {
	// StrictViewNotFound makes RecordView fail with ErrNotFound for unknown
	// videos instead of reporting zero views.
	StrictViewNotFound bool
}

// VideoService manages the video catalog.
type VideoService struct {
	videos VideoStore
	cfg    VideoConfig
}

// NewVideoService creates a new VideoService.
func NewVideoService(videos VideoStore, cfg VideoConfig) *VideoService {
	return &VideoService{videos: videos, cfg: cfg}
}

// List returns the user's videos when userID is set, otherwise the most
// recent videos across the catalog. Results are newest first.
func (s *VideoService) List(ctx context.Context, userID *int64) ([]domain.ChannelVideo, error) {
	var (
		videos []domain.ChannelVideo
		err    error
	)
	if userID != nil {
		videos, err = s.videos.ListByUser(ctx, *userID)
	} else {
		videos, err = s.videos.ListRecent(ctx, RecentLimit)
	}
	if err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []domain.ChannelVideo{}
	}
	return videos, nil
}

// Create catalogues a video that has already been uploaded to the media host.
func (s *VideoService) Create(ctx context.Context, v domain.NewVideo) (*domain.CreatedVideo, error) {
	if v.UserID == 0 || v.Title == "" || v.VideoURL == "" {
		return nil, fmt.Errorf("%w: user_id, title and video_url are required", domain.ErrInvalidInput)
	}
	return s.videos.Create(ctx, v)
}

// RecordView counts one view and returns the updated total.
func (s *VideoService) RecordView(ctx context.Context, videoID int64) (int64, error) {
	if videoID == 0 {
		return 0, &domain.ValidationError{Field: "video_id", Message: "is required"}
	}

	views, err := s.videos.IncrementViews(ctx, videoID)
	if errors.Is(err, domain.ErrNotFound) {
		if s.cfg.StrictViewNotFound {
			return 0, fmt.Errorf("video %d: %w", videoID, domain.ErrNotFound)
		}
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return views, nil
}
