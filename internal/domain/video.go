package domain

import "time"

// Video is the catalog record for an uploaded video.
type Video struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	VideoURL     string    `json:"video_url" db:"video_url"`
	ThumbnailURL string    `json:"thumbnail_url" db:"thumbnail_url"`
	Duration     float64   `json:"duration" db:"duration"`
	Views        int64     `json:"views" db:"views"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ChannelVideo is a video joined with its owner's channel details.
type ChannelVideo struct {
	Video
	ChannelName   string  `json:"channel_name" db:"channel_name"`
	ChannelAvatar *string `json:"channel_avatar" db:"channel_avatar"`
}

// NewVideo holds the fields supplied when cataloguing a video.
type NewVideo struct {
	UserID       int64
	Title        string
	Description  string
	VideoURL     string
	ThumbnailURL string
	Duration     float64
}

// CreatedVideo is the subset of a new video echoed back to the client.
type CreatedVideo struct {
	ID           int64     `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	VideoURL     string    `json:"video_url" db:"video_url"`
	ThumbnailURL string    `json:"thumbnail_url" db:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UploadResult is what the media host reports for a stored upload.
type UploadResult struct {
	VideoURL     string  `json:"video_url"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Duration     float64 `json:"duration"`
}
