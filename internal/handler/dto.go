package handler

import "github.com/sumire/teltube/internal/domain"

// actionRequest carries the dispatch discriminator shared by every POST body.
type actionRequest struct {
	Action string `json:"action"`
}

type registerRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// googleRequest accepts either a profile asserted by the client-side Google
// sign-in or an OAuth authorization code to exchange server-side.
type googleRequest struct {
	GoogleID string `json:"google_id" validate:"required_without=Code"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Code     string `json:"code"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	UserID    int64             `json:"user_id"`
	Email     string            `json:"email"`
	ExpiresAt int64             `json:"exp"`
	User      domain.PublicUser `json:"user"`
}

type createVideoRequest struct {
	UserID       int64   `json:"user_id" validate:"required"`
	Title        string  `json:"title" validate:"required"`
	Description  string  `json:"description"`
	VideoURL     string  `json:"video_url" validate:"required"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Duration     float64 `json:"duration"`
}

type viewRequest struct {
	VideoID int64 `json:"video_id" validate:"required"`
}

type uploadRequest struct {
	File     string `json:"file"`
	Filename string `json:"filename"`
}
