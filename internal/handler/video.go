package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sumire/teltube/internal/domain"
	"github.com/sumire/teltube/internal/service"
)

const videoMethods = "GET, POST, OPTIONS"

// VideoHandler dispatches the video catalog's operations.
type VideoHandler struct {
	videos *service.VideoService
	// verifier is set when creating a video requires a session token.
	verifier TokenVerifier
}

// NewVideoHandler creates a new VideoHandler. A non-nil verifier makes
// create require a token whose user matches the body's user_id.
func NewVideoHandler(videos *service.VideoService, verifier TokenVerifier) *VideoHandler {
	return &VideoHandler{videos: videos, verifier: verifier}
}

// Serve lists videos on GET and runs the body's action on POST.
func (h *VideoHandler) Serve(c echo.Context) error {
	switch c.Request().Method {
	case http.MethodOptions:
		return preflight(c, videoMethods)
	case http.MethodGet:
		return h.list(c)
	case http.MethodPost:
	default:
		return domain.ErrMethodNotAllowed
	}

	body, err := readBody(c)
	if err != nil {
		return err
	}

	var req actionRequest
	if err := decode(c, body, &req); err != nil {
		return err
	}

	switch req.Action {
	case "", "create":
		return h.create(c, body)
	case "view":
		return h.view(c, body)
	default:
		return domain.ErrMethodNotAllowed
	}
}

func (h *VideoHandler) list(c echo.Context) error {
	var userID *int64
	if raw := c.QueryParam("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return &domain.ValidationError{Field: "user_id", Message: "must be an integer"}
		}
		userID = &id
	}

	videos, err := h.videos.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"videos": videos})
}

func (h *VideoHandler) create(c echo.Context, body []byte) error {
	var req createVideoRequest
	if err := decode(c, body, &req); err != nil {
		return err
	}

	if h.verifier != nil {
		claims, err := authenticate(c, h.verifier)
		if err != nil {
			return err
		}
		if claims.UserID != req.UserID {
			return domain.ErrUnauthorized
		}
	}

	created, err := h.videos.Create(c.Request().Context(), domain.NewVideo{
		UserID:       req.UserID,
		Title:        req.Title,
		Description:  req.Description,
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
		Duration:     req.Duration,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"video": created})
}

func (h *VideoHandler) view(c echo.Context, body []byte) error {
	var req viewRequest
	if err := decode(c, body, &req); err != nil {
		return err
	}

	views, err := h.videos.RecordView(c.Request().Context(), req.VideoID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"views": views})
}
