package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sumire/teltube/internal/domain"
	"github.com/sumire/teltube/internal/service"
)

const uploadMethods = "POST, OPTIONS"

// UploadHandler relays uploads to the media host.
type UploadHandler struct {
	uploads *service.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploads *service.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Serve accepts a base64 payload and returns the media host's URLs.
func (h *UploadHandler) Serve(c echo.Context) error {
	switch c.Request().Method {
	case http.MethodOptions:
		return preflight(c, uploadMethods)
	case http.MethodPost:
	default:
		return domain.ErrMethodNotAllowed
	}

	body, err := readBody(c)
	if err != nil {
		return err
	}

	var req uploadRequest
	if err := decode(c, body, &req); err != nil {
		return err
	}

	result, err := h.uploads.Upload(c.Request().Context(), req.File, req.Filename)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
