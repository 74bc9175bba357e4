package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sumire/teltube/internal/domain"
)

// APIError is the body of every error response.
type APIError struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details,omitempty"`
}

// HTTPErrorHandler is the global error handler for echo.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, apiErr := mapError(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", status,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err,
		)
	}

	if jsonErr := c.JSON(status, apiErr); jsonErr != nil {
		slog.Error("failed to send error response", "error", jsonErr)
	}
}

func mapError(err error) (int, APIError) {
	// Handle echo's own HTTP errors (405, 413, etc.)
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Code == http.StatusMethodNotAllowed {
			return http.StatusMethodNotAllowed, APIError{Error: "Method not allowed"}
		}
		msg, _ := echoErr.Message.(string)
		if msg == "" {
			msg = http.StatusText(echoErr.Code)
		}
		return echoErr.Code, APIError{Error: msg}
	}

	var upstreamErr *domain.UpstreamError
	if errors.As(err, &upstreamErr) {
		return http.StatusInternalServerError, APIError{
			Error:   upstreamErr.Message,
			Details: upstreamErr.Details,
		}
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, APIError{
			Error: validationErr.Field + " " + validationErr.Message,
		}
	}

	switch {
	case errors.Is(err, domain.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, APIError{Error: "Method not allowed"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, APIError{Error: "Invalid email or password"}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, APIError{Error: "Invalid or expired token"}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusBadRequest, APIError{Error: "User with this email already exists"}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, APIError{Error: "Invalid request body"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, APIError{Error: "Video not found"}
	default:
		return http.StatusInternalServerError, APIError{Error: "Internal server error"}
	}
}
