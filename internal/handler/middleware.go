package handler

import (
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sumire/teltube/internal/domain"
	"github.com/sumire/teltube/internal/token"
)

const headerAuthToken = "X-Auth-Token"

// TokenVerifier checks session tokens.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// RequestLogger logs each HTTP request with structured fields.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// Let the error handler write the response so the logged status is final.
				c.Error(err)
			}

			slog.Info("http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)

			return nil
		}
	}
}

// AllowAnyOrigin marks every response as readable from any origin.
func AllowAnyOrigin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
			return next(c)
		}
	}
}

// bearerToken extracts a session token from X-Auth-Token or an
// Authorization: Bearer header.
func bearerToken(c echo.Context) string {
	if tok := strings.TrimSpace(c.Request().Header.Get(headerAuthToken)); tok != "" {
		return tok
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// authenticate verifies the request's session token.
func authenticate(c echo.Context, verifier TokenVerifier) (*token.Claims, error) {
	tok := bearerToken(c)
	if tok == "" {
		return nil, domain.ErrUnauthorized
	}

	claims, err := verifier.Verify(tok)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
