package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sumire/teltube/internal/domain"
)

const (
	allowedHeaders  = "Content-Type, X-Auth-Token"
	preflightMaxAge = "86400"
)

// preflight answers a CORS preflight with an empty 200.
func preflight(c echo.Context, methods string) error {
	h := c.Response().Header()
	h.Set(echo.HeaderAccessControlAllowOrigin, "*")
	h.Set(echo.HeaderAccessControlAllowMethods, methods)
	h.Set(echo.HeaderAccessControlAllowHeaders, allowedHeaders)
	h.Set(echo.HeaderAccessControlMaxAge, preflightMaxAge)
	return c.NoContent(http.StatusOK)
}

// readBody returns the raw request body. An empty body reads as "{}".
func readBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return []byte("{}"), nil
	}
	return body, nil
}

// decode unmarshals body into dst and runs struct validation.
func decode(c echo.Context, body []byte, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return c.Validate(dst)
}
