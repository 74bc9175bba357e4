package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Routes collects the service handlers to mount. Nil handlers are skipped.
type Routes struct {
	Auth   *AuthHandler
	Videos *VideoHandler
	Upload *UploadHandler

	// UploadBodyLimit caps upload request bodies, e.g. "256M". Empty disables the cap.
	UploadBodyLimit string
}

// NewServer builds the echo instance serving the mounted services.
func NewServer(routes Routes) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewAppValidator()
	e.HTTPErrorHandler = HTTPErrorHandler

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(AllowAnyOrigin())
	e.Use(RequestLogger())
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	if routes.Auth != nil {
		e.Any("/auth", routes.Auth.Serve)
	}
	if routes.Videos != nil {
		e.Any("/videos", routes.Videos.Serve)
	}
	if routes.Upload != nil {
		var mw []echo.MiddlewareFunc
		if routes.UploadBodyLimit != "" {
			mw = append(mw, middleware.BodyLimit(routes.UploadBodyLimit))
		}
		e.Any("/upload", routes.Upload.Serve, mw...)
	}

	return e
}
