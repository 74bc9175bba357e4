package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sumire/teltube/internal/domain"
	"github.com/sumire/teltube/internal/service"
)

const authMethods = "GET, POST, OPTIONS"

// AuthHandler dispatches the auth service's actions.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Serve routes a request to the action named in its body.
func (h *AuthHandler) Serve(c echo.Context) error {
	switch c.Request().Method {
	case http.MethodOptions:
		return preflight(c, authMethods)
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
	case "register":
		return h.register(c, body)
	case "login":
		return h.login(c, body)
	case "google":
		return h.google(c, body)
	case "verify":
		return h.verify(c, body)
	default:
		return domain.ErrMethodNotAllowed
	}
}

func (h *AuthHandler) register(c echo.Context, body []byte) error {
	var req registerRequest
	if err := decode(c, body, &req); err != nil {
		return err
	}

	session, err := h.auth.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) login(c echo.Context, body []byte) error {
	var req loginRequest
	if err := decode(c, body, &req); err != nil {
		return err
	}

	session, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) google(c echo.Context, body []byte) error {
	var req googleRequest
	if err := decode(c, body, &req); err != nil {
		return err
	}

	var (
		session *service.Session
		err     error
	)
	if req.GoogleID == "" {
		session, err = h.auth.GoogleCode(c.Request().Context(), req.Code)
	} else {
		session, err = h.auth.Google(c.Request().Context(), domain.GoogleProfile{
			GoogleID: req.GoogleID,
			Email:    req.Email,
			Name:     req.Name,
			Avatar:   req.Avatar,
		})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) verify(c echo.Context, body []byte) error {
	var req verifyRequest
	if err := decode(c, body, &req); err != nil {
		return err
	}
	if req.Token == "" {
		req.Token = bearerToken(c)
	}
	if req.Token == "" {
		return &domain.ValidationError{Field: "token", Message: "is required"}
	}

	claims, user, err := h.auth.Verify(c.Request().Context(), req.Token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, verifyResponse{
		UserID:    claims.UserID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Unix(),
		User:      user.Public(),
	})
}
