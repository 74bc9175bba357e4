package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	googleOAuth "golang.org/x/oauth2/google"

	"github.com/sumire/teltube/internal/domain"
	"github.com/sumire/teltube/internal/password"
	"github.com/sumire/teltube/internal/token"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// UserStore defines the user data access interface consumed by AuthService.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	FindPasswordAccount(ctx context.Context, email string) (*domain.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	CreatePasswordAccount(ctx context.Context, email, passwordHash, name string) (*domain.User, error)
	CreateGoogleAccount(ctx context.Context, profile domain.GoogleProfile) (*domain.User, error)
}

// AuthConfig holds Google OAuth configuration. Code exchange is disabled
// when GoogleClientID is empty.
type AuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Overrides for tests; zero values use Google's production endpoints.
	GoogleEndpoint    *oauth2.Endpoint
	GoogleUserInfoURL string
}

// AuthService handles registration, login and Google sign-in.
type AuthService struct {
	users       UserStore
	tokens      *token.Issuer
	hasher      *password.Hasher
	google      *oauth2.Config
	userInfoURL string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, tokens *token.Issuer, hasher *password.Hasher, cfg AuthConfig) *AuthService {
	s := &AuthService{
		users:       users,
		tokens:      tokens,
		hasher:      hasher,
		userInfoURL: googleUserInfoURL,
	}
	if cfg.GoogleUserInfoURL != "" {
		s.userInfoURL = cfg.GoogleUserInfoURL
	}
	if cfg.GoogleClientID != "" {
		endpoint := googleOAuth.Endpoint
		if cfg.GoogleEndpoint != nil {
			endpoint = *cfg.GoogleEndpoint
		}
		s.google = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "profile", "email"},
			RedirectURL:  cfg.GoogleRedirectURL,
		}
	}
	return s
}

// Session is a freshly issued token together with the user it belongs to.
type Session struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

// Register creates a password account and signs the user in.
func (s *AuthService) Register(ctx context.Context, email, pass, name string) (*Session, error) {
	if email == "" || pass == "" || name == "" {
		return nil, fmt.Errorf("%w: email, password and name are required", domain.ErrInvalidInput)
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email %s already registered", domain.ErrConflict, email)
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreatePasswordAccount(ctx, email, hash, name)
	if err != nil {
		return nil, err
	}

	return s.newSession(user)
}

// Login verifies email and password and signs the user in.
func (s *AuthService) Login(ctx context.Context, email, pass string) (*Session, error) {
	if email == "" || pass == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	user, err := s.users.FindPasswordAccount(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Verify(pass, *user.PasswordHash); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.newSession(user)
}

// Google signs in the account bound to the Google ID, creating it from the
// supplied profile on first use.
func (s *AuthService) Google(ctx context.Context, profile domain.GoogleProfile) (*Session, error) {
	if profile.GoogleID == "" {
		return nil, &domain.ValidationError{Field: "google_id", Message: "is required"}
	}

	user, err := s.users.FindByGoogleID(ctx, profile.GoogleID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		user, err = s.users.CreateGoogleAccount(ctx, profile)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	return s.newSession(user)
}

// GoogleCode exchanges an OAuth authorization code for the user's Google
// profile and then signs in as Google does.
func (s *AuthService) GoogleCode(ctx context.Context, code string) (*Session, error) {
	if s.google == nil {
		return nil, &domain.ValidationError{Field: "code", Message: "is not accepted: Google OAuth is not configured"}
	}

	tok, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: google token exchange: %v", domain.ErrUnauthorized, err)
	}

	info, err := s.fetchGoogleUserInfo(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("fetch google user info: %w", err)
	}

	return s.Google(ctx, domain.GoogleProfile{
		GoogleID: info.ID,
		Email:    info.Email,
		Name:     info.Name,
		Avatar:   info.Picture,
	})
}

// Verify checks a session token and returns its claims and the user it names.
func (s *AuthService) Verify(ctx context.Context, tokenString string) (*token.Claims, *domain.User, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: user %d no longer exists", domain.ErrUnauthorized, claims.UserID)
		}
		return nil, nil, err
	}

	return claims, user, nil
}

func (s *AuthService) newSession(user *domain.User) (*Session, error) {
	signed, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &Session{Token: signed, User: user.Public()}, nil
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (s *AuthService) fetchGoogleUserInfo(ctx context.Context, tok *oauth2.Token) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.google.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google user info returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	if info.ID == "" {
		return nil, fmt.Errorf("google user info has no id")
	}
	return &info, nil
}
