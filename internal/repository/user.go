package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sumire/teltube/internal/domain"
)

const userColumns = `id, email, password_hash, name, avatar_url, google_id, created_at`

// UserRepository handles user data access operations.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID retrieves a user by their ID.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by id %d: %w", id, err)
	}
	return &user, nil
}

// EmailExists reports whether any account already uses the email.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

// FindPasswordAccount retrieves the password account registered with email.
func (r *UserRepository) FindPasswordAccount(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE email = $1 AND password_hash IS NOT NULL`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find password account: %w", err)
	}
	return &user, nil
}

// FindByGoogleID retrieves a user by their Google account ID.
func (r *UserRepository) FindByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by google id %s: %w", googleID, err)
	}
	return &user, nil
}

// CreatePasswordAccount inserts a user that signs in with email and password.
// Nothing is inserted when any account, Google-provisioned included, already
// holds the email.
func (r *UserRepository) CreatePasswordAccount(ctx context.Context, email, passwordHash, name string) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (email, password_hash, name)
		 SELECT $1::text, $2::text, $3::text
		 WHERE NOT EXISTS (SELECT 1 FROM users WHERE email = $1::text)
		 RETURNING `+userColumns,
		email, passwordHash, name,
	).StructScan(&user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || pgErrorCode(err) == pgUniqueViolation {
			return nil, fmt.Errorf("%w: email %s already registered", domain.ErrConflict, email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// CreateGoogleAccount inserts a user provisioned from a Google profile.
// When a concurrent request already created the row for the same Google ID,
// that row is returned unchanged.
func (r *UserRepository) CreateGoogleAccount(ctx context.Context, profile domain.GoogleProfile) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (email, name, avatar_url, google_id)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (google_id)
		 DO UPDATE SET google_id = EXCLUDED.google_id
		 RETURNING `+userColumns,
		profile.Email, profile.Name, strPtr(profile.Avatar), profile.GoogleID,
	).StructScan(&user)
	if err != nil {
		return nil, fmt.Errorf("create google user: %w", err)
	}
	return &user, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
