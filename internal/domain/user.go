package domain

import "time"

// User represents a registered account. PasswordHash is nil for accounts
// provisioned through Google, GoogleID is nil for password accounts.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	AvatarURL    *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	GoogleID     *string   `json:"google_id,omitempty" db:"google_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// PublicUser is the projection of a user returned to clients.
type PublicUser struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Public returns the client-facing projection of the user.
func (u User) Public() PublicUser {
	avatar := ""
	if u.AvatarURL != nil {
		avatar = *u.AvatarURL
	}
	return PublicUser{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Avatar: avatar,
	}
}

// GoogleProfile is the identity asserted by the Google sign-in flow.
type GoogleProfile struct {
	GoogleID string
	Email    string
	Name     string
	Avatar   string
}
