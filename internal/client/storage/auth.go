package storage

import (
	"context"
	"time"
)

// AuthStorage keeps the current login session on the client machine.
type AuthStorage interface {
	// SaveAuth replaces the stored session.
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth returns the stored session or ErrAuthNotFound.
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes the stored session. Returns ErrAuthNotFound if
	// there is none.
	DeleteAuth(ctx context.Context) error
}

// AuthData is one login session. ExpiresAt is the access token expiry in
// Unix seconds; the refresh token usually outlives it.
type AuthData struct {
	Email        string `json:"email"`
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// AccessExpired reports whether the access token is past its expiry at now.
func (a *AuthData) AccessExpired(now time.Time) bool {
	return now.Unix() >= a.ExpiresAt
}
