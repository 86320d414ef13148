package storage

import (
	"context"
	"time"

	"github.com/iudanet/taskkeeper/internal/models"
)

// RefreshTokenStorage defines interface for refresh token persistence.
// Tokens are addressed by the SHA-256 hash of the raw value.
type RefreshTokenStorage interface {
	// SaveRefreshToken stores a new refresh token
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error

	// GetRefreshToken retrieves refresh token by its hash
	// Returns ErrTokenNotFound if token doesn't exist
	GetRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// RotateRefreshToken revokes the token with oldID and stores next in one
	// transaction. Returns ErrTokenNotFound if oldID is missing or already
	// revoked, in which case nothing is stored.
	RotateRefreshToken(ctx context.Context, oldID string, revokedAt time.Time, next *models.RefreshToken) error

	// RevokeUserTokens revokes every unrevoked, unexpired token of the user
	// Returns number of revoked tokens
	RevokeUserTokens(ctx context.Context, userID string, now time.Time) (int, error)

	// DeleteExpiredTokens removes refresh tokens that expired before now
	// Returns number of deleted tokens
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int, error)
}

// ResetTokenStorage defines interface for password reset token persistence.
type ResetTokenStorage interface {
	// SaveResetToken stores a new reset token
	SaveResetToken(ctx context.Context, token *models.PasswordResetToken) error

	// GetResetToken retrieves reset token by its hash
	// Returns ErrTokenNotFound if token doesn't exist
	GetResetToken(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error)

	// ConsumeResetToken marks the token used, replaces the user's password
	// hash and revokes all of the user's refresh tokens in one transaction.
	// Returns ErrTokenNotFound if the token was already used.
	ConsumeResetToken(ctx context.Context, tokenID, userID, passwordHash string, now time.Time) error

	// DeleteExpiredResetTokens removes reset tokens that expired before now
	DeleteExpiredResetTokens(ctx context.Context, now time.Time) (int, error)
}
