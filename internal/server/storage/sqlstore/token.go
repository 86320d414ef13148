package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/taskkeeper/internal/dbx"
	"github.com/iudanet/taskkeeper/internal/models"
	"github.com/iudanet/taskkeeper/internal/server/storage"
)

// SaveRefreshToken stores a new refresh token
func (s *Store) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return s.insertRefreshToken(ctx, s.db, token)
}

func (s *Store) insertRefreshToken(ctx context.Context, db dbx.DBTX, token *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, issued_at, expires_at, revoked_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, s.rebind(query),
		token.ID,
		token.UserID,
		token.TokenHash,
		toMillis(token.IssuedAt),
		toMillis(token.ExpiresAt),
		toNullMillis(token.RevokedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}

	return nil
}

// GetRefreshToken retrieves refresh token by its hash
func (s *Store) GetRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	query := `
		SELECT id, user_id, token_hash, issued_at, expires_at, revoked_at
		FROM refresh_tokens
		WHERE token_hash = ?
	`

	var (
		token           models.RefreshToken
		issued, expires int64
		revoked         sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, s.rebind(query), tokenHash).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&issued,
		&expires,
		&revoked,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	token.IssuedAt = fromMillis(issued)
	token.ExpiresAt = fromMillis(expires)
	token.RevokedAt = fromNullMillis(revoked)
	return &token, nil
}

// RotateRefreshToken revokes oldID and stores next atomically.
// The revoke is conditional on the token still being unrevoked, so of two
// concurrent rotations of the same token exactly one succeeds.
func (s *Store) RotateRefreshToken(ctx context.Context, oldID string, revokedAt time.Time, next *models.RefreshToken) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		query := `UPDATE refresh_tokens SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`

		res, err := tx.ExecContext(ctx, s.rebind(query), toMillis(revokedAt), oldID)
		if err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			return storage.ErrTokenNotFound
		}

		return s.insertRefreshToken(ctx, tx, next)
	})
}

// RevokeUserTokens revokes every live refresh token of the user
func (s *Store) RevokeUserTokens(ctx context.Context, userID string, now time.Time) (int, error) {
	query := `
		UPDATE refresh_tokens SET revoked_at = ?
		WHERE user_id = ? AND revoked_at IS NULL AND expires_at > ?
	`

	res, err := s.db.ExecContext(ctx, s.rebind(query), toMillis(now), userID, toMillis(now))
	if err != nil {
		return 0, fmt.Errorf("failed to revoke user tokens: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(n), nil
}

// DeleteExpiredTokens removes refresh tokens whose expiry has passed
func (s *Store) DeleteExpiredTokens(ctx context.Context, now time.Time) (int, error) {
	return s.deleteExpired(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= ?`, now)
}

// DeleteExpiredResetTokens removes reset tokens whose expiry has passed
func (s *Store) DeleteExpiredResetTokens(ctx context.Context, now time.Time) (int, error) {
	return s.deleteExpired(ctx, `DELETE FROM password_reset_tokens WHERE expires_at <= ?`, now)
}

func (s *Store) deleteExpired(ctx context.Context, query string, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(query), toMillis(now))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(n), nil
}
