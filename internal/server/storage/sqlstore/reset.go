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

// SaveResetToken stores a new password reset token
func (s *Store) SaveResetToken(ctx context.Context, token *models.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (id, user_id, token_hash, created_at, expires_at, used_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, s.rebind(query),
		token.ID,
		token.UserID,
		token.TokenHash,
		toMillis(token.CreatedAt),
		toMillis(token.ExpiresAt),
		toNullMillis(token.UsedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}

	return nil
}

// GetResetToken retrieves reset token by its hash
func (s *Store) GetResetToken(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	query := `
		SELECT id, user_id, token_hash, created_at, expires_at, used_at
		FROM password_reset_tokens
		WHERE token_hash = ?
	`

	var (
		token            models.PasswordResetToken
		created, expires int64
		used             sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, s.rebind(query), tokenHash).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&created,
		&expires,
		&used,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}

	token.CreatedAt = fromMillis(created)
	token.ExpiresAt = fromMillis(expires)
	token.UsedAt = fromNullMillis(used)
	return &token, nil
}

// ConsumeResetToken marks the token used, sets the new password hash and
// revokes the user's refresh tokens in one transaction.
func (s *Store) ConsumeResetToken(ctx context.Context, tokenID, userID, passwordHash string, now time.Time) error {
	ts := toMillis(now)

	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx,
			s.rebind(`UPDATE password_reset_tokens SET used_at = ? WHERE id = ? AND user_id = ? AND used_at IS NULL`),
			ts, tokenID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to mark reset token used: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			return storage.ErrTokenNotFound
		}

		res, err = tx.ExecContext(ctx,
			s.rebind(`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`),
			passwordHash, ts, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		n, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			return storage.ErrUserNotFound
		}

		_, err = tx.ExecContext(ctx,
			s.rebind(`UPDATE refresh_tokens SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`),
			ts, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to revoke refresh tokens: %w", err)
		}

		return nil
	})
}
