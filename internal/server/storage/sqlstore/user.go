package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/taskkeeper/internal/models"
	"github.com/iudanet/taskkeeper/internal/server/storage"
)

const userColumns = `id, email, password_hash, verified, created_at, updated_at`

// CreateUser creates a new user in the storage
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, s.rebind(query),
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Verified,
		toMillis(user.CreatedAt),
		toMillis(user.UpdatedAt),
	)
	if err != nil {
		if s.dialect.IsUniqueViolation(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves user by normalized email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return s.getUser(ctx, query, email)
}

// GetUserByID retrieves user by ID
func (s *Store) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return s.getUser(ctx, query, userID)
}

func (s *Store) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, s.rebind(query), arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func scanUser(row scanner) (*models.User, error) {
	var (
		user             models.User
		created, updated int64
	)
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Verified,
		&created,
		&updated,
	); err != nil {
		return nil, err
	}
	user.CreatedAt = fromMillis(created)
	user.UpdatedAt = fromMillis(updated)
	return &user, nil
}
