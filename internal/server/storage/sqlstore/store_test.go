package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/taskkeeper/internal/models"
	"github.com/iudanet/taskkeeper/internal/server/storage"
)

var errDuplicate = errors.New("duplicate key")

type dollarDialect struct{}

func (dollarDialect) Placeholder(n int) string         { return fmt.Sprintf("$%d", n) }
func (dollarDialect) IsUniqueViolation(err error) bool { return errors.Is(err, errDuplicate) }

type qmarkDialect struct{}

func (qmarkDialect) Placeholder(int) string       { return "?" }
func (qmarkDialect) IsUniqueViolation(error) bool { return false }

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return New(db, dollarDialect{}), mock
}

func q(s string) string {
	return regexp.QuoteMeta(s)
}

func TestStore_Rebind(t *testing.T) {
	s := &Store{dialect: dollarDialect{}}
	assert.Equal(t,
		"UPDATE t SET a = $1 WHERE b = $2 AND c = $3",
		s.rebind("UPDATE t SET a = ? WHERE b = ? AND c = ?"),
	)

	s = &Store{dialect: qmarkDialect{}}
	assert.Equal(t, "SELECT * FROM t WHERE a = ?", s.rebind("SELECT * FROM t WHERE a = ?"))
}

func TestStore_CreateUserDuplicate(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(q("INSERT INTO users")).WillReturnError(fmt.Errorf("pq: %w", errDuplicate))

	err := s.CreateUser(context.Background(), &models.User{ID: "u1", Email: "a@example.com"})
	assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)
}

func TestStore_CreateUserOtherError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(q("INSERT INTO users")).WillReturnError(errors.New("connection reset"))

	err := s.CreateUser(context.Background(), &models.User{ID: "u1", Email: "a@example.com"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrUserAlreadyExists)
	assert.Contains(t, err.Error(), "failed to insert user")
}

func TestStore_GetUserByEmailNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(q("FROM users WHERE email = $1")).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestStore_RotateRefreshToken(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	next := &models.RefreshToken{
		ID:        "t2",
		UserID:    "u1",
		TokenHash: "hash2",
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}

	t.Run("success", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectExec(q("UPDATE refresh_tokens SET revoked_at = $1 WHERE id = $2 AND revoked_at IS NULL")).
			WithArgs(now.UnixMilli(), "t1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(q("INSERT INTO refresh_tokens")).
			WithArgs("t2", "u1", "hash2", now.UnixMilli(), now.Add(time.Hour).UnixMilli(), nil).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, s.RotateRefreshToken(context.Background(), "t1", now, next))
	})

	t.Run("already revoked", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectExec(q("UPDATE refresh_tokens SET revoked_at")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := s.RotateRefreshToken(context.Background(), "t1", now, next)
		assert.ErrorIs(t, err, storage.ErrTokenNotFound)
	})

	t.Run("insert fails", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectExec(q("UPDATE refresh_tokens SET revoked_at")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(q("INSERT INTO refresh_tokens")).
			WillReturnError(errors.New("disk I/O error"))
		mock.ExpectRollback()

		err := s.RotateRefreshToken(context.Background(), "t1", now, next)
		assert.ErrorContains(t, err, "failed to save refresh token")
	})
}

func TestStore_ConsumeResetToken(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	t.Run("success", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectExec(q("UPDATE password_reset_tokens SET used_at = $1 WHERE id = $2 AND user_id = $3 AND used_at IS NULL")).
			WithArgs(now.UnixMilli(), "r1", "u1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(q("UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3")).
			WithArgs("newhash", now.UnixMilli(), "u1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(q("UPDATE refresh_tokens SET revoked_at = $1 WHERE user_id = $2 AND revoked_at IS NULL")).
			WithArgs(now.UnixMilli(), "u1").
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectCommit()

		require.NoError(t, s.ConsumeResetToken(context.Background(), "r1", "u1", "newhash", now))
	})

	t.Run("already used", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectExec(q("UPDATE password_reset_tokens SET used_at")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := s.ConsumeResetToken(context.Background(), "r1", "u1", "newhash", now)
		assert.ErrorIs(t, err, storage.ErrTokenNotFound)
	})

	t.Run("revocation fails rolls back password change", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectExec(q("UPDATE password_reset_tokens SET used_at")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(q("UPDATE users SET password_hash")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(q("UPDATE refresh_tokens SET revoked_at")).
			WillReturnError(errors.New("locked"))
		mock.ExpectRollback()

		err := s.ConsumeResetToken(context.Background(), "r1", "u1", "newhash", now)
		assert.ErrorContains(t, err, "failed to revoke refresh tokens")
	})
}

func TestStore_ListTasksWithStatus(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.UnixMilli(1_700_000_000_000)

	mock.ExpectQuery(q("SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND status = $2")).
		WithArgs("u1", "Completed").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(q("FROM tasks WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC, id LIMIT $3 OFFSET $4")).
		WithArgs("u1", "Completed", 2, 4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "description", "status", "created_at", "updated_at"}).
			AddRow("t1", "u1", "One", "", "Completed", created.UnixMilli(), created.UnixMilli()).
			AddRow("t2", "u1", "Two", "d", "Completed", created.UnixMilli(), created.UnixMilli()))

	tasks, total, err := s.ListTasks(context.Background(), "u1", models.TaskFilter{Status: models.TaskCompleted, Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, tasks, 2)
	assert.Equal(t, "t1", tasks[0].ID)
	assert.Equal(t, models.TaskCompleted, tasks[1].Status)
	assert.True(t, created.Equal(tasks[0].CreatedAt))
}

func TestStore_TaskOwnerNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(q("SELECT user_id FROM tasks WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := s.TaskOwner(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrTaskNotFound)
}

func TestStore_UpdateTaskScopedToOwner(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(q("WHERE id = $5 AND user_id = $6")).
		WithArgs("New", "", "Pending", sqlmock.AnyArg(), "t1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateTask(context.Background(), "intruder", &models.Task{ID: "t1", Title: "New", Status: models.TaskPending})
	assert.ErrorIs(t, err, storage.ErrTaskNotFound)
}
