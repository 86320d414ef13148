package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/taskkeeper/internal/models"
	"github.com/iudanet/taskkeeper/internal/server/storage"
)

const taskColumns = `id, user_id, title, description, status, created_at, updated_at`

// CreateTask stores a new task
func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, user_id, title, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, s.rebind(query),
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Status),
		toMillis(task.CreatedAt),
		toMillis(task.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	return nil
}

// GetTask retrieves a task of ownerID
func (s *Store) GetTask(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND user_id = ?`

	task, err := scanTask(s.db.QueryRowContext(ctx, s.rebind(query), taskID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// ListTasks returns a page of the owner's tasks, newest first
func (s *Store) ListTasks(ctx context.Context, ownerID string, filter models.TaskFilter) ([]*models.Task, int, error) {
	where := ` WHERE user_id = ?`
	args := []any{ownerID}
	if filter.Status != "" {
		where += ` AND status = ?`
		args = append(args, string(filter.Status))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM tasks`+where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks` + where + ` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, s.rebind(query), append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	tasks := []*models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return tasks, total, nil
}

// UpdateTask overwrites the mutable fields of a task owned by ownerID
func (s *Store) UpdateTask(ctx context.Context, ownerID string, task *models.Task) error {
	query := `
		UPDATE tasks SET title = ?, description = ?, status = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	res, err := s.db.ExecContext(ctx, s.rebind(query),
		task.Title,
		task.Description,
		string(task.Status),
		toMillis(task.UpdatedAt),
		task.ID,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrTaskNotFound
	}

	return nil
}

// DeleteTask deletes a task owned by ownerID
func (s *Store) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM tasks WHERE id = ? AND user_id = ?`), taskID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrTaskNotFound
	}

	return nil
}

// TaskOwner returns the owner of a task without reading its content
func (s *Store) TaskOwner(ctx context.Context, taskID string) (string, error) {
	var owner string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT user_id FROM tasks WHERE id = ?`), taskID).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrTaskNotFound
		}
		return "", fmt.Errorf("failed to get task owner: %w", err)
	}
	return owner, nil
}

func scanTask(row scanner) (*models.Task, error) {
	var (
		task             models.Task
		status           string
		created, updated int64
	)
	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&status,
		&created,
		&updated,
	); err != nil {
		return nil, err
	}
	task.Status = models.TaskStatus(status)
	task.CreatedAt = fromMillis(created)
	task.UpdatedAt = fromMillis(updated)
	return &task, nil
}
