package storage

import (
	"context"

	"github.com/iudanet/taskkeeper/internal/models"
)

// TaskStorage persists tasks. Every read and write except TaskOwner is
// scoped to ownerID; a task belonging to someone else is reported as
// ErrTaskNotFound.
type TaskStorage interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, ownerID, taskID string) (*models.Task, error)

	// ListTasks returns one page of the owner's tasks, newest first, and the
	// total number of tasks matching the filter.
	ListTasks(ctx context.Context, ownerID string, filter models.TaskFilter) ([]*models.Task, int, error)

	UpdateTask(ctx context.Context, ownerID string, task *models.Task) error
	DeleteTask(ctx context.Context, ownerID, taskID string) error

	// TaskOwner returns the owner of taskID without loading its content.
	// Returns ErrTaskNotFound if the task doesn't exist.
	TaskOwner(ctx context.Context, taskID string) (string, error)
}
