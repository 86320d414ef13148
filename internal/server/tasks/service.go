// Package tasks implements the owner-scoped task operations.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/taskkeeper/internal/models"
	"github.com/iudanet/taskkeeper/internal/server/identity"
	"github.com/iudanet/taskkeeper/internal/server/storage"
	"github.com/iudanet/taskkeeper/internal/validation"
)

// Service exposes the caller's tasks. The caller always comes from the
// request context; a task id is never trusted to imply ownership.
type Service struct {
	store  storage.TaskStorage
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates the service. A nil clock means time.Now.
func NewService(logger *slog.Logger, store storage.TaskStorage, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{store: store, logger: logger, now: clock}
}

// Create stores a new task for the caller. An empty status means Pending.
func (s *Service) Create(ctx context.Context, title, description string, status models.TaskStatus) (*models.Task, error) {
	owner, err := identity.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	if status == "" {
		status = models.TaskPending
	}

	now := s.now().UTC()
	task := &models.Task{
		ID:          uuid.NewString(),
		UserID:      owner,
		Title:       title,
		Description: description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validation.ValidateTask(task); err != nil {
		return nil, err
	}

	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.InfoContext(ctx, "task created", slog.String("user_id", owner), slog.String("task_id", task.ID))
	return task, nil
}

// List returns one page of the caller's tasks and the normalized filter
// that produced it.
func (s *Service) List(ctx context.Context, filter models.TaskFilter) ([]*models.Task, int, models.TaskFilter, error) {
	owner, err := identity.CurrentUser(ctx)
	if err != nil {
		return nil, 0, filter, err
	}

	filter, err = validation.NormalizeFilter(filter)
	if err != nil {
		return nil, 0, filter, err
	}

	tasks, total, err := s.store.ListTasks(ctx, owner, filter)
	if err != nil {
		return nil, 0, filter, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, filter, nil
}

// Get returns one of the caller's tasks. A task owned by someone else is
// ErrForbidden, a missing one ErrNotFound.
func (s *Service) Get(ctx context.Context, taskID string) (*models.Task, error) {
	owner, err := identity.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	task, err := s.store.GetTask(ctx, owner, taskID)
	if err == nil {
		return task, nil
	}
	if !errors.Is(err, storage.ErrTaskNotFound) {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	// The scoped read missed; the owner probe decides between 403 and 404
	// without loading the other owner's content.
	if err := s.authorize(ctx, taskID); err != nil {
		return nil, err
	}
	return nil, identity.ErrNotFound
}

// Update applies patch to one of the caller's tasks.
func (s *Service) Update(ctx context.Context, taskID string, patch models.TaskPatch) (*models.Task, error) {
	if err := s.authorize(ctx, taskID); err != nil {
		return nil, err
	}
	if err := validation.ValidateTaskPatch(&patch); err != nil {
		return nil, err
	}

	owner, _ := identity.CurrentUser(ctx)
	task, err := s.store.GetTask(ctx, owner, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			return nil, identity.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	task.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateTask(ctx, owner, task); err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			return nil, identity.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.InfoContext(ctx, "task updated", slog.String("user_id", owner), slog.String("task_id", taskID))
	return task, nil
}

// Delete removes one of the caller's tasks.
func (s *Service) Delete(ctx context.Context, taskID string) error {
	if err := s.authorize(ctx, taskID); err != nil {
		return err
	}

	owner, _ := identity.CurrentUser(ctx)
	if err := s.store.DeleteTask(ctx, owner, taskID); err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			return identity.ErrNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.InfoContext(ctx, "task deleted", slog.String("user_id", owner), slog.String("task_id", taskID))
	return nil
}

func (s *Service) authorize(ctx context.Context, taskID string) error {
	err := identity.Authorize(ctx, taskID, s.ownerOf)
	if errors.Is(err, identity.ErrForbidden) {
		subject, _ := identity.CurrentUser(ctx)
		s.logger.WarnContext(ctx, "cross-owner task access denied",
			slog.String("user_id", subject),
			slog.String("task_id", taskID),
		)
	}
	return err
}

func (s *Service) ownerOf(ctx context.Context, taskID string) (string, error) {
	owner, err := s.store.TaskOwner(ctx, taskID)
	if errors.Is(err, storage.ErrTaskNotFound) {
		return "", identity.ErrNotFound
	}
	return owner, err
}
