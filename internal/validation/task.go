package validation

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/iudanet/taskkeeper/internal/models"
)

const (
	MaxTitleLen       = 255
	MaxDescriptionLen = 2000

	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ErrInvalidTask wraps every task field violation.
var ErrInvalidTask = errors.New("invalid task")

var statusRule = validation.In(
	models.TaskPending,
	models.TaskInProgress,
	models.TaskCompleted,
	models.TaskArchived,
)

// ValidateTask checks a task before it is stored.
func ValidateTask(t *models.Task) error {
	err := validation.ValidateStruct(t,
		validation.Field(&t.Title, validation.Required, validation.RuneLength(1, MaxTitleLen)),
		validation.Field(&t.Description, validation.RuneLength(0, MaxDescriptionLen)),
		validation.Field(&t.Status, validation.Required, statusRule),
	)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTask, err.Error())
	}
	return nil
}

// ValidateTaskPatch checks only the fields present in the patch.
func ValidateTaskPatch(p *models.TaskPatch) error {
	if p.Title != nil {
		if err := validation.Validate(*p.Title, validation.Required, validation.RuneLength(1, MaxTitleLen)); err != nil {
			return fmt.Errorf("%w: title: %s", ErrInvalidTask, err.Error())
		}
	}
	if p.Description != nil {
		if err := validation.Validate(*p.Description, validation.RuneLength(0, MaxDescriptionLen)); err != nil {
			return fmt.Errorf("%w: description: %s", ErrInvalidTask, err.Error())
		}
	}
	if p.Status != nil {
		if err := validation.Validate(*p.Status, validation.Required, statusRule); err != nil {
			return fmt.Errorf("%w: status: %s", ErrInvalidTask, err.Error())
		}
	}
	return nil
}

// NormalizeFilter applies listing defaults and bounds.
func NormalizeFilter(f models.TaskFilter) (models.TaskFilter, error) {
	if f.Status != "" && !f.Status.Valid() {
		return f, fmt.Errorf("%w: unknown status %q", ErrInvalidTask, f.Status)
	}
	if f.Offset < 0 {
		return f, fmt.Errorf("%w: offset must not be negative", ErrInvalidTask)
	}
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultListLimit
	case f.Limit > MaxListLimit:
		f.Limit = MaxListLimit
	}
	return f, nil
}
