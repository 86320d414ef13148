package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that a user with this email already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrTokenNotFound indicates that a refresh or reset token was not found,
	// or was no longer in the state a conditional update required
	ErrTokenNotFound = errors.New("token not found")

	// ErrTaskNotFound indicates that task was not found
	ErrTaskNotFound = errors.New("task not found")
)
