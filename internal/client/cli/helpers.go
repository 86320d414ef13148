package cli

import (
	"errors"
	"fmt"
	"net/http"

	apiclient "github.com/iudanet/taskkeeper/internal/client/api"
	"github.com/iudanet/taskkeeper/internal/validation"
)

// argOrPrompt returns args[0] or asks for the value.
func (c *Cli) argOrPrompt(args []string, prompt string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	value, err := c.io.ReadInput(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if value == "" {
		return "", errors.New("value cannot be empty")
	}
	return value, nil
}

// readNewPassword asks for a password twice and checks its strength before
// anything is sent.
func (c *Cli) readNewPassword(prompt string) (string, error) {
	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return "", err
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if confirm != password {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}

// taskID takes the single <id> argument of a task command.
func taskID(args []string, usage string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", fmt.Errorf("missing task ID. Usage: %s", usage)
	}
	return args[0], nil
}

// explain turns task API errors into messages for the terminal.
func explain(err error) error {
	switch {
	case apiclient.IsStatus(err, http.StatusForbidden):
		return errors.New("access denied: the task belongs to another user")
	case apiclient.IsStatus(err, http.StatusNotFound):
		return errors.New("task not found")
	case apiclient.IsStatus(err, http.StatusTooManyRequests):
		return errors.New("too many requests, please try again later")
	}
	return err
}
