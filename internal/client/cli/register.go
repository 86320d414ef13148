package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/taskkeeper/internal/validation"
	"github.com/iudanet/taskkeeper/pkg/api"
)

func (c *Cli) runRegister(ctx context.Context, args []string) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	email, err := c.argOrPrompt(args, "Email: ")
	if err != nil {
		return err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	password, err := c.readNewPassword("Password: ")
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Registering...")

	user, err := c.client.Register(ctx, api.RegisterRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("Email:   %s\n", user.Email)
	c.io.Printf("User ID: %s\n", user.ID)
	c.io.Println()
	c.io.Println("Run 'taskkeeper login' to sign in.")

	return nil
}

func (c *Cli) runForgotPassword(ctx context.Context, args []string) error {
	email, err := c.argOrPrompt(args, "Email: ")
	if err != nil {
		return err
	}

	msg, err := c.client.ForgotPassword(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to request password reset: %w", err)
	}

	c.io.Println(msg)
	return nil
}

func (c *Cli) runResetPassword(ctx context.Context, args []string) error {
	token, err := c.argOrPrompt(args, "Reset token: ")
	if err != nil {
		return err
	}

	password, err := c.readNewPassword("New password: ")
	if err != nil {
		return err
	}

	msg, err := c.client.ResetPassword(ctx, token, password)
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	c.io.Println("✓ " + msg)
	c.io.Println("All sessions were signed out. Run 'taskkeeper login' with the new password.")
	return nil
}
