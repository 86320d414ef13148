package cli

import (
	"context"
	"errors"
	"time"

	"github.com/iudanet/taskkeeper/pkg/api"
)

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	email, err := c.argOrPrompt(args, "Email: ")
	if err != nil {
		return err
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return err
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	auth, err := c.client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Email: %s\n", auth.Email)
	c.io.Printf("Access token expires: %s\n", time.Unix(auth.ExpiresAt, 0).Format(time.RFC3339))
	c.io.Println()
	c.io.Println("Your session has been saved.")

	return nil
}
