package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	apiclient "github.com/iudanet/taskkeeper/internal/client/api"
	"github.com/iudanet/taskkeeper/internal/client/storage"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	if _, err := c.sessions.GetAuth(ctx); err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			c.io.Println("Status: Not authenticated")
			c.io.Println()
			c.io.Println("Run 'taskkeeper login' to authenticate.")
			return nil
		}
		return fmt.Errorf("failed to read session: %w", err)
	}

	// Me refreshes an expired access token as a side effect.
	user, err := c.client.Me(ctx)
	switch {
	case errors.Is(err, apiclient.ErrSessionExpired):
		c.io.Println("Status: Session expired")
		c.io.Println()
		c.io.Println("Run 'taskkeeper login' to authenticate again.")
		return nil
	case err != nil:
		c.io.Printf("Warning: could not reach server: %v\n", err)
		c.io.Println()
	}

	auth, err := c.sessions.GetAuth(ctx)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	expiresAt := time.Unix(auth.ExpiresAt, 0)
	remaining := expiresAt.Sub(c.now())

	c.io.Println("Status: Authenticated")
	c.io.Printf("Email: %s\n", auth.Email)
	if user != nil {
		c.io.Printf("User ID: %s\n", user.ID)
	}
	c.io.Printf("Access token expires: %s\n", expiresAt.Format(time.RFC3339))
	if remaining > 0 {
		c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
	} else {
		c.io.Println("Access token has expired. It will be refreshed on the next command.")
	}

	return nil
}
