package cli

import (
	"context"
	"errors"
	"fmt"

	apiclient "github.com/iudanet/taskkeeper/internal/client/api"
	"github.com/iudanet/taskkeeper/internal/client/storage"
)

// runLogout revokes the session on the server when it can and always
// forgets it locally.
func (c *Cli) runLogout(ctx context.Context) error {
	err := c.client.Logout(ctx)
	switch {
	case errors.Is(err, apiclient.ErrNotAuthenticated):
		c.io.Println("Not logged in.")
		return nil
	case errors.Is(err, apiclient.ErrSessionExpired):
		// the client already dropped the session
	case err != nil:
		c.io.Printf("Warning: failed to logout on server: %v\n", err)
	}

	if err := c.sessions.DeleteAuth(ctx); err != nil && !errors.Is(err, storage.ErrAuthNotFound) {
		return fmt.Errorf("failed to delete local session: %w", err)
	}

	c.io.Println("✓ Logged out")
	return nil
}
