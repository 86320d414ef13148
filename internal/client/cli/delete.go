package cli

import (
	"context"
)

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	id, err := taskID(args, "taskkeeper delete <id>")
	if err != nil {
		return err
	}

	if err := c.client.DeleteTask(ctx, id); err != nil {
		return explain(err)
	}

	c.io.Printf("✓ Task %s deleted\n", id)
	return nil
}
