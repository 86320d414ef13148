package cli

import (
	"context"

	"github.com/iudanet/taskkeeper/internal/models"
	"github.com/iudanet/taskkeeper/pkg/api"
)

func (c *Cli) runGet(ctx context.Context, args []string) error {
	id, err := taskID(args, "taskkeeper get <id>")
	if err != nil {
		return err
	}

	task, err := c.client.GetTask(ctx, id)
	if err != nil {
		return explain(err)
	}

	return c.printTask(task)
}

func (c *Cli) runDone(ctx context.Context, args []string) error {
	id, err := taskID(args, "taskkeeper done <id>")
	if err != nil {
		return err
	}

	completed := string(models.TaskCompleted)
	task, err := c.client.UpdateTask(ctx, id, api.UpdateTaskRequest{Status: &completed})
	if err != nil {
		return explain(err)
	}

	c.io.Printf("✓ %s marked %s\n", task.Title, task.Status)
	return nil
}
