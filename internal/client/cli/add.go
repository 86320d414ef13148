package cli

import (
	"context"
	"flag"
	"io"
	"strings"

	"github.com/iudanet/taskkeeper/internal/models"
	"github.com/iudanet/taskkeeper/internal/validation"
	"github.com/iudanet/taskkeeper/pkg/api"
)

func (c *Cli) runAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	description := fs.String("d", "", "task description")
	status := fs.String("s", string(models.TaskPending), "task status")
	if err := fs.Parse(args); err != nil {
		return err
	}

	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		var err error
		if title, err = c.argOrPrompt(nil, "Title: "); err != nil {
			return err
		}
	}

	task := &models.Task{
		Title:       title,
		Description: *description,
		Status:      models.TaskStatus(*status),
	}
	if err := validation.ValidateTask(task); err != nil {
		return err
	}

	created, err := c.client.CreateTask(ctx, api.CreateTaskRequest{
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
	})
	if err != nil {
		return explain(err)
	}

	c.io.Println("✓ Task created")
	c.io.Printf("ID:     %s\n", created.ID)
	c.io.Printf("Status: %s\n", created.Status)
	return nil
}
