package cli

import (
	"context"
	"flag"
	"io"

	apiclient "github.com/iudanet/taskkeeper/internal/client/api"
)

func (c *Cli) runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts apiclient.ListOptions
	fs.StringVar(&opts.Status, "status", "", "only tasks with this status")
	fs.IntVar(&opts.Limit, "limit", 0, "page size (server default 20, max 100)")
	fs.IntVar(&opts.Offset, "offset", 0, "tasks to skip")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c.io.Println("=== Tasks ===")
	c.io.Println()

	page, err := c.client.ListTasks(ctx, opts)
	if err != nil {
		return explain(err)
	}

	if len(page.Data) == 0 {
		if page.Total > 0 {
			c.io.Printf("No tasks at offset %d (%d total).\n", page.Offset, page.Total)
			return nil
		}
		c.io.Println("No tasks found.")
		c.io.Println()
		c.io.Println("Use 'taskkeeper add <title>' to add your first task.")
		return nil
	}

	c.io.Printf("Showing %d-%d of %d task(s):\n", page.Offset+1, page.Offset+len(page.Data), page.Total)
	c.io.Println()

	for i, task := range page.Data {
		c.io.Printf("%d. [%s] %s\n", page.Offset+i+1, task.Status, task.Title)
		c.io.Printf("   ID: %s\n", task.ID)
	}

	if rest := page.Total - page.Offset - len(page.Data); rest > 0 {
		c.io.Println()
		c.io.Printf("%d more. Use -offset %d to see the next page.\n", rest, page.Offset+len(page.Data))
	}

	return nil
}
