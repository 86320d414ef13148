package cli

import (
	"context"
	"fmt"
)

// Run executes one command. Unknown commands print the usage.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx, args)
	case "login":
		return c.runLogin(ctx, args)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "forgot-password":
		return c.runForgotPassword(ctx, args)
	case "reset-password":
		return c.runResetPassword(ctx, args)
	case "add":
		return c.runAdd(ctx, args)
	case "list":
		return c.runList(ctx, args)
	case "get":
		return c.runGet(ctx, args)
	case "done":
		return c.runDone(ctx, args)
	case "delete":
		return c.runDelete(ctx, args)
	case "help", "-h", "--help":
		c.PrintUsage()
		return nil
	default:
		c.PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}
