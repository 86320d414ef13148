// Package cli implements the taskkeeper command-line client.
package cli

import (
	"context"
	"time"

	apiclient "github.com/iudanet/taskkeeper/internal/client/api"
	"github.com/iudanet/taskkeeper/internal/client/iocli"
	"github.com/iudanet/taskkeeper/internal/client/storage"
	"github.com/iudanet/taskkeeper/pkg/api"
)

//go:generate moq -out apiclient_mock_test.go . APIClient

// APIClient is the part of the HTTP client the commands use.
type APIClient interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.UserResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*storage.AuthData, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*api.UserResponse, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
	CreateTask(ctx context.Context, req api.CreateTaskRequest) (*api.TaskResponse, error)
	ListTasks(ctx context.Context, opts apiclient.ListOptions) (*api.TaskListResponse, error)
	GetTask(ctx context.Context, id string) (*api.TaskResponse, error)
	UpdateTask(ctx context.Context, id string, req api.UpdateTaskRequest) (*api.TaskResponse, error)
	DeleteTask(ctx context.Context, id string) error
}

var _ APIClient = (*apiclient.Client)(nil)

type Cli struct {
	io       iocli.IO
	client   APIClient
	sessions storage.AuthStorage
	now      func() time.Time
}

func New(io iocli.IO, client APIClient, sessions storage.AuthStorage) *Cli {
	return &Cli{
		io:       io,
		client:   client,
		sessions: sessions,
		now:      time.Now,
	}
}

// PrintUsage writes the command summary.
func (c *Cli) PrintUsage() {
	c.io.Println("TaskKeeper Client")
	c.io.Println()
	c.io.Println("Usage:")
	c.io.Println("  taskkeeper [OPTIONS] COMMAND [ARGS]")
	c.io.Println()
	c.io.Println("Options:")
	c.io.Println("  --version         Show version information")
	c.io.Println("  --server URL      Server URL (default: http://localhost:8080, env TASKKEEPER_SERVER)")
	c.io.Println("  --db PATH         Path to local session database (default: taskkeeper-client.db)")
	c.io.Println()
	c.io.Println("Account commands:")
	c.io.Println("  register [email]          Create an account")
	c.io.Println("  login [email]             Log in and store the session")
	c.io.Println("  logout                    Revoke the session and forget it")
	c.io.Println("  status                    Show the current session")
	c.io.Println("  forgot-password [email]   Request a password reset token")
	c.io.Println("  reset-password [token]    Set a new password with a reset token")
	c.io.Println()
	c.io.Println("Task commands:")
	c.io.Println("  add [-d text] [-s status] <title>    Create a task")
	c.io.Println("  list [-status S] [-limit N] [-offset N]")
	c.io.Println("                                       List your tasks")
	c.io.Println("  get <id>                             Show a task")
	c.io.Println("  done <id>                            Mark a task completed")
	c.io.Println("  delete <id>                          Delete a task")
	c.io.Println()
	c.io.Println("Examples:")
	c.io.Println("  taskkeeper register alice@example.com")
	c.io.Println("  taskkeeper login alice@example.com")
	c.io.Println("  taskkeeper add -d 'Q3 numbers' Write report")
	c.io.Println("  taskkeeper list -status 'In Progress'")
	c.io.Println("  taskkeeper --server https://tasks.example.com status")
}
