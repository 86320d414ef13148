package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/taskkeeper/internal/client/api"
	"github.com/iudanet/taskkeeper/internal/client/cli"
	"github.com/iudanet/taskkeeper/internal/client/iocli"
	"github.com/iudanet/taskkeeper/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const (
	defaultServer = "http://localhost:8080"
	defaultDB     = "taskkeeper-client.db"
	serverEnv     = "TASKKEEPER_SERVER"
)

var errUsage = errors.New("no command given")

type options struct {
	server      string
	dbPath      string
	command     string
	args        []string
	showVersion bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts, err := parseArgs(os.Args[1:], os.LookupEnv)
	if err != nil && !errors.Is(err, errUsage) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if opts.showVersion {
		printVersion(os.Stdout)
		return
	}

	stdio := iocli.NewStdio()
	if errors.Is(err, errUsage) {
		cli.New(stdio, nil, nil).PrintUsage()
		os.Exit(1)
	}

	if err := run(ctx, opts, stdio); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func parseArgs(args []string, lookupEnv func(string) (string, bool)) (options, error) {
	server := defaultServer
	if v, ok := lookupEnv(serverEnv); ok && v != "" {
		server = v
	}

	var opts options
	fs := flag.NewFlagSet("taskkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.StringVar(&opts.server, "server", server, "Server URL")
	fs.StringVar(&opts.dbPath, "db", defaultDB, "Path to local session database")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		if opts.showVersion {
			return opts, nil
		}
		return opts, errUsage
	}
	opts.command = rest[0]
	opts.args = rest[1:]
	return opts, nil
}

func run(ctx context.Context, opts options, stdio iocli.IO) error {
	sessions, err := boltdb.New(ctx, opts.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	client := api.NewClient(opts.server, sessions)
	return cli.New(stdio, client, sessions).Run(ctx, opts.command, opts.args)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "TaskKeeper Client\n")
	fmt.Fprintf(w, "Version:    %s\n", Version)
	fmt.Fprintf(w, "Build Date: %s\n", BuildDate)
	fmt.Fprintf(w, "Git Commit: %s\n", GitCommit)
}
