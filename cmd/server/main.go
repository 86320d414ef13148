package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iudanet/taskkeeper/internal/config"
	"github.com/iudanet/taskkeeper/internal/logging"
	"github.com/iudanet/taskkeeper/internal/server/auth"
	"github.com/iudanet/taskkeeper/internal/server/handlers"
	"github.com/iudanet/taskkeeper/internal/server/jwt"
	"github.com/iudanet/taskkeeper/internal/server/middleware"
	"github.com/iudanet/taskkeeper/internal/server/notify"
	"github.com/iudanet/taskkeeper/internal/server/storage"
	"github.com/iudanet/taskkeeper/internal/server/storage/postgres"
	"github.com/iudanet/taskkeeper/internal/server/storage/sqlite"
	"github.com/iudanet/taskkeeper/internal/server/tasks"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const notifyTimeout = 10 * time.Second

// serverStore is everything the services need from a database backend.
type serverStore interface {
	auth.Store
	storage.TaskStorage
	storage.Pinger
	Close() error
}

func main() {
	args := os.Args[1:]

	if slices.Contains(args, "-version") || slices.Contains(args, "--version") {
		printVersion(os.Stdout)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "taskkeeper-server: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load(args, os.LookupEnv)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	logger.Info("starting server",
		slog.String("version", Version),
		slog.String("addr", cfg.Addr),
		slog.String("storage", cfg.StorageDriver),
	)
	logger.Debug("effective configuration", slog.String("config", cfg.String()))

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	codec, err := jwt.NewCodec([]byte(cfg.JWTSecret), jwt.WithLeeway(cfg.Leeway))
	if err != nil {
		return fmt.Errorf("failed to create token codec: %w", err)
	}

	notifier := notify.NewAsync(notify.NewLogNotifier(logger), logger, notifyTimeout)

	authSvc, err := auth.NewService(logger, store, codec, notifier, auth.Options{
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
		ResetTTL:   cfg.ResetTTL,
		BcryptCost: cfg.BcryptCost,
	})
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}

	limiter, stopLimiter := newLimiter(ctx, cfg, logger)
	defer stopLimiter()

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: handlers.NewRouter(logger, handlers.Routes{
			Auth:       handlers.NewAuthHandler(logger, authSvc, cfg.SecureCookie),
			Tasks:      handlers.NewTaskHandler(logger, tasks.NewService(logger, store, nil)),
			Health:     handlers.NewHealthHandler(logger, store, Version),
			Verifier:   codec,
			Limiter:    limiter,
			TrustProxy: cfg.TrustProxy,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	purgeCtx, stopPurge := context.WithCancel(ctx)
	defer stopPurge()
	go purgeLoop(purgeCtx, logger, authSvc, cfg.PurgeInterval)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", slog.String("error", err.Error()))
	}
	stopPurge()
	if err := notifier.Close(shutdownCtx); err != nil {
		logger.Warn("pending notifications dropped", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (serverStore, error) {
	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch cfg.StorageDriver {
	case config.DriverPostgres:
		return postgres.New(openCtx, cfg.DatabaseDSN)
	case config.DriverSQLite:
		return sqlite.New(openCtx, cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// newLimiter picks the Redis limiter when an address is configured and the
// in-memory one otherwise. A zero rate disables limiting.
func newLimiter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (middleware.Limiter, func()) {
	if cfg.RateLimit == 0 {
		logger.Warn("rate limiting disabled")
		return nil, func() {}
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable, requests pass until it recovers",
				slog.String("addr", cfg.RedisAddr),
				slog.String("error", err.Error()),
			)
		}

		return middleware.NewRedisLimiter(client, "taskkeeper:ratelimit", cfg.RateLimit, cfg.RateWindow), func() {
			_ = client.Close()
		}
	}

	rl := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow, logger)
	return rl, rl.Stop
}

type purger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

func purgeLoop(ctx context.Context, logger *slog.Logger, p purger, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.PurgeExpired(ctx)
			if err != nil {
				logger.Error("failed to purge expired tokens", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				logger.Info("purged expired tokens", slog.Int("count", n))
			}
		}
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "TaskKeeper Server\n")
	fmt.Fprintf(w, "Version:    %s\n", Version)
	fmt.Fprintf(w, "Build Date: %s\n", BuildDate)
	fmt.Fprintf(w, "Git Commit: %s\n", GitCommit)
}
