// Package notify delivers account messages (verification notices and
// password reset tokens) to users.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/taskkeeper/internal/models"
)

// Notifier sends account messages. Implementations may block on I/O.
type Notifier interface {
	SendVerification(ctx context.Context, user *models.User) error
	SendPasswordReset(ctx context.Context, user *models.User, token string, expiresAt time.Time) error
}

// LogNotifier writes messages to the log instead of delivering them.
// The reset token is only logged at debug level.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that logs to logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendVerification(ctx context.Context, user *models.User) error {
	n.logger.InfoContext(ctx, "verification notice issued",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)
	return nil
}

func (n *LogNotifier) SendPasswordReset(ctx context.Context, user *models.User, token string, expiresAt time.Time) error {
	n.logger.InfoContext(ctx, "password reset issued",
		slog.String("user_id", user.ID),
		slog.Time("expires_at", expiresAt),
	)
	n.logger.DebugContext(ctx, "password reset token",
		slog.String("email", user.Email),
		slog.String("reset_token", token),
	)
	return nil
}

// Async dispatches messages on background goroutines so callers never wait
// for delivery. Failures are logged. Close waits for in-flight sends.
type Async struct {
	next    Notifier
	logger  *slog.Logger
	wg      sync.WaitGroup
	mu      sync.Mutex
	timeout time.Duration
	closed  bool
}

// NewAsync wraps next. Each send gets its own timeout.
func NewAsync(next Notifier, logger *slog.Logger, timeout time.Duration) *Async {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Async{next: next, logger: logger, timeout: timeout}
}

func (a *Async) SendVerification(ctx context.Context, user *models.User) error {
	a.dispatch(ctx, "verification", func(ctx context.Context) error {
		return a.next.SendVerification(ctx, user)
	})
	return nil
}

func (a *Async) SendPasswordReset(ctx context.Context, user *models.User, token string, expiresAt time.Time) error {
	a.dispatch(ctx, "password_reset", func(ctx context.Context) error {
		return a.next.SendPasswordReset(ctx, user, token, expiresAt)
	})
	return nil
}

func (a *Async) dispatch(ctx context.Context, kind string, send func(context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		a.logger.WarnContext(ctx, "notifier closed, message dropped", slog.String("kind", kind))
		return
	}

	// Detach from the request so the send outlives the response.
	base := context.WithoutCancel(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		sendCtx, cancel := context.WithTimeout(base, a.timeout)
		defer cancel()

		if err := send(sendCtx); err != nil {
			a.logger.WarnContext(sendCtx, "failed to send notification",
				slog.String("kind", kind),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// Close stops accepting messages and waits for pending sends or ctx.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
