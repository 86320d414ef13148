// Package auth implements account registration, login, refresh-token
// rotation, logout and password reset.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/taskkeeper/internal/crypto"
	"github.com/iudanet/taskkeeper/internal/models"
	"github.com/iudanet/taskkeeper/internal/server/jwt"
	"github.com/iudanet/taskkeeper/internal/server/notify"
	"github.com/iudanet/taskkeeper/internal/server/storage"
	"github.com/iudanet/taskkeeper/internal/validation"
)

// Default lifetimes.
const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 30 * 24 * time.Hour
	DefaultResetTTL   = 24 * time.Hour
)

var (
	// ErrEmailTaken is returned by Register for an email that already has an account.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrInvalidEmail is returned by Register for a malformed email.
	ErrInvalidEmail = validation.ErrInvalidEmail

	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password. The two cases are indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthorized is returned for unknown, revoked or expired refresh tokens.
	ErrUnauthorized = errors.New("invalid or expired token")

	// ErrInvalidResetToken covers unknown, expired and already used reset tokens.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// WeakPasswordError is returned when a password fails the strength policy.
type WeakPasswordError = validation.WeakPasswordError

// Store is the persistence the service needs.
type Store interface {
	storage.UserStorage
	storage.RefreshTokenStorage
	storage.ResetTokenStorage
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, *jwt.Claims, error)
}

// Options tunes the service. Zero values take the defaults.
type Options struct {
	Clock      func() time.Time
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration
	BcryptCost int
}

// Session is the credential pair handed to a client after login or refresh.
// RefreshToken is the raw value; only its hash is stored.
type Session struct {
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	User             *models.User
	AccessToken      string
	RefreshToken     string
	ExpiresIn        int64
}

// Service implements the account lifecycle.
type Service struct {
	store     Store
	issuer    TokenIssuer
	notifier  notify.Notifier
	logger    *slog.Logger
	hasher    *crypto.PasswordHasher
	now       func() time.Time
	dummyHash string
	opts      Options
}

// NewService creates the service. It precomputes a bcrypt hash used to keep
// login timing identical for unknown emails.
func NewService(logger *slog.Logger, store Store, issuer TokenIssuer, notifier notify.Notifier, opts Options) (*Service, error) {
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = DefaultAccessTTL
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = DefaultRefreshTTL
	}
	if opts.ResetTTL <= 0 {
		opts.ResetTTL = DefaultResetTTL
	}

	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	hasher := crypto.NewPasswordHasher(opts.BcryptCost)
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &Service{
		store:     store,
		issuer:    issuer,
		notifier:  notifier,
		logger:    logger,
		hasher:    hasher,
		now:       now,
		dummyHash: dummy,
		opts:      opts,
	}, nil
}

// AccessTTL returns the lifetime of issued access tokens.
func (s *Service) AccessTTL() time.Duration {
	return s.opts.AccessTTL
}

// Register creates an unverified account.
func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = validation.NormalizeEmail(email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	_, err := s.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, storage.ErrUserNotFound):
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.notifier.SendVerification(ctx, user); err != nil {
		s.logger.WarnContext(ctx, "failed to queue verification notice",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID))
	return user, nil
}

// Login verifies credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = validation.NormalizeEmail(email)

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		// Same bcrypt work as a real comparison.
		_ = s.hasher.Compare(s.dummyHash, password)
		s.logger.WarnContext(ctx, "login failed")
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, crypto.ErrPasswordMismatch) {
			s.logger.WarnContext(ctx, "login failed", slog.String("user_id", user.ID))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.now().UTC()
	access, claims, err := s.issuer.Issue(user.ID, s.opts.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	raw, refresh, err := s.newRefreshToken(user.ID, now)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveRefreshToken(ctx, refresh); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))
	return s.session(user, access, claims, raw, refresh), nil
}

// Refresh exchanges a refresh token for a new access token and a new
// refresh token. The presented token is revoked; presenting it again fails.
func (s *Service) Refresh(ctx context.Context, rawToken string) (*Session, error) {
	if rawToken == "" {
		return nil, ErrUnauthorized
	}

	current, err := s.store.GetRefreshToken(ctx, crypto.HashToken(rawToken))
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	now := s.now().UTC()
	if !current.Usable(now) {
		if current.RevokedAt != nil {
			s.logger.WarnContext(ctx, "revoked refresh token presented", slog.String("user_id", current.UserID))
		}
		return nil, ErrUnauthorized
	}

	access, claims, err := s.issuer.Issue(current.UserID, s.opts.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	raw, next, err := s.newRefreshToken(current.UserID, now)
	if err != nil {
		return nil, err
	}

	if err := s.store.RotateRefreshToken(ctx, current.ID, now, next); err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			s.logger.WarnContext(ctx, "refresh token rotation lost a race", slog.String("user_id", current.UserID))
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.session(nil, access, claims, raw, next), nil
}

// Logout revokes every live refresh token of subject and returns how many
// were revoked. Access tokens already issued stay valid until they expire.
func (s *Service) Logout(ctx context.Context, subject string) (int, error) {
	if subject == "" {
		return 0, ErrUnauthorized
	}

	n, err := s.store.RevokeUserTokens(ctx, subject, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to revoke tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged out", slog.String("user_id", subject), slog.Int("revoked", n))
	return n, nil
}

// Me returns the account of subject.
func (s *Service) Me(ctx context.Context, subject string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, subject)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// RequestPasswordReset issues a reset token for a known email and hands it to
// the notifier. It returns nil whether or not the email is registered;
// internal failures are logged only.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = validation.NormalizeEmail(email)
	if validation.ValidateEmail(email) != nil {
		return nil
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			s.logger.ErrorContext(ctx, "failed to look up user for password reset", slog.String("error", err.Error()))
		}
		return nil
	}

	raw, err := crypto.GenerateToken()
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to generate reset token", slog.String("error", err.Error()))
		return nil
	}

	now := s.now().UTC()
	token := &models.PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: crypto.HashToken(raw),
		CreatedAt: now,
		ExpiresAt: now.Add(s.opts.ResetTTL),
	}

	if err := s.store.SaveResetToken(ctx, token); err != nil {
		s.logger.ErrorContext(ctx, "failed to save reset token",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return nil
	}

	if err := s.notifier.SendPasswordReset(ctx, user, raw, token.ExpiresAt); err != nil {
		s.logger.WarnContext(ctx, "failed to queue password reset",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// ResetPassword consumes a reset token, sets the new password and revokes all
// of the user's refresh tokens.
func (s *Service) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if rawToken == "" {
		return ErrInvalidResetToken
	}

	token, err := s.store.GetResetToken(ctx, crypto.HashToken(rawToken))
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to get reset token: %w", err)
	}

	now := s.now().UTC()
	if !token.Usable(now) {
		return ErrInvalidResetToken
	}

	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.store.ConsumeResetToken(ctx, token.ID, token.UserID, hash, now); err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) || errors.Is(err, storage.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to reset password: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset completed", slog.String("user_id", token.UserID))
	return nil
}

// PurgeExpired deletes expired refresh and reset tokens.
func (s *Service) PurgeExpired(ctx context.Context) (int, error) {
	now := s.now().UTC()

	refresh, err := s.store.DeleteExpiredTokens(ctx, now)
	if err != nil {
		return 0, err
	}
	resets, err := s.store.DeleteExpiredResetTokens(ctx, now)
	if err != nil {
		return refresh, err
	}
	return refresh + resets, nil
}

func (s *Service) newRefreshToken(userID string, now time.Time) (string, *models.RefreshToken, error) {
	raw, err := crypto.GenerateToken()
	if err != nil {
		return "", nil, err
	}

	return raw, &models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: crypto.HashToken(raw),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.opts.RefreshTTL),
	}, nil
}

func (s *Service) session(user *models.User, access string, claims *jwt.Claims, raw string, refresh *models.RefreshToken) *Session {
	return &Session{
		User:             user,
		AccessToken:      access,
		AccessExpiresAt:  claims.ExpiresAt,
		ExpiresIn:        int64(s.opts.AccessTTL / time.Second),
		RefreshToken:     raw,
		RefreshExpiresAt: refresh.ExpiresAt,
	}
}
