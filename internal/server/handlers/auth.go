package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/taskkeeper/internal/models"
	"github.com/iudanet/taskkeeper/internal/server/auth"
	"github.com/iudanet/taskkeeper/internal/server/identity"
	"github.com/iudanet/taskkeeper/internal/server/middleware"
	"github.com/iudanet/taskkeeper/pkg/api"
)

// Messages returned by the auth endpoints.
const (
	msgLoggedOut      = "Logged out successfully"
	msgResetRequested = "If email exists, reset link has been sent"
	msgPasswordReset  = "Password reset successfully"
)

// AuthService is the account lifecycle used by AuthHandler.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*auth.Session, error)
	Refresh(ctx context.Context, rawToken string) (*auth.Session, error)
	Logout(ctx context.Context, subject string) (int, error)
	Me(ctx context.Context, subject string) (*models.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
}

// AuthHandler serves /api/v1/auth.
type AuthHandler struct {
	responder
	service      AuthService
	secureCookie bool
}

// NewAuthHandler creates the handler. secureCookie sets the Secure flag on
// the refresh cookie and should be on whenever the server is behind TLS.
func NewAuthHandler(logger *slog.Logger, service AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		responder:    responder{logger: logger},
		service:      service,
		secureCookie: secureCookie,
	}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.String("error", err.Error()))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Register(ctx, req.Email, req.Password)
	if err != nil {
		var weak *auth.WeakPasswordError
		switch {
		case errors.As(err, &weak):
			h.sendError(w, weak.Error(), http.StatusBadRequest)
		case errors.Is(err, auth.ErrInvalidEmail):
			h.sendError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, auth.ErrEmailTaken):
			h.sendError(w, auth.ErrEmailTaken.Error(), http.StatusConflict)
		default:
			h.logger.ErrorContext(ctx, "failed to register user", slog.String("error", err.Error()))
			h.sendError(w, internalErrorMessage, http.StatusInternalServerError)
		}
		return
	}

	h.sendJSON(w, toUserResponse(user), http.StatusCreated)
}

// Login handles POST /api/v1/auth/login. The access token is returned in the
// body, the refresh token in an HttpOnly cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.sendError(w, auth.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to log in", slog.String("error", err.Error()))
		h.sendError(w, internalErrorMessage, http.StatusInternalServerError)
		return
	}

	setRefreshCookie(w, session.RefreshToken, session.RefreshExpiresAt, h.secureCookie)
	h.sendJSON(w, api.LoginResponse{
		User:      toUserResponse(session.User),
		Token:     session.AccessToken,
		ExpiresIn: session.ExpiresIn,
	}, http.StatusOK)
}

// Refresh handles POST /api/v1/auth/refresh. The refresh token is taken from
// the cookie, then the JSON body, then the Authorization header.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := h.service.Refresh(ctx, refreshTokenFrom(w, r))
	if err != nil {
		if !errors.Is(err, auth.ErrUnauthorized) {
			h.logger.ErrorContext(ctx, "failed to refresh session", slog.String("error", err.Error()))
		}
		clearRefreshCookie(w, h.secureCookie)
		middleware.Unauthorized(w)
		return
	}

	setRefreshCookie(w, session.RefreshToken, session.RefreshExpiresAt, h.secureCookie)
	h.sendJSON(w, api.TokenResponse{
		Token:     session.AccessToken,
		ExpiresIn: session.ExpiresIn,
	}, http.StatusOK)
}

// Logout handles POST /api/v1/auth/logout. Every refresh token of the caller
// is revoked before the response is written.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subject, err := identity.CurrentUser(ctx)
	if err != nil {
		middleware.Unauthorized(w)
		return
	}

	if _, err := h.service.Logout(ctx, subject); err != nil {
		h.logger.ErrorContext(ctx, "failed to log out", slog.String("error", err.Error()))
		h.sendError(w, internalErrorMessage, http.StatusInternalServerError)
		return
	}

	clearRefreshCookie(w, h.secureCookie)
	h.sendJSON(w, api.MessageResponse{Message: msgLoggedOut}, http.StatusOK)
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subject, err := identity.CurrentUser(ctx)
	if err != nil {
		middleware.Unauthorized(w)
		return
	}

	user, err := h.service.Me(ctx, subject)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			middleware.Unauthorized(w)
			return
		}
		h.logger.ErrorContext(ctx, "failed to load user", slog.String("error", err.Error()))
		h.sendError(w, internalErrorMessage, http.StatusInternalServerError)
		return
	}

	h.sendJSON(w, toUserResponse(user), http.StatusOK)
}

// ForgotPassword handles POST /api/v1/auth/forgot-password. The response is
// the same whether or not the email is registered, and even for a body
// that cannot be parsed.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ForgotPasswordRequest
	if err := decodeJSON(w, r, &req); err == nil {
		_ = h.service.RequestPasswordReset(ctx, req.Email)
	}

	h.sendJSON(w, api.MessageResponse{Message: msgResetRequested}, http.StatusOK)
}

// ResetPassword handles POST /api/v1/auth/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.ResetPassword(ctx, req.ResetToken, req.NewPassword); err != nil {
		var weak *auth.WeakPasswordError
		switch {
		case errors.As(err, &weak):
			h.sendError(w, weak.Error(), http.StatusBadRequest)
		case errors.Is(err, auth.ErrInvalidResetToken):
			h.sendError(w, auth.ErrInvalidResetToken.Error(), http.StatusBadRequest)
		default:
			h.logger.ErrorContext(ctx, "failed to reset password", slog.String("error", err.Error()))
			h.sendError(w, internalErrorMessage, http.StatusInternalServerError)
		}
		return
	}

	h.sendJSON(w, api.MessageResponse{Message: msgPasswordReset}, http.StatusOK)
}

// refreshTokenFrom looks for a refresh token in the cookie, the JSON body
// and the Authorization header, in that order.
func refreshTokenFrom(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(RefreshCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	var req api.RefreshRequest
	if err := decodeJSON(w, r, &req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}

	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}
