package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/taskkeeper/internal/models"
	"github.com/iudanet/taskkeeper/pkg/api"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

const internalErrorMessage = "internal server error"

var errEmptyBody = errors.New("empty request body")

// responder writes JSON responses in the common envelope.
type responder struct {
	logger *slog.Logger
}

func (h responder) sendJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

func (h responder) sendError(w http.ResponseWriter, message string, statusCode int) {
	h.sendJSON(w, api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}, statusCode)
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func toUserResponse(u *models.User) api.UserResponse {
	return api.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}

func toTaskResponse(t *models.Task) api.TaskResponse {
	return api.TaskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// RefreshCookieName is the cookie that carries the refresh token.
const RefreshCookieName = "refresh_token"

// refreshCookiePath limits the cookie to the auth endpoints.
const refreshCookiePath = "/api/v1/auth"

func setRefreshCookie(w http.ResponseWriter, value string, expiresAt time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    value,
		Path:     refreshCookiePath,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
