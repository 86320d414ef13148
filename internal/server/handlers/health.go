package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/taskkeeper/internal/server/storage"
	"github.com/iudanet/taskkeeper/pkg/api"
)

const healthPingTimeout = 2 * time.Second

// HealthHandler serves GET /health.
type HealthHandler struct {
	responder
	db      storage.Pinger
	version string
}

// NewHealthHandler creates the handler. A nil db skips the database check.
func NewHealthHandler(logger *slog.Logger, db storage.Pinger, version string) *HealthHandler {
	return &HealthHandler{
		responder: responder{logger: logger},
		db:        db,
		version:   version,
	}
}

// Health reports "ok", or 503 "unavailable" when the database does not answer.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			h.logger.ErrorContext(ctx, "health check failed", slog.String("error", err.Error()))
			h.sendJSON(w, api.HealthResponse{Status: "unavailable", Version: h.version}, http.StatusServiceUnavailable)
			return
		}
	}

	h.sendJSON(w, api.HealthResponse{Status: "ok", Version: h.version}, http.StatusOK)
}
