package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iudanet/taskkeeper/internal/models"
	"github.com/iudanet/taskkeeper/internal/server/identity"
	"github.com/iudanet/taskkeeper/internal/server/middleware"
	"github.com/iudanet/taskkeeper/internal/validation"
	"github.com/iudanet/taskkeeper/pkg/api"
)

// TaskService is the owner-scoped task API used by TaskHandler.
type TaskService interface {
	Create(ctx context.Context, title, description string, status models.TaskStatus) (*models.Task, error)
	List(ctx context.Context, filter models.TaskFilter) ([]*models.Task, int, models.TaskFilter, error)
	Get(ctx context.Context, taskID string) (*models.Task, error)
	Update(ctx context.Context, taskID string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, taskID string) error
}

// TaskHandler serves /api/v1/tasks.
type TaskHandler struct {
	responder
	service TaskService
}

func NewTaskHandler(logger *slog.Logger, service TaskService) *TaskHandler {
	return &TaskHandler{responder: responder{logger: logger}, service: service}
}

// Create handles POST /api/v1/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	task, err := h.service.Create(r.Context(), req.Title, req.Description, models.TaskStatus(req.Status))
	if err != nil {
		h.sendTaskError(w, r, err)
		return
	}

	h.sendJSON(w, toTaskResponse(task), http.StatusCreated)
}

// List handles GET /api/v1/tasks?status=&limit=&offset=.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.TaskFilter{Status: models.TaskStatus(q.Get("status"))}
	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		h.sendError(w, "limit must be an integer", http.StatusBadRequest)
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		h.sendError(w, "offset must be an integer", http.StatusBadRequest)
		return
	}

	tasks, total, filter, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.sendTaskError(w, r, err)
		return
	}

	resp := api.TaskListResponse{
		Data:   make([]api.TaskResponse, 0, len(tasks)),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for _, t := range tasks {
		resp.Data = append(resp.Data, toTaskResponse(t))
	}
	h.sendJSON(w, resp, http.StatusOK)
}

// Get handles GET /api/v1/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.sendTaskError(w, r, err)
		return
	}
	h.sendJSON(w, toTaskResponse(task), http.StatusOK)
}

// Update handles PATCH /api/v1/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	patch := models.TaskPatch{Title: req.Title, Description: req.Description}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		patch.Status = &status
	}

	task, err := h.service.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		h.sendTaskError(w, r, err)
		return
	}
	h.sendJSON(w, toTaskResponse(task), http.StatusOK)
}

// Delete handles DELETE /api/v1/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.sendTaskError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) sendTaskError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, identity.ErrUnauthorized):
		middleware.Unauthorized(w)
	case errors.Is(err, identity.ErrForbidden):
		h.sendError(w, "access denied", http.StatusForbidden)
	case errors.Is(err, identity.ErrNotFound):
		h.sendError(w, "task not found", http.StatusNotFound)
	case errors.Is(err, validation.ErrInvalidTask):
		h.sendError(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.ErrorContext(r.Context(), "task operation failed",
			slog.String("method", r.Method),
			slog.String("error", err.Error()),
		)
		h.sendError(w, internalErrorMessage, http.StatusInternalServerError)
	}
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
