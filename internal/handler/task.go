// internal/handler/task.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/staffhubhq/staffhub/internal/domain"
	"github.com/staffhubhq/staffhub/internal/middleware"
	"github.com/staffhubhq/staffhub/internal/model"
	"github.com/staffhubhq/staffhub/internal/service"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type TaskResponse struct {
	BaseResponse
	Task *model.Task `json:"task"`
}

func (h *TaskHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	var input service.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.taskService.Create(r.Context(), orgID, userID, input)
	if err != nil {
		h.respondTaskError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, TaskResponse{Task: task})
}

type transitionRequest struct {
	Status model.TaskStatus `json:"status"`
}

// TransitionHandler moves a task along the board. Illegal jumps are rejected.
func (h *TaskHandler) TransitionHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.taskService.Transition(r.Context(), orgID, taskID, req.Status)
	if err != nil {
		h.respondTaskError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, TaskResponse{Task: task})
}

type assignRequest struct {
	AssigneeID *uuid.UUID `json:"assignee_id"`
}

func (h *TaskHandler) AssignHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.taskService.Assign(r.Context(), orgID, taskID, req.AssigneeID)
	if err != nil {
		h.respondTaskError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, TaskResponse{Task: task})
}

type commentRequest struct {
	Body string `json:"body"`
}

type CommentResponse struct {
	BaseResponse
	Comment *model.TaskComment `json:"comment"`
}

func (h *TaskHandler) CommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	comment, err := h.taskService.Comment(r.Context(), orgID, taskID, userID, req.Body)
	if err != nil {
		h.respondTaskError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, CommentResponse{Comment: comment})
}

func (h *TaskHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	tasks, total, err := h.taskService.List(r.Context(), orgID, offset, limit)
	if err != nil {
		h.respondTaskError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ListResponse{Items: tasks, Total: total})
}

func (h *TaskHandler) respondTaskError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrFeatureNotAvailable):
		respondWithError(w, http.StatusForbidden, "Tasks are not available on your plan")
	case errors.Is(err, domain.ErrTaskNotFound):
		respondWithError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		respondWithError(w, http.StatusConflict, "Invalid status transition")
	default:
		slog.ErrorContext(r.Context(), "Task error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
