// internal/handler/department.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/staffhubhq/staffhub/internal/domain"
	"github.com/staffhubhq/staffhub/internal/middleware"
	"github.com/staffhubhq/staffhub/internal/model"
	"github.com/staffhubhq/staffhub/internal/service"
)

type DepartmentHandler struct {
	deptService *service.DepartmentService
}

func NewDepartmentHandler(deptService *service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptService: deptService}
}

type DepartmentResponse struct {
	BaseResponse
	Department *model.Department `json:"department"`
}

func (h *DepartmentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	var input service.DepartmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	dept, err := h.deptService.Create(r.Context(), orgID, input)
	if err != nil {
		h.respondDepartmentError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, DepartmentResponse{Department: dept})
}

func (h *DepartmentHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	deptID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid department ID")
		return
	}

	var input service.DepartmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	dept, err := h.deptService.Update(r.Context(), orgID, deptID, input)
	if err != nil {
		h.respondDepartmentError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, DepartmentResponse{Department: dept})
}

func (h *DepartmentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	deptID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid department ID")
		return
	}

	if err := h.deptService.Delete(r.Context(), orgID, deptID); err != nil {
		h.respondDepartmentError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, BaseResponse{Ok: true})
}

func (h *DepartmentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	depts, err := h.deptService.List(r.Context(), orgID)
	if err != nil {
		h.respondDepartmentError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ListResponse{Items: depts, Total: int64(len(depts))})
}

func (h *DepartmentHandler) respondDepartmentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDepartmentNotFound):
		respondWithError(w, http.StatusNotFound, "Department not found")
	case errors.Is(err, domain.ErrUserNotFound):
		respondWithError(w, http.StatusBadRequest, "Manager must belong to the organization")
	default:
		slog.ErrorContext(r.Context(), "Department error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
