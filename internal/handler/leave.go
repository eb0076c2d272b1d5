// internal/handler/leave.go
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

type LeaveHandler struct {
	leaveService *service.LeaveService
}

func NewLeaveHandler(leaveService *service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService}
}

type LeaveResponse struct {
	BaseResponse
	LeaveRequest *model.LeaveRequest `json:"leave_request"`
}

func (h *LeaveHandler) RequestHandler(w http.ResponseWriter, r *http.Request) {
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

	var input service.LeaveRequestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	leave, err := h.leaveService.Request(r.Context(), orgID, userID, input)
	if err != nil {
		h.respondLeaveError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, LeaveResponse{LeaveRequest: leave})
}

// ApproveHandler approves a pending request. Approval also blocks out the
// covered work days in attendance.
func (h *LeaveHandler) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, true)
}

func (h *LeaveHandler) RejectHandler(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, false)
}

func (h *LeaveHandler) review(w http.ResponseWriter, r *http.Request, approve bool) {
	reviewerID, ok := middleware.UserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	leaveID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid leave request ID")
		return
	}

	var leave *model.LeaveRequest
	if approve {
		leave, err = h.leaveService.Approve(r.Context(), orgID, leaveID, reviewerID)
	} else {
		leave, err = h.leaveService.Reject(r.Context(), orgID, leaveID, reviewerID)
	}
	if err != nil {
		h.respondLeaveError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, LeaveResponse{LeaveRequest: leave})
}

func (h *LeaveHandler) PendingHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	requests, err := h.leaveService.Pending(r.Context(), orgID)
	if err != nil {
		h.respondLeaveError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ListResponse{Items: requests, Total: int64(len(requests))})
}

func (h *LeaveHandler) respondLeaveError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidLeaveSpan):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrFeatureNotAvailable):
		respondWithError(w, http.StatusForbidden, "Leave management is not available on your plan")
	case errors.Is(err, domain.ErrLeaveNotFound):
		respondWithError(w, http.StatusNotFound, "Leave request not found")
	case errors.Is(err, domain.ErrLeaveNotPending):
		respondWithError(w, http.StatusConflict, "Leave request has already been reviewed")
	default:
		slog.ErrorContext(r.Context(), "Leave error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
