// internal/handler/organization.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/staffhubhq/staffhub/internal/domain"
	"github.com/staffhubhq/staffhub/internal/middleware"
	"github.com/staffhubhq/staffhub/internal/model"
	"github.com/staffhubhq/staffhub/internal/schedule"
	"github.com/staffhubhq/staffhub/internal/service"
)

type OrganizationHandler struct {
	orgService  *service.OrganizationService
	userService *service.UserService
}

func NewOrganizationHandler(orgService *service.OrganizationService, userService *service.UserService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService:  orgService,
		userService: userService,
	}
}

type OrganizationResponse struct {
	BaseResponse
	Organization       *model.Organization `json:"organization"`
	FormattedWorkStart string              `json:"formatted_work_start"`
	FormattedWorkEnd   string              `json:"formatted_work_end"`
}

// GetHandler returns the caller's organization.
func (h *OrganizationHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	org, err := h.orgService.Get(r.Context(), orgID)
	if err != nil {
		if errors.Is(err, domain.ErrOrganizationNotFound) {
			respondWithError(w, http.StatusNotFound, "Organization not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, OrganizationResponse{
		Organization:       org,
		FormattedWorkStart: schedule.FormattedWorkStart(org),
		FormattedWorkEnd:   schedule.FormattedWorkEnd(org),
	})
}

// UpdateScheduleHandler replaces the organization's working-hours settings.
func (h *OrganizationHandler) UpdateScheduleHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	var input service.UpdateScheduleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	org, err := h.orgService.UpdateSchedule(r.Context(), orgID, input)
	if err != nil {
		slog.ErrorContext(r.Context(), "Schedule update error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrInvalidWorkDay), errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, OrganizationResponse{
		Organization:       org,
		FormattedWorkStart: schedule.FormattedWorkStart(org),
		FormattedWorkEnd:   schedule.FormattedWorkEnd(org),
	})
}

type UpgradeRequest struct {
	Plan      model.SubscriptionPlan `json:"plan"`
	ExpiresAt *time.Time             `json:"expires_at"`
}

// UpgradeHandler moves the organization to a new subscription plan.
func (h *OrganizationHandler) UpgradeHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	var req UpgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	org, err := h.orgService.Upgrade(r.Context(), orgID, req.Plan, req.ExpiresAt)
	if err != nil {
		slog.ErrorContext(r.Context(), "Plan upgrade error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrInvalidPlan):
			respondWithError(w, http.StatusBadRequest, "Invalid plan")
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, OrganizationResponse{
		Organization:       org,
		FormattedWorkStart: schedule.FormattedWorkStart(org),
		FormattedWorkEnd:   schedule.FormattedWorkEnd(org),
	})
}

// ListUsersHandler returns a page of the organization's users.
func (h *OrganizationHandler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	users, total, err := h.userService.List(r.Context(), orgID, offset, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, ListResponse{Items: users, Total: total})
}
