// internal/handler/invitation.go
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

type InvitationHandler struct {
	invService *service.InvitationService
}

func NewInvitationHandler(invService *service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invService: invService}
}

type InvitationResponse struct {
	BaseResponse
	Invitation *model.UserInvitation `json:"invitation"`
}

// CreateHandler invites a user into the caller's organization.
func (h *InvitationHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input service.InviteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	inv, err := h.invService.Invite(r.Context(), orgID, userID, input)
	if err != nil {
		slog.ErrorContext(r.Context(), "Invitation create error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			respondWithError(w, http.StatusConflict, "Email already belongs to a member")
		case errors.Is(err, domain.ErrDuplicateInvitation):
			respondWithError(w, http.StatusConflict, "An active invitation already exists for this email")
		case errors.Is(err, domain.ErrEmployeeLimitReached):
			respondWithError(w, http.StatusForbidden, "Employee limit reached for current plan")
		case errors.Is(err, domain.ErrOrganizationSuspended):
			respondWithError(w, http.StatusForbidden, "Organization is suspended")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, InvitationResponse{Invitation: inv})
}

// PreviewHandler shows the invitation behind an onboarding token.
func (h *InvitationHandler) PreviewHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	inv, err := h.invService.Preview(r.Context(), token)
	if err != nil {
		h.respondInvitationError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, InvitationResponse{Invitation: inv})
}

type AcceptResponse struct {
	BaseResponse
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// AcceptHandler completes onboarding for an invited user.
func (h *InvitationHandler) AcceptHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var input service.AcceptInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	output, err := h.invService.Accept(r.Context(), token, input)
	if err != nil {
		slog.ErrorContext(r.Context(), "Invitation accept error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		if errors.Is(err, domain.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, domain.ErrEmployeeLimitReached) {
			respondWithError(w, http.StatusForbidden, "Employee limit reached for current plan")
			return
		}
		h.respondInvitationError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, AcceptResponse{
		User:  output.User,
		Token: output.Token,
	})
}

// CancelHandler revokes a pending invitation.
func (h *InvitationHandler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	invID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid invitation ID")
		return
	}

	if err := h.invService.Cancel(r.Context(), orgID, invID); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvitationNotFound):
			respondWithError(w, http.StatusNotFound, "Invitation not found")
		case errors.Is(err, domain.ErrInvitationNotPending):
			respondWithError(w, http.StatusConflict, "Invitation is not pending")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, BaseResponse{Ok: true})
}

// ResendHandler rotates the token and re-sends the invitation email.
func (h *InvitationHandler) ResendHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	invID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid invitation ID")
		return
	}

	inv, err := h.invService.Resend(r.Context(), orgID, invID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvitationNotFound):
			respondWithError(w, http.StatusNotFound, "Invitation not found")
		case errors.Is(err, domain.ErrInvitationNotPending):
			respondWithError(w, http.StatusConflict, "Invitation cannot be resent")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, InvitationResponse{Invitation: inv})
}

// ListHandler returns a page of the organization's invitations.
func (h *InvitationHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	invs, total, err := h.invService.List(r.Context(), orgID, offset, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, ListResponse{Items: invs, Total: total})
}

func (h *InvitationHandler) respondInvitationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvitationNotFound):
		respondWithError(w, http.StatusNotFound, "Invitation not found")
	case errors.Is(err, domain.ErrInvitationExpired):
		respondWithError(w, http.StatusGone, "Invitation has expired")
	case errors.Is(err, domain.ErrInvitationInvalid):
		respondWithError(w, http.StatusGone, "Invitation is no longer valid")
	case errors.Is(err, domain.ErrOrganizationSuspended):
		respondWithError(w, http.StatusForbidden, "Organization is suspended")
	default:
		slog.ErrorContext(r.Context(), "Invitation error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
