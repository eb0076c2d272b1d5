// internal/handler/meeting.go
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

type MeetingHandler struct {
	meetingService *service.MeetingService
}

func NewMeetingHandler(meetingService *service.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetingService: meetingService}
}

type MeetingResponse struct {
	BaseResponse
	Meeting *model.Meeting `json:"meeting"`
}

func (h *MeetingHandler) ScheduleHandler(w http.ResponseWriter, r *http.Request) {
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

	var input service.ScheduleMeetingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	meeting, err := h.meetingService.Schedule(r.Context(), orgID, userID, input)
	if err != nil {
		h.respondMeetingError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, MeetingResponse{Meeting: meeting})
}

func (h *MeetingHandler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	meetingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid meeting ID")
		return
	}

	if err := h.meetingService.Cancel(r.Context(), orgID, meetingID); err != nil {
		h.respondMeetingError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, BaseResponse{Ok: true})
}

func (h *MeetingHandler) UpcomingHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	meetings, err := h.meetingService.Upcoming(r.Context(), orgID)
	if err != nil {
		h.respondMeetingError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ListResponse{Items: meetings, Total: int64(len(meetings))})
}

func (h *MeetingHandler) respondMeetingError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrMeetingEndsTooSoon):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrFeatureNotAvailable):
		respondWithError(w, http.StatusForbidden, "Meetings are not available on your plan")
	case errors.Is(err, domain.ErrMeetingNotFound):
		respondWithError(w, http.StatusNotFound, "Meeting not found")
	default:
		slog.ErrorContext(r.Context(), "Meeting error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
