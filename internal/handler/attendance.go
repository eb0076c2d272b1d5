// internal/handler/attendance.go
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/staffhubhq/staffhub/internal/domain"
	"github.com/staffhubhq/staffhub/internal/middleware"
	"github.com/staffhubhq/staffhub/internal/model"
	"github.com/staffhubhq/staffhub/internal/repository"
	"github.com/staffhubhq/staffhub/internal/service"
)

type AttendanceHandler struct {
	attService *service.AttendanceService
}

func NewAttendanceHandler(attService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attService: attService}
}

type AttendanceResponse struct {
	BaseResponse
	Attendance *model.Attendance `json:"attendance"`
}

// ClockInHandler opens today's attendance row for the caller.
func (h *AttendanceHandler) ClockInHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	att, err := h.attService.ClockIn(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Clock-in error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrAlreadyClockedIn):
			respondWithError(w, http.StatusConflict, "Already clocked in for today")
		case errors.Is(err, domain.ErrNotWorkDay):
			respondWithError(w, http.StatusBadRequest, "Today is not a working day")
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusForbidden, "No organization")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, AttendanceResponse{Attendance: att})
}

// ClockOutHandler closes today's attendance row for the caller.
func (h *AttendanceHandler) ClockOutHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	att, err := h.attService.ClockOut(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotClockedIn):
			respondWithError(w, http.StatusConflict, "Not clocked in")
		case errors.Is(err, domain.ErrAlreadyClockedOut):
			respondWithError(w, http.StatusConflict, "Already clocked out")
		default:
			slog.ErrorContext(r.Context(), "Clock-out error", "error", err, "requestID", chmw.GetReqID(r.Context()))
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, AttendanceResponse{Attendance: att})
}

// HistoryHandler returns a page of the caller's attendance rows.
func (h *AttendanceHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rows, total, err := h.attService.History(r.Context(), userID, offset, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, ListResponse{Items: rows, Total: total})
}

type SummaryResponse struct {
	BaseResponse
	Summary *repository.AttendanceSummary `json:"summary"`
	From    string                        `json:"from"`
	To      string                        `json:"to"`
}

// SummaryHandler aggregates the organization's attendance for a date range,
// defaulting to the current month.
func (h *AttendanceHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.OrganizationID(r.Context())
	if !ok {
		respondWithError(w, http.StatusForbidden, "No organization")
		return
	}

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid from date")
			return
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid to date")
			return
		}
		to = parsed
	}

	summary, err := h.attService.Summary(r.Context(), orgID, from, to)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, SummaryResponse{
		Summary: summary,
		From:    from.Format("2006-01-02"),
		To:      to.Format("2006-01-02"),
	})
}
