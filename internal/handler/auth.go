// internal/handler/auth.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/staffhubhq/staffhub/internal/domain"
	"github.com/staffhubhq/staffhub/internal/model"
	"github.com/staffhubhq/staffhub/internal/service"
)

type AuthHandler struct {
	orgService  *service.OrganizationService
	userService *service.UserService
}

func NewAuthHandler(orgService *service.OrganizationService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		orgService:  orgService,
		userService: userService,
	}
}

type SignupResponse struct {
	BaseResponse
	Organization *model.Organization `json:"organization"`
	User         *model.User         `json:"user"`
	Token        string              `json:"token"`
}

// SignupHandler registers a new organization and its owner.
func (h *AuthHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var input service.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	output, err := h.orgService.Signup(r.Context(), input)
	if err != nil {
		slog.ErrorContext(r.Context(), "Organization signup error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			respondWithError(w, http.StatusConflict, "Email already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, SignupResponse{
		Organization: output.Organization,
		User:         output.User,
		Token:        output.Token,
	})
}

type LoginResponse struct {
	BaseResponse
	User  *model.User `json:"user,omitempty"`
	Token string      `json:"token,omitempty"`
	Error string      `json:"error,omitempty"`
}

// LoginHandler authenticates a user and returns a JWT.
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	output, err := h.userService.Authenticate(r.Context(), input)
	if err != nil {
		slog.ErrorContext(r.Context(), "User login error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			respondWithJSON(w, http.StatusUnauthorized, LoginResponse{
				Error: "Invalid email or password",
			})
		case errors.Is(err, domain.ErrUserInactive):
			respondWithError(w, http.StatusForbidden, "Account is not active")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, LoginResponse{
		User:  output.User,
		Token: output.Token,
	})
}
