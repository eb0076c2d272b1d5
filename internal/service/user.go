// internal/service/user.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/staffhubhq/staffhub/internal/auth"
	"github.com/staffhubhq/staffhub/internal/domain"
	"github.com/staffhubhq/staffhub/internal/model"
	"github.com/staffhubhq/staffhub/internal/repository"
)

type UserService struct {
	repo           repository.UserRepositoryIface
	passwordHasher *auth.PasswordHasher
	tokenManager   *auth.TokenManager
	now            func() time.Time
}

func NewUserService(
	repo repository.UserRepositoryIface,
	passwordHasher *auth.PasswordHasher,
	tokenManager *auth.TokenManager,
) *UserService {
	return &UserService{
		repo:           repo,
		passwordHasher: passwordHasher,
		tokenManager:   tokenManager,
		now:            time.Now,
	}
}

// WithClock overrides the service clock. Tests only.
func (s *UserService) WithClock(now func() time.Time) *UserService {
	s.now = now
	return s
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginOutput struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Authenticate verifies user credentials and returns a token
func (s *UserService) Authenticate(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Status != model.UserStatusActive {
		return nil, domain.ErrUserInactive
	}

	verified, err := s.passwordHasher.Verify(input.Password, user.PasswordHash)
	if err != nil || !verified {
		return nil, domain.ErrInvalidCredentials
	}

	// Presence touch rides along with authentication
	now := s.now()
	user.LastSeenAt = &now
	user.IsOnline = true
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating presence: %w", err)
	}

	token, err := s.tokenManager.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &LoginOutput{
		User:  user,
		Token: token,
	}, nil
}

// List returns a page of the organization's users.
func (s *UserService) List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*model.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return s.repo.FindByOrganization(ctx, orgID, offset, limit)
}

// Deactivate marks a user inactive without removing their records.
func (s *UserService) Deactivate(ctx context.Context, userID uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	user.Status = model.UserStatusInactive
	user.IsOnline = false
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("deactivating user: %w", err)
	}
	return nil
}

// TouchPresence records activity for presence indicators.
func (s *UserService) TouchPresence(ctx context.Context, userID uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	now := s.now()
	user.LastSeenAt = &now
	user.IsOnline = true
	return s.repo.Update(ctx, user)
}
