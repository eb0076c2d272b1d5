// internal/service/invitation.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/staffhubhq/staffhub/internal/auth"
	"github.com/staffhubhq/staffhub/internal/config"
	"github.com/staffhubhq/staffhub/internal/domain"
	"github.com/staffhubhq/staffhub/internal/email"
	"github.com/staffhubhq/staffhub/internal/email/mailer"
	"github.com/staffhubhq/staffhub/internal/entitlement"
	"github.com/staffhubhq/staffhub/internal/model"
	"github.com/staffhubhq/staffhub/internal/repository"
)

type InvitationService struct {
	repo           repository.InvitationRepositoryIface
	userRepo       repository.UserRepositoryIface
	orgRepo        repository.OrganizationRepositoryIface
	resolver       *entitlement.Resolver
	passwordHasher *auth.PasswordHasher
	tokenManager   *auth.TokenManager
	emailService   *email.Service
	config         *config.Config
	validate       *validator.Validate
	now            func() time.Time
}

func NewInvitationService(
	repo repository.InvitationRepositoryIface,
	userRepo repository.UserRepositoryIface,
	orgRepo repository.OrganizationRepositoryIface,
	resolver *entitlement.Resolver,
	passwordHasher *auth.PasswordHasher,
	tokenManager *auth.TokenManager,
	emailService *email.Service,
	config *config.Config,
) *InvitationService {
	return &InvitationService{
		repo:           repo,
		userRepo:       userRepo,
		orgRepo:        orgRepo,
		resolver:       resolver,
		passwordHasher: passwordHasher,
		tokenManager:   tokenManager,
		emailService:   emailService,
		config:         config,
		validate:       validator.New(),
		now:            time.Now,
	}
}

// WithClock overrides the service clock. Tests only.
func (s *InvitationService) WithClock(now func() time.Time) *InvitationService {
	s.now = now
	return s
}

// GenerateToken creates the opaque 64-character capability token carried in
// the onboarding URL.
func GenerateToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		panic(err) // This should never happen
	}
	return hex.EncodeToString(bytes)
}

type InviteInput struct {
	Email        string     `json:"email" validate:"required,email"`
	Role         model.Role `json:"role" validate:"required,oneof=admin staff"`
	DepartmentID *uuid.UUID `json:"department_id"`
}

// Invite creates a pending invitation and emails the onboarding link. The
// employee-count gate runs here so an organization at its ceiling cannot
// keep queueing invitations it will never be able to accept.
func (s *InvitationService) Invite(ctx context.Context, orgID, invitedBy uuid.UUID, input InviteInput) (*model.UserInvitation, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org.Status != model.OrgStatusActive {
		return nil, domain.ErrOrganizationSuspended
	}

	ok, err := s.resolver.CanAddEmployee(ctx, org)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrEmployeeLimitReached
	}

	// Reject an email that already belongs to a user
	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	now := s.now()
	if _, err := s.repo.FindActiveByEmail(ctx, orgID, input.Email, now); err == nil {
		return nil, domain.ErrDuplicateInvitation
	} else if !errors.Is(err, domain.ErrInvitationNotFound) {
		return nil, err
	}

	inv := &model.UserInvitation{
		Email:          input.Email,
		Role:           input.Role,
		DepartmentID:   input.DepartmentID,
		OrganizationID: orgID,
		InvitedByID:    invitedBy,
		Token:          GenerateToken(),
		Status:         model.InvitationPending,
		ExpiresAt:      now.Add(s.config.Invitation.TTL),
	}

	// Two simultaneous invites for the same email can both pass the check
	// above; the partial unique index on (organization_id, email) for
	// pending rows rejects the second write.
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}

	if err := s.sendInvitationEmail(ctx, org, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

// Preview returns the invitation for an onboarding token, for the accept
// screen. Lapsed and revoked invitations surface distinct errors.
func (s *InvitationService) Preview(ctx context.Context, token string) (*model.UserInvitation, error) {
	inv, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !inv.IsValid(now) {
		if inv.EffectiveStatus(now) == model.InvitationExpired {
			return nil, domain.ErrInvitationExpired
		}
		return nil, domain.ErrInvitationInvalid
	}
	return inv, nil
}

type AcceptInput struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" validate:"required,min=8"`
}

type AcceptOutput struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Accept redeems an invitation: the invitee's user record is created and the
// invitation is marked accepted in one transaction. Accepting is the
// terminal write for the invitation; its token and expiry are never touched
// again.
func (s *InvitationService) Accept(ctx context.Context, token string, input AcceptInput) (*AcceptOutput, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	inv, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !inv.IsValid(now) {
		if inv.EffectiveStatus(now) == model.InvitationExpired {
			return nil, domain.ErrInvitationExpired
		}
		return nil, domain.ErrInvitationInvalid
	}

	org, err := s.orgRepo.FindByID(ctx, inv.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org.Status != model.OrgStatusActive {
		return nil, domain.ErrOrganizationSuspended
	}

	// The ceiling may have been reached since the invitation went out
	ok, err := s.resolver.CanAddEmployee(ctx, org)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrEmployeeLimitReached
	}

	hashedPassword, err := s.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		OrganizationID: &inv.OrganizationID,
		DepartmentID:   inv.DepartmentID,
		Email:          inv.Email,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		PasswordHash:   hashedPassword,
		Role:           inv.Role,
		Status:         model.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	inv.MarkAsAccepted(now, user.ID)
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("marking invitation accepted: %w", err)
	}

	jwtToken, err := s.tokenManager.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return &AcceptOutput{
		User:  user,
		Token: jwtToken,
	}, nil
}

// Cancel revokes a pending invitation. Terminal states stay as they are.
func (s *InvitationService) Cancel(ctx context.Context, orgID, invID uuid.UUID) error {
	inv, err := s.repo.FindByID(ctx, invID)
	if err != nil {
		return err
	}
	if inv.OrganizationID != orgID {
		return domain.ErrInvitationNotFound
	}
	if inv.Status != model.InvitationPending {
		return domain.ErrInvitationNotPending
	}

	inv.MarkAsCancelled()
	return s.repo.Update(ctx, inv)
}

// Resend rotates the token, pushes the expiry out by a fresh TTL and sends
// the email again. Allowed for pending invitations, including ones that have
// lapsed; accepted and cancelled invitations are terminal.
func (s *InvitationService) Resend(ctx context.Context, orgID, invID uuid.UUID) (*model.UserInvitation, error) {
	inv, err := s.repo.FindByID(ctx, invID)
	if err != nil {
		return nil, err
	}
	if inv.OrganizationID != orgID {
		return nil, domain.ErrInvitationNotFound
	}
	if inv.Status != model.InvitationPending && inv.Status != model.InvitationExpired {
		return nil, domain.ErrInvitationNotPending
	}

	inv.Token = GenerateToken()
	inv.Status = model.InvitationPending
	inv.ExpiresAt = s.now().Add(s.config.Invitation.TTL)
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}

	org, err := s.orgRepo.FindByID(ctx, inv.OrganizationID)
	if err != nil {
		return nil, err
	}
	if err := s.sendInvitationEmail(ctx, org, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

// List returns a page of the organization's invitations, newest first.
func (s *InvitationService) List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*model.UserInvitation, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return s.repo.FindByOrganization(ctx, orgID, offset, limit)
}

func (s *InvitationService) sendInvitationEmail(ctx context.Context, org *model.Organization, inv *model.UserInvitation) error {
	if s.emailService == nil {
		return nil
	}

	inviter, err := s.userRepo.FindByID(ctx, inv.InvitedByID)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/invitations/%s/accept", s.config.BaseURL, inv.Token)
	err = mailer.SendInvitationEmail(s.emailService, inv.Email, mailer.InvitationTemplateData{
		OrganizationName: org.Name,
		InviterName:      inviter.FullName(),
		RoleName:         string(inv.Role),
		InvitationLink:   link,
		ExpiresAt:        inv.ExpiresAt.Format("January 2, 2006"),
	})
	if err != nil {
		return fmt.Errorf("sending invitation email: %w", err)
	}
	return nil
}
