// internal/service/organization.go
package service

import (
	"context"
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

type OrganizationService struct {
	orgRepo        repository.OrganizationRepositoryIface
	userRepo       repository.UserRepositoryIface
	resolver       *entitlement.Resolver
	passwordHasher *auth.PasswordHasher
	tokenManager   *auth.TokenManager
	emailService   *email.Service
	config         *config.Config
	validate       *validator.Validate
	now            func() time.Time
}

func NewOrganizationService(
	orgRepo repository.OrganizationRepositoryIface,
	userRepo repository.UserRepositoryIface,
	resolver *entitlement.Resolver,
	passwordHasher *auth.PasswordHasher,
	tokenManager *auth.TokenManager,
	emailService *email.Service,
	config *config.Config,
) *OrganizationService {
	return &OrganizationService{
		orgRepo:        orgRepo,
		userRepo:       userRepo,
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
func (s *OrganizationService) WithClock(now func() time.Time) *OrganizationService {
	s.now = now
	return s
}

type SignupInput struct {
	OrganizationName string `json:"organization_name" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	FirstName        string `json:"first_name" validate:"required"`
	LastName         string `json:"last_name"`
	Password         string `json:"password" validate:"required,min=8"`
}

type SignupOutput struct {
	Organization *model.Organization `json:"organization"`
	User         *model.User         `json:"user"`
	Token        string              `json:"token"`
}

// Signup registers a new tenant: the owner user and the organization are
// created together, seeded with the starter plan's entitlements.
func (s *OrganizationService) Signup(ctx context.Context, input SignupInput) (*SignupOutput, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	tx, err := s.orgRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hashedPassword, err := s.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	// Owner is created first; the organization references it
	owner := &model.User{
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hashedPassword,
		Role:         model.RolePrimeAdmin,
		Status:       model.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, owner); err != nil {
		return nil, fmt.Errorf("creating owner: %w", err)
	}

	org := &model.Organization{
		Name:    input.OrganizationName,
		OwnerID: owner.ID,
		Status:  model.OrgStatusActive,
	}
	if err := s.resolver.UpgradePlan(org, model.PlanStarter); err != nil {
		return nil, fmt.Errorf("seeding starter plan: %w", err)
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("creating organization: %w", err)
	}

	owner.OrganizationID = &org.ID
	owner.SubscriptionPlan = org.SubscriptionPlan
	if err := s.userRepo.Update(ctx, owner); err != nil {
		return nil, fmt.Errorf("attaching owner: %w", err)
	}

	if s.emailService != nil {
		err := mailer.SendWelcomeEmail(s.emailService, owner.Email, mailer.WelcomeTemplateData{
			FirstName:        owner.FirstName,
			OrganizationName: org.Name,
			DashboardLink:    s.config.BaseURL + "/dashboard",
		})
		if err != nil {
			return nil, fmt.Errorf("sending welcome email: %w", err)
		}
	}

	token, err := s.tokenManager.Generate(owner)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return &SignupOutput{
		Organization: org,
		User:         owner,
		Token:        token,
	}, nil
}

func (s *OrganizationService) Get(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	return s.orgRepo.FindByID(ctx, id)
}

type UpdateScheduleInput struct {
	WorkStartTime        string `json:"work_start_time" validate:"required"`
	WorkEndTime          string `json:"work_end_time" validate:"required"`
	LateThresholdMinutes int    `json:"late_threshold_minutes" validate:"gte=0,lte=240"`
	WorkDays             []int  `json:"work_days" validate:"required,min=1"`
}

// UpdateSchedule replaces the organization's working-hours configuration.
func (s *OrganizationService) UpdateSchedule(ctx context.Context, orgID uuid.UUID, input UpdateScheduleInput) (*model.Organization, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	for _, day := range input.WorkDays {
		if day < 1 || day > 7 {
			return nil, domain.ErrInvalidWorkDay
		}
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	org.WorkStartTime = input.WorkStartTime
	org.WorkEndTime = input.WorkEndTime
	org.LateThresholdMinutes = input.LateThresholdMinutes
	org.WorkDays = model.WorkDays(input.WorkDays)

	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, fmt.Errorf("saving schedule: %w", err)
	}
	return org, nil
}

// Upgrade moves the organization to a new plan, re-deriving entitlements and
// refreshing the owner's billing mirror in the same transaction.
func (s *OrganizationService) Upgrade(ctx context.Context, orgID uuid.UUID, plan model.SubscriptionPlan, expiresAt *time.Time) (*model.Organization, error) {
	tx, err := s.orgRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if err := s.resolver.UpgradePlan(org, plan); err != nil {
		return nil, err
	}
	org.SubscriptionExpiresAt = expiresAt

	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, fmt.Errorf("saving organization: %w", err)
	}

	owner, err := s.userRepo.FindByID(ctx, org.OwnerID)
	if err != nil {
		return nil, err
	}
	owner.SubscriptionPlan = org.SubscriptionPlan
	owner.SubscriptionExpiresAt = expiresAt
	owner.IsPaid = plan != model.PlanStarter
	if err := s.userRepo.Update(ctx, owner); err != nil {
		return nil, fmt.Errorf("updating owner billing mirror: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return org, nil
}

// Suspend soft-disables the tenant. Records are retained; the organization
// is never hard-deleted while users reference it.
func (s *OrganizationService) Suspend(ctx context.Context, orgID uuid.UUID) error {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return err
	}
	org.Status = model.OrgStatusSuspended
	return s.orgRepo.Update(ctx, org)
}

// Reactivate restores a suspended tenant.
func (s *OrganizationService) Reactivate(ctx context.Context, orgID uuid.UUID) error {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return err
	}
	org.Status = model.OrgStatusActive
	return s.orgRepo.Update(ctx, org)
}

// Downgrade drops a lapsed organization back to the starter plan. Used by
// the staffctl reconcile sweep.
func (s *OrganizationService) Downgrade(ctx context.Context, orgID uuid.UUID) error {
	_, err := s.Upgrade(ctx, orgID, model.PlanStarter, nil)
	return err
}
