package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/staffhubhq/staffhub/internal/auth"
	"github.com/staffhubhq/staffhub/internal/config"
	"github.com/staffhubhq/staffhub/internal/domain"
	"github.com/staffhubhq/staffhub/internal/entitlement"
	"github.com/staffhubhq/staffhub/internal/mocks"
	"github.com/staffhubhq/staffhub/internal/model"
	"github.com/staffhubhq/staffhub/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Invitation.TTL = 168 * time.Hour
	cfg.BaseURL = "https://app.example.com"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiryPeriod = time.Hour
	return cfg
}

type invitationFixture struct {
	invRepo  *mocks.MockInvitationRepositoryIface
	userRepo *mocks.MockUserRepositoryIface
	orgRepo  *mocks.MockOrganizationRepositoryIface
	svc      *service.InvitationService
}

func newInvitationFixture(t *testing.T) *invitationFixture {
	ctrl := gomock.NewController(t)

	invRepo := mocks.NewMockInvitationRepositoryIface(ctrl)
	userRepo := mocks.NewMockUserRepositoryIface(ctrl)
	orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)

	cfg := testConfig()
	resolver := entitlement.NewResolver(entitlement.DefaultPlans(), userRepo)
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod)

	svc := service.NewInvitationService(
		invRepo, userRepo, orgRepo,
		resolver, auth.NewPasswordHasher(), tokenManager,
		nil, cfg,
	).WithClock(func() time.Time { return testNow })

	return &invitationFixture{
		invRepo:  invRepo,
		userRepo: userRepo,
		orgRepo:  orgRepo,
		svc:      svc,
	}
}

func starterOrg(t *testing.T) *model.Organization {
	t.Helper()
	org := &model.Organization{
		ID:     uuid.New(),
		Name:   "Acme",
		Status: model.OrgStatusActive,
	}
	resolver := entitlement.NewResolver(entitlement.DefaultPlans(), nil)
	require.NoError(t, resolver.UpgradePlan(org, model.PlanStarter))
	return org
}

func TestGenerateToken(t *testing.T) {
	a := service.GenerateToken()
	b := service.GenerateToken()

	assert.Len(t, a, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", a)
	assert.NotEqual(t, a, b)
}

func TestInvite(t *testing.T) {
	input := service.InviteInput{Email: "new@example.com", Role: model.RoleStaff}

	t.Run("creates a pending invitation with token and TTL", func(t *testing.T) {
		f := newInvitationFixture(t)
		org := starterOrg(t)
		invitedBy := uuid.New()

		f.orgRepo.EXPECT().FindByID(gomock.Any(), org.ID).Return(org, nil)
		f.userRepo.EXPECT().CountByOrganization(gomock.Any(), org.ID).Return(int64(3), nil)
		f.userRepo.EXPECT().FindByEmail(gomock.Any(), input.Email).Return(nil, domain.ErrUserNotFound)
		f.invRepo.EXPECT().FindActiveByEmail(gomock.Any(), org.ID, input.Email, testNow).Return(nil, domain.ErrInvitationNotFound)
		f.invRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		inv, err := f.svc.Invite(context.Background(), org.ID, invitedBy, input)
		require.NoError(t, err)

		assert.Equal(t, model.InvitationPending, inv.Status)
		assert.Equal(t, input.Email, inv.Email)
		assert.Equal(t, invitedBy, inv.InvitedByID)
		assert.Len(t, inv.Token, 64)
		assert.Equal(t, testNow.Add(168*time.Hour), inv.ExpiresAt)
	})

	t.Run("rejects when the employee ceiling is reached", func(t *testing.T) {
		f := newInvitationFixture(t)
		org := starterOrg(t)

		f.orgRepo.EXPECT().FindByID(gomock.Any(), org.ID).Return(org, nil)
		f.userRepo.EXPECT().CountByOrganization(gomock.Any(), org.ID).Return(int64(10), nil)

		_, err := f.svc.Invite(context.Background(), org.ID, uuid.New(), input)
		assert.ErrorIs(t, err, domain.ErrEmployeeLimitReached)
	})

	t.Run("rejects an email that already belongs to a member", func(t *testing.T) {
		f := newInvitationFixture(t)
		org := starterOrg(t)

		f.orgRepo.EXPECT().FindByID(gomock.Any(), org.ID).Return(org, nil)
		f.userRepo.EXPECT().CountByOrganization(gomock.Any(), org.ID).Return(int64(3), nil)
		f.userRepo.EXPECT().FindByEmail(gomock.Any(), input.Email).Return(&model.User{ID: uuid.New()}, nil)

		_, err := f.svc.Invite(context.Background(), org.ID, uuid.New(), input)
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})

	t.Run("rejects a duplicate active invitation", func(t *testing.T) {
		f := newInvitationFixture(t)
		org := starterOrg(t)

		f.orgRepo.EXPECT().FindByID(gomock.Any(), org.ID).Return(org, nil)
		f.userRepo.EXPECT().CountByOrganization(gomock.Any(), org.ID).Return(int64(3), nil)
		f.userRepo.EXPECT().FindByEmail(gomock.Any(), input.Email).Return(nil, domain.ErrUserNotFound)
		f.invRepo.EXPECT().FindActiveByEmail(gomock.Any(), org.ID, input.Email, testNow).
			Return(&model.UserInvitation{ID: uuid.New()}, nil)

		_, err := f.svc.Invite(context.Background(), org.ID, uuid.New(), input)
		assert.ErrorIs(t, err, domain.ErrDuplicateInvitation)
	})

	t.Run("rejects a suspended organization", func(t *testing.T) {
		f := newInvitationFixture(t)
		org := starterOrg(t)
		org.Status = model.OrgStatusSuspended

		f.orgRepo.EXPECT().FindByID(gomock.Any(), org.ID).Return(org, nil)

		_, err := f.svc.Invite(context.Background(), org.ID, uuid.New(), input)
		assert.ErrorIs(t, err, domain.ErrOrganizationSuspended)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		f := newInvitationFixture(t)

		_, err := f.svc.Invite(context.Background(), uuid.New(), uuid.New(), service.InviteInput{Email: "not-an-email", Role: model.RoleStaff})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestPreview(t *testing.T) {
	lookup := func(t *testing.T, inv *model.UserInvitation) (*model.UserInvitation, error) {
		t.Helper()
		f := newInvitationFixture(t)
		f.invRepo.EXPECT().FindByToken(gomock.Any(), inv.Token).Return(inv, nil)
		return f.svc.Preview(context.Background(), inv.Token)
	}

	t.Run("returns a redeemable invitation", func(t *testing.T) {
		inv := &model.UserInvitation{
			ID:        uuid.New(),
			Token:     service.GenerateToken(),
			Status:    model.InvitationPending,
			ExpiresAt: testNow.Add(24 * time.Hour),
		}

		got, err := lookup(t, inv)
		require.NoError(t, err)
		assert.Equal(t, inv.ID, got.ID)
	})

	t.Run("lapsed invitation reads as expired before and after the sweep", func(t *testing.T) {
		for _, status := range []model.InvitationStatus{model.InvitationPending, model.InvitationExpired} {
			inv := &model.UserInvitation{
				ID:        uuid.New(),
				Token:     service.GenerateToken(),
				Status:    status,
				ExpiresAt: testNow.Add(-time.Minute),
			}

			_, err := lookup(t, inv)
			assert.ErrorIs(t, err, domain.ErrInvitationExpired, "status %s", status)
		}
	})

	t.Run("cancelled invitation is invalid", func(t *testing.T) {
		inv := &model.UserInvitation{
			ID:        uuid.New(),
			Token:     service.GenerateToken(),
			Status:    model.InvitationCancelled,
			ExpiresAt: testNow.Add(24 * time.Hour),
		}

		_, err := lookup(t, inv)
		assert.ErrorIs(t, err, domain.ErrInvitationInvalid)
	})
}

func TestAccept(t *testing.T) {
	acceptInput := service.AcceptInput{FirstName: "Ada", LastName: "Lovelace", Password: "s3cr3t-pass"}

	t.Run("creates the user and marks the invitation in one transaction", func(t *testing.T) {
		f := newInvitationFixture(t)
		org := starterOrg(t)

		inv := &model.UserInvitation{
			ID:             uuid.New(),
			Email:          "ada@example.com",
			Role:           model.RoleStaff,
			OrganizationID: org.ID,
			InvitedByID:    uuid.New(),
			Token:          service.GenerateToken(),
			Status:         model.InvitationPending,
			ExpiresAt:      testNow.Add(24 * time.Hour),
		}

		ctrl := gomock.NewController(t)
		tx := mocks.NewMockTransaction(ctrl)
		tx.EXPECT().Commit().Return(nil)
		tx.EXPECT().Rollback().Return(nil).AnyTimes()

		userID := uuid.New()
		f.invRepo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		f.invRepo.EXPECT().FindByToken(gomock.Any(), inv.Token).Return(inv, nil)
		f.orgRepo.EXPECT().FindByID(gomock.Any(), org.ID).Return(org, nil)
		f.userRepo.EXPECT().CountByOrganization(gomock.Any(), org.ID).Return(int64(3), nil)
		f.userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *model.User) error {
				u.ID = userID
				return nil
			})
		f.invRepo.EXPECT().Update(gomock.Any(), inv).Return(nil)

		out, err := f.svc.Accept(context.Background(), inv.Token, acceptInput)
		require.NoError(t, err)

		assert.Equal(t, inv.Email, out.User.Email)
		assert.Equal(t, model.RoleStaff, out.User.Role)
		assert.Equal(t, org.ID, *out.User.OrganizationID)
		assert.NotEmpty(t, out.Token)

		assert.Equal(t, model.InvitationAccepted, inv.Status)
		assert.Equal(t, userID, *inv.UserID)
	})

	t.Run("expired invitation is reported as expired", func(t *testing.T) {
		f := newInvitationFixture(t)

		inv := &model.UserInvitation{
			ID:        uuid.New(),
			Token:     service.GenerateToken(),
			Status:    model.InvitationPending,
			ExpiresAt: testNow.Add(-time.Minute),
		}

		ctrl := gomock.NewController(t)
		tx := mocks.NewMockTransaction(ctrl)
		tx.EXPECT().Rollback().Return(nil)

		f.invRepo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		f.invRepo.EXPECT().FindByToken(gomock.Any(), inv.Token).Return(inv, nil)

		_, err := f.svc.Accept(context.Background(), inv.Token, acceptInput)
		assert.ErrorIs(t, err, domain.ErrInvitationExpired)
	})

	t.Run("invitation stamped expired by the sweep is still reported as expired", func(t *testing.T) {
		f := newInvitationFixture(t)

		inv := &model.UserInvitation{
			ID:        uuid.New(),
			Token:     service.GenerateToken(),
			Status:    model.InvitationExpired,
			ExpiresAt: testNow.Add(-time.Minute),
		}

		ctrl := gomock.NewController(t)
		tx := mocks.NewMockTransaction(ctrl)
		tx.EXPECT().Rollback().Return(nil)

		f.invRepo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		f.invRepo.EXPECT().FindByToken(gomock.Any(), inv.Token).Return(inv, nil)

		_, err := f.svc.Accept(context.Background(), inv.Token, acceptInput)
		assert.ErrorIs(t, err, domain.ErrInvitationExpired)
	})

	t.Run("cancelled invitation is invalid, not expired", func(t *testing.T) {
		f := newInvitationFixture(t)

		inv := &model.UserInvitation{
			ID:        uuid.New(),
			Token:     service.GenerateToken(),
			Status:    model.InvitationCancelled,
			ExpiresAt: testNow.Add(24 * time.Hour),
		}

		ctrl := gomock.NewController(t)
		tx := mocks.NewMockTransaction(ctrl)
		tx.EXPECT().Rollback().Return(nil)

		f.invRepo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		f.invRepo.EXPECT().FindByToken(gomock.Any(), inv.Token).Return(inv, nil)

		_, err := f.svc.Accept(context.Background(), inv.Token, acceptInput)
		assert.ErrorIs(t, err, domain.ErrInvitationInvalid)
	})

	t.Run("ceiling reached since the invite went out", func(t *testing.T) {
		f := newInvitationFixture(t)
		org := starterOrg(t)

		inv := &model.UserInvitation{
			ID:             uuid.New(),
			OrganizationID: org.ID,
			Token:          service.GenerateToken(),
			Status:         model.InvitationPending,
			ExpiresAt:      testNow.Add(24 * time.Hour),
		}

		ctrl := gomock.NewController(t)
		tx := mocks.NewMockTransaction(ctrl)
		tx.EXPECT().Rollback().Return(nil)

		f.invRepo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		f.invRepo.EXPECT().FindByToken(gomock.Any(), inv.Token).Return(inv, nil)
		f.orgRepo.EXPECT().FindByID(gomock.Any(), org.ID).Return(org, nil)
		f.userRepo.EXPECT().CountByOrganization(gomock.Any(), org.ID).Return(int64(10), nil)

		_, err := f.svc.Accept(context.Background(), inv.Token, acceptInput)
		assert.ErrorIs(t, err, domain.ErrEmployeeLimitReached)
	})
}

func TestCancel(t *testing.T) {
	t.Run("cancels a pending invitation", func(t *testing.T) {
		f := newInvitationFixture(t)
		orgID := uuid.New()

		inv := &model.UserInvitation{
			ID:             uuid.New(),
			OrganizationID: orgID,
			Status:         model.InvitationPending,
			ExpiresAt:      testNow.Add(24 * time.Hour),
		}

		f.invRepo.EXPECT().FindByID(gomock.Any(), inv.ID).Return(inv, nil)
		f.invRepo.EXPECT().Update(gomock.Any(), inv).Return(nil)

		require.NoError(t, f.svc.Cancel(context.Background(), orgID, inv.ID))
		assert.Equal(t, model.InvitationCancelled, inv.Status)
	})

	t.Run("accepted invitations cannot be cancelled", func(t *testing.T) {
		f := newInvitationFixture(t)
		orgID := uuid.New()

		inv := &model.UserInvitation{
			ID:             uuid.New(),
			OrganizationID: orgID,
			Status:         model.InvitationAccepted,
		}

		f.invRepo.EXPECT().FindByID(gomock.Any(), inv.ID).Return(inv, nil)

		err := f.svc.Cancel(context.Background(), orgID, inv.ID)
		assert.ErrorIs(t, err, domain.ErrInvitationNotPending)
	})

	t.Run("another organization's invitation reads as not found", func(t *testing.T) {
		f := newInvitationFixture(t)

		inv := &model.UserInvitation{
			ID:             uuid.New(),
			OrganizationID: uuid.New(),
			Status:         model.InvitationPending,
		}

		f.invRepo.EXPECT().FindByID(gomock.Any(), inv.ID).Return(inv, nil)

		err := f.svc.Cancel(context.Background(), uuid.New(), inv.ID)
		assert.ErrorIs(t, err, domain.ErrInvitationNotFound)
	})
}

func TestResend(t *testing.T) {
	t.Run("rotates the token and extends the expiry", func(t *testing.T) {
		f := newInvitationFixture(t)
		org := starterOrg(t)
		oldToken := service.GenerateToken()

		inv := &model.UserInvitation{
			ID:             uuid.New(),
			OrganizationID: org.ID,
			Token:          oldToken,
			Status:         model.InvitationPending,
			ExpiresAt:      testNow.Add(-time.Hour),
		}

		f.invRepo.EXPECT().FindByID(gomock.Any(), inv.ID).Return(inv, nil)
		f.invRepo.EXPECT().Update(gomock.Any(), inv).Return(nil)
		f.orgRepo.EXPECT().FindByID(gomock.Any(), org.ID).Return(org, nil)

		out, err := f.svc.Resend(context.Background(), org.ID, inv.ID)
		require.NoError(t, err)

		assert.NotEqual(t, oldToken, out.Token)
		assert.Equal(t, model.InvitationPending, out.Status)
		assert.Equal(t, testNow.Add(168*time.Hour), out.ExpiresAt)
	})

	t.Run("accepted invitations are terminal", func(t *testing.T) {
		f := newInvitationFixture(t)
		orgID := uuid.New()

		inv := &model.UserInvitation{
			ID:             uuid.New(),
			OrganizationID: orgID,
			Status:         model.InvitationAccepted,
		}

		f.invRepo.EXPECT().FindByID(gomock.Any(), inv.ID).Return(inv, nil)

		_, err := f.svc.Resend(context.Background(), orgID, inv.ID)
		assert.ErrorIs(t, err, domain.ErrInvitationNotPending)
	})
}
