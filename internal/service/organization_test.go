package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/staffhubhq/staffhub/internal/auth"
	"github.com/staffhubhq/staffhub/internal/domain"
	"github.com/staffhubhq/staffhub/internal/entitlement"
	"github.com/staffhubhq/staffhub/internal/mocks"
	"github.com/staffhubhq/staffhub/internal/model"
	"github.com/staffhubhq/staffhub/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type organizationFixture struct {
	ctrl     *gomock.Controller
	orgRepo  *mocks.MockOrganizationRepositoryIface
	userRepo *mocks.MockUserRepositoryIface
	svc      *service.OrganizationService
}

func newOrganizationFixture(t *testing.T) *organizationFixture {
	ctrl := gomock.NewController(t)

	orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
	userRepo := mocks.NewMockUserRepositoryIface(ctrl)

	cfg := testConfig()
	resolver := entitlement.NewResolver(entitlement.DefaultPlans(), userRepo)
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod)

	svc := service.NewOrganizationService(
		orgRepo, userRepo, resolver,
		auth.NewPasswordHasher(), tokenManager,
		nil, cfg,
	).WithClock(func() time.Time { return testNow })

	return &organizationFixture{ctrl: ctrl, orgRepo: orgRepo, userRepo: userRepo, svc: svc}
}

func TestSignup(t *testing.T) {
	input := service.SignupInput{
		OrganizationName: "Acme Rockets",
		Email:            "owner@example.com",
		FirstName:        "Wile",
		LastName:         "Coyote",
		Password:         "very-secret-1",
	}

	t.Run("creates owner and organization on the starter plan", func(t *testing.T) {
		f := newOrganizationFixture(t)

		tx := mocks.NewMockTransaction(f.ctrl)
		tx.EXPECT().Commit().Return(nil)
		tx.EXPECT().Rollback().Return(nil).AnyTimes()

		ownerID := uuid.New()
		f.orgRepo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		f.userRepo.EXPECT().FindByEmail(gomock.Any(), input.Email).Return(nil, domain.ErrUserNotFound)
		f.userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *model.User) error {
				u.ID = ownerID
				return nil
			})
		f.orgRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, o *model.Organization) error {
				o.ID = uuid.New()
				return nil
			})
		f.userRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		out, err := f.svc.Signup(context.Background(), input)
		require.NoError(t, err)

		assert.Equal(t, model.PlanStarter, out.Organization.SubscriptionPlan)
		assert.Equal(t, 10, out.Organization.MaxEmployees)
		assert.Equal(t, ownerID, out.Organization.OwnerID)
		assert.True(t, out.Organization.HasFeature(entitlement.FeatureAttendance))
		assert.False(t, out.Organization.HasFeature(entitlement.FeatureMeetings))

		assert.Equal(t, model.RolePrimeAdmin, out.User.Role)
		assert.Equal(t, out.Organization.ID, *out.User.OrganizationID)
		assert.NotEmpty(t, out.Token)
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		f := newOrganizationFixture(t)

		tx := mocks.NewMockTransaction(f.ctrl)
		tx.EXPECT().Rollback().Return(nil)

		f.orgRepo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		f.userRepo.EXPECT().FindByEmail(gomock.Any(), input.Email).Return(&model.User{ID: uuid.New()}, nil)

		_, err := f.svc.Signup(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})

	t.Run("rejects a short password", func(t *testing.T) {
		f := newOrganizationFixture(t)

		bad := input
		bad.Password = "short"
		_, err := f.svc.Signup(context.Background(), bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestUpgrade(t *testing.T) {
	t.Run("moves the organization and owner mirror together", func(t *testing.T) {
		f := newOrganizationFixture(t)
		org := starterOrg(t)
		owner := &model.User{ID: uuid.New(), Role: model.RolePrimeAdmin}
		org.OwnerID = owner.ID

		tx := mocks.NewMockTransaction(f.ctrl)
		tx.EXPECT().Commit().Return(nil)
		tx.EXPECT().Rollback().Return(nil).AnyTimes()

		f.orgRepo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		f.orgRepo.EXPECT().FindByID(gomock.Any(), org.ID).Return(org, nil)
		f.orgRepo.EXPECT().Update(gomock.Any(), org).Return(nil)
		f.userRepo.EXPECT().FindByID(gomock.Any(), owner.ID).Return(owner, nil)
		f.userRepo.EXPECT().Update(gomock.Any(), owner).Return(nil)

		expiresAt := testNow.AddDate(0, 1, 0)
		got, err := f.svc.Upgrade(context.Background(), org.ID, model.PlanProfessional, &expiresAt)
		require.NoError(t, err)

		assert.Equal(t, model.PlanProfessional, got.SubscriptionPlan)
		assert.Equal(t, 50, got.MaxEmployees)
		assert.True(t, got.HasFeature(entitlement.FeatureLeaveManagement))
		assert.Equal(t, expiresAt, *got.SubscriptionExpiresAt)

		assert.Equal(t, model.PlanProfessional, owner.SubscriptionPlan)
		assert.True(t, owner.IsPaid)
	})

	t.Run("unknown plan rolls back with ErrInvalidPlan", func(t *testing.T) {
		f := newOrganizationFixture(t)
		org := starterOrg(t)

		tx := mocks.NewMockTransaction(f.ctrl)
		tx.EXPECT().Rollback().Return(nil)

		f.orgRepo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		f.orgRepo.EXPECT().FindByID(gomock.Any(), org.ID).Return(org, nil)

		_, err := f.svc.Upgrade(context.Background(), org.ID, model.SubscriptionPlan("platinum"), nil)
		assert.ErrorIs(t, err, domain.ErrInvalidPlan)
		assert.Equal(t, model.PlanStarter, org.SubscriptionPlan)
	})
}

func TestUpdateSchedule(t *testing.T) {
	valid := service.UpdateScheduleInput{
		WorkStartTime:        "08:30",
		WorkEndTime:          "16:30",
		LateThresholdMinutes: 10,
		WorkDays:             []int{1, 2, 3, 4, 5, 6},
	}

	t.Run("replaces the schedule", func(t *testing.T) {
		f := newOrganizationFixture(t)
		org := starterOrg(t)

		f.orgRepo.EXPECT().FindByID(gomock.Any(), org.ID).Return(org, nil)
		f.orgRepo.EXPECT().Update(gomock.Any(), org).Return(nil)

		got, err := f.svc.UpdateSchedule(context.Background(), org.ID, valid)
		require.NoError(t, err)

		assert.Equal(t, "08:30", got.WorkStartTime)
		assert.Equal(t, 10, got.LateThresholdMinutes)
		assert.Equal(t, model.WorkDays{1, 2, 3, 4, 5, 6}, got.WorkDays)
	})

	t.Run("rejects weekday numbers outside 1..7", func(t *testing.T) {
		f := newOrganizationFixture(t)

		for _, days := range [][]int{{0, 1}, {7, 8}, {-1}} {
			bad := valid
			bad.WorkDays = days
			_, err := f.svc.UpdateSchedule(context.Background(), uuid.New(), bad)
			assert.ErrorIs(t, err, domain.ErrInvalidWorkDay)
		}
	})

	t.Run("rejects an empty weekday set", func(t *testing.T) {
		f := newOrganizationFixture(t)

		bad := valid
		bad.WorkDays = nil
		_, err := f.svc.UpdateSchedule(context.Background(), uuid.New(), bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSuspendReactivate(t *testing.T) {
	f := newOrganizationFixture(t)
	org := starterOrg(t)

	f.orgRepo.EXPECT().FindByID(gomock.Any(), org.ID).Return(org, nil).Times(2)
	f.orgRepo.EXPECT().Update(gomock.Any(), org).Return(nil).Times(2)

	require.NoError(t, f.svc.Suspend(context.Background(), org.ID))
	assert.Equal(t, model.OrgStatusSuspended, org.Status)

	require.NoError(t, f.svc.Reactivate(context.Background(), org.ID))
	assert.Equal(t, model.OrgStatusActive, org.Status)
}
