package entitlement_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/staffhubhq/staffhub/internal/domain"
	"github.com/staffhubhq/staffhub/internal/entitlement"
	"github.com/staffhubhq/staffhub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterFunc adapts a function to the EmployeeCounter interface.
type counterFunc func(ctx context.Context, orgID uuid.UUID) (int64, error)

func (f counterFunc) CountByOrganization(ctx context.Context, orgID uuid.UUID) (int64, error) {
	return f(ctx, orgID)
}

func fixedCount(n int64) counterFunc {
	return func(context.Context, uuid.UUID) (int64, error) { return n, nil }
}

func newResolver(counter entitlement.EmployeeCounter) *entitlement.Resolver {
	return entitlement.NewResolver(entitlement.DefaultPlans(), counter)
}

func orgOnPlan(t *testing.T, r *entitlement.Resolver, name model.SubscriptionPlan) *model.Organization {
	t.Helper()
	org := &model.Organization{ID: uuid.New(), Name: "Acme"}
	require.NoError(t, r.UpgradePlan(org, name))
	return org
}

func TestPlanDetails(t *testing.T) {
	r := newResolver(fixedCount(0))

	t.Run("known plans resolve to their own definition", func(t *testing.T) {
		assert.Equal(t, model.PlanProfessional, r.PlanDetails(model.PlanProfessional).Name)
		assert.Equal(t, 50, r.PlanDetails(model.PlanProfessional).MaxEmployees)
		assert.Equal(t, model.PlanEnterprise, r.PlanDetails(model.PlanEnterprise).Name)
	})

	t.Run("unknown plan falls back to starter", func(t *testing.T) {
		plan := r.PlanDetails(model.SubscriptionPlan("platinum"))
		assert.Equal(t, model.PlanStarter, plan.Name)
		assert.Equal(t, 10, plan.MaxEmployees)
	})

	t.Run("empty plan name falls back to starter", func(t *testing.T) {
		assert.Equal(t, model.PlanStarter, r.PlanDetails("").Name)
	})
}

func TestCanAddEmployee(t *testing.T) {
	t.Run("below the ceiling", func(t *testing.T) {
		r := newResolver(fixedCount(9))
		org := orgOnPlan(t, r, model.PlanStarter)

		ok, err := r.CanAddEmployee(context.Background(), org)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("at the ceiling", func(t *testing.T) {
		r := newResolver(fixedCount(10))
		org := orgOnPlan(t, r, model.PlanStarter)

		ok, err := r.CanAddEmployee(context.Background(), org)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unlimited plan ignores any count", func(t *testing.T) {
		counted := false
		r := newResolver(counterFunc(func(context.Context, uuid.UUID) (int64, error) {
			counted = true
			return 10000, nil
		}))
		org := orgOnPlan(t, r, model.PlanEnterprise)

		ok, err := r.CanAddEmployee(context.Background(), org)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.False(t, counted, "unlimited plans should not hit the counter")
	})

	t.Run("counter failure propagates", func(t *testing.T) {
		r := newResolver(counterFunc(func(context.Context, uuid.UUID) (int64, error) {
			return 0, errors.New("db down")
		}))
		org := orgOnPlan(t, r, model.PlanStarter)

		_, err := r.CanAddEmployee(context.Background(), org)
		assert.Error(t, err)
	})
}

func TestRemainingSlots(t *testing.T) {
	t.Run("bounded plan", func(t *testing.T) {
		r := newResolver(fixedCount(3))
		org := orgOnPlan(t, r, model.PlanStarter)

		remaining, err := r.RemainingSlots(context.Background(), org)
		require.NoError(t, err)
		assert.Equal(t, 7, remaining)
	})

	t.Run("full plan clamps to zero", func(t *testing.T) {
		r := newResolver(fixedCount(10))
		org := orgOnPlan(t, r, model.PlanStarter)

		remaining, err := r.RemainingSlots(context.Background(), org)
		require.NoError(t, err)
		assert.Equal(t, 0, remaining)
	})

	t.Run("overfull plan still reports zero", func(t *testing.T) {
		r := newResolver(fixedCount(14))
		org := orgOnPlan(t, r, model.PlanStarter)

		remaining, err := r.RemainingSlots(context.Background(), org)
		require.NoError(t, err)
		assert.Equal(t, 0, remaining)
	})

	t.Run("unlimited plan returns the sentinel", func(t *testing.T) {
		r := newResolver(fixedCount(10000))
		org := orgOnPlan(t, r, model.PlanEnterprise)

		remaining, err := r.RemainingSlots(context.Background(), org)
		require.NoError(t, err)
		assert.Equal(t, model.Unlimited, remaining)
	})
}

func TestHasFeature(t *testing.T) {
	r := newResolver(fixedCount(0))

	t.Run("starter has attendance but not meetings", func(t *testing.T) {
		org := orgOnPlan(t, r, model.PlanStarter)
		assert.True(t, r.HasFeature(org, entitlement.FeatureAttendance))
		assert.False(t, r.HasFeature(org, entitlement.FeatureMeetings))
	})

	t.Run("professional unlocks meetings and leave", func(t *testing.T) {
		org := orgOnPlan(t, r, model.PlanProfessional)
		assert.True(t, r.HasFeature(org, entitlement.FeatureMeetings))
		assert.True(t, r.HasFeature(org, entitlement.FeatureLeaveManagement))
		assert.False(t, r.HasFeature(org, entitlement.FeatureAPIAccess))
	})

	t.Run("unknown feature name is disabled", func(t *testing.T) {
		org := orgOnPlan(t, r, model.PlanEnterprise)
		assert.False(t, r.HasFeature(org, "time_travel"))
	})

	t.Run("nil feature map is disabled", func(t *testing.T) {
		org := &model.Organization{ID: uuid.New()}
		assert.False(t, r.HasFeature(org, entitlement.FeatureAttendance))
	})
}

func TestHasStorageSpace(t *testing.T) {
	r := newResolver(fixedCount(0))

	t.Run("fits under the ceiling", func(t *testing.T) {
		org := orgOnPlan(t, r, model.PlanStarter)
		org.StorageUsed = org.StorageLimit - 100
		assert.True(t, r.HasStorageSpace(org, 100))
		assert.False(t, r.HasStorageSpace(org, 101))
	})

	t.Run("unlimited storage always fits", func(t *testing.T) {
		org := orgOnPlan(t, r, model.PlanEnterprise)
		org.StorageUsed = 1 << 50
		assert.True(t, r.HasStorageSpace(org, 1<<50))
	})
}

func TestUpgradePlan(t *testing.T) {
	t.Run("replaces limits and features together", func(t *testing.T) {
		r := newResolver(fixedCount(0))
		org := orgOnPlan(t, r, model.PlanStarter)

		require.NoError(t, r.UpgradePlan(org, model.PlanProfessional))

		assert.Equal(t, model.PlanProfessional, org.SubscriptionPlan)
		assert.Equal(t, 50, org.MaxEmployees)
		assert.True(t, org.HasFeature(entitlement.FeatureMeetings))
	})

	t.Run("upgrade to enterprise lifts both ceilings", func(t *testing.T) {
		r := newResolver(fixedCount(0))
		org := orgOnPlan(t, r, model.PlanEnterprise)

		assert.Equal(t, model.Unlimited, org.MaxEmployees)
		assert.Equal(t, int64(model.Unlimited), org.StorageLimit)
	})

	t.Run("unknown plan is rejected and leaves the record untouched", func(t *testing.T) {
		r := newResolver(fixedCount(0))
		org := orgOnPlan(t, r, model.PlanStarter)

		err := r.UpgradePlan(org, model.SubscriptionPlan("platinum"))
		assert.ErrorIs(t, err, domain.ErrInvalidPlan)
		assert.Equal(t, model.PlanStarter, org.SubscriptionPlan)
		assert.Equal(t, 10, org.MaxEmployees)
	})
}

// A professional organization with 49 members can take exactly one more.
func TestProfessionalPlanBoundary(t *testing.T) {
	count := int64(49)
	r := newResolver(counterFunc(func(context.Context, uuid.UUID) (int64, error) {
		return count, nil
	}))
	org := orgOnPlan(t, r, model.PlanProfessional)

	ok, err := r.CanAddEmployee(context.Background(), org)
	require.NoError(t, err)
	assert.True(t, ok)

	remaining, err := r.RemainingSlots(context.Background(), org)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	count = 50
	ok, err = r.CanAddEmployee(context.Background(), org)
	require.NoError(t, err)
	assert.False(t, ok)
}
