// internal/entitlement/resolver.go
package entitlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/staffhubhq/staffhub/internal/domain"
	"github.com/staffhubhq/staffhub/internal/model"
	"gorm.io/datatypes"
)

// EmployeeCounter answers "how many users does this organization have". The
// resolver never caches the count; it is read fresh on every capacity check.
type EmployeeCounter interface {
	CountByOrganization(ctx context.Context, orgID uuid.UUID) (int64, error)
}

// Resolver maps subscription plans to feature sets and limits, and answers
// capacity and feature queries for an organization. The plan table is
// injected at construction and never mutated afterwards.
type Resolver struct {
	plans   map[model.SubscriptionPlan]Plan
	counter EmployeeCounter
}

func NewResolver(plans map[model.SubscriptionPlan]Plan, counter EmployeeCounter) *Resolver {
	return &Resolver{plans: plans, counter: counter}
}

// PlanDetails returns the definition for the named plan. Unrecognized names
// fall back to the starter definition: persisted data with a stale or
// unknown plan must never fail hard; only explicit upgrades reject bad names.
func (r *Resolver) PlanDetails(name model.SubscriptionPlan) Plan {
	if plan, ok := r.plans[name]; ok {
		return plan
	}
	return r.plans[model.PlanStarter]
}

// KnownPlans lists the plans in the injected table.
func (r *Resolver) KnownPlans() []Plan {
	plans := make([]Plan, 0, len(r.plans))
	for _, p := range r.plans {
		plans = append(plans, p)
	}
	return plans
}

// HasFeature reports whether the organization's feature map enables the
// named capability. Absent keys are disabled, not errors.
func (r *Resolver) HasFeature(org *model.Organization, feature string) bool {
	return org.HasFeature(feature)
}

// CanAddEmployee reports whether the organization has headroom for one more
// user. Unlimited plans always have headroom, whatever the current count.
func (r *Resolver) CanAddEmployee(ctx context.Context, org *model.Organization) (bool, error) {
	if org.MaxEmployees == model.Unlimited {
		return true, nil
	}

	count, err := r.counter.CountByOrganization(ctx, org.ID)
	if err != nil {
		return false, fmt.Errorf("counting employees: %w", err)
	}
	return count < int64(org.MaxEmployees), nil
}

// RemainingSlots returns how many more users the organization may add.
// Unlimited plans return model.Unlimited; bounded plans never go negative.
func (r *Resolver) RemainingSlots(ctx context.Context, org *model.Organization) (int, error) {
	if org.MaxEmployees == model.Unlimited {
		return model.Unlimited, nil
	}

	count, err := r.counter.CountByOrganization(ctx, org.ID)
	if err != nil {
		return 0, fmt.Errorf("counting employees: %w", err)
	}

	remaining := org.MaxEmployees - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// HasStorageSpace reports whether additionalBytes fit under the
// organization's storage ceiling, with the same unlimited sentinel as
// employee capacity.
func (r *Resolver) HasStorageSpace(org *model.Organization, additionalBytes int64) bool {
	if org.StorageLimit == model.Unlimited {
		return true
	}
	return org.StorageUsed+additionalBytes <= org.StorageLimit
}

// UpgradePlan moves the organization to the named plan, replacing plan name,
// employee ceiling, storage ceiling and feature map together. The record is
// mutated in place; persisting it is the caller's transaction. Unlike
// PlanDetails, an unrecognized name is rejected with domain.ErrInvalidPlan:
// an explicit upgrade request with a bad plan is a caller bug, not stale
// data.
func (r *Resolver) UpgradePlan(org *model.Organization, name model.SubscriptionPlan) error {
	plan, ok := r.plans[name]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrInvalidPlan, name)
	}

	org.SubscriptionPlan = plan.Name
	org.MaxEmployees = plan.MaxEmployees
	org.StorageLimit = plan.StorageLimit

	features := make(datatypes.JSONMap, len(plan.Features))
	for k, v := range plan.Features {
		features[k] = v
	}
	org.Features = features

	return nil
}
