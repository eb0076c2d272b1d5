// internal/entitlement/plan.go
package entitlement

import "github.com/staffhubhq/staffhub/internal/model"

// Plan is one row of the subscription plan table: pricing, ceilings and the
// feature map. MaxEmployees and StorageLimit use model.Unlimited (-1) as the
// no-ceiling sentinel.
type Plan struct {
	Name         model.SubscriptionPlan `json:"name"`
	Price        int64                  `json:"price"`
	MaxEmployees int                    `json:"max_employees"`
	StorageLimit int64                  `json:"storage_limit"`
	Features     map[string]bool        `json:"features"`
}

// Feature names understood by the plan table. Anything not present in a
// plan's map is disabled.
const (
	FeatureAttendance         = "attendance"
	FeatureTasks              = "tasks"
	FeatureDepartments        = "departments"
	FeatureMeetings           = "meetings"
	FeatureMessaging          = "messaging"
	FeatureCalls              = "calls"
	FeatureLeaveManagement    = "leave_management"
	FeaturePerformanceReviews = "performance_reviews"
	FeatureReports            = "reports"
	FeatureAPIAccess          = "api_access"
	FeaturePrioritySupport    = "priority_support"
)

const (
	gib = int64(1024 * 1024 * 1024)

	starterStorage      = 5 * gib
	professionalStorage = 25 * gib
)

// DefaultPlans returns the canonical plan table. Every known feature key is
// present in every plan, explicitly true or false.
func DefaultPlans() map[model.SubscriptionPlan]Plan {
	return map[model.SubscriptionPlan]Plan{
		model.PlanStarter: {
			Name:         model.PlanStarter,
			Price:        0,
			MaxEmployees: 10,
			StorageLimit: starterStorage,
			Features: map[string]bool{
				FeatureAttendance:         true,
				FeatureTasks:              true,
				FeatureDepartments:        true,
				FeatureMeetings:           false,
				FeatureMessaging:          false,
				FeatureCalls:              false,
				FeatureLeaveManagement:    false,
				FeaturePerformanceReviews: false,
				FeatureReports:            false,
				FeatureAPIAccess:          false,
				FeaturePrioritySupport:    false,
			},
		},
		model.PlanProfessional: {
			Name:         model.PlanProfessional,
			Price:        29000,
			MaxEmployees: 50,
			StorageLimit: professionalStorage,
			Features: map[string]bool{
				FeatureAttendance:         true,
				FeatureTasks:              true,
				FeatureDepartments:        true,
				FeatureMeetings:           true,
				FeatureMessaging:          true,
				FeatureCalls:              true,
				FeatureLeaveManagement:    true,
				FeaturePerformanceReviews: true,
				FeatureReports:            true,
				FeatureAPIAccess:          false,
				FeaturePrioritySupport:    false,
			},
		},
		model.PlanEnterprise: {
			Name:         model.PlanEnterprise,
			Price:        99000,
			MaxEmployees: model.Unlimited,
			StorageLimit: model.Unlimited,
			Features: map[string]bool{
				FeatureAttendance:         true,
				FeatureTasks:              true,
				FeatureDepartments:        true,
				FeatureMeetings:           true,
				FeatureMessaging:          true,
				FeatureCalls:              true,
				FeatureLeaveManagement:    true,
				FeaturePerformanceReviews: true,
				FeatureReports:            true,
				FeatureAPIAccess:          true,
				FeaturePrioritySupport:    true,
			},
		},
	}
}
