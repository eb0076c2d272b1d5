// internal/model/organization.go
package model

import (
	"crypto/rand"
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubscriptionPlan string

const (
	PlanStarter      SubscriptionPlan = "starter"
	PlanProfessional SubscriptionPlan = "professional"
	PlanEnterprise   SubscriptionPlan = "enterprise"
)

type OrganizationStatus string

const (
	OrgStatusActive    OrganizationStatus = "active"
	OrgStatusSuspended OrganizationStatus = "suspended"
	OrgStatusCancelled OrganizationStatus = "cancelled"
)

// Unlimited is the sentinel for plans without an employee or storage ceiling.
// It must never be conflated with zero capacity.
const Unlimited = -1

type Organization struct {
	ID                    uuid.UUID          `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name                  string             `gorm:"type:text;not null" json:"name"`
	Slug                  string             `gorm:"type:text;uniqueIndex;not null" json:"slug"`
	OwnerID               uuid.UUID          `gorm:"type:uuid;not null" json:"owner_id"`
	SubscriptionPlan      SubscriptionPlan   `gorm:"type:text;not null;default:'starter'" json:"subscription_plan"`
	SubscriptionExpiresAt *time.Time         `json:"subscription_expires_at"`
	MaxEmployees          int                `gorm:"not null;default:10" json:"max_employees"`
	Features              datatypes.JSONMap  `gorm:"type:jsonb" json:"features"`
	WorkStartTime         string             `gorm:"type:text;not null;default:'09:00'" json:"work_start_time"`
	WorkEndTime           string             `gorm:"type:text;not null;default:'17:00'" json:"work_end_time"`
	LateThresholdMinutes  int                `gorm:"not null;default:15" json:"late_threshold_minutes"`
	WorkDays              WorkDays           `gorm:"type:text" json:"work_days"`
	StorageUsed           int64              `gorm:"not null;default:0" json:"storage_used"`
	StorageLimit          int64              `gorm:"not null;default:5368709120" json:"storage_limit"`
	Status                OrganizationStatus `gorm:"type:text;not null;default:'active'" json:"status"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`

	Owner *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Users []User `gorm:"foreignKey:OrganizationID" json:"users,omitempty"`
}

// BeforeCreate derives a slug from the name when one was not supplied. A short
// random suffix keeps slugs unique across organizations with the same name.
func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Slug == "" {
		o.Slug = Slugify(o.Name) + "-" + randomSuffix(4)
	}
	return nil
}

// HasFeature reports whether the named capability is enabled for the
// organization. Absent keys are disabled, not errors.
func (o *Organization) HasFeature(name string) bool {
	if o.Features == nil {
		return false
	}
	enabled, ok := o.Features[name].(bool)
	return ok && enabled
}

// Slugify lowercases the name and collapses anything that is not a letter or
// digit into single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func randomSuffix(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		panic(err) // This should never happen
	}
	return hex.EncodeToString(bytes)[:n]
}

// WorkDays is the set of active ISO weekday numbers (1=Monday..7=Sunday),
// stored as a comma-separated list. It implements sql.Scanner and
// driver.Valuer.
type WorkDays []int

// Scan implements the sql.Scanner interface
func (w *WorkDays) Scan(value interface{}) error {
	if value == nil {
		*w = nil
		return nil
	}

	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("unsupported Scan, storing driver.Value type %T into type %T", value, w)
	}

	str = strings.Trim(str, "{}")
	if str == "" {
		*w = nil
		return nil
	}

	parts := strings.Split(str, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		day, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("parsing work day %q: %w", p, err)
		}
		days = append(days, day)
	}
	*w = days
	return nil
}

// Value implements the driver.Valuer interface
func (w WorkDays) Value() (driver.Value, error) {
	if len(w) == 0 {
		return "", nil
	}

	parts := make([]string, len(w))
	for i, day := range w {
		parts[i] = strconv.Itoa(day)
	}
	return strings.Join(parts, ","), nil
}

// Contains reports membership of an ISO weekday number in the set.
func (w WorkDays) Contains(day int) bool {
	for _, d := range w {
		if d == day {
			return true
		}
	}
	return false
}
