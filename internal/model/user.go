// internal/model/user.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RolePrimeAdmin Role = "prime_admin"
	RoleAdmin      Role = "admin"
	RoleStaff      Role = "staff"
)

// IsAdmin reports whether the role carries administrative rights.
func (r Role) IsAdmin() bool {
	return r == RolePrimeAdmin || r == RoleAdmin
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID *uuid.UUID `gorm:"type:uuid;index" json:"organization_id"`
	DepartmentID   *uuid.UUID `gorm:"type:uuid;index" json:"department_id"`
	Email          string     `gorm:"type:citext;uniqueIndex;not null" json:"email"`
	FirstName      string     `gorm:"type:text;not null" json:"first_name"`
	LastName       string     `gorm:"type:text" json:"last_name"`
	PasswordHash   string     `gorm:"type:text;not null" json:"-"`
	Role           Role       `gorm:"type:text;not null;default:'staff'" json:"role"`
	Status         UserStatus `gorm:"type:text;not null;default:'active'" json:"status"`
	LastSeenAt     *time.Time `json:"last_seen_at"`
	IsOnline       bool       `gorm:"not null;default:false" json:"is_online"`

	// Billing mirror for the organization owner. Kept in sync by the
	// organization service whenever the owning organization's plan changes.
	SubscriptionPlan      SubscriptionPlan `gorm:"type:text;not null;default:'starter'" json:"subscription_plan"`
	SubscriptionExpiresAt *time.Time       `json:"subscription_expires_at"`
	IsPaid                bool             `gorm:"not null;default:false" json:"is_paid"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Department   *Department   `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

// BeforeCreate hook for User
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// FullName joins first and last names, tolerating a missing last name.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
