// internal/model/invitation.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationCancelled InvitationStatus = "cancelled"
	InvitationExpired   InvitationStatus = "expired"
)

// UserInvitation is a pending grant of access to an organization. The token
// is the capability bearer embedded in the onboarding URL and must be
// cryptographically unpredictable.
//
// Expiry is derived at read time from ExpiresAt rather than swept by a
// background job; the stored status transitions pending -> accepted or
// pending -> cancelled, and the staffctl sweep may stamp lapsed pending
// rows expired for reporting. The partial unique index over
// (email, organization_id) for pending rows is what holds the at-most-one
// active invitation invariant under concurrent writes.
type UserInvitation struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email          string           `gorm:"type:citext;not null;uniqueIndex:idx_invitations_pending_email,where:status = 'pending'" json:"email"`
	Role           Role             `gorm:"type:text;not null;default:'staff'" json:"role"`
	DepartmentID   *uuid.UUID       `gorm:"type:uuid" json:"department_id"`
	OrganizationID uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_invitations_pending_email,where:status = 'pending'" json:"organization_id"`
	InvitedByID    uuid.UUID        `gorm:"type:uuid;not null" json:"invited_by"`
	Token          string           `gorm:"type:text;uniqueIndex;not null" json:"-"`
	Status         InvitationStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	ExpiresAt      time.Time        `gorm:"not null" json:"expires_at"`
	AcceptedAt     *time.Time       `json:"accepted_at"`
	UserID         *uuid.UUID       `gorm:"type:uuid" json:"user_id"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	InvitedBy    *User         `gorm:"foreignKey:InvitedByID" json:"invited_by_user,omitempty"`
	Department   *Department   `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

// BeforeCreate hook for UserInvitation
func (i *UserInvitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// IsExpired reports whether the invitation's deadline is strictly in the past.
func (i *UserInvitation) IsExpired(now time.Time) bool {
	return i.ExpiresAt.Before(now)
}

// IsAccepted reports whether the invitee completed onboarding.
func (i *UserInvitation) IsAccepted() bool {
	return i.AcceptedAt != nil
}

// IsValid reports whether the invitation can still be redeemed: pending,
// unexpired, and not accepted. Cancelled invitations are never valid,
// whatever their expiry.
func (i *UserInvitation) IsValid(now time.Time) bool {
	return i.Status == InvitationPending && !i.IsExpired(now) && !i.IsAccepted()
}

// EffectiveStatus resolves the derived expired state for presentation.
func (i *UserInvitation) EffectiveStatus(now time.Time) InvitationStatus {
	if i.Status == InvitationPending && i.IsExpired(now) {
		return InvitationExpired
	}
	return i.Status
}

// MarkAsAccepted records acceptance. This is the terminal write for an
// invitation; callers must not mutate the token or expiry afterwards.
func (i *UserInvitation) MarkAsAccepted(now time.Time, userID uuid.UUID) {
	i.Status = InvitationAccepted
	i.AcceptedAt = &now
	i.UserID = &userID
}

// MarkAsCancelled records admin revocation. Token and expiry are left in
// place; IsValid excludes cancelled records regardless.
func (i *UserInvitation) MarkAsCancelled() {
	i.Status = InvitationCancelled
}
