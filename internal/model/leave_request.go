// internal/model/leave_request.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveType string

const (
	LeaveAnnual    LeaveType = "annual"
	LeaveSick      LeaveType = "sick"
	LeaveMaternity LeaveType = "maternity"
	LeaveUnpaid    LeaveType = "unpaid"
)

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

type LeaveRequest struct {
	ID             uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID   `gorm:"type:uuid;not null;index" json:"organization_id"`
	UserID         uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	Type           LeaveType   `gorm:"type:text;not null;default:'annual'" json:"type"`
	StartDate      time.Time   `gorm:"type:date;not null" json:"start_date"`
	EndDate        time.Time   `gorm:"type:date;not null" json:"end_date"`
	Reason         string      `gorm:"type:text" json:"reason"`
	Status         LeaveStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	ReviewedByID   *uuid.UUID  `gorm:"type:uuid" json:"reviewed_by"`
	ReviewedAt     *time.Time  `json:"reviewed_at"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	User       *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ReviewedBy *User `gorm:"foreignKey:ReviewedByID" json:"reviewed_by_user,omitempty"`
}

func (l *LeaveRequest) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
