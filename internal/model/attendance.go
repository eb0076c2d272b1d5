// internal/model/attendance.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceHalfDay AttendanceStatus = "half_day"
	AttendanceOnLeave AttendanceStatus = "on_leave"
)

// Attendance is one row per user per calendar date, enforced by the unique
// index on (user_id, date). Concurrent clock-ins for the same day rely on
// that constraint, not on application-level locking.
type Attendance struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_user_date" json:"user_id"`
	OrganizationID uuid.UUID        `gorm:"type:uuid;not null;index" json:"organization_id"`
	Date           time.Time        `gorm:"type:date;not null;uniqueIndex:idx_attendance_user_date" json:"date"`
	ClockIn        *time.Time       `json:"clock_in"`
	ClockOut       *time.Time       `json:"clock_out"`
	TotalHours     float64          `gorm:"not null;default:0" json:"total_hours"`
	IsLate         bool             `gorm:"not null;default:false" json:"is_late"`
	Status         AttendanceStatus `gorm:"type:text;not null;default:'present'" json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// BeforeCreate hook for Attendance
func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
