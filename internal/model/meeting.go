// internal/model/meeting.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MeetingStatus string

const (
	MeetingScheduled MeetingStatus = "scheduled"
	MeetingCompleted MeetingStatus = "completed"
	MeetingCancelled MeetingStatus = "cancelled"
)

type Meeting struct {
	ID             uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID     `gorm:"type:uuid;not null;index" json:"organization_id"`
	Title          string        `gorm:"type:text;not null" json:"title"`
	Agenda         string        `gorm:"type:text" json:"agenda"`
	Location       string        `gorm:"type:text" json:"location"`
	StartsAt       time.Time     `gorm:"not null" json:"starts_at"`
	EndsAt         time.Time     `gorm:"not null" json:"ends_at"`
	Status         MeetingStatus `gorm:"type:text;not null;default:'scheduled'" json:"status"`
	OrganizerID    uuid.UUID     `gorm:"type:uuid;not null" json:"organizer_id"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	Organizer    *User                `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	Participants []MeetingParticipant `gorm:"foreignKey:MeetingID" json:"participants,omitempty"`
}

func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MeetingParticipant is one row per meeting+user, enforced by the unique index.
type MeetingParticipant struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MeetingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_meeting_participants_meeting_user" json:"meeting_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_meeting_participants_meeting_user" json:"user_id"`
	Response  string    `gorm:"type:text;not null;default:'pending'" json:"response"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (p *MeetingParticipant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
