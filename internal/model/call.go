// internal/model/call.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CallStatus string

const (
	CallRinging   CallStatus = "ringing"
	CallOngoing   CallStatus = "ongoing"
	CallEnded     CallStatus = "ended"
	CallMissed    CallStatus = "missed"
	CallCancelled CallStatus = "cancelled"
)

type Call struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	InitiatorID    uuid.UUID  `gorm:"type:uuid;not null" json:"initiator_id"`
	IsVideo        bool       `gorm:"not null;default:false" json:"is_video"`
	Status         CallStatus `gorm:"type:text;not null;default:'ringing'" json:"status"`
	StartedAt      *time.Time `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Participants []CallParticipant `gorm:"foreignKey:CallID" json:"participants,omitempty"`
}

func (c *Call) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CallParticipant is one row per call+user, enforced by the unique index.
type CallParticipant struct {
	ID       uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CallID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_call_participants_call_user" json:"call_id"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_call_participants_call_user" json:"user_id"`
	JoinedAt *time.Time `json:"joined_at"`
	LeftAt   *time.Time `json:"left_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (p *CallParticipant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
