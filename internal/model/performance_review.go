// internal/model/performance_review.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PerformanceReview struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index" json:"organization_id"`
	ReviewerID     uuid.UUID `gorm:"type:uuid;not null" json:"reviewer_id"`
	RevieweeID     uuid.UUID `gorm:"type:uuid;not null;index" json:"reviewee_id"`
	Period         string    `gorm:"type:text;not null" json:"period"`
	Rating         int       `gorm:"not null" json:"rating"`
	Strengths      string    `gorm:"type:text" json:"strengths"`
	Improvements   string    `gorm:"type:text" json:"improvements"`
	Comments       string    `gorm:"type:text" json:"comments"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Reviewee *User `gorm:"foreignKey:RevieweeID" json:"reviewee,omitempty"`
}

func (r *PerformanceReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
