// internal/model/department.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Department struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name           string     `gorm:"type:text;not null" json:"name"`
	Description    string     `gorm:"type:text" json:"description"`
	ManagerID      *uuid.UUID `gorm:"type:uuid" json:"manager_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Manager *User  `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Members []User `gorm:"foreignKey:DepartmentID" json:"members,omitempty"`
}

func (d *Department) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
