// internal/model/payment.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentProvider string

const (
	ProviderPaystack    PaymentProvider = "paystack"
	ProviderFlutterwave PaymentProvider = "flutterwave"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment records a billing transaction for an organization. Gateway calls
// happen outside this service; only the resulting ledger row lives here.
type Payment struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID        `gorm:"type:uuid;not null;index" json:"organization_id"`
	Plan           SubscriptionPlan `gorm:"type:text;not null" json:"plan"`
	Amount         int64            `gorm:"not null" json:"amount"`
	Currency       string           `gorm:"type:text;not null;default:'NGN'" json:"currency"`
	Provider       PaymentProvider  `gorm:"type:text;not null" json:"provider"`
	Reference      string           `gorm:"type:text;uniqueIndex;not null" json:"reference"`
	Status         PaymentStatus    `gorm:"type:text;not null;default:'pending'" json:"status"`
	PaidAt         *time.Time       `json:"paid_at"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
