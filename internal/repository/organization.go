// internal/repository/organization.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/staffhubhq/staffhub/internal/domain"
	"github.com/staffhubhq/staffhub/internal/model"
	"gorm.io/gorm"
)

type OrganizationRepositoryIface interface {
	Begin(ctx context.Context) (Transaction, error)

	Create(ctx context.Context, org *model.Organization) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	FindBySlug(ctx context.Context, slug string) (*model.Organization, error)
	Update(ctx context.Context, org *model.Organization) error
	FindExpiring(ctx context.Context) ([]*model.Organization, error)
}

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// Begin starts a new database transaction and returns a Transaction instance.
func (r *OrganizationRepository) Begin(ctx context.Context) (Transaction, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &gormTransaction{ctx: ctx, tx: tx}, nil
}

func (r *OrganizationRepository) Create(ctx context.Context, org *model.Organization) error {
	if err := r.db.WithContext(ctx).Create(org).Error; err != nil {
		return fmt.Errorf("creating organization: %w", err)
	}
	return nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("finding organization: %w", err)
	}
	return &org, nil
}

func (r *OrganizationRepository) FindBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).First(&org, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("finding organization by slug: %w", err)
	}
	return &org, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, org *model.Organization) error {
	if err := r.db.WithContext(ctx).Save(org).Error; err != nil {
		return fmt.Errorf("updating organization: %w", err)
	}
	return nil
}

// FindExpiring returns active organizations whose paid subscription has
// lapsed. Used by the staffctl reconcile sweep.
func (r *OrganizationRepository) FindExpiring(ctx context.Context) ([]*model.Organization, error) {
	var orgs []*model.Organization
	err := r.db.WithContext(ctx).
		Where("subscription_plan <> ?", model.PlanStarter).
		Where("subscription_expires_at IS NOT NULL AND subscription_expires_at < NOW()").
		Where("status = ?", model.OrgStatusActive).
		Find(&orgs).Error
	if err != nil {
		return nil, fmt.Errorf("finding expiring organizations: %w", err)
	}
	return orgs, nil
}
