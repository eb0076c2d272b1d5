// internal/repository/leave.go
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

type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(ctx context.Context, leave *model.LeaveRequest) error {
	if err := r.db.WithContext(ctx).Create(leave).Error; err != nil {
		return fmt.Errorf("creating leave request: %w", err)
	}
	return nil
}

func (r *LeaveRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.LeaveRequest, error) {
	var leave model.LeaveRequest
	if err := r.db.WithContext(ctx).First(&leave, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLeaveNotFound
		}
		return nil, fmt.Errorf("finding leave request: %w", err)
	}
	return &leave, nil
}

func (r *LeaveRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.LeaveRequest, error) {
	var leaves []*model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&leaves).Error
	if err != nil {
		return nil, fmt.Errorf("finding leave requests: %w", err)
	}
	return leaves, nil
}

func (r *LeaveRepository) FindPendingByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.LeaveRequest, error) {
	var leaves []*model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Where("status = ?", model.LeavePending).
		Order("created_at ASC").
		Find(&leaves).Error
	if err != nil {
		return nil, fmt.Errorf("finding pending leave requests: %w", err)
	}
	return leaves, nil
}

func (r *LeaveRepository) Update(ctx context.Context, leave *model.LeaveRequest) error {
	if err := r.db.WithContext(ctx).Save(leave).Error; err != nil {
		return fmt.Errorf("updating leave request: %w", err)
	}
	return nil
}
