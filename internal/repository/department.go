// internal/repository/department.go
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

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(ctx context.Context, dept *model.Department) error {
	if err := r.db.WithContext(ctx).Create(dept).Error; err != nil {
		return fmt.Errorf("creating department: %w", err)
	}
	return nil
}

func (r *DepartmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	var dept model.Department
	if err := r.db.WithContext(ctx).First(&dept, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("finding department: %w", err)
	}
	return &dept, nil
}

func (r *DepartmentRepository) FindByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.Department, error) {
	var depts []*model.Department
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("name ASC").
		Find(&depts).Error
	if err != nil {
		return nil, fmt.Errorf("finding departments: %w", err)
	}
	return depts, nil
}

func (r *DepartmentRepository) Update(ctx context.Context, dept *model.Department) error {
	if err := r.db.WithContext(ctx).Save(dept).Error; err != nil {
		return fmt.Errorf("updating department: %w", err)
	}
	return nil
}

func (r *DepartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Detach members before removing the department
		if err := tx.Model(&model.User{}).
			Where("department_id = ?", id).
			Update("department_id", nil).Error; err != nil {
			return fmt.Errorf("detaching members: %w", err)
		}

		if err := tx.Delete(&model.Department{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting department: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}
