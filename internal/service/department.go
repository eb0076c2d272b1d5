// internal/service/department.go
package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/staffhubhq/staffhub/internal/domain"
	"github.com/staffhubhq/staffhub/internal/model"
	"github.com/staffhubhq/staffhub/internal/repository"
)

type DepartmentService struct {
	repo     *repository.DepartmentRepository
	userRepo repository.UserRepositoryIface
	validate *validator.Validate
}

func NewDepartmentService(
	repo *repository.DepartmentRepository,
	userRepo repository.UserRepositoryIface,
) *DepartmentService {
	return &DepartmentService{
		repo:     repo,
		userRepo: userRepo,
		validate: validator.New(),
	}
}

type DepartmentInput struct {
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description"`
	ManagerID   *uuid.UUID `json:"manager_id"`
}

// Create opens a department. The manager, when given, must belong to the
// same organization.
func (s *DepartmentService) Create(ctx context.Context, orgID uuid.UUID, input DepartmentInput) (*model.Department, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := s.checkManager(ctx, orgID, input.ManagerID); err != nil {
		return nil, err
	}

	dept := &model.Department{
		OrganizationID: orgID,
		Name:           input.Name,
		Description:    input.Description,
		ManagerID:      input.ManagerID,
	}
	if err := s.repo.Create(ctx, dept); err != nil {
		return nil, fmt.Errorf("creating department: %w", err)
	}
	return dept, nil
}

func (s *DepartmentService) Update(ctx context.Context, orgID, deptID uuid.UUID, input DepartmentInput) (*model.Department, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	dept, err := s.repo.FindByID(ctx, deptID)
	if err != nil {
		return nil, err
	}
	if dept.OrganizationID != orgID {
		return nil, domain.ErrDepartmentNotFound
	}

	if err := s.checkManager(ctx, orgID, input.ManagerID); err != nil {
		return nil, err
	}

	dept.Name = input.Name
	dept.Description = input.Description
	dept.ManagerID = input.ManagerID
	if err := s.repo.Update(ctx, dept); err != nil {
		return nil, fmt.Errorf("updating department: %w", err)
	}
	return dept, nil
}

func (s *DepartmentService) Delete(ctx context.Context, orgID, deptID uuid.UUID) error {
	dept, err := s.repo.FindByID(ctx, deptID)
	if err != nil {
		return err
	}
	if dept.OrganizationID != orgID {
		return domain.ErrDepartmentNotFound
	}
	return s.repo.Delete(ctx, deptID)
}

func (s *DepartmentService) List(ctx context.Context, orgID uuid.UUID) ([]*model.Department, error) {
	return s.repo.FindByOrganization(ctx, orgID)
}

func (s *DepartmentService) checkManager(ctx context.Context, orgID uuid.UUID, managerID *uuid.UUID) error {
	if managerID == nil {
		return nil
	}
	manager, err := s.userRepo.FindByID(ctx, *managerID)
	if err != nil {
		return err
	}
	if manager.OrganizationID == nil || *manager.OrganizationID != orgID {
		return domain.ErrUserNotFound
	}
	return nil
}
