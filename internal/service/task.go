// internal/service/task.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/staffhubhq/staffhub/internal/domain"
	"github.com/staffhubhq/staffhub/internal/entitlement"
	"github.com/staffhubhq/staffhub/internal/model"
	"github.com/staffhubhq/staffhub/internal/repository"
)

type TaskService struct {
	repo     repository.TaskRepositoryIface
	orgRepo  repository.OrganizationRepositoryIface
	resolver *entitlement.Resolver
	validate *validator.Validate
	now      func() time.Time
}

func NewTaskService(
	repo repository.TaskRepositoryIface,
	orgRepo repository.OrganizationRepositoryIface,
	resolver *entitlement.Resolver,
) *TaskService {
	return &TaskService{
		repo:     repo,
		orgRepo:  orgRepo,
		resolver: resolver,
		validate: validator.New(),
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Tests only.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

type CreateTaskInput struct {
	Title       string             `json:"title" validate:"required"`
	Description string             `json:"description"`
	Priority    model.TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	ProjectID   *uuid.UUID         `json:"project_id"`
	AssigneeID  *uuid.UUID         `json:"assignee_id"`
	DueDate     *time.Time         `json:"due_date"`
}

// Create opens a task, gated on the organization's tasks entitlement.
func (s *TaskService) Create(ctx context.Context, orgID, createdBy uuid.UUID, input CreateTaskInput) (*model.Task, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !s.resolver.HasFeature(org, entitlement.FeatureTasks) {
		return nil, domain.ErrFeatureNotAvailable
	}

	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	task := &model.Task{
		OrganizationID: orgID,
		ProjectID:      input.ProjectID,
		Title:          input.Title,
		Description:    input.Description,
		Status:         model.TaskTodo,
		Priority:       priority,
		AssigneeID:     input.AssigneeID,
		CreatedByID:    createdBy,
		DueDate:        input.DueDate,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Transition moves a task along the board flow, stamping completion time
// when it reaches done.
func (s *TaskService) Transition(ctx context.Context, orgID, taskID uuid.UUID, next model.TaskStatus) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.OrganizationID != orgID {
		return nil, domain.ErrTaskNotFound
	}

	if !task.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, task.Status, next)
	}

	task.Status = next
	switch next {
	case model.TaskDone:
		now := s.now()
		task.CompletedAt = &now
	case model.TaskTodo:
		task.CompletedAt = nil
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Assign sets or clears a task's assignee.
func (s *TaskService) Assign(ctx context.Context, orgID, taskID uuid.UUID, assigneeID *uuid.UUID) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.OrganizationID != orgID {
		return nil, domain.ErrTaskNotFound
	}

	task.AssigneeID = assigneeID
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Comment appends a comment to a task.
func (s *TaskService) Comment(ctx context.Context, orgID, taskID, authorID uuid.UUID, body string) (*model.TaskComment, error) {
	if body == "" {
		return nil, fmt.Errorf("%w: empty comment", domain.ErrInvalidInput)
	}

	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.OrganizationID != orgID {
		return nil, domain.ErrTaskNotFound
	}

	comment := &model.TaskComment{
		TaskID:   task.ID,
		AuthorID: authorID,
		Body:     body,
	}
	if err := s.repo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// List returns a page of the organization's tasks.
func (s *TaskService) List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*model.Task, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return s.repo.FindByOrganization(ctx, orgID, offset, limit)
}
