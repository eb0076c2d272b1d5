// internal/repository/task.go
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

type TaskRepositoryIface interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	FindByOrganization(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*model.Task, int64, error)
	FindByAssignee(ctx context.Context, userID uuid.UUID) ([]*model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddComment(ctx context.Context, comment *model.TaskComment) error
	FindComments(ctx context.Context, taskID uuid.UUID) ([]*model.TaskComment, error)
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("finding task: %w", err)
	}
	return &task, nil
}

func (r *TaskRepository) FindByOrganization(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*model.Task, int64, error) {
	var tasks []*model.Task
	var count int64

	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("organization_id = ?", orgID).
		Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("counting tasks: %w", err)
	}

	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, 0, fmt.Errorf("finding tasks: %w", err)
	}

	return tasks, count, nil
}

func (r *TaskRepository) FindByAssignee(ctx context.Context, userID uuid.UUID) ([]*model.Task, error) {
	var tasks []*model.Task
	err := r.db.WithContext(ctx).
		Where("assignee_id = ?", userID).
		Order("due_date ASC NULLS LAST").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("finding assigned tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.TaskComment{}).Error; err != nil {
			return fmt.Errorf("deleting task comments: %w", err)
		}
		if err := tx.Delete(&model.Task{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting task: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

func (r *TaskRepository) AddComment(ctx context.Context, comment *model.TaskComment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("creating task comment: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindComments(ctx context.Context, taskID uuid.UUID) ([]*model.TaskComment, error) {
	var comments []*model.TaskComment
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("finding task comments: %w", err)
	}
	return comments, nil
}
