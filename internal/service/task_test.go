package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/staffhubhq/staffhub/internal/domain"
	"github.com/staffhubhq/staffhub/internal/entitlement"
	"github.com/staffhubhq/staffhub/internal/mocks"
	"github.com/staffhubhq/staffhub/internal/model"
	"github.com/staffhubhq/staffhub/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type taskFixture struct {
	taskRepo *mocks.MockTaskRepositoryIface
	orgRepo  *mocks.MockOrganizationRepositoryIface
	userRepo *mocks.MockUserRepositoryIface
	svc      *service.TaskService
}

func newTaskFixture(t *testing.T) *taskFixture {
	ctrl := gomock.NewController(t)

	taskRepo := mocks.NewMockTaskRepositoryIface(ctrl)
	orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
	userRepo := mocks.NewMockUserRepositoryIface(ctrl)

	resolver := entitlement.NewResolver(entitlement.DefaultPlans(), userRepo)
	svc := service.NewTaskService(taskRepo, orgRepo, resolver).
		WithClock(func() time.Time { return testNow })

	return &taskFixture{taskRepo: taskRepo, orgRepo: orgRepo, userRepo: userRepo, svc: svc}
}

func TestTaskCreate(t *testing.T) {
	input := service.CreateTaskInput{Title: "Ship the release", Priority: model.PriorityHigh}

	t.Run("creates a todo task", func(t *testing.T) {
		f := newTaskFixture(t)
		org := starterOrg(t)

		f.orgRepo.EXPECT().FindByID(gomock.Any(), org.ID).Return(org, nil)
		f.taskRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		task, err := f.svc.Create(context.Background(), org.ID, uuid.New(), input)
		require.NoError(t, err)

		assert.Equal(t, model.TaskTodo, task.Status)
		assert.Equal(t, model.PriorityHigh, task.Priority)
		assert.Equal(t, org.ID, task.OrganizationID)
	})

	t.Run("rejects when the plan lacks the tasks feature", func(t *testing.T) {
		f := newTaskFixture(t)
		org := starterOrg(t)
		org.Features["tasks"] = false

		f.orgRepo.EXPECT().FindByID(gomock.Any(), org.ID).Return(org, nil)

		_, err := f.svc.Create(context.Background(), org.ID, uuid.New(), input)
		assert.ErrorIs(t, err, domain.ErrFeatureNotAvailable)
	})
}

func TestTaskTransitions(t *testing.T) {
	orgID := uuid.New()

	taskIn := func(status model.TaskStatus) *model.Task {
		return &model.Task{ID: uuid.New(), OrganizationID: orgID, Status: status}
	}

	t.Run("allowed moves step forward or reset to todo", func(t *testing.T) {
		allowed := []struct {
			from, to model.TaskStatus
		}{
			{model.TaskTodo, model.TaskInProgress},
			{model.TaskInProgress, model.TaskReview},
			{model.TaskReview, model.TaskDone},
			{model.TaskInProgress, model.TaskTodo},
			{model.TaskDone, model.TaskTodo},
		}

		for _, tt := range allowed {
			f := newTaskFixture(t)
			task := taskIn(tt.from)

			f.taskRepo.EXPECT().FindByID(gomock.Any(), task.ID).Return(task, nil)
			f.taskRepo.EXPECT().Update(gomock.Any(), task).Return(nil)

			got, err := f.svc.Transition(context.Background(), orgID, task.ID, tt.to)
			require.NoError(t, err, "%s -> %s", tt.from, tt.to)
			assert.Equal(t, tt.to, got.Status)
		}
	})

	t.Run("skipping columns is rejected", func(t *testing.T) {
		blocked := []struct {
			from, to model.TaskStatus
		}{
			{model.TaskTodo, model.TaskReview},
			{model.TaskTodo, model.TaskDone},
			{model.TaskInProgress, model.TaskDone},
			{model.TaskDone, model.TaskReview},
			{model.TaskTodo, model.TaskTodo},
		}

		for _, tt := range blocked {
			f := newTaskFixture(t)
			task := taskIn(tt.from)

			f.taskRepo.EXPECT().FindByID(gomock.Any(), task.ID).Return(task, nil)

			_, err := f.svc.Transition(context.Background(), orgID, task.ID, tt.to)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s -> %s", tt.from, tt.to)
		}
	})

	t.Run("reaching done stamps completion, resetting clears it", func(t *testing.T) {
		f := newTaskFixture(t)
		task := taskIn(model.TaskReview)

		f.taskRepo.EXPECT().FindByID(gomock.Any(), task.ID).Return(task, nil).Times(2)
		f.taskRepo.EXPECT().Update(gomock.Any(), task).Return(nil).Times(2)

		got, err := f.svc.Transition(context.Background(), orgID, task.ID, model.TaskDone)
		require.NoError(t, err)
		require.NotNil(t, got.CompletedAt)
		assert.Equal(t, testNow, *got.CompletedAt)

		got, err = f.svc.Transition(context.Background(), orgID, task.ID, model.TaskTodo)
		require.NoError(t, err)
		assert.Nil(t, got.CompletedAt)
	})

	t.Run("another organization's task reads as not found", func(t *testing.T) {
		f := newTaskFixture(t)
		task := &model.Task{ID: uuid.New(), OrganizationID: uuid.New(), Status: model.TaskTodo}

		f.taskRepo.EXPECT().FindByID(gomock.Any(), task.ID).Return(task, nil)

		_, err := f.svc.Transition(context.Background(), orgID, task.ID, model.TaskInProgress)
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})
}

func TestTaskComment(t *testing.T) {
	f := newTaskFixture(t)
	orgID := uuid.New()
	authorID := uuid.New()
	task := &model.Task{ID: uuid.New(), OrganizationID: orgID}

	t.Run("appends a comment", func(t *testing.T) {
		f.taskRepo.EXPECT().FindByID(gomock.Any(), task.ID).Return(task, nil)
		f.taskRepo.EXPECT().AddComment(gomock.Any(), gomock.Any()).Return(nil)

		comment, err := f.svc.Comment(context.Background(), orgID, task.ID, authorID, "looks good")
		require.NoError(t, err)
		assert.Equal(t, task.ID, comment.TaskID)
		assert.Equal(t, authorID, comment.AuthorID)
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		_, err := f.svc.Comment(context.Background(), orgID, task.ID, authorID, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
