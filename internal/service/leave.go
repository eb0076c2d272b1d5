// internal/service/leave.go
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

type LeaveService struct {
	repo       *repository.LeaveRepository
	orgRepo    repository.OrganizationRepositoryIface
	attendance *AttendanceService
	resolver   *entitlement.Resolver
	validate   *validator.Validate
	now        func() time.Time
}

func NewLeaveService(
	repo *repository.LeaveRepository,
	orgRepo repository.OrganizationRepositoryIface,
	attendance *AttendanceService,
	resolver *entitlement.Resolver,
) *LeaveService {
	return &LeaveService{
		repo:       repo,
		orgRepo:    orgRepo,
		attendance: attendance,
		resolver:   resolver,
		validate:   validator.New(),
		now:        time.Now,
	}
}

type LeaveRequestInput struct {
	Type      model.LeaveType `json:"type" validate:"required,oneof=annual sick maternity unpaid"`
	StartDate time.Time       `json:"start_date" validate:"required"`
	EndDate   time.Time       `json:"end_date" validate:"required"`
	Reason    string          `json:"reason"`
}

// Request files a leave request, gated on the leave_management entitlement.
func (s *LeaveService) Request(ctx context.Context, orgID, userID uuid.UUID, input LeaveRequestInput) (*model.LeaveRequest, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, domain.ErrInvalidLeaveSpan
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !s.resolver.HasFeature(org, entitlement.FeatureLeaveManagement) {
		return nil, domain.ErrFeatureNotAvailable
	}

	leave := &model.LeaveRequest{
		OrganizationID: orgID,
		UserID:         userID,
		Type:           input.Type,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Reason:         input.Reason,
		Status:         model.LeavePending,
	}
	if err := s.repo.Create(ctx, leave); err != nil {
		return nil, err
	}
	return leave, nil
}

// Approve grants a pending request and writes on_leave attendance rows for
// the span's workdays.
func (s *LeaveService) Approve(ctx context.Context, orgID, leaveID, reviewerID uuid.UUID) (*model.LeaveRequest, error) {
	leave, err := s.review(ctx, orgID, leaveID, reviewerID, model.LeaveApproved)
	if err != nil {
		return nil, err
	}

	if err := s.attendance.MarkOnLeave(ctx, leave.UserID, orgID, leave.StartDate, leave.EndDate); err != nil {
		return nil, fmt.Errorf("marking attendance on leave: %w", err)
	}
	return leave, nil
}

// Reject declines a pending request.
func (s *LeaveService) Reject(ctx context.Context, orgID, leaveID, reviewerID uuid.UUID) (*model.LeaveRequest, error) {
	return s.review(ctx, orgID, leaveID, reviewerID, model.LeaveRejected)
}

func (s *LeaveService) review(ctx context.Context, orgID, leaveID, reviewerID uuid.UUID, verdict model.LeaveStatus) (*model.LeaveRequest, error) {
	leave, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		return nil, err
	}
	if leave.OrganizationID != orgID {
		return nil, domain.ErrLeaveNotFound
	}
	if leave.Status != model.LeavePending {
		return nil, domain.ErrLeaveNotPending
	}

	now := s.now()
	leave.Status = verdict
	leave.ReviewedByID = &reviewerID
	leave.ReviewedAt = &now
	if err := s.repo.Update(ctx, leave); err != nil {
		return nil, err
	}
	return leave, nil
}

// Pending lists the organization's open leave requests.
func (s *LeaveService) Pending(ctx context.Context, orgID uuid.UUID) ([]*model.LeaveRequest, error) {
	return s.repo.FindPendingByOrganization(ctx, orgID)
}
