// internal/service/attendance.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/staffhubhq/staffhub/internal/domain"
	"github.com/staffhubhq/staffhub/internal/model"
	"github.com/staffhubhq/staffhub/internal/repository"
	"github.com/staffhubhq/staffhub/internal/schedule"
)

// halfDayHours is the worked-hours threshold below which a completed day is
// recorded as half_day.
const halfDayHours = 4.0

type AttendanceService struct {
	repo     repository.AttendanceRepositoryIface
	orgRepo  repository.OrganizationRepositoryIface
	userRepo repository.UserRepositoryIface
	now      func() time.Time
}

func NewAttendanceService(
	repo repository.AttendanceRepositoryIface,
	orgRepo repository.OrganizationRepositoryIface,
	userRepo repository.UserRepositoryIface,
) *AttendanceService {
	return &AttendanceService{
		repo:     repo,
		orgRepo:  orgRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Tests only.
func (s *AttendanceService) WithClock(now func() time.Time) *AttendanceService {
	s.now = now
	return s
}

// ClockIn opens today's attendance row for the user, evaluating lateness
// against the organization's schedule. At most one row per user per day; a
// racing duplicate is rejected by the database unique constraint.
func (s *AttendanceService) ClockIn(ctx context.Context, userID uuid.UUID) (*model.Attendance, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.OrganizationID == nil {
		return nil, domain.ErrOrganizationNotFound
	}

	org, err := s.orgRepo.FindByID(ctx, *user.OrganizationID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if !schedule.IsWorkDay(org, today) {
		return nil, domain.ErrNotWorkDay
	}

	if _, err := s.repo.FindByUserAndDate(ctx, userID, today); err == nil {
		return nil, domain.ErrAlreadyClockedIn
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	att := &model.Attendance{
		UserID:         userID,
		OrganizationID: org.ID,
		Date:           today,
		ClockIn:        &now,
		IsLate:         schedule.IsClockInLate(org, now),
		Status:         model.AttendancePresent,
	}
	if err := s.repo.Create(ctx, att); err != nil {
		return nil, err
	}
	return att, nil
}

// ClockOut closes today's attendance row, computing total hours. Rows are
// not mutated after clock-out except administratively.
func (s *AttendanceService) ClockOut(ctx context.Context, userID uuid.UUID) (*model.Attendance, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	att, err := s.repo.FindByUserAndDate(ctx, userID, today)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotClockedIn
		}
		return nil, err
	}

	if att.ClockIn == nil {
		return nil, domain.ErrNotClockedIn
	}
	if att.ClockOut != nil {
		return nil, domain.ErrAlreadyClockedOut
	}

	att.ClockOut = &now
	att.TotalHours = now.Sub(*att.ClockIn).Hours()
	if att.TotalHours < halfDayHours {
		att.Status = model.AttendanceHalfDay
	}

	if err := s.repo.Update(ctx, att); err != nil {
		return nil, err
	}
	return att, nil
}

// History returns a page of the user's attendance rows, newest first.
func (s *AttendanceService) History(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*model.Attendance, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 31
	}
	return s.repo.FindByUser(ctx, userID, offset, limit)
}

// Summary aggregates the organization's attendance over a date span.
func (s *AttendanceService) Summary(ctx context.Context, orgID uuid.UUID, from, to time.Time) (*repository.AttendanceSummary, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: summary range ends before it starts", domain.ErrInvalidInput)
	}
	return s.repo.SummaryByOrganization(ctx, orgID, from, to)
}

// MarkOnLeave writes on_leave rows for each workday in an approved leave
// span. Existing rows for those dates are left alone.
func (s *AttendanceService) MarkOnLeave(ctx context.Context, userID, orgID uuid.UUID, from, to time.Time) error {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return err
	}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if !schedule.IsWorkDay(org, d) {
			continue
		}
		if _, err := s.repo.FindByUserAndDate(ctx, userID, d); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		att := &model.Attendance{
			UserID:         userID,
			OrganizationID: orgID,
			Date:           d,
			Status:         model.AttendanceOnLeave,
		}
		if err := s.repo.Create(ctx, att); err != nil {
			return err
		}
	}
	return nil
}
