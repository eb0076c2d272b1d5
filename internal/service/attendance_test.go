package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/staffhubhq/staffhub/internal/domain"
	"github.com/staffhubhq/staffhub/internal/mocks"
	"github.com/staffhubhq/staffhub/internal/model"
	"github.com/staffhubhq/staffhub/internal/repository"
	"github.com/staffhubhq/staffhub/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type attendanceFixture struct {
	attRepo  *mocks.MockAttendanceRepositoryIface
	orgRepo  *mocks.MockOrganizationRepositoryIface
	userRepo *mocks.MockUserRepositoryIface
	svc      *service.AttendanceService
	clock    *time.Time
}

func newAttendanceFixture(t *testing.T) *attendanceFixture {
	ctrl := gomock.NewController(t)

	attRepo := mocks.NewMockAttendanceRepositoryIface(ctrl)
	orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
	userRepo := mocks.NewMockUserRepositoryIface(ctrl)

	// Thursday 2025-06-12, 09:10 local.
	clock := time.Date(2025, 6, 12, 9, 10, 0, 0, time.UTC)
	svc := service.NewAttendanceService(attRepo, orgRepo, userRepo).
		WithClock(func() time.Time { return clock })

	return &attendanceFixture{
		attRepo:  attRepo,
		orgRepo:  orgRepo,
		userRepo: userRepo,
		svc:      svc,
		clock:    &clock,
	}
}

func scheduleOrg() *model.Organization {
	return &model.Organization{
		ID:                   uuid.New(),
		Status:               model.OrgStatusActive,
		WorkStartTime:        "09:00",
		WorkEndTime:          "17:00",
		LateThresholdMinutes: 15,
	}
}

func memberOf(org *model.Organization) *model.User {
	return &model.User{
		ID:             uuid.New(),
		OrganizationID: &org.ID,
		Status:         model.UserStatusActive,
	}
}

func TestClockIn(t *testing.T) {
	t.Run("on time within the grace period", func(t *testing.T) {
		f := newAttendanceFixture(t)
		org := scheduleOrg()
		user := memberOf(org)
		today := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)

		f.userRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)
		f.orgRepo.EXPECT().FindByID(gomock.Any(), org.ID).Return(org, nil)
		f.attRepo.EXPECT().FindByUserAndDate(gomock.Any(), user.ID, today).Return(nil, domain.ErrNotFound)
		f.attRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		att, err := f.svc.ClockIn(context.Background(), user.ID)
		require.NoError(t, err)

		assert.False(t, att.IsLate)
		assert.Equal(t, model.AttendancePresent, att.Status)
		assert.Equal(t, today, att.Date)
		assert.Equal(t, *f.clock, *att.ClockIn)
	})

	t.Run("one second past the threshold is late", func(t *testing.T) {
		f := newAttendanceFixture(t)
		*f.clock = time.Date(2025, 6, 12, 9, 15, 1, 0, time.UTC)

		org := scheduleOrg()
		user := memberOf(org)
		today := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)

		f.userRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)
		f.orgRepo.EXPECT().FindByID(gomock.Any(), org.ID).Return(org, nil)
		f.attRepo.EXPECT().FindByUserAndDate(gomock.Any(), user.ID, today).Return(nil, domain.ErrNotFound)
		f.attRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		att, err := f.svc.ClockIn(context.Background(), user.ID)
		require.NoError(t, err)
		assert.True(t, att.IsLate)
	})

	t.Run("rejects a second clock-in the same day", func(t *testing.T) {
		f := newAttendanceFixture(t)
		org := scheduleOrg()
		user := memberOf(org)
		today := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)

		f.userRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)
		f.orgRepo.EXPECT().FindByID(gomock.Any(), org.ID).Return(org, nil)
		f.attRepo.EXPECT().FindByUserAndDate(gomock.Any(), user.ID, today).
			Return(&model.Attendance{ID: uuid.New()}, nil)

		_, err := f.svc.ClockIn(context.Background(), user.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadyClockedIn)
	})

	t.Run("rejects a non-workday", func(t *testing.T) {
		f := newAttendanceFixture(t)
		// Saturday 2025-06-14.
		*f.clock = time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)

		org := scheduleOrg()
		user := memberOf(org)

		f.userRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)
		f.orgRepo.EXPECT().FindByID(gomock.Any(), org.ID).Return(org, nil)

		_, err := f.svc.ClockIn(context.Background(), user.ID)
		assert.ErrorIs(t, err, domain.ErrNotWorkDay)
	})

	t.Run("rejects a user without an organization", func(t *testing.T) {
		f := newAttendanceFixture(t)
		user := &model.User{ID: uuid.New()}

		f.userRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)

		_, err := f.svc.ClockIn(context.Background(), user.ID)
		assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
	})
}

func TestClockOut(t *testing.T) {
	today := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)

	t.Run("computes total hours for a full day", func(t *testing.T) {
		f := newAttendanceFixture(t)
		*f.clock = time.Date(2025, 6, 12, 17, 10, 0, 0, time.UTC)
		userID := uuid.New()

		clockIn := time.Date(2025, 6, 12, 9, 10, 0, 0, time.UTC)
		att := &model.Attendance{
			ID:      uuid.New(),
			UserID:  userID,
			Date:    today,
			ClockIn: &clockIn,
			Status:  model.AttendancePresent,
		}

		f.attRepo.EXPECT().FindByUserAndDate(gomock.Any(), userID, today).Return(att, nil)
		f.attRepo.EXPECT().Update(gomock.Any(), att).Return(nil)

		out, err := f.svc.ClockOut(context.Background(), userID)
		require.NoError(t, err)

		assert.InDelta(t, 8.0, out.TotalHours, 0.001)
		assert.Equal(t, model.AttendancePresent, out.Status)
		assert.Equal(t, *f.clock, *out.ClockOut)
	})

	t.Run("under four hours is a half day", func(t *testing.T) {
		f := newAttendanceFixture(t)
		*f.clock = time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC)
		userID := uuid.New()

		clockIn := time.Date(2025, 6, 12, 9, 10, 0, 0, time.UTC)
		att := &model.Attendance{
			ID:      uuid.New(),
			UserID:  userID,
			Date:    today,
			ClockIn: &clockIn,
			Status:  model.AttendancePresent,
		}

		f.attRepo.EXPECT().FindByUserAndDate(gomock.Any(), userID, today).Return(att, nil)
		f.attRepo.EXPECT().Update(gomock.Any(), att).Return(nil)

		out, err := f.svc.ClockOut(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, model.AttendanceHalfDay, out.Status)
	})

	t.Run("rejects without a clock-in", func(t *testing.T) {
		f := newAttendanceFixture(t)
		userID := uuid.New()

		f.attRepo.EXPECT().FindByUserAndDate(gomock.Any(), userID, today).Return(nil, domain.ErrNotFound)

		_, err := f.svc.ClockOut(context.Background(), userID)
		assert.ErrorIs(t, err, domain.ErrNotClockedIn)
	})

	t.Run("rejects a second clock-out", func(t *testing.T) {
		f := newAttendanceFixture(t)
		userID := uuid.New()

		clockIn := time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC)
		clockOut := time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC)
		att := &model.Attendance{
			ID:       uuid.New(),
			UserID:   userID,
			Date:     today,
			ClockIn:  &clockIn,
			ClockOut: &clockOut,
		}

		f.attRepo.EXPECT().FindByUserAndDate(gomock.Any(), userID, today).Return(att, nil)

		_, err := f.svc.ClockOut(context.Background(), userID)
		assert.ErrorIs(t, err, domain.ErrAlreadyClockedOut)
	})
}

func TestSummary(t *testing.T) {
	f := newAttendanceFixture(t)
	orgID := uuid.New()
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	t.Run("inverted range is rejected", func(t *testing.T) {
		_, err := f.svc.Summary(context.Background(), orgID, to, from)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("delegates to the repository", func(t *testing.T) {
		summary := &repository.AttendanceSummary{Present: 40, Late: 3, HalfDay: 2, OnLeave: 5}
		f.attRepo.EXPECT().SummaryByOrganization(gomock.Any(), orgID, from, to).
			Return(summary, nil)

		got, err := f.svc.Summary(context.Background(), orgID, from, to)
		require.NoError(t, err)
		assert.Equal(t, int64(40), got.Present)
		assert.Equal(t, int64(3), got.Late)
	})
}

func TestMarkOnLeave(t *testing.T) {
	f := newAttendanceFixture(t)
	org := scheduleOrg()
	userID := uuid.New()

	// Thursday through Monday: Sat/Sun are skipped, Thursday already has a
	// row, so only Friday and Monday are written.
	from := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	f.orgRepo.EXPECT().FindByID(gomock.Any(), org.ID).Return(org, nil)
	f.attRepo.EXPECT().FindByUserAndDate(gomock.Any(), userID, from).
		Return(&model.Attendance{ID: uuid.New()}, nil)
	f.attRepo.EXPECT().FindByUserAndDate(gomock.Any(), userID, from.AddDate(0, 0, 1)).
		Return(nil, domain.ErrNotFound)
	f.attRepo.EXPECT().FindByUserAndDate(gomock.Any(), userID, to).
		Return(nil, domain.ErrNotFound)

	var created []model.Attendance
	f.attRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, att *model.Attendance) error {
			created = append(created, *att)
			return nil
		}).Times(2)

	require.NoError(t, f.svc.MarkOnLeave(context.Background(), userID, org.ID, from, to))

	require.Len(t, created, 2)
	assert.Equal(t, model.AttendanceOnLeave, created[0].Status)
	assert.Equal(t, from.AddDate(0, 0, 1), created[0].Date)
	assert.Equal(t, to, created[1].Date)
}
