// internal/repository/attendance.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/staffhubhq/staffhub/internal/domain"
	"github.com/staffhubhq/staffhub/internal/model"
	"gorm.io/gorm"
)

type AttendanceRepositoryIface interface {
	Create(ctx context.Context, att *model.Attendance) error
	FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*model.Attendance, error)
	FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*model.Attendance, int64, error)
	Update(ctx context.Context, att *model.Attendance) error
	SummaryByOrganization(ctx context.Context, orgID uuid.UUID, from, to time.Time) (*AttendanceSummary, error)
}

// AttendanceSummary aggregates an organization's attendance over a date span.
type AttendanceSummary struct {
	Present int64 `json:"present"`
	Late    int64 `json:"late"`
	HalfDay int64 `json:"half_day"`
	OnLeave int64 `json:"on_leave"`
}

type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) Create(ctx context.Context, att *model.Attendance) error {
	if err := r.db.WithContext(ctx).Create(att).Error; err != nil {
		// The unique index on (user_id, date) is the arbiter when two
		// clock-ins race for the same day.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyClockedIn
		}
		return fmt.Errorf("creating attendance: %w", err)
	}
	return nil
}

func (r *AttendanceRepository) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*model.Attendance, error) {
	var att model.Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date.Format("2006-01-02")).
		First(&att).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finding attendance: %w", err)
	}
	return &att, nil
}

func (r *AttendanceRepository) FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*model.Attendance, int64, error) {
	var rows []*model.Attendance
	var count int64

	if err := r.db.WithContext(ctx).Model(&model.Attendance{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("counting attendance: %w", err)
	}

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Offset(offset).Limit(limit).
		Order("date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("finding attendance: %w", err)
	}

	return rows, count, nil
}

func (r *AttendanceRepository) Update(ctx context.Context, att *model.Attendance) error {
	if err := r.db.WithContext(ctx).Save(att).Error; err != nil {
		return fmt.Errorf("updating attendance: %w", err)
	}
	return nil
}

func (r *AttendanceRepository) SummaryByOrganization(ctx context.Context, orgID uuid.UUID, from, to time.Time) (*AttendanceSummary, error) {
	summary := &AttendanceSummary{}

	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.Attendance{}).
			Where("organization_id = ?", orgID).
			Where("date BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	if err := base().Where("status = ?", model.AttendancePresent).Count(&summary.Present).Error; err != nil {
		return nil, fmt.Errorf("counting present: %w", err)
	}
	if err := base().Where("is_late = ?", true).Count(&summary.Late).Error; err != nil {
		return nil, fmt.Errorf("counting late: %w", err)
	}
	if err := base().Where("status = ?", model.AttendanceHalfDay).Count(&summary.HalfDay).Error; err != nil {
		return nil, fmt.Errorf("counting half days: %w", err)
	}
	if err := base().Where("status = ?", model.AttendanceOnLeave).Count(&summary.OnLeave).Error; err != nil {
		return nil, fmt.Errorf("counting on leave: %w", err)
	}

	return summary, nil
}
