// internal/repository/meeting.go
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

type MeetingRepository struct {
	db *gorm.DB
}

func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// Create stores the meeting and its participant rows in one transaction.
func (r *MeetingRepository) Create(ctx context.Context, meeting *model.Meeting, participantIDs []uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(meeting).Error; err != nil {
			return fmt.Errorf("creating meeting: %w", err)
		}

		for _, userID := range participantIDs {
			participant := &model.MeetingParticipant{
				MeetingID: meeting.ID,
				UserID:    userID,
			}
			if err := tx.Create(participant).Error; err != nil {
				return fmt.Errorf("adding participant: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

func (r *MeetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Meeting, error) {
	var meeting model.Meeting
	err := r.db.WithContext(ctx).
		Preload("Participants").
		First(&meeting, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("finding meeting: %w", err)
	}
	return &meeting, nil
}

// FindUpcoming returns scheduled meetings for an organization starting after
// the given instant.
func (r *MeetingRepository) FindUpcoming(ctx context.Context, orgID uuid.UUID, after time.Time) ([]*model.Meeting, error) {
	var meetings []*model.Meeting
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Where("status = ?", model.MeetingScheduled).
		Where("starts_at > ?", after).
		Order("starts_at ASC").
		Find(&meetings).Error
	if err != nil {
		return nil, fmt.Errorf("finding upcoming meetings: %w", err)
	}
	return meetings, nil
}

func (r *MeetingRepository) Update(ctx context.Context, meeting *model.Meeting) error {
	if err := r.db.WithContext(ctx).Save(meeting).Error; err != nil {
		return fmt.Errorf("updating meeting: %w", err)
	}
	return nil
}
