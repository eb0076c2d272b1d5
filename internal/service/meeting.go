// internal/service/meeting.go
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

type MeetingService struct {
	repo     *repository.MeetingRepository
	orgRepo  repository.OrganizationRepositoryIface
	resolver *entitlement.Resolver
	validate *validator.Validate
	now      func() time.Time
}

func NewMeetingService(
	repo *repository.MeetingRepository,
	orgRepo repository.OrganizationRepositoryIface,
	resolver *entitlement.Resolver,
) *MeetingService {
	return &MeetingService{
		repo:     repo,
		orgRepo:  orgRepo,
		resolver: resolver,
		validate: validator.New(),
		now:      time.Now,
	}
}

type ScheduleMeetingInput struct {
	Title          string      `json:"title" validate:"required"`
	Agenda         string      `json:"agenda"`
	Location       string      `json:"location"`
	StartsAt       time.Time   `json:"starts_at" validate:"required"`
	EndsAt         time.Time   `json:"ends_at" validate:"required"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
}

// Schedule books a meeting with its participants, gated on the meetings
// entitlement.
func (s *MeetingService) Schedule(ctx context.Context, orgID, organizerID uuid.UUID, input ScheduleMeetingInput) (*model.Meeting, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !input.EndsAt.After(input.StartsAt) {
		return nil, domain.ErrMeetingEndsTooSoon
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !s.resolver.HasFeature(org, entitlement.FeatureMeetings) {
		return nil, domain.ErrFeatureNotAvailable
	}

	meeting := &model.Meeting{
		OrganizationID: orgID,
		Title:          input.Title,
		Agenda:         input.Agenda,
		Location:       input.Location,
		StartsAt:       input.StartsAt,
		EndsAt:         input.EndsAt,
		Status:         model.MeetingScheduled,
		OrganizerID:    organizerID,
	}

	// Organizer always attends
	participants := input.ParticipantIDs
	found := false
	for _, id := range participants {
		if id == organizerID {
			found = true
			break
		}
	}
	if !found {
		participants = append(participants, organizerID)
	}

	if err := s.repo.Create(ctx, meeting, participants); err != nil {
		return nil, err
	}
	return meeting, nil
}

// Cancel marks a scheduled meeting cancelled.
func (s *MeetingService) Cancel(ctx context.Context, orgID, meetingID uuid.UUID) error {
	meeting, err := s.repo.FindByID(ctx, meetingID)
	if err != nil {
		return err
	}
	if meeting.OrganizationID != orgID {
		return domain.ErrMeetingNotFound
	}

	meeting.Status = model.MeetingCancelled
	return s.repo.Update(ctx, meeting)
}

// Upcoming lists the organization's scheduled meetings from now on.
func (s *MeetingService) Upcoming(ctx context.Context, orgID uuid.UUID) ([]*model.Meeting, error) {
	return s.repo.FindUpcoming(ctx, orgID, s.now())
}
