// internal/repository/invitation.go
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

type InvitationRepositoryIface interface {
	Begin(ctx context.Context) (Transaction, error)

	Create(ctx context.Context, inv *model.UserInvitation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.UserInvitation, error)
	FindByToken(ctx context.Context, token string) (*model.UserInvitation, error)
	FindActiveByEmail(ctx context.Context, orgID uuid.UUID, email string, now time.Time) (*model.UserInvitation, error)
	FindByOrganization(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*model.UserInvitation, int64, error)
	Update(ctx context.Context, inv *model.UserInvitation) error
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
}

type InvitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// Begin starts a new database transaction and returns a Transaction instance.
func (r *InvitationRepository) Begin(ctx context.Context) (Transaction, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &gormTransaction{ctx: ctx, tx: tx}, nil
}

// Create inserts the invitation. A second pending invitation for the same
// (email, organization) loses to the partial unique index and is reported
// as a duplicate.
func (r *InvitationRepository) Create(ctx context.Context, inv *model.UserInvitation) error {
	if err := r.db.WithContext(ctx).Create(inv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateInvitation
		}
		return fmt.Errorf("creating invitation: %w", err)
	}
	return nil
}

func (r *InvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.UserInvitation, error) {
	var inv model.UserInvitation
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("finding invitation: %w", err)
	}
	return &inv, nil
}

func (r *InvitationRepository) FindByToken(ctx context.Context, token string) (*model.UserInvitation, error) {
	var inv model.UserInvitation
	if err := r.db.WithContext(ctx).First(&inv, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("finding invitation by token: %w", err)
	}
	return &inv, nil
}

// FindActiveByEmail returns the pending, unexpired invitation for an email
// within an organization, if one exists. The database's partial unique index
// is the real guarantee against duplicates; this read only gives callers a
// friendlier error before the write is attempted.
func (r *InvitationRepository) FindActiveByEmail(ctx context.Context, orgID uuid.UUID, email string, now time.Time) (*model.UserInvitation, error) {
	var inv model.UserInvitation
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND email = ?", orgID, email).
		Where("status = ?", model.InvitationPending).
		Where("expires_at >= ?", now).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("finding active invitation: %w", err)
	}
	return &inv, nil
}

func (r *InvitationRepository) FindByOrganization(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*model.UserInvitation, int64, error) {
	var invs []*model.UserInvitation
	var count int64

	if err := r.db.WithContext(ctx).Model(&model.UserInvitation{}).
		Where("organization_id = ?", orgID).
		Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("counting invitations: %w", err)
	}

	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&invs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("finding invitations: %w", err)
	}

	return invs, count, nil
}

func (r *InvitationRepository) Update(ctx context.Context, inv *model.UserInvitation) error {
	if err := r.db.WithContext(ctx).Save(inv).Error; err != nil {
		return fmt.Errorf("updating invitation: %w", err)
	}
	return nil
}

// ExpirePending stamps the stored status of lapsed pending invitations.
// Reads already treat them as expired; this sweep only keeps listings tidy
// and is run from staffctl, never from the request path.
func (r *InvitationRepository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.UserInvitation{}).
		Where("status = ?", model.InvitationPending).
		Where("expires_at < ?", now).
		Update("status", model.InvitationExpired)
	if result.Error != nil {
		return 0, fmt.Errorf("expiring invitations: %w", result.Error)
	}
	return result.RowsAffected, nil
}
