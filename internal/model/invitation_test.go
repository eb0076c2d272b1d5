package model_test

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/staffhubhq/staffhub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func pendingInvitation(expiresAt time.Time) *model.UserInvitation {
	return &model.UserInvitation{
		ID:        uuid.New(),
		Email:     "invitee@example.com",
		Status:    model.InvitationPending,
		ExpiresAt: expiresAt,
	}
}

func TestInvitationValidity(t *testing.T) {
	now := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)

	t.Run("pending and unexpired is valid", func(t *testing.T) {
		inv := pendingInvitation(now.Add(time.Hour))
		assert.True(t, inv.IsValid(now))
		assert.Equal(t, model.InvitationPending, inv.EffectiveStatus(now))
	})

	t.Run("expiry boundary", func(t *testing.T) {
		inv := pendingInvitation(now)
		assert.False(t, inv.IsExpired(now), "deadline itself is not yet expired")
		assert.True(t, inv.IsExpired(now.Add(time.Second)))

		assert.True(t, inv.IsValid(now))
		assert.False(t, inv.IsValid(now.Add(time.Second)))
	})

	t.Run("expired invitation derives expired status without a write", func(t *testing.T) {
		inv := pendingInvitation(now.Add(-time.Hour))
		assert.False(t, inv.IsValid(now))
		assert.Equal(t, model.InvitationExpired, inv.EffectiveStatus(now))
		assert.Equal(t, model.InvitationPending, inv.Status, "stored status stays pending")
	})

	t.Run("cancelled invitation is never valid", func(t *testing.T) {
		inv := pendingInvitation(now.Add(time.Hour))
		inv.MarkAsCancelled()

		assert.False(t, inv.IsValid(now))
		assert.Equal(t, model.InvitationCancelled, inv.EffectiveStatus(now))
	})

	t.Run("cancelled status wins over expiry in presentation", func(t *testing.T) {
		inv := pendingInvitation(now.Add(-time.Hour))
		inv.MarkAsCancelled()
		assert.Equal(t, model.InvitationCancelled, inv.EffectiveStatus(now))
	})
}

func TestInvitationAcceptRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)
	userID := uuid.New()

	inv := pendingInvitation(now.Add(time.Hour))
	assert.True(t, inv.IsValid(now))

	inv.MarkAsAccepted(now, userID)

	assert.Equal(t, model.InvitationAccepted, inv.Status)
	assert.True(t, inv.IsAccepted())
	assert.Equal(t, userID, *inv.UserID)
	assert.Equal(t, now, *inv.AcceptedAt)

	// Accepted invitations cannot be redeemed again.
	assert.False(t, inv.IsValid(now))
	assert.Equal(t, model.InvitationAccepted, inv.EffectiveStatus(now.Add(48*time.Hour)))
}

// Two racing invites for the same email both pass the service-level
// pre-check; the schema must carry a partial unique index over
// (email, organization_id) restricted to pending rows so the second
// insert fails at the database.
func TestInvitationSchemaPendingUniqueness(t *testing.T) {
	s, err := schema.Parse(&model.UserInvitation{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	indexes := s.ParseIndexes()
	idx, ok := indexes["idx_invitations_pending_email"]
	require.True(t, ok, "pending uniqueness index not declared")

	assert.Equal(t, "UNIQUE", idx.Class)
	assert.Equal(t, "status = 'pending'", idx.Where)

	columns := make([]string, len(idx.Fields))
	for i, f := range idx.Fields {
		columns[i] = f.DBName
	}
	assert.ElementsMatch(t, []string{"email", "organization_id"}, columns)
}
