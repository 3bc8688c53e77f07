package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carelink-backend/shared/database/models"
	"carelink-backend/shared/pipeline"
)

// InviteStore executes invite mutations. The portal only creates invites;
// acceptance, cancellation and expiry belong to the onboarding flow.
type InviteStore struct {
	DB *gorm.DB
}

// Create inserts a new pending invite and fills in its generated id
func (s *InviteStore) Create(ctx context.Context, invite *models.Invite) *pipeline.Failure {
	invite.Status = models.InviteStatusPending
	if err := s.DB.WithContext(ctx).Create(invite).Error; err != nil {
		return TranslateError("create invite", err)
	}
	return nil
}

// CountPendingForEmail reports existing pending invites for an address within
// an organization, used to reject duplicate outstanding offers.
func (s *InviteStore) CountPendingForEmail(ctx context.Context, orgID uuid.UUID, email string) (int64, *pipeline.Failure) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Invite{}).
		Where("organization_id = ? AND email = ? AND status = ?", orgID, email, models.InviteStatusPending).
		Count(&count).Error
	if err != nil {
		return 0, pipeline.Backend("count pending invites", err)
	}
	return count, nil
}
