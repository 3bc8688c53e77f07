package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carelink-backend/shared/database/models"
	"carelink-backend/shared/pipeline"
)

// MembershipStore executes membership mutations
type MembershipStore struct {
	DB *gorm.DB
}

// Get loads one membership with its active role grants
func (s *MembershipStore) Get(ctx context.Context, id uuid.UUID) (*models.Membership, *pipeline.Failure) {
	var membership models.Membership
	err := s.DB.WithContext(ctx).
		Preload("Roles", "revoked_at IS NULL").
		Preload("Roles.Role").
		Preload("Profile").
		First(&membership, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pipeline.Validation("membership_id", "Membership not found")
		}
		return nil, pipeline.Backend("load membership", err)
	}
	return &membership, nil
}

// ResolveRoles loads role definitions by id and rejects unknown ids
func (s *MembershipStore) ResolveRoles(ctx context.Context, roleIDs []uuid.UUID) ([]models.Role, *pipeline.Failure) {
	var roles []models.Role
	if err := s.DB.WithContext(ctx).Where("id IN ?", roleIDs).Find(&roles).Error; err != nil {
		return nil, pipeline.Backend("load roles", err)
	}
	if len(roles) != len(roleIDs) {
		return nil, pipeline.Validation("role_ids", "One or more selected roles do not exist")
	}
	return roles, nil
}

// AssignRoles replaces a membership's active role set through the backend
// procedure, then refreshes the profile's claims. Requires at least one role
// so a membership never ends up grantless.
func (s *MembershipStore) AssignRoles(ctx context.Context, membership *models.Membership, roleIDs []uuid.UUID, grantedBy uuid.UUID) *pipeline.Failure {
	if len(roleIDs) == 0 {
		return pipeline.Validation("role_ids", "Select at least one role")
	}

	if failure := AssignMembershipRoles(ctx, s.DB, membership.ID, roleIDs, grantedBy); failure != nil {
		return failure
	}
	return RefreshProfileClaims(ctx, s.DB, membership.ProfileID)
}

// Remove deletes a membership after revoking its remaining grants. The
// self-targeting guard lives in the authorization gate, not here.
func (s *MembershipStore) Remove(ctx context.Context, membership *models.Membership, removedBy uuid.UUID) *pipeline.Failure {
	now := time.Now().UTC()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.MembershipRole{}).
			Where("membership_id = ? AND revoked_at IS NULL", membership.ID).
			Updates(map[string]interface{}{"revoked_by": removedBy, "revoked_at": now}).Error
		if err != nil {
			return err
		}
		return tx.Delete(&models.Membership{}, "id = ?", membership.ID).Error
	})
	if err != nil {
		return TranslateError("remove membership", err)
	}

	return RefreshProfileClaims(ctx, s.DB, membership.ProfileID)
}

// ActiveRoleKeys returns the keys of a membership's unrevoked grants
func ActiveRoleKeys(membership *models.Membership) []string {
	var keys []string
	for _, grant := range membership.Roles {
		if grant.RevokedAt == nil {
			keys = append(keys, grant.Role.Key)
		}
	}
	return keys
}
