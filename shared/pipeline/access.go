package pipeline

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"carelink-backend/shared/database/models"
)

// AccessContext is the per-request access descriptor. It is resolved once
// from the authenticated principal and passed by parameter through every
// pipeline stage - never stored process-wide.
type AccessContext struct {
	UserID         uuid.UUID
	ProfileID      uuid.UUID
	Email          string
	OrganizationID *uuid.UUID
	MembershipID   *uuid.UUID

	GlobalAdmin bool
	OrgAdmin    bool

	CanManageMembers      bool
	CanManageInvites      bool
	CanManageContent      bool
	CanManageInventory    bool
	CanManageAppointments bool

	RoleKeys []string
}

// HasRole reports whether the actor holds an active grant of the given role key
func (a *AccessContext) HasRole(key string) bool {
	for _, k := range a.RoleKeys {
		if k == key {
			return true
		}
	}
	return false
}

// ResolveAccess loads the actor's profile, membership and active role grants
// and derives the capability booleans. A missing profile means the principal
// is not provisioned for the portal and is treated as unauthenticated.
func ResolveAccess(db *gorm.DB, userID uuid.UUID) (*AccessContext, *Failure) {
	var profile models.Profile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, Unauthenticated()
		}
		return nil, Backend("resolve access", err)
	}

	ac := &AccessContext{
		UserID:         userID,
		ProfileID:      profile.ID,
		Email:          profile.Email,
		OrganizationID: profile.OrganizationID,
	}

	if profile.OrganizationID == nil {
		return ac, nil
	}

	var membership models.Membership
	err := db.Preload("Roles", "revoked_at IS NULL").
		Preload("Roles.Role").
		Where("organization_id = ? AND profile_id = ?", *profile.OrganizationID, profile.ID).
		First(&membership).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// Affiliated but not yet a member; no capabilities
			return ac, nil
		}
		return nil, Backend("resolve membership", err)
	}

	ac.MembershipID = &membership.ID
	for _, grant := range membership.Roles {
		ac.RoleKeys = append(ac.RoleKeys, grant.Role.Key)
		applyRole(ac, grant.Role.Key)
	}

	return ac, nil
}

// applyRole maps one role key onto the capability booleans
func applyRole(ac *AccessContext, key string) {
	switch key {
	case models.RoleGlobalAdmin:
		ac.GlobalAdmin = true
	case models.RoleOrgAdmin:
		ac.OrgAdmin = true
		ac.CanManageMembers = true
		ac.CanManageInvites = true
		ac.CanManageContent = true
		ac.CanManageInventory = true
		ac.CanManageAppointments = true
	case models.RoleMemberManager:
		ac.CanManageMembers = true
	case models.RoleInviteManager:
		ac.CanManageInvites = true
	case models.RoleContentEditor:
		ac.CanManageContent = true
	case models.RoleInventoryManager:
		ac.CanManageInventory = true
	case models.RoleScheduler, models.RoleOrgRep:
		ac.CanManageAppointments = true
	}
}
