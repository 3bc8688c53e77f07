package models

import (
	"time"

	"github.com/google/uuid"
)

// Role keys. Global roles have OrganizationScoped=false.
const (
	RoleGlobalAdmin      = "global_admin"
	RoleOrgAdmin         = "org_admin"
	RoleOrgRep           = "org_rep"
	RoleMemberManager    = "member_manager"
	RoleInviteManager    = "invite_manager"
	RoleContentEditor    = "content_editor"
	RoleInventoryManager = "inventory_manager"
	RoleScheduler        = "scheduler"
)

// Role is a grantable role definition
type Role struct {
	ID                uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Key               string    `json:"key" gorm:"size:50;uniqueIndex;not null"`
	Name              string    `json:"name" gorm:"size:100;not null"`
	Description       string    `json:"description" gorm:"type:text"`
	OrganizationScoped bool     `json:"organization_scoped" gorm:"default:true"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Membership associates a profile with an organization
type Membership struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index:idx_membership_org_profile,unique"`
	ProfileID      uuid.UUID `json:"profile_id" gorm:"type:uuid;not null;index:idx_membership_org_profile,unique"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Organization Organization     `json:"organization" gorm:"foreignKey:OrganizationID"`
	Profile      Profile          `json:"profile" gorm:"foreignKey:ProfileID"`
	Roles        []MembershipRole `json:"roles" gorm:"foreignKey:MembershipID"`
}

// MembershipRole is a single role grant on a membership. Revocation keeps the
// row with RevokedAt set so grant history survives.
type MembershipRole struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MembershipID uuid.UUID  `json:"membership_id" gorm:"type:uuid;not null;index"`
	RoleID       uuid.UUID  `json:"role_id" gorm:"type:uuid;not null"`
	GrantedBy    uuid.UUID  `json:"granted_by" gorm:"type:uuid"`
	GrantedAt    time.Time  `json:"granted_at" gorm:"autoCreateTime"`
	RevokedBy    *uuid.UUID `json:"revoked_by" gorm:"type:uuid"`
	RevokedAt    *time.Time `json:"revoked_at"`

	// Relations
	Role Role `json:"role" gorm:"foreignKey:RoleID"`
}

func (MembershipRole) TableName() string {
	return "membership_roles"
}
