package pipeline

import (
	"github.com/google/uuid"
)

// Capability names the permission an action requires
type Capability string

const (
	// CapGlobalOrgs - creating and deleting tenant organizations; global admins only
	CapGlobalOrgs Capability = "global_orgs"
	// CapOrgAdmin - updating an organization's profile, status and feature tags
	CapOrgAdmin Capability = "org_admin"
	// CapManageMembers - membership role grants/revocations and removals
	CapManageMembers Capability = "manage_members"
	// CapManageInvites - invite creation
	CapManageInvites Capability = "manage_invites"
	// CapManageContent - website content blocks and media
	CapManageContent Capability = "manage_content"
	// CapManageInventory - inventory items, locations and the stock ledger
	CapManageInventory Capability = "manage_inventory"
	// CapManageAppointments - appointment scheduling
	CapManageAppointments Capability = "manage_appointments"
)

// Action describes one requested mutation for authorization and audit.
// OrganizationID is the target tenant; nil means the action has no tenant
// scope (global admin only). SelfProtected marks actions an actor may never
// apply to their own profile (membership removal, admin role revocation).
type Action struct {
	Name            string
	Capability      Capability
	OrganizationID  *uuid.UUID
	TargetProfileID *uuid.UUID
	SelfProtected   bool
}

// Authorize decides allow/deny for one action. Global admins bypass tenant
// checks but not the self-targeting guard: nobody removes their own access
// through this gate, on any surface.
func Authorize(actor *AccessContext, act Action) *Failure {
	if actor == nil {
		return Unauthenticated()
	}

	if act.SelfProtected && act.TargetProfileID != nil && *act.TargetProfileID == actor.ProfileID {
		return Unauthorized("You cannot remove your own administrative access")
	}

	if actor.GlobalAdmin {
		return nil
	}

	if act.Capability == CapGlobalOrgs {
		return Unauthorized("")
	}

	if act.OrganizationID == nil {
		return Unauthorized("")
	}

	// Cross-tenant access is always denied, capability or not
	if actor.OrganizationID == nil || *actor.OrganizationID != *act.OrganizationID {
		return Unauthorized("")
	}

	allowed := false
	switch act.Capability {
	case CapOrgAdmin:
		allowed = actor.OrgAdmin
	case CapManageMembers:
		allowed = actor.CanManageMembers
	case CapManageInvites:
		allowed = actor.CanManageInvites
	case CapManageContent:
		allowed = actor.CanManageContent
	case CapManageInventory:
		allowed = actor.CanManageInventory
	case CapManageAppointments:
		allowed = actor.CanManageAppointments
	}

	if !allowed {
		return Unauthorized("")
	}
	return nil
}
