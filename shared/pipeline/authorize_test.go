package pipeline

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orgActor(orgID uuid.UUID) *AccessContext {
	return &AccessContext{
		UserID:         uuid.New(),
		ProfileID:      uuid.New(),
		OrganizationID: &orgID,
	}
}

func TestAuthorize_NilActorIsUnauthenticated(t *testing.T) {
	failure := Authorize(nil, Action{Name: "anything", Capability: CapOrgAdmin})
	require.NotNil(t, failure)
	assert.Equal(t, FailureUnauthenticated, failure.Kind)
}

func TestAuthorize_GlobalAdminBypassesTenantChecks(t *testing.T) {
	otherOrg := uuid.New()
	actor := orgActor(uuid.New())
	actor.GlobalAdmin = true

	failure := Authorize(actor, Action{
		Name:           "organization_updated",
		Capability:     CapOrgAdmin,
		OrganizationID: &otherOrg,
	})
	assert.Nil(t, failure)

	failure = Authorize(actor, Action{Name: "organization_created", Capability: CapGlobalOrgs})
	assert.Nil(t, failure)
}

func TestAuthorize_SelfGuardBindsGlobalAdminsToo(t *testing.T) {
	orgID := uuid.New()
	actor := orgActor(orgID)
	actor.GlobalAdmin = true

	failure := Authorize(actor, Action{
		Name:            "member_removed",
		Capability:      CapManageMembers,
		OrganizationID:  &orgID,
		TargetProfileID: &actor.ProfileID,
		SelfProtected:   true,
	})
	require.NotNil(t, failure)
	assert.Equal(t, FailureUnauthorized, failure.Kind)
	assert.Equal(t, "You cannot remove your own administrative access", failure.Message)
}

func TestAuthorize_SelfProtectedAllowsOtherTargets(t *testing.T) {
	orgID := uuid.New()
	actor := orgActor(orgID)
	actor.CanManageMembers = true
	other := uuid.New()

	failure := Authorize(actor, Action{
		Name:            "member_removed",
		Capability:      CapManageMembers,
		OrganizationID:  &orgID,
		TargetProfileID: &other,
		SelfProtected:   true,
	})
	assert.Nil(t, failure)
}

func TestAuthorize_GlobalCapabilityDeniedForOrgActors(t *testing.T) {
	orgID := uuid.New()
	actor := orgActor(orgID)
	actor.OrgAdmin = true

	failure := Authorize(actor, Action{Name: "organization_created", Capability: CapGlobalOrgs})
	require.NotNil(t, failure)
	assert.Equal(t, FailureUnauthorized, failure.Kind)
}

func TestAuthorize_CrossTenantDenied(t *testing.T) {
	actor := orgActor(uuid.New())
	actor.OrgAdmin = true
	actor.CanManageInventory = true
	otherOrg := uuid.New()

	failure := Authorize(actor, Action{
		Name:           "inventory_item_created",
		Capability:     CapManageInventory,
		OrganizationID: &otherOrg,
	})
	require.NotNil(t, failure)
	assert.Equal(t, FailureUnauthorized, failure.Kind)
}

func TestAuthorize_NilTargetOrgDenied(t *testing.T) {
	actor := orgActor(uuid.New())
	actor.OrgAdmin = true

	failure := Authorize(actor, Action{Name: "inventory_item_created", Capability: CapManageInventory})
	require.NotNil(t, failure)
	assert.Equal(t, FailureUnauthorized, failure.Kind)
}

func TestAuthorize_CapabilityMatrix(t *testing.T) {
	orgID := uuid.New()

	cases := []struct {
		name       string
		capability Capability
		grant      func(*AccessContext)
	}{
		{"org admin", CapOrgAdmin, func(a *AccessContext) { a.OrgAdmin = true }},
		{"members", CapManageMembers, func(a *AccessContext) { a.CanManageMembers = true }},
		{"invites", CapManageInvites, func(a *AccessContext) { a.CanManageInvites = true }},
		{"content", CapManageContent, func(a *AccessContext) { a.CanManageContent = true }},
		{"inventory", CapManageInventory, func(a *AccessContext) { a.CanManageInventory = true }},
		{"appointments", CapManageAppointments, func(a *AccessContext) { a.CanManageAppointments = true }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			act := Action{Name: "x", Capability: tc.capability, OrganizationID: &orgID}

			// Without the grant
			bare := orgActor(orgID)
			failure := Authorize(bare, act)
			require.NotNil(t, failure)
			assert.Equal(t, FailureUnauthorized, failure.Kind)

			// With the grant
			granted := orgActor(orgID)
			tc.grant(granted)
			assert.Nil(t, Authorize(granted, act))
		})
	}
}
