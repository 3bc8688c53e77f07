package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"carelink-backend/shared/pipeline"
)

func TestCanReceive(t *testing.T) {
	orgA := uuid.New()
	orgB := uuid.New()

	globalAdmin := &pipeline.AccessContext{GlobalAdmin: true}
	orgAdminA := &pipeline.AccessContext{OrgAdmin: true, OrganizationID: &orgA}
	regularMember := &pipeline.AccessContext{OrganizationID: &orgA}

	// Global admins see activity from every tenant
	assert.True(t, canReceive(globalAdmin, &orgA))
	assert.True(t, canReceive(globalAdmin, &orgB))
	assert.True(t, canReceive(globalAdmin, nil))

	// Org admins only see their own organization's activity
	assert.True(t, canReceive(orgAdminA, &orgA))
	assert.False(t, canReceive(orgAdminA, &orgB))
	assert.False(t, canReceive(orgAdminA, nil))

	// Everyone else gets nothing, even for their own org
	assert.False(t, canReceive(regularMember, &orgA))
	assert.False(t, canReceive(nil, &orgA))
}
