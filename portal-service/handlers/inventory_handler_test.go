package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"carelink-backend/shared/database/models"
	"carelink-backend/shared/pipeline"
)

func TestStockEntryScopeFailure(t *testing.T) {
	orgA := uuid.New()
	orgB := uuid.New()

	item := &models.InventoryItem{OrganizationID: orgA}
	pantryA := &models.InventoryLocation{OrganizationID: orgA}
	shelfA := &models.InventoryLocation{OrganizationID: orgA}
	pantryB := &models.InventoryLocation{OrganizationID: orgB}

	// Same-org item and endpoints pass; unused endpoints are nil
	assert.Nil(t, stockEntryScopeFailure(orgA, item, nil, pantryA))
	assert.Nil(t, stockEntryScopeFailure(orgA, item, pantryA, shelfA))

	// An item from another tenant is rejected
	failure := stockEntryScopeFailure(orgB, item, nil, pantryB)
	assert.NotNil(t, failure)
	assert.Equal(t, pipeline.FailureUnauthorized, failure.Kind)

	// Either endpoint belonging to another tenant is rejected
	failure = stockEntryScopeFailure(orgA, item, pantryB, shelfA)
	assert.NotNil(t, failure)
	assert.Equal(t, pipeline.FailureUnauthorized, failure.Kind)

	failure = stockEntryScopeFailure(orgA, item, pantryA, pantryB)
	assert.NotNil(t, failure)
	assert.Equal(t, pipeline.FailureUnauthorized, failure.Kind)
}
