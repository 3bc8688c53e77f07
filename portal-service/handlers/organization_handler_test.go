package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"carelink-backend/shared/pipeline"
)

func dependentsRequest(t *testing.T, ac *pipeline.AccessContext, orgID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/organizations/"+orgID.String()+"/dependents", nil)
	c.Params = gin.Params{{Key: "id", Value: orgID.String()}}
	if ac != nil {
		c.Set("access", ac)
	}

	GetOrganizationDependents(c)
	return w
}

func TestGetOrganizationDependents_RejectsForeignTenant(t *testing.T) {
	orgA := uuid.New()
	orgB := uuid.New()

	// An org admin asking about another organization is denied before any
	// dependent counting happens
	w := dependentsRequest(t, &pipeline.AccessContext{OrgAdmin: true, OrganizationID: &orgA}, orgB)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	// Same for an actor with no organization at all
	w = dependentsRequest(t, &pipeline.AccessContext{}, orgB)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
