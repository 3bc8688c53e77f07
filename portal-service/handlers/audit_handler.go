package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carelink-backend/shared/database"
	"carelink-backend/shared/database/models"
	"carelink-backend/shared/pipeline"
	"carelink-backend/shared/utils/query"
)

// GetAuditEvents retrieves the audit trail, newest first. Read-only: nothing
// in the portal updates or deletes audit rows.
// @Summary Get audit events
// @Tags audit
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param filters[action] query string false "Filter by action name"
// @Param filters[entity_table] query string false "Filter by entity table"
// @Param filters[actor_id] query string false "Filter by actor profile ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /audit [get]
func GetAuditEvents(c *gin.Context) {
	ac := actor(c)
	if ac == nil {
		renderFailure(c, pipeline.Unauthenticated())
		return
	}
	// The trail spans tenants, so only global admins and org admins see it;
	// org admins see only rows their own actors produced
	if !ac.GlobalAdmin && !ac.OrgAdmin {
		renderFailure(c, pipeline.Unauthorized(""))
		return
	}

	db := database.GetDB()
	params := query.ParseListParams(c)

	dbQuery := db.Model(&models.AuditEvent{})
	if !ac.GlobalAdmin {
		dbQuery = dbQuery.Where(
			"actor_id IN (SELECT profile_id FROM memberships WHERE organization_id = ?)",
			*ac.OrganizationID,
		)
	}

	dbQuery = query.ApplyFilters(dbQuery, params.Filters, map[string]string{
		"action":       "action",
		"entity_table": "entity_table",
		"actor_id":     "actor_id",
	})

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		renderFailure(c, pipeline.Backend("count audit events", err))
		return
	}

	var events []models.AuditEvent
	err := dbQuery.Order("created_at DESC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&events).Error
	if err != nil {
		renderFailure(c, pipeline.Backend("list audit events", err))
		return
	}

	renderSuccess(c, http.StatusOK, gin.H{
		"items":      events,
		"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
	})
}
