package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carelink-backend/shared/database"
	"carelink-backend/shared/database/models"
	"carelink-backend/shared/pipeline"
	"carelink-backend/shared/store"
	"carelink-backend/shared/utils/query"
)

// GetMembers retrieves an organization's memberships with their active roles
// @Summary Get organization members
// @Tags members
// @Produce json
// @Param id path string true "Organization ID"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /organizations/{id}/members [get]
func GetMembers(c *gin.Context) {
	orgID, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	ac := actor(c)
	if ac != nil && !ac.GlobalAdmin {
		if ac.OrganizationID == nil || *ac.OrganizationID != orgID {
			renderFailure(c, pipeline.Unauthorized(""))
			return
		}
	}

	db := database.GetDB()
	params := query.ParseListParams(c)

	dbQuery := db.Model(&models.Membership{}).Where("organization_id = ?", orgID)

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		renderFailure(c, pipeline.Backend("count members", err))
		return
	}

	var memberships []models.Membership
	err := dbQuery.
		Preload("Profile").
		Preload("Roles", "revoked_at IS NULL").
		Preload("Roles.Role").
		Order("created_at DESC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&memberships).Error
	if err != nil {
		renderFailure(c, pipeline.Backend("list members", err))
		return
	}

	renderSuccess(c, http.StatusOK, gin.H{
		"items":      memberships,
		"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
	})
}

// AssignMemberRoles replaces a membership's active role set
// @Summary Assign member roles
// @Description Replace a membership's role grants. At least one role is required. Actors cannot revoke their own administrative role.
// @Tags members
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Membership ID"
// @Param role_ids formData []string true "Role IDs to grant"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 422 {object} map[string]string "Validation error"
// @Router /members/{id}/roles [post]
func AssignMemberRoles(c *gin.Context) {
	membershipID, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	values, failure := formValues(c)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	form, failure := pipeline.DecodeForm(values, []pipeline.Field{
		{Name: "role_ids", Kind: pipeline.KindMulti},
	})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	var roleIDs []uuid.UUID
	for _, raw := range form.List("role_ids") {
		id, err := uuid.Parse(raw)
		if err != nil {
			renderFailure(c, pipeline.Validation("role_ids", "Invalid role identifier"))
			return
		}
		roleIDs = append(roleIDs, id)
	}

	members := store.MembershipStore{DB: database.GetDB()}
	membership, failure := members.Get(c.Request.Context(), membershipID)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	roles, failure := members.ResolveRoles(c.Request.Context(), roleIDs)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	// Dropping an admin grant from one's own membership is treated the same
	// as removing oneself
	selected := make(map[string]bool, len(roles))
	for _, role := range roles {
		selected[role.Key] = true
	}
	hasAdmin := false
	for _, key := range store.ActiveRoleKeys(membership) {
		if key == models.RoleOrgAdmin || key == models.RoleGlobalAdmin {
			hasAdmin = true
		}
	}
	selfDemotion := hasAdmin && !selected[models.RoleOrgAdmin] && !selected[models.RoleGlobalAdmin]

	act := pipeline.Action{
		Name:            "member_roles_assigned",
		Capability:      pipeline.CapManageMembers,
		OrganizationID:  &membership.OrganizationID,
		TargetProfileID: &membership.ProfileID,
		SelfProtected:   selfDemotion,
	}
	views := []string{"/organizations/" + membership.OrganizationID.String() + "/members"}

	ac := actor(c)
	_, failure = pipe.Execute(c.Request.Context(), ac, act, views,
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			if failure := members.AssignRoles(ctx, membership, roleIDs, ac.ProfileID); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			keys := make([]string, 0, len(roles))
			for _, role := range roles {
				keys = append(keys, role.Key)
			}
			return pipeline.RefUUID("memberships", membership.ID), map[string]interface{}{
				"roles": keys,
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusOK, gin.H{"assigned": true})
}

// RemoveMember removes a membership and revokes its remaining grants
// @Summary Remove member
// @Description Remove a membership from its organization. Actors can never remove themselves.
// @Tags members
// @Produce json
// @Param id path string true "Membership ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /members/{id}/remove [post]
func RemoveMember(c *gin.Context) {
	membershipID, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	members := store.MembershipStore{DB: database.GetDB()}
	membership, failure := members.Get(c.Request.Context(), membershipID)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	act := pipeline.Action{
		Name:            "member_removed",
		Capability:      pipeline.CapManageMembers,
		OrganizationID:  &membership.OrganizationID,
		TargetProfileID: &membership.ProfileID,
		SelfProtected:   true,
	}
	views := []string{"/organizations/" + membership.OrganizationID.String() + "/members"}

	ac := actor(c)
	_, failure = pipe.Execute(c.Request.Context(), ac, act, views,
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			if failure := members.Remove(ctx, membership, ac.ProfileID); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			return pipeline.RefUUID("memberships", membership.ID), map[string]interface{}{
				"profile_id": membership.ProfileID.String(),
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusOK, gin.H{"removed": true})
}

// GetRoles lists the grantable role definitions
// @Summary Get role definitions
// @Tags members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /roles [get]
func GetRoles(c *gin.Context) {
	var roles []models.Role
	err := database.GetDB().
		Where("organization_scoped = ?", true).
		Order("name ASC").
		Find(&roles).Error
	if err != nil {
		renderFailure(c, pipeline.Backend("list roles", err))
		return
	}

	renderSuccess(c, http.StatusOK, roles)
}
