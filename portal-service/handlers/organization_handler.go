package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"carelink-backend/shared/database"
	"carelink-backend/shared/database/models"
	"carelink-backend/shared/pipeline"
	"carelink-backend/shared/store"
	"carelink-backend/shared/utils/query"
)

// organizationFields is the decode schema shared by create and update
var organizationFields = []pipeline.Field{
	{Name: "name", Kind: pipeline.KindRequiredString},
	{Name: "status", Kind: pipeline.KindEnum, Allowed: models.OrganizationStatuses},
	{Name: "organization_type", Kind: pipeline.KindEnum, Allowed: models.OrganizationTypes},
	{Name: "contact_email", Kind: pipeline.KindString},
	{Name: "contact_phone", Kind: pipeline.KindString},
	{Name: "website", Kind: pipeline.KindString},
	{Name: "notes", Kind: pipeline.KindString},
	{Name: "features", Kind: pipeline.KindMulti, Allowed: pipeline.RecognizedFeatureKeys},
}

// GetOrganizations retrieves organizations with pagination and filtering
// @Summary Get all organizations
// @Description Get all organizations with pagination, filtering, sorting and search
// @Tags organizations
// @Accept json
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param search query string false "Search term across name and contact email"
// @Param filters[status] query string false "Filter by status"
// @Param filters[organization_type] query string false "Filter by partnership type"
// @Param sort[field] query string false "Sort field (name, status, created_at, updated_at)"
// @Param sort[order] query string false "Sort order (asc, desc)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /organizations [get]
func GetOrganizations(c *gin.Context) {
	db := database.GetDB()
	params := query.ParseListParams(c)

	allowedFilters := map[string]string{
		"status":            "status",
		"organization_type": "organization_type",
	}
	allowedSortFields := map[string]string{
		"name":       "name",
		"status":     "status",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	searchFields := []string{"name", "contact_email"}

	dbQuery := db.Model(&models.Organization{})

	// Non-global actors only ever see their own tenant
	ac := actor(c)
	if ac != nil && !ac.GlobalAdmin {
		if ac.OrganizationID == nil {
			renderSuccess(c, http.StatusOK, gin.H{
				"items":      []models.Organization{},
				"pagination": query.BuildPaginationResponse(params.Page, params.Limit, 0),
			})
			return
		}
		dbQuery = dbQuery.Where("id = ?", *ac.OrganizationID)
	}

	dbQuery = query.ApplyFilters(dbQuery, params.Filters, allowedFilters)
	dbQuery = query.ApplySearch(dbQuery, params.Search, searchFields)
	dbQuery = query.ApplySort(dbQuery, params.Sort, allowedSortFields)

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		renderFailure(c, pipeline.Backend("count organizations", err))
		return
	}

	dbQuery = query.ApplyPagination(dbQuery, params.Page, params.Limit)

	var organizations []models.Organization
	if err := dbQuery.Find(&organizations).Error; err != nil {
		renderFailure(c, pipeline.Backend("list organizations", err))
		return
	}

	renderSuccess(c, http.StatusOK, gin.H{
		"items":      organizations,
		"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
	})
}

// GetOrganization retrieves a single organization
// @Summary Get organization by ID
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Not found"
// @Router /organizations/{id} [get]
func GetOrganization(c *gin.Context) {
	id, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	orgs := store.OrganizationStore{DB: database.GetDB()}
	org, failure := orgs.Get(c.Request.Context(), id)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	ac := actor(c)
	if ac != nil && !ac.GlobalAdmin {
		if ac.OrganizationID == nil || *ac.OrganizationID != org.ID {
			renderFailure(c, pipeline.Unauthorized(""))
			return
		}
	}

	renderSuccess(c, http.StatusOK, org)
}

// CreateOrganization creates a new tenant organization
// @Summary Create organization
// @Description Create a new organization. Global administrators only.
// @Tags organizations
// @Accept x-www-form-urlencoded
// @Produce json
// @Param name formData string true "Organization name"
// @Param status formData string false "Status (active, inactive, pending, under_review)"
// @Param organization_type formData string false "Partnership type"
// @Param features formData []string false "Enabled feature keys"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 422 {object} map[string]string "Validation error"
// @Router /organizations [post]
func CreateOrganization(c *gin.Context) {
	values, failure := formValues(c)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	form, failure := pipeline.DecodeForm(values, organizationFields)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	orgs := store.OrganizationStore{DB: database.GetDB()}
	var created *models.Organization

	act := pipeline.Action{Name: "organization_created", Capability: pipeline.CapGlobalOrgs}
	ref, failure := pipe.Execute(c.Request.Context(), actor(c), act, []string{"/organizations"},
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			org := &models.Organization{
				Name:             form.StrOr("name", ""),
				Status:           form.StrOr("status", models.OrgStatusPending),
				OrganizationType: form.StrOr("organization_type", models.OrgTypeDirectService),
				ContactEmail:     form.Str("contact_email"),
				ContactPhone:     form.Str("contact_phone"),
				Website:          form.Str("website"),
				Notes:            form.Str("notes"),
				Tags:             pipeline.MergeFeatureTags(nil, form.List("features")),
			}
			if failure := orgs.Create(ctx, org); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			created = org
			return pipeline.RefUUID("organizations", org.ID), map[string]interface{}{
				"name":   org.Name,
				"status": org.Status,
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusCreated, gin.H{"organization": created, "ref": ref})
}

// UpdateOrganization replaces an organization's profile and feature selection
// @Summary Update organization
// @Description Full-payload update of an organization's profile, plus feature tag merge
// @Tags organizations
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Organization ID"
// @Param name formData string true "Organization name"
// @Param features formData []string false "Enabled feature keys"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 422 {object} map[string]string "Validation error"
// @Router /organizations/{id} [post]
func UpdateOrganization(c *gin.Context) {
	id, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	values, failure := formValues(c)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	form, failure := pipeline.DecodeForm(values, organizationFields)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	orgs := store.OrganizationStore{DB: database.GetDB()}
	org, failure := orgs.Get(c.Request.Context(), id)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	act := pipeline.Action{
		Name:           "organization_updated",
		Capability:     pipeline.CapOrgAdmin,
		OrganizationID: &org.ID,
	}
	views := []string{"/organizations", "/organizations/" + org.ID.String()}

	_, failure = pipe.Execute(c.Request.Context(), actor(c), act, views,
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			org.Name = form.StrOr("name", org.Name)
			if status := form.Str("status"); status != nil {
				org.Status = *status
			}
			if orgType := form.Str("organization_type"); orgType != nil {
				org.OrganizationType = *orgType
			}
			org.ContactEmail = form.Str("contact_email")
			org.ContactPhone = form.Str("contact_phone")
			org.Website = form.Str("website")
			org.Notes = form.Str("notes")
			org.Tags = pipeline.MergeFeatureTags(org.Tags, form.List("features"))

			if failure := orgs.Update(ctx, org); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			return pipeline.RefUUID("organizations", org.ID), map[string]interface{}{
				"name": org.Name,
				"tags": org.Tags,
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusOK, org)
}

// SetOrganizationStatus transitions an organization's status
// @Summary Set organization status
// @Description Transition an organization's status. Repeating the current status is a no-op.
// @Tags organizations
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Organization ID"
// @Param status formData string true "New status"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]string "Validation error"
// @Router /organizations/{id}/status [post]
func SetOrganizationStatus(c *gin.Context) {
	id, failure := parseID(c, "id")
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
		{Name: "status", Kind: pipeline.KindEnum, Allowed: models.OrganizationStatuses},
	})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	status := form.Str("status")
	if status == nil {
		renderFailure(c, pipeline.Validation("status", "Unknown status"))
		return
	}

	orgs := store.OrganizationStore{DB: database.GetDB()}
	org, failure := orgs.Get(c.Request.Context(), id)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	act := pipeline.Action{
		Name:           "organization_status_changed",
		Capability:     pipeline.CapOrgAdmin,
		OrganizationID: &org.ID,
	}
	views := []string{"/organizations", "/organizations/" + org.ID.String()}

	_, failure = pipe.Execute(c.Request.Context(), actor(c), act, views,
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			previous := org.Status
			if failure := orgs.SetStatus(ctx, org, *status); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			return pipeline.RefUUID("organizations", org.ID), map[string]interface{}{
				"from": previous,
				"to":   *status,
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusOK, org)
}

// GetOrganizationDependents reports the rows blocking an organization delete
// @Summary Count organization dependents
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /organizations/{id}/dependents [get]
func GetOrganizationDependents(c *gin.Context) {
	id, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	ac := actor(c)
	if ac != nil && !ac.GlobalAdmin {
		if ac.OrganizationID == nil || *ac.OrganizationID != id {
			renderFailure(c, pipeline.Unauthorized(""))
			return
		}
	}

	orgs := store.OrganizationStore{DB: database.GetDB()}
	counts, failure := orgs.CountDependents(c.Request.Context(), id)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusOK, counts)
}

// DeleteOrganization removes an organization after typed confirmation
// @Summary Delete organization
// @Description Delete an organization. Requires the organization's exact name as confirmation and zero dependent rows. Global administrators only.
// @Tags organizations
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Organization ID"
// @Param confirm_name formData string true "Organization name, typed to confirm"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Dependent rows exist"
// @Failure 422 {object} map[string]string "Confirmation mismatch"
// @Router /organizations/{id}/delete [post]
func DeleteOrganization(c *gin.Context) {
	id, failure := parseID(c, "id")
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
		{Name: "confirm_name", Kind: pipeline.KindRequiredString},
	})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	orgs := store.OrganizationStore{DB: database.GetDB()}
	org, failure := orgs.Get(c.Request.Context(), id)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	act := pipeline.Action{Name: "organization_deleted", Capability: pipeline.CapGlobalOrgs}
	views := []string{"/organizations", "/organizations/" + org.ID.String()}

	_, failure = pipe.Execute(c.Request.Context(), actor(c), act, views,
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			if failure := pipeline.ConfirmName(form.Str("confirm_name"), org.Name); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			if failure := orgs.Delete(ctx, org); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			return pipeline.RefUUID("organizations", org.ID), map[string]interface{}{
				"name": org.Name,
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusOK, gin.H{"deleted": true})
}
