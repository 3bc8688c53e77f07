package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"carelink-backend/shared/config"
	"carelink-backend/shared/database"
	"carelink-backend/shared/database/models"
	"carelink-backend/shared/pipeline"
	"carelink-backend/shared/store"
	"carelink-backend/shared/tasks"
	"carelink-backend/shared/utils/query"
)

// inviteEvent is the rate-limited event type for invite creation
const inviteEvent = "invite_created"

// GetInvites retrieves an organization's invites
// @Summary Get organization invites
// @Tags invites
// @Produce json
// @Param id path string true "Organization ID"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param filters[status] query string false "Filter by status (pending, accepted, cancelled, expired)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /organizations/{id}/invites [get]
func GetInvites(c *gin.Context) {
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

	dbQuery := db.Model(&models.Invite{}).Where("organization_id = ?", orgID)
	dbQuery = query.ApplyFilters(dbQuery, params.Filters, map[string]string{"status": "status"})
	dbQuery = query.ApplySearch(dbQuery, params.Search, []string{"email", "full_name"})

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		renderFailure(c, pipeline.Backend("count invites", err))
		return
	}

	var invites []models.Invite
	err := dbQuery.Order("created_at DESC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&invites).Error
	if err != nil {
		renderFailure(c, pipeline.Backend("list invites", err))
		return
	}

	renderSuccess(c, http.StatusOK, gin.H{
		"items":      invites,
		"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
	})
}

// CreateInvite creates a pending invite and queues its notification email
// @Summary Create invite
// @Description Create a pending invite. Rejected when a pending invite already exists for the address, or when the actor's invite window is exhausted.
// @Tags invites
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Organization ID"
// @Param email formData string true "Invitee email"
// @Param full_name formData string false "Invitee full name"
// @Param position_title formData string false "Invitee position"
// @Param message formData string false "Personal message"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]string "Validation error"
// @Failure 429 {object} map[string]string "Invite limit reached"
// @Router /organizations/{id}/invites [post]
func CreateInvite(c *gin.Context) {
	orgID, failure := parseID(c, "id")
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
		{Name: "email", Kind: pipeline.KindRequiredString},
		{Name: "full_name", Kind: pipeline.KindString},
		{Name: "position_title", Kind: pipeline.KindString},
		{Name: "message", Kind: pipeline.KindString},
	})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	orgs := store.OrganizationStore{DB: database.GetDB()}
	org, failure := orgs.Get(c.Request.Context(), orgID)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	invites := store.InviteStore{DB: database.GetDB()}
	cfg := config.GetConfig()
	ac := actor(c)

	var created *models.Invite

	act := pipeline.Action{
		Name:           inviteEvent,
		Capability:     pipeline.CapManageInvites,
		OrganizationID: &org.ID,
	}
	views := []string{"/organizations/" + org.ID.String() + "/invites"}

	_, failure = pipe.Execute(c.Request.Context(), ac, act, views,
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			// Rate limiting runs after authorization so denied attempts never
			// consume the actor's budget
			decision, err := limiter.Check(ctx, inviteEvent, ac.ProfileID.String(),
				cfg.GetInviteRateLimitMaxPerWindow(), cfg.GetInviteRateLimitWindow())
			if err != nil {
				return pipeline.EntityRef{}, nil, pipeline.Backend("invite rate limit", err)
			}
			if !decision.Allowed {
				return pipeline.EntityRef{}, nil,
					pipeline.RateLimited(pipeline.InviteCooldownMessage(decision.RetryIn), decision.RetryIn)
			}

			email := form.StrOr("email", "")

			pending, failure := invites.CountPendingForEmail(ctx, org.ID, email)
			if failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			if pending > 0 {
				return pipeline.EntityRef{}, nil,
					pipeline.Validation("email", "A pending invite already exists for this address")
			}

			invite := &models.Invite{
				OrganizationID: org.ID,
				Email:          email,
				FullName:       form.StrOr("full_name", ""),
				PositionTitle:  form.StrOr("position_title", ""),
				Message:        form.Str("message"),
				InvitedBy:      ac.ProfileID,
			}
			if failure := invites.Create(ctx, invite); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			created = invite

			return pipeline.RefUUID("invites", invite.ID), map[string]interface{}{
				"email": invite.Email,
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	// Email delivery is asynchronous; a queue hiccup must not fail the invite
	if taskClient != nil {
		task, err := tasks.NewInviteEmailTask(tasks.InviteEmailPayload{
			InviteID:         created.ID,
			Email:            created.Email,
			FullName:         created.FullName,
			OrganizationName: org.Name,
			InviterEmail:     ac.Email,
			Message:          form.StrOr("message", ""),
		})
		if err == nil {
			if _, err := taskClient.EnqueueContext(c.Request.Context(), task); err != nil {
				log.Printf("⚠️ failed to enqueue invite email for %s: %v", created.Email, err)
			}
		}
	}

	renderSuccess(c, http.StatusCreated, created)
}
