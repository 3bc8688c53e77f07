package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carelink-backend/shared/database"
	"carelink-backend/shared/database/models"
	"carelink-backend/shared/pipeline"
	"carelink-backend/shared/store"
	"carelink-backend/shared/utils/query"
)

var appointmentFields = []pipeline.Field{
	{Name: "profile_id", Kind: pipeline.KindRequiredString},
	{Name: "title", Kind: pipeline.KindRequiredString},
	{Name: "notes", Kind: pipeline.KindString},
	{Name: "location", Kind: pipeline.KindString},
	{Name: "starts_at", Kind: pipeline.KindRequiredString},
	{Name: "ends_at", Kind: pipeline.KindRequiredString},
}

func appointmentViews(orgID uuid.UUID) []string {
	return []string{"/organizations/" + orgID.String() + "/appointments"}
}

// parseAppointmentTimes parses the RFC 3339 schedule fields
func parseAppointmentTimes(form pipeline.Form) (time.Time, time.Time, *pipeline.Failure) {
	startsAt, err := time.Parse(time.RFC3339, form.StrOr("starts_at", ""))
	if err != nil {
		return time.Time{}, time.Time{}, pipeline.Validation("starts_at", "Invalid start time")
	}
	endsAt, err := time.Parse(time.RFC3339, form.StrOr("ends_at", ""))
	if err != nil {
		return time.Time{}, time.Time{}, pipeline.Validation("ends_at", "Invalid end time")
	}
	return startsAt, endsAt, nil
}

// GetAppointments retrieves an organization's appointments
// @Summary Get appointments
// @Tags appointments
// @Produce json
// @Param id path string true "Organization ID"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param filters[status] query string false "Filter by status (scheduled, completed, cancelled)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /organizations/{id}/appointments [get]
func GetAppointments(c *gin.Context) {
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

	dbQuery := db.Model(&models.Appointment{}).Where("organization_id = ?", orgID)
	dbQuery = query.ApplyFilters(dbQuery, params.Filters, map[string]string{
		"status":     "status",
		"profile_id": "profile_id",
	})

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		renderFailure(c, pipeline.Backend("count appointments", err))
		return
	}

	var appointments []models.Appointment
	err := dbQuery.Order("starts_at DESC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&appointments).Error
	if err != nil {
		renderFailure(c, pipeline.Backend("list appointments", err))
		return
	}

	renderSuccess(c, http.StatusOK, gin.H{
		"items":      appointments,
		"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
	})
}

// CreateAppointment schedules a new appointment
// @Summary Create appointment
// @Tags appointments
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Organization ID"
// @Param profile_id formData string true "Member profile ID"
// @Param title formData string true "Appointment title"
// @Param starts_at formData string true "Start time (RFC 3339)"
// @Param ends_at formData string true "End time (RFC 3339)"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]string "Validation error"
// @Router /organizations/{id}/appointments [post]
func CreateAppointment(c *gin.Context) {
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

	form, failure := pipeline.DecodeForm(values, appointmentFields)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	profileID, err := uuid.Parse(form.StrOr("profile_id", ""))
	if err != nil {
		renderFailure(c, pipeline.Validation("profile_id", "Invalid identifier"))
		return
	}

	startsAt, endsAt, failure := parseAppointmentTimes(form)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	appointments := store.AppointmentStore{DB: database.GetDB()}
	ac := actor(c)
	var created *models.Appointment

	act := pipeline.Action{
		Name:           "appointment_created",
		Capability:     pipeline.CapManageAppointments,
		OrganizationID: &orgID,
	}

	_, failure = pipe.Execute(c.Request.Context(), ac, act, appointmentViews(orgID),
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			appt := &models.Appointment{
				OrganizationID: orgID,
				ProfileID:      profileID,
				Title:          form.StrOr("title", ""),
				Notes:          form.Str("notes"),
				Location:       form.Str("location"),
				StartsAt:       startsAt,
				EndsAt:         endsAt,
				Status:         models.AppointmentStatusScheduled,
				CreatedBy:      ac.ProfileID,
			}
			if failure := appointments.Create(ctx, appt); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			created = appt
			return pipeline.RefUUID("appointments", appt.ID), map[string]interface{}{
				"title":     appt.Title,
				"starts_at": appt.StartsAt,
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusCreated, created)
}

// UpdateAppointment replaces an appointment's full payload
// @Summary Update appointment
// @Tags appointments
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Appointment ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]string "Validation error"
// @Router /appointments/{id} [post]
func UpdateAppointment(c *gin.Context) {
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

	form, failure := pipeline.DecodeForm(values, appointmentFields)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	profileID, err := uuid.Parse(form.StrOr("profile_id", ""))
	if err != nil {
		renderFailure(c, pipeline.Validation("profile_id", "Invalid identifier"))
		return
	}

	startsAt, endsAt, failure := parseAppointmentTimes(form)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	appointments := store.AppointmentStore{DB: database.GetDB()}
	appt, failure := appointments.Get(c.Request.Context(), id)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	act := pipeline.Action{
		Name:           "appointment_updated",
		Capability:     pipeline.CapManageAppointments,
		OrganizationID: &appt.OrganizationID,
	}

	_, failure = pipe.Execute(c.Request.Context(), actor(c), act, appointmentViews(appt.OrganizationID),
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			appt.ProfileID = profileID
			appt.Title = form.StrOr("title", appt.Title)
			appt.Notes = form.Str("notes")
			appt.Location = form.Str("location")
			appt.StartsAt = startsAt
			appt.EndsAt = endsAt

			if failure := appointments.Update(ctx, appt); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			return pipeline.RefUUID("appointments", appt.ID), map[string]interface{}{
				"title": appt.Title,
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusOK, appt)
}

// SetAppointmentStatus transitions an appointment's status
// @Summary Set appointment status
// @Description Transition an appointment's status. Repeating the current status is a no-op.
// @Tags appointments
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Appointment ID"
// @Param status formData string true "New status (scheduled, completed, cancelled)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]string "Unknown status"
// @Router /appointments/{id}/status [post]
func SetAppointmentStatus(c *gin.Context) {
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
		{Name: "status", Kind: pipeline.KindEnum, Allowed: models.AppointmentStatuses},
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

	appointments := store.AppointmentStore{DB: database.GetDB()}
	appt, failure := appointments.Get(c.Request.Context(), id)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	act := pipeline.Action{
		Name:           "appointment_status_changed",
		Capability:     pipeline.CapManageAppointments,
		OrganizationID: &appt.OrganizationID,
	}

	_, failure = pipe.Execute(c.Request.Context(), actor(c), act, appointmentViews(appt.OrganizationID),
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			previous := appt.Status
			if failure := appointments.SetStatus(ctx, appt, *status); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			return pipeline.RefUUID("appointments", appt.ID), map[string]interface{}{
				"from": previous,
				"to":   *status,
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusOK, appt)
}
