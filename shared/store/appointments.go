package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carelink-backend/shared/database/models"
	"carelink-backend/shared/pipeline"
)

// AppointmentStore executes appointment mutations
type AppointmentStore struct {
	DB *gorm.DB
}

// Get loads one appointment by id
func (s *AppointmentStore) Get(ctx context.Context, id uuid.UUID) (*models.Appointment, *pipeline.Failure) {
	var appt models.Appointment
	if err := s.DB.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pipeline.Validation("appointment_id", "Appointment not found")
		}
		return nil, pipeline.Backend("load appointment", err)
	}
	return &appt, nil
}

// Create inserts a new appointment
func (s *AppointmentStore) Create(ctx context.Context, appt *models.Appointment) *pipeline.Failure {
	if appt.EndsAt.Before(appt.StartsAt) {
		return pipeline.Validation("ends_at", "End time must be after start time")
	}
	if err := s.DB.WithContext(ctx).Create(appt).Error; err != nil {
		return TranslateError("create appointment", err)
	}
	return nil
}

// Update writes the complete appointment payload by primary key
func (s *AppointmentStore) Update(ctx context.Context, appt *models.Appointment) *pipeline.Failure {
	if appt.EndsAt.Before(appt.StartsAt) {
		return pipeline.Validation("ends_at", "End time must be after start time")
	}
	if err := s.DB.WithContext(ctx).Save(appt).Error; err != nil {
		return TranslateError("update appointment", err)
	}
	return nil
}

// SetStatus transitions an appointment's status. Idempotent for repeated
// identical transitions.
func (s *AppointmentStore) SetStatus(ctx context.Context, appt *models.Appointment, status string) *pipeline.Failure {
	appt.Status = status
	if err := s.DB.WithContext(ctx).Model(appt).Update("status", status).Error; err != nil {
		return TranslateError("update appointment status", err)
	}
	return nil
}
