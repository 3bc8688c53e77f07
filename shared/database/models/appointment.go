package models

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses
const (
	AppointmentStatusScheduled = "scheduled"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCancelled = "cancelled"
)

// AppointmentStatuses is the closed list accepted on status changes
var AppointmentStatuses = []string{
	AppointmentStatusScheduled,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
}

// Appointment is an organization-scoped scheduling row
type Appointment struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index"`
	ProfileID      uuid.UUID `json:"profile_id" gorm:"type:uuid;not null;index"`
	Title          string    `json:"title" gorm:"size:300;not null"`
	Notes          *string   `json:"notes" gorm:"type:text"`
	Location       *string   `json:"location" gorm:"size:300"`
	StartsAt       time.Time `json:"starts_at" gorm:"not null;index"`
	EndsAt         time.Time `json:"ends_at" gorm:"not null"`
	Status         string    `json:"status" gorm:"size:20;default:'scheduled'"`
	CreatedBy      uuid.UUID `json:"created_by" gorm:"type:uuid"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
