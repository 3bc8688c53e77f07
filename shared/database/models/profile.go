package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the person record linked to an authenticated user. The identity
// provider owns credentials; the portal only stores the profile and its
// organization affiliation.
type Profile struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID         uuid.UUID  `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	Email          string     `json:"email" gorm:"uniqueIndex;not null"`
	Password       string     `json:"-" gorm:"not null"`
	FullName       string     `json:"full_name" gorm:"size:200"`
	Phone          string     `json:"phone" gorm:"size:20"`
	PositionTitle  string     `json:"position_title" gorm:"size:120"`
	Status         string     `json:"status" gorm:"size:30;default:'active'"`
	OrganizationID *uuid.UUID `json:"organization_id" gorm:"type:uuid;index"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relations
	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
}
