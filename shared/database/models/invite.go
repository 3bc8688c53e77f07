package models

import (
	"time"

	"github.com/google/uuid"
)

// Invite statuses. The portal only creates pending invites; acceptance and
// expiry are driven by the external onboarding flow.
const (
	InviteStatusPending   = "pending"
	InviteStatusAccepted  = "accepted"
	InviteStatusCancelled = "cancelled"
	InviteStatusExpired   = "expired"
)

// Invite is a pending offer of organization affiliation
type Invite struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index"`
	Email          string    `json:"email" gorm:"size:255;not null"`
	FullName       string    `json:"full_name" gorm:"size:200"`
	PositionTitle  string    `json:"position_title" gorm:"size:120"`
	Message        *string   `json:"message" gorm:"type:text"`
	Status         string    `json:"status" gorm:"size:20;default:'pending';index"`
	InvitedBy      uuid.UUID `json:"invited_by" gorm:"type:uuid;not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Organization Organization `json:"organization" gorm:"foreignKey:OrganizationID"`
}
