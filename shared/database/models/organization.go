package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization statuses
const (
	OrgStatusActive      = "active"
	OrgStatusInactive    = "inactive"
	OrgStatusPending     = "pending"
	OrgStatusUnderReview = "under_review"
)

// OrganizationStatuses is the closed list accepted on create/update
var OrganizationStatuses = []string{
	OrgStatusActive,
	OrgStatusInactive,
	OrgStatusPending,
	OrgStatusUnderReview,
}

// Partnership classifications
const (
	OrgTypeDirectService   = "direct_service"
	OrgTypeReferralPartner = "referral_partner"
	OrgTypeResourcePartner = "resource_partner"
)

// OrganizationTypes is the closed list accepted on create/update
var OrganizationTypes = []string{
	OrgTypeDirectService,
	OrgTypeReferralPartner,
	OrgTypeResourcePartner,
}

// Organization is a tenant record. Tags carry free-form labels plus the
// recognized feature keys merged by the pipeline.
type Organization struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string    `json:"name" gorm:"size:200;not null"`
	Status           string    `json:"status" gorm:"size:30;default:'pending'"`
	OrganizationType string    `json:"organization_type" gorm:"size:50"`
	ContactEmail     *string   `json:"contact_email" gorm:"size:255"`
	ContactPhone     *string   `json:"contact_phone" gorm:"size:30"`
	Website          *string   `json:"website" gorm:"size:255"`
	Notes            *string   `json:"notes" gorm:"type:text"`
	Tags             []string  `json:"tags" gorm:"serializer:json;type:jsonb"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// OrganizationRelationship is a cross-reference between two organizations
// (referral/resource links). Counted before an organization delete.
type OrganizationRelationship struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID   uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index"`
	RelatedOrgID     uuid.UUID `json:"related_org_id" gorm:"type:uuid;not null;index"`
	RelationshipType string    `json:"relationship_type" gorm:"size:50"`
	CreatedBy        uuid.UUID `json:"created_by" gorm:"type:uuid"`
	CreatedAt        time.Time `json:"created_at"`
}

func (OrganizationRelationship) TableName() string {
	return "organization_relationships"
}
