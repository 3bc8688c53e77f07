package models

import (
	"time"

	"github.com/google/uuid"
)

// Content sections
const (
	ContentSectionHero     = "hero"
	ContentSectionFooter   = "footer"
	ContentSectionNav      = "nav"
	ContentSectionPrograms = "programs"
)

// ContentSections is the closed list accepted on content writes
var ContentSections = []string{
	ContentSectionHero,
	ContentSectionFooter,
	ContentSectionNav,
	ContentSectionPrograms,
}

// ContentBlock is one editable marketing section of an organization's public
// page. One row per organization and section.
type ContentBlock struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index:idx_content_org_section,unique"`
	Section        string    `json:"section" gorm:"size:30;not null;index:idx_content_org_section,unique"`
	Title          *string   `json:"title" gorm:"size:300"`
	Body           *string   `json:"body" gorm:"type:text"`
	ImageURL       *string   `json:"image_url" gorm:"size:500"`
	Published      bool      `json:"published" gorm:"default:false"`
	UpdatedBy      uuid.UUID `json:"updated_by" gorm:"type:uuid"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (ContentBlock) TableName() string {
	return "content_blocks"
}
