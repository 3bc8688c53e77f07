package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carelink-backend/shared/database/models"
	"carelink-backend/shared/pipeline"
)

// OrganizationStore executes organization mutations
type OrganizationStore struct {
	DB *gorm.DB
}

// Get loads one organization by id
func (s *OrganizationStore) Get(ctx context.Context, id uuid.UUID) (*models.Organization, *pipeline.Failure) {
	var org models.Organization
	if err := s.DB.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pipeline.Validation("organization_id", "Organization not found")
		}
		return nil, pipeline.Backend("load organization", err)
	}
	return &org, nil
}

// Create inserts a new organization and fills in its generated id
func (s *OrganizationStore) Create(ctx context.Context, org *models.Organization) *pipeline.Failure {
	if err := s.DB.WithContext(ctx).Create(org).Error; err != nil {
		return TranslateError("create organization", err)
	}
	return nil
}

// Update writes the complete organization payload by primary key. Callers
// build the full row from current values plus submitted fields, so untouched
// columns are never clobbered by a sparse patch.
func (s *OrganizationStore) Update(ctx context.Context, org *models.Organization) *pipeline.Failure {
	if err := s.DB.WithContext(ctx).Save(org).Error; err != nil {
		return TranslateError("update organization", err)
	}
	return nil
}

// SetStatus transitions an organization's status. Idempotent: setting the
// current status again succeeds as a no-op write.
func (s *OrganizationStore) SetStatus(ctx context.Context, org *models.Organization, status string) *pipeline.Failure {
	org.Status = status
	if err := s.DB.WithContext(ctx).Model(org).Update("status", status).Error; err != nil {
		return TranslateError("update organization status", err)
	}
	return nil
}

// UpdateFeatures merges the submitted feature selection into the current tag
// set and writes the result. The current tags are read first so free-form
// tags survive the overwrite.
func (s *OrganizationStore) UpdateFeatures(ctx context.Context, org *models.Organization, selected []string) ([]string, *pipeline.Failure) {
	merged := pipeline.MergeFeatureTags(org.Tags, selected)
	org.Tags = merged
	if err := s.DB.WithContext(ctx).Model(org).Update("tags", merged).Error; err != nil {
		return nil, TranslateError("update organization features", err)
	}
	return merged, nil
}

// DependentCounts reports the dependent rows that block an organization delete
type DependentCounts struct {
	Members       int64 `json:"members"`
	Invites       int64 `json:"invites"`
	Relationships int64 `json:"relationships"`
}

// Total sums all dependent rows
func (c DependentCounts) Total() int64 {
	return c.Members + c.Invites + c.Relationships
}

// CountDependents counts every dependent relation explicitly. The schema has
// no delete cascades; this check is the delete guard.
func (s *OrganizationStore) CountDependents(ctx context.Context, id uuid.UUID) (DependentCounts, *pipeline.Failure) {
	var counts DependentCounts
	db := s.DB.WithContext(ctx)

	if err := db.Model(&models.Membership{}).Where("organization_id = ?", id).Count(&counts.Members).Error; err != nil {
		return counts, pipeline.Backend("count memberships", err)
	}
	if err := db.Model(&models.Invite{}).Where("organization_id = ?", id).Count(&counts.Invites).Error; err != nil {
		return counts, pipeline.Backend("count invites", err)
	}
	if err := db.Model(&models.OrganizationRelationship{}).
		Where("organization_id = ? OR related_org_id = ?", id, id).
		Count(&counts.Relationships).Error; err != nil {
		return counts, pipeline.Backend("count relationships", err)
	}

	return counts, nil
}

// Delete removes an organization after verifying no dependent rows remain.
// A nonzero count fails before any destructive call is issued.
func (s *OrganizationStore) Delete(ctx context.Context, org *models.Organization) *pipeline.Failure {
	counts, failure := s.CountDependents(ctx, org.ID)
	if failure != nil {
		return failure
	}
	if counts.Total() > 0 {
		return pipeline.Integrity(DependentsMessage)
	}

	if err := s.DB.WithContext(ctx).Delete(org).Error; err != nil {
		return TranslateError("delete organization", err)
	}
	return nil
}
