package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carelink-backend/shared/database/models"
	"carelink-backend/shared/pipeline"
)

// ContentStore executes marketing content mutations. One block exists per
// organization and section; updates always carry the full payload.
type ContentStore struct {
	DB *gorm.DB
}

// Get loads the block for an organization section, nil when none exists yet
func (s *ContentStore) Get(ctx context.Context, orgID uuid.UUID, section string) (*models.ContentBlock, *pipeline.Failure) {
	var block models.ContentBlock
	err := s.DB.WithContext(ctx).
		Where("organization_id = ? AND section = ?", orgID, section).
		First(&block).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, pipeline.Backend("load content block", err)
	}
	return &block, nil
}

// Upsert creates or fully replaces the block for an organization section
func (s *ContentStore) Upsert(ctx context.Context, block *models.ContentBlock) *pipeline.Failure {
	existing, failure := s.Get(ctx, block.OrganizationID, block.Section)
	if failure != nil {
		return failure
	}

	if existing == nil {
		if err := s.DB.WithContext(ctx).Create(block).Error; err != nil {
			return TranslateError("create content block", err)
		}
		return nil
	}

	block.ID = existing.ID
	block.CreatedAt = existing.CreatedAt
	if err := s.DB.WithContext(ctx).Save(block).Error; err != nil {
		return TranslateError("update content block", err)
	}
	return nil
}

// SetImageURL updates only the image reference of an existing block
func (s *ContentStore) SetImageURL(ctx context.Context, block *models.ContentBlock, imageURL string, updatedBy uuid.UUID) *pipeline.Failure {
	err := s.DB.WithContext(ctx).Model(block).
		Updates(map[string]interface{}{"image_url": imageURL, "updated_by": updatedBy}).Error
	if err != nil {
		return TranslateError("update content image", err)
	}
	return nil
}
