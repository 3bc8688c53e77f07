package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carelink-backend/shared/database"
	"carelink-backend/shared/database/models"
	"carelink-backend/shared/pipeline"
	"carelink-backend/shared/store"
)

var contentFields = []pipeline.Field{
	{Name: "section", Kind: pipeline.KindEnum, Allowed: models.ContentSections},
	{Name: "title", Kind: pipeline.KindString},
	{Name: "body", Kind: pipeline.KindString},
	{Name: "published", Kind: pipeline.KindBoolean},
}

// contentViews returns the cached views touched by a content write
func contentViews(orgID uuid.UUID) []string {
	return []string{
		"/organizations/" + orgID.String() + "/content",
		"/public/" + orgID.String(),
	}
}

// GetContentBlocks retrieves an organization's content blocks
// @Summary Get content blocks
// @Tags content
// @Produce json
// @Param id path string true "Organization ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /organizations/{id}/content [get]
func GetContentBlocks(c *gin.Context) {
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

	var blocks []models.ContentBlock
	err := database.GetDB().
		Where("organization_id = ?", orgID).
		Order("section ASC").
		Find(&blocks).Error
	if err != nil {
		renderFailure(c, pipeline.Backend("list content blocks", err))
		return
	}

	renderSuccess(c, http.StatusOK, blocks)
}

// UpsertContentBlock creates or replaces one section's content block
// @Summary Upsert content block
// @Description Create or fully replace the content block for a section. One block exists per organization and section.
// @Tags content
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Organization ID"
// @Param section formData string true "Section (hero, footer, nav, programs)"
// @Param title formData string false "Block title"
// @Param body formData string false "Block body"
// @Param published formData boolean false "Published flag"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]string "Unknown section"
// @Router /organizations/{id}/content [post]
func UpsertContentBlock(c *gin.Context) {
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

	form, failure := pipeline.DecodeForm(values, contentFields)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	section := form.Str("section")
	if section == nil {
		renderFailure(c, pipeline.Validation("section", "Unknown section"))
		return
	}

	content := store.ContentStore{DB: database.GetDB()}
	ac := actor(c)
	var saved *models.ContentBlock

	act := pipeline.Action{
		Name:           "content_block_saved",
		Capability:     pipeline.CapManageContent,
		OrganizationID: &orgID,
	}

	_, failure = pipe.Execute(c.Request.Context(), ac, act, contentViews(orgID),
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			block := &models.ContentBlock{
				OrganizationID: orgID,
				Section:        *section,
				Title:          form.Str("title"),
				Body:           form.Str("body"),
				Published:      form.Bool("published"),
				UpdatedBy:      ac.ProfileID,
			}

			// Image URL survives a text-only save
			existing, failure := content.Get(ctx, orgID, *section)
			if failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			if existing != nil {
				block.ImageURL = existing.ImageURL
			}

			if failure := content.Upsert(ctx, block); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			saved = block

			return pipeline.RefUUID("content_blocks", block.ID), map[string]interface{}{
				"section":   block.Section,
				"published": block.Published,
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusOK, saved)
}

// UploadContentImage stores a section image and records its URL
// @Summary Upload content image
// @Description Upload the image for a section's content block. The block must already exist.
// @Tags content
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Organization ID"
// @Param section formData string true "Section (hero, footer, nav, programs)"
// @Param image formData file true "Image file"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]string "Validation error"
// @Router /organizations/{id}/content/image [post]
func UploadContentImage(c *gin.Context) {
	orgID, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	if media == nil {
		renderFailure(c, pipeline.Validation("image", "Media uploads are not available"))
		return
	}

	section := c.PostForm("section")
	allowed := false
	for _, s := range models.ContentSections {
		if section == s {
			allowed = true
			break
		}
	}
	if !allowed {
		renderFailure(c, pipeline.Validation("section", "Unknown section"))
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		renderFailure(c, pipeline.Validation("image", "Image file is required"))
		return
	}
	if !media.IsAllowedType(fileHeader.Filename) {
		renderFailure(c, pipeline.Validation("image", "Unsupported image type"))
		return
	}

	content := store.ContentStore{DB: database.GetDB()}
	ac := actor(c)
	var imageURL string

	act := pipeline.Action{
		Name:           "content_image_uploaded",
		Capability:     pipeline.CapManageContent,
		OrganizationID: &orgID,
	}

	_, failure = pipe.Execute(c.Request.Context(), ac, act, contentViews(orgID),
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			block, failure := content.Get(ctx, orgID, section)
			if failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			if block == nil {
				return pipeline.EntityRef{}, nil,
					pipeline.Validation("section", "Save the section before uploading an image")
			}

			url, err := media.UploadContentImage(ctx, orgID, section, fileHeader)
			if err != nil {
				return pipeline.EntityRef{}, nil, pipeline.Backend("upload content image", err)
			}

			if failure := content.SetImageURL(ctx, block, url, ac.ProfileID); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			imageURL = url

			return pipeline.RefUUID("content_blocks", block.ID), map[string]interface{}{
				"section":   section,
				"image_url": url,
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusOK, gin.H{"image_url": imageURL})
}
