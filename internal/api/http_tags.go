package api

import (
	"context"
	"net/http"
	"time"

	"tagstore/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ListTaxonomyTags returns the taxonomy's tag tree flattened in level
// order, each entry annotated with its depth. Free-text taxonomies have
// no vocabulary and return an empty list.
func (h *HTTPHandler) ListTaxonomyTags(c *gin.Context) {
	if h.tagging == nil {
		ServiceUnavailable(c, "tagging service not available")
		return
	}

	id, ok := taxonomyIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	taxonomy, err := h.tagging.Taxonomy(ctx, id)
	if err != nil {
		logrus.WithError(err).WithField("taxonomy_id", id).Error("failed to load taxonomy for tag listing")
		InternalError(c, "failed to load tags")
		return
	}
	if taxonomy == nil {
		NotFound(c, ErrCodeTaxonomyNotFound, "taxonomy not found")
		return
	}

	tags, err := h.tagging.Tags(ctx, taxonomy)
	if err != nil {
		logrus.WithError(err).WithField("taxonomy_id", id).Error("failed to list taxonomy tags")
		InternalError(c, "failed to load tags")
		return
	}

	response := entity.TagListResponse{Tags: make([]entity.TagItem, 0, len(tags))}
	for _, tag := range tags {
		item := entity.TagItem{
			ID:       tag.ID,
			Value:    tag.Value,
			ParentID: tag.ParentID,
			Depth:    tag.Depth,
		}
		if tag.ExternalID != nil {
			item.ExternalID = *tag.ExternalID
		}
		response.Tags = append(response.Tags, item)
	}

	c.JSON(http.StatusOK, response)
}
