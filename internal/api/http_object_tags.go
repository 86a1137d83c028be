package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tagstore/internal/entity"
	"tagstore/internal/taxonomy"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ListObjectTags returns the tags applied to one object, ordered by id.
// Optional query parameters: object_type, taxonomy_id and valid_only.
func (h *HTTPHandler) ListObjectTags(c *gin.Context) {
	if h.tagging == nil {
		ServiceUnavailable(c, "tagging service not available")
		return
	}

	objectID := strings.TrimSpace(c.Param("object_id"))
	if objectID == "" {
		MissingField(c, "object_id")
		return
	}

	filter := taxonomy.ObjectTagFilter{
		ObjectType: strings.TrimSpace(c.Query("object_type")),
	}

	if rawTaxonomyID := strings.TrimSpace(c.Query("taxonomy_id")); rawTaxonomyID != "" {
		taxonomyID, err := strconv.ParseUint(rawTaxonomyID, 10, 64)
		if err != nil || taxonomyID == 0 {
			BadRequest(c, ErrCodeInvalidRequest, "invalid taxonomy id")
			return
		}
		id := uint(taxonomyID)
		filter.TaxonomyID = &id
	}

	switch strings.ToLower(strings.TrimSpace(c.Query("valid_only"))) {
	case "", "false", "0":
	case "true", "1":
		filter.ValidOnly = true
	default:
		BadRequest(c, ErrCodeInvalidRequest, "valid_only must be true or false")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	objectTags, err := h.tagging.ObjectTags(ctx, objectID, filter)
	if err != nil {
		logrus.WithError(err).WithField("object_id", objectID).Error("failed to list object tags")
		InternalError(c, "failed to load object tags")
		return
	}

	response, err := h.makeObjectTagItems(ctx, objectTags)
	if err != nil {
		logrus.WithError(err).WithField("object_id", objectID).Error("failed to resolve object tag lineage")
		InternalError(c, "failed to load object tags")
		return
	}

	c.JSON(http.StatusOK, entity.ObjectTagListResponse{ObjectTags: response})
}

// ReplaceObjectTags replaces the full tag set for one (taxonomy, object)
// pair. A single invalid reference rejects the whole request and leaves
// the stored tagging untouched.
func (h *HTTPHandler) ReplaceObjectTags(c *gin.Context) {
	if h.tagging == nil {
		ServiceUnavailable(c, "tagging service not available")
		return
	}

	taxonomyID, ok := taxonomyIDParam(c)
	if !ok {
		return
	}

	objectID := strings.TrimSpace(c.Param("object_id"))
	if objectID == "" {
		MissingField(c, "object_id")
		return
	}

	var req entity.ReplaceObjectTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	tx, err := h.tagging.Taxonomy(ctx, taxonomyID)
	if err != nil {
		logrus.WithError(err).WithField("taxonomy_id", taxonomyID).Error("failed to load taxonomy for tagging")
		InternalError(c, "failed to apply tags")
		return
	}
	if tx == nil {
		NotFound(c, ErrCodeTaxonomyNotFound, "taxonomy not found")
		return
	}
	if !tx.Enabled {
		BadRequest(c, ErrCodeInvalidRequest, "taxonomy is disabled")
		return
	}

	refs := make([]string, 0, len(req.Tags))
	for _, ref := range req.Tags {
		refs = append(refs, strings.TrimSpace(ref))
	}

	objectTags, err := h.tagging.TagObject(ctx, tx, refs, objectID, strings.TrimSpace(req.ObjectType))
	if err != nil {
		switch {
		case errors.Is(err, taxonomy.ErrTagsNotAllowMultiple):
			ErrorResponse(c, http.StatusBadRequest, ErrCodeTooManyTags, "taxonomy only allows one tag per object")
		case errors.Is(err, taxonomy.ErrTagsRequired):
			ErrorResponse(c, http.StatusBadRequest, ErrCodeTagsRequired, "taxonomy requires at least one tag")
		case errors.Is(err, taxonomy.ErrInvalidObjectTag):
			ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeInvalidTag, "invalid tag for taxonomy", gin.H{"detail": err.Error()})
		default:
			logrus.WithError(err).WithFields(logrus.Fields{
				"taxonomy_id": taxonomyID,
				"object_id":   objectID,
			}).Error("failed to apply tags")
			InternalError(c, "failed to apply tags")
		}
		return
	}

	response, err := h.makeObjectTagItems(ctx, objectTags)
	if err != nil {
		logrus.WithError(err).WithField("object_id", objectID).Error("failed to resolve object tag lineage")
		InternalError(c, "failed to load applied tags")
		return
	}

	c.JSON(http.StatusOK, entity.ObjectTagListResponse{ObjectTags: response})
}

// ResyncObjectTags runs the repair sweep over stored object tags and
// reports how many rows changed.
func (h *HTTPHandler) ResyncObjectTags(c *gin.Context) {
	if h.tagging == nil {
		ServiceUnavailable(c, "tagging service not available")
		return
	}

	var req entity.ResyncObjectTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	updated, err := h.tagging.ResyncObjectTags(ctx, taxonomy.ResyncScope{
		ObjectID:   strings.TrimSpace(req.ObjectID),
		TaxonomyID: req.TaxonomyID,
	})
	if err != nil {
		logrus.WithError(err).Error("failed to resync object tags")
		InternalError(c, "failed to resync object tags")
		return
	}

	c.JSON(http.StatusOK, entity.ResyncObjectTagsResponse{Updated: updated})
}

func (h *HTTPHandler) makeObjectTagItems(ctx context.Context, objectTags []*taxonomy.ObjectTag) ([]entity.ObjectTagItem, error) {
	items := make([]entity.ObjectTagItem, 0, len(objectTags))
	for _, objectTag := range objectTags {
		lineage, err := h.tagging.ObjectTagLineage(ctx, objectTag)
		if err != nil {
			return nil, err
		}

		valid, err := h.tagging.IsValid(ctx, objectTag)
		if err != nil {
			return nil, err
		}

		items = append(items, entity.ObjectTagItem{
			ID:         objectTag.Row.ID,
			ObjectID:   objectTag.Row.ObjectID,
			ObjectType: objectTag.Row.ObjectType,
			TaxonomyID: objectTag.Row.TaxonomyID,
			TagID:      objectTag.Row.TagID,
			Name:       objectTag.Name(),
			Value:      objectTag.Value(),
			Lineage:    lineage,
			IsValid:    valid,
		})
	}
	return items, nil
}
