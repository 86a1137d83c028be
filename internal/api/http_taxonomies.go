package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tagstore/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// boolFilterParam parses a tri-state query parameter accepting "true",
// "false" or "all" (default "all"). It reports false after writing the
// error response when the value is unrecognised.
func boolFilterParam(c *gin.Context, name string) (*bool, bool) {
	switch strings.ToLower(strings.TrimSpace(c.Query(name))) {
	case "", "all":
		return nil, true
	case "true", "1":
		value := true
		return &value, true
	case "false", "0":
		value := false
		return &value, true
	default:
		BadRequest(c, ErrCodeInvalidRequest, name+" must be true, false or all")
		return nil, false
	}
}

// ListTaxonomies returns taxonomies ordered by name, filtered by the
// enabled and visible_to_authors query parameters.
func (h *HTTPHandler) ListTaxonomies(c *gin.Context) {
	if h.tagging == nil {
		ServiceUnavailable(c, "tagging service not available")
		return
	}

	query := entity.TaxonomyQuery{}
	var ok bool
	if query.Enabled, ok = boolFilterParam(c, "enabled"); !ok {
		return
	}
	if query.VisibleToAuthors, ok = boolFilterParam(c, "visible_to_authors"); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.tagging.Taxonomies(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list taxonomies")
		InternalError(c, "failed to load taxonomies")
		return
	}

	response := entity.TaxonomyListResponse{
		Taxonomies: make([]entity.TaxonomyItem, 0, len(rows)),
	}
	for idx := range rows {
		response.Taxonomies = append(response.Taxonomies, makeTaxonomyItem(rows[idx]))
	}

	c.JSON(http.StatusOK, response)
}

func (h *HTTPHandler) GetTaxonomy(c *gin.Context) {
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
		logrus.WithError(err).WithField("taxonomy_id", id).Error("failed to load taxonomy")
		InternalError(c, "failed to load taxonomy")
		return
	}
	if taxonomy == nil {
		NotFound(c, ErrCodeTaxonomyNotFound, "taxonomy not found")
		return
	}

	c.JSON(http.StatusOK, entity.TaxonomyDetailResponse{Taxonomy: makeTaxonomyItem(taxonomy.DbTaxonomy)})
}

func (h *HTTPHandler) CreateTaxonomy(c *gin.Context) {
	if h.tagging == nil {
		ServiceUnavailable(c, "tagging service not available")
		return
	}

	var req entity.CreateTaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		MissingField(c, "name")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	taxonomy, err := h.tagging.CreateTaxonomy(ctx, req)
	if err != nil {
		logrus.WithError(err).Error("failed to create taxonomy")
		BadRequest(c, ErrCodeInvalidRequest, "failed to create taxonomy")
		return
	}

	c.JSON(http.StatusCreated, entity.TaxonomyDetailResponse{Taxonomy: makeTaxonomyItem(taxonomy.DbTaxonomy)})
}

func (h *HTTPHandler) UpdateTaxonomy(c *gin.Context) {
	if h.repo == nil || h.tagging == nil {
		ServiceUnavailable(c, "tagging service not available")
		return
	}

	id, ok := taxonomyIDParam(c)
	if !ok {
		return
	}

	var req entity.UpdateTaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	taxonomy, err := h.tagging.Taxonomy(ctx, id)
	if err != nil {
		logrus.WithError(err).WithField("taxonomy_id", id).Error("failed to load taxonomy for update")
		InternalError(c, "failed to update taxonomy")
		return
	}
	if taxonomy == nil {
		NotFound(c, ErrCodeTaxonomyNotFound, "taxonomy not found")
		return
	}
	if taxonomy.SystemDefined {
		Forbidden(c, "system taxonomies cannot be modified")
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		MissingField(c, "name")
		return
	}

	updates := entity.TaxonomyUpdates{
		Name:             req.Name,
		Description:      req.Description,
		Enabled:          req.Enabled,
		Required:         req.Required,
		AllowMultiple:    req.AllowMultiple,
		AllowFreeText:    req.AllowFreeText,
		VisibleToAuthors: req.VisibleToAuthors,
	}
	if updates.IsEmpty() {
		c.JSON(http.StatusOK, entity.TaxonomyDetailResponse{Taxonomy: makeTaxonomyItem(taxonomy.DbTaxonomy)})
		return
	}

	if err := h.repo.UpdateTaxonomy(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeTaxonomyNotFound, "taxonomy not found")
			return
		}
		logrus.WithError(err).WithField("taxonomy_id", id).Error("failed to update taxonomy")
		InternalError(c, "failed to update taxonomy")
		return
	}

	updated, err := h.tagging.Taxonomy(ctx, id)
	if err != nil || updated == nil {
		logrus.WithError(err).WithField("taxonomy_id", id).Error("failed to reload taxonomy after update")
		InternalError(c, "failed to load updated taxonomy")
		return
	}

	c.JSON(http.StatusOK, entity.TaxonomyDetailResponse{Taxonomy: makeTaxonomyItem(updated.DbTaxonomy)})
}

// DeleteTaxonomy removes a taxonomy. Dependent tags and object tags keep
// their rows but lose the taxonomy link, so applied labels stay readable
// from their cached copies.
func (h *HTTPHandler) DeleteTaxonomy(c *gin.Context) {
	if h.repo == nil || h.tagging == nil {
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
		logrus.WithError(err).WithField("taxonomy_id", id).Error("failed to load taxonomy for deletion")
		InternalError(c, "failed to delete taxonomy")
		return
	}
	if taxonomy == nil {
		NotFound(c, ErrCodeTaxonomyNotFound, "taxonomy not found")
		return
	}
	if taxonomy.SystemDefined {
		ErrorResponse(c, http.StatusForbidden, ErrCodeSystemTaxonomy, "system taxonomies cannot be deleted")
		return
	}

	if err := h.repo.DeleteTaxonomy(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeTaxonomyNotFound, "taxonomy not found")
			return
		}
		logrus.WithError(err).WithField("taxonomy_id", id).Error("failed to delete taxonomy")
		InternalError(c, "failed to delete taxonomy")
		return
	}

	c.Status(http.StatusNoContent)
}

func taxonomyIDParam(c *gin.Context) (uint, bool) {
	rawID := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid taxonomy id")
		return 0, false
	}
	return uint(id), true
}

func makeTaxonomyItem(row entity.DbTaxonomy) entity.TaxonomyItem {
	return entity.TaxonomyItem{
		ID:               row.ID,
		Name:             row.Name,
		Description:      row.Description,
		Enabled:          row.Enabled,
		Required:         row.Required,
		AllowMultiple:    row.AllowMultiple,
		AllowFreeText:    row.AllowFreeText,
		SystemDefined:    row.SystemDefined,
		VisibleToAuthors: row.VisibleToAuthors,
		Variant:          row.Variant,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}
