package taxonomy

import (
	"context"
	"errors"
	"strings"
	"tagstore/internal/entity"

	"gorm.io/gorm"
)

// CreateTaxonomy creates and returns a new user-defined taxonomy.
func (s *Service) CreateTaxonomy(ctx context.Context, req entity.CreateTaxonomyRequest) (*Taxonomy, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.New("taxonomy name is required")
	}

	row := entity.DbTaxonomy{
		Name:             name,
		Description:      strings.TrimSpace(req.Description),
		Enabled:          true,
		Required:         req.Required,
		AllowMultiple:    req.AllowMultiple,
		AllowFreeText:    req.AllowFreeText,
		VisibleToAuthors: true,
	}
	if req.Enabled != nil {
		row.Enabled = *req.Enabled
	}

	if err := s.repo.CreateTaxonomy(ctx, &row); err != nil {
		return nil, err
	}
	return s.wrap(row), nil
}

// Taxonomies lists taxonomies ordered by (name, id). A nil query includes
// disabled and author-hidden taxonomies as well.
func (s *Service) Taxonomies(ctx context.Context, query *entity.TaxonomyQuery) ([]entity.DbTaxonomy, error) {
	return s.repo.ListTaxonomies(ctx, query)
}

// Taxonomy returns the taxonomy with the given id, or nil when it does not
// exist. Absence is not an error on read paths.
func (s *Service) Taxonomy(ctx context.Context, id uint) (*Taxonomy, error) {
	row, err := s.repo.GetTaxonomy(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.wrap(*row), nil
}

// ObjectTagFilter narrows ObjectTags listings.
type ObjectTagFilter struct {
	ObjectType string
	TaxonomyID *uint
	// ValidOnly hides object tags that fail their taxonomy's validation,
	// including all object tags with no taxonomy link. Authors typically
	// want ValidOnly=false so they can see and fix invalid tags.
	ValidOnly bool
}

// ObjectTags lists the object tags applied to one object, ordered by id.
func (s *Service) ObjectTags(ctx context.Context, objectID string, filter ObjectTagFilter) ([]*ObjectTag, error) {
	rows, err := s.repo.ListObjectTags(ctx, &entity.ObjectTagQuery{
		ObjectID:   objectID,
		ObjectType: filter.ObjectType,
		TaxonomyID: filter.TaxonomyID,
	})
	if err != nil {
		return nil, err
	}

	objectTags := make([]*ObjectTag, 0, len(rows))
	for _, row := range rows {
		objectTag, err := s.materialize(ctx, row)
		if err != nil {
			return nil, err
		}
		if filter.ValidOnly {
			valid, err := s.IsValid(ctx, objectTag)
			if err != nil {
				return nil, err
			}
			if !valid {
				continue
			}
		}
		objectTags = append(objectTags, objectTag)
	}
	return objectTags, nil
}

// ResyncScope limits a bulk resync sweep to a subset of object tags.
type ResyncScope struct {
	ObjectID   string
	TaxonomyID *uint
}

// ResyncObjectTags runs the resync repair over the scoped object tags and
// persists the ones that changed, returning how many rows were repaired.
// Object tags for which no home can be found simply stay unlinked.
func (s *Service) ResyncObjectTags(ctx context.Context, scope ResyncScope) (int, error) {
	rows, err := s.repo.ListObjectTags(ctx, &entity.ObjectTagQuery{
		ObjectID:   scope.ObjectID,
		TaxonomyID: scope.TaxonomyID,
	})
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, row := range rows {
		objectTag, err := s.materialize(ctx, row)
		if err != nil {
			return updated, err
		}
		changed, err := s.Resync(ctx, objectTag)
		if err != nil {
			return updated, err
		}
		if changed {
			if err := s.repo.SaveObjectTag(ctx, &objectTag.Row); err != nil {
				return updated, err
			}
			updated++
		}
	}
	return updated, nil
}
