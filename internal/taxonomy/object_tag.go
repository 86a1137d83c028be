package taxonomy

import (
	"context"
	"errors"
	"strconv"
	"tagstore/internal/entity"

	"gorm.io/gorm"
)

// shadowed pairs an authoritative display string with the durable cached
// copy that outlives it. The authoritative source always wins when present.
type shadowed struct {
	live   *string
	cached string
}

func (s shadowed) resolve() string {
	if s.live != nil {
		return *s.live
	}
	return s.cached
}

// ObjectTag is one applied label on an external object. The row's Name and
// Value columns are cached copies kept populated even while the taxonomy
// and tag references are live, so display survives their deletion.
type ObjectTag struct {
	Row entity.DbObjectTag

	taxonomy *Taxonomy
	tag      *entity.DbTag
}

// Taxonomy returns the linked taxonomy, or nil when unlinked.
func (ot *ObjectTag) Taxonomy() *Taxonomy {
	return ot.taxonomy
}

// Tag returns the linked tag row, or nil when unlinked.
func (ot *ObjectTag) Tag() *entity.DbTag {
	return ot.tag
}

func (ot *ObjectTag) nameField() shadowed {
	var live *string
	if ot.taxonomy != nil {
		live = &ot.taxonomy.Name
	}
	return shadowed{live: live, cached: ot.Row.Name}
}

func (ot *ObjectTag) valueField() shadowed {
	var live *string
	if ot.tag != nil {
		live = &ot.tag.Value
	}
	return shadowed{live: live, cached: ot.Row.Value}
}

// Name returns the tag's label: the taxonomy name when linked, else the
// cached copy.
func (ot *ObjectTag) Name() string {
	return ot.nameField().resolve()
}

// SetName writes the cached name, keeping it fresh even while linked.
func (ot *ObjectTag) SetName(name string) {
	ot.Row.Name = name
}

// Value returns the tag's value: the linked tag's value when linked, else
// the cached copy.
func (ot *ObjectTag) Value() string {
	return ot.valueField().resolve()
}

// SetValue writes the cached value, keeping it fresh even while linked.
func (ot *ObjectTag) SetValue(value string) {
	ot.Row.Value = value
}

// TagRef is the stable diffing key for replace operations: a closed tag is
// referenced by its id, a free-text tag by its literal value.
func (ot *ObjectTag) TagRef() string {
	if ot.Row.TagID != nil {
		return strconv.FormatUint(uint64(*ot.Row.TagID), 10)
	}
	return ot.Row.Value
}

func (ot *ObjectTag) linkTaxonomy(t *Taxonomy) {
	ot.taxonomy = t
	if t == nil {
		ot.Row.TaxonomyID = nil
		return
	}
	id := t.ID
	ot.Row.TaxonomyID = &id
}

func (ot *ObjectTag) linkTag(tag *entity.DbTag) {
	ot.tag = tag
	if tag == nil {
		ot.Row.TagID = nil
		return
	}
	id := tag.ID
	ot.Row.TagID = &id
}

// ObjectTagLineage returns the applied tag's lineage: the linked tag's
// root-first chain, or the cached value alone when unlinked.
func (s *Service) ObjectTagLineage(ctx context.Context, objectTag *ObjectTag) ([]string, error) {
	if objectTag.tag != nil {
		return s.Lineage(ctx, objectTag.tag)
	}
	return []string{objectTag.Value()}, nil
}

// materialize loads the taxonomy and tag referenced by a stored row into a
// domain object tag. Dangling references are tolerated: the object tag
// simply stays unlinked and its cached fields carry the display.
func (s *Service) materialize(ctx context.Context, row entity.DbObjectTag) (*ObjectTag, error) {
	objectTag := &ObjectTag{Row: row}

	if row.TaxonomyID != nil {
		taxonomyRow, err := s.repo.GetTaxonomy(ctx, *row.TaxonomyID)
		switch {
		case err == nil:
			objectTag.taxonomy = s.wrap(*taxonomyRow)
		case errors.Is(err, gorm.ErrRecordNotFound):
			objectTag.Row.TaxonomyID = nil
		default:
			return nil, err
		}
	}

	if row.TagID != nil {
		tagRow, err := s.repo.GetTag(ctx, *row.TagID)
		switch {
		case err == nil:
			objectTag.tag = tagRow
		case errors.Is(err, gorm.ErrRecordNotFound):
			objectTag.Row.TagID = nil
		default:
			return nil, err
		}
	}

	return objectTag, nil
}

func (s *Service) newObjectTag(t *Taxonomy, objectID, objectType string) *ObjectTag {
	objectTag := &ObjectTag{Row: entity.DbObjectTag{
		ObjectID:   objectID,
		ObjectType: objectType,
		Name:       t.Name,
	}}
	objectTag.linkTaxonomy(t)
	return objectTag
}
