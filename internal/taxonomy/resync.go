package taxonomy

import (
	"context"
	"errors"
	"tagstore/internal/entity"

	"gorm.io/gorm"
)

// Resync reconciles the object tag's links and cached display fields with
// live taxonomy/tag state, in four individually idempotent steps:
// taxonomy relink, name sync, tag link, value sync. It reports whether any
// field changed so callers persist only on change, and it is safe over
// object tags whose taxonomy or tag has been deleted: the cached fields are
// then the only remaining truth and the object tag simply stays unlinked.
func (s *Service) Resync(ctx context.Context, objectTag *ObjectTag) (bool, error) {
	if objectTag == nil {
		return false, nil
	}
	changed := false

	// Find a home for an orphaned object tag.
	if objectTag.Row.TaxonomyID == nil {
		relinked, err := s.relinkTaxonomy(ctx, objectTag)
		if err != nil {
			return changed, err
		}
		changed = changed || relinked
	}

	// The live taxonomy name wins over the cached copy, case included.
	if objectTag.taxonomy != nil && objectTag.Row.Name != objectTag.taxonomy.Name {
		objectTag.SetName(objectTag.taxonomy.Name)
		changed = true
	}

	if objectTag.taxonomy != nil && !objectTag.taxonomy.AllowFreeText && objectTag.tag == nil {
		// Closed taxonomies want a tag matching the cached value.
		tag, err := s.repo.FindTagByValue(ctx, objectTag.taxonomy.ID, objectTag.Row.Value)
		switch {
		case err == nil:
			objectTag.linkTag(tag)
			changed = true
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return changed, err
		}
	} else if objectTag.tag != nil && objectTag.Row.Value != objectTag.tag.Value {
		// The live tag value wins over the cached copy, case included.
		objectTag.SetValue(objectTag.tag.Value)
		changed = true
	}

	return changed, nil
}

// relinkTaxonomy tries to re-home an object tag with no taxonomy link. A
// linked tag's taxonomy is adopted directly; otherwise enabled taxonomies
// matching the cached name are tried in (allow_free_text asc, id asc)
// order, tentatively linking each together with a value-matching tag until
// one validates. Failed candidates are unwound before the next is tried;
// if none validates the object tag stays unlinked, which is not an error.
func (s *Service) relinkTaxonomy(ctx context.Context, objectTag *ObjectTag) (bool, error) {
	if objectTag.tag != nil && objectTag.tag.TaxonomyID != nil {
		row, err := s.repo.GetTaxonomy(ctx, *objectTag.tag.TaxonomyID)
		switch {
		case err == nil:
			objectTag.linkTaxonomy(s.wrap(*row))
			return true, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return false, err
		}
	}

	candidates, err := s.repo.ListEnabledTaxonomiesByName(ctx, objectTag.Name())
	if err != nil {
		return false, err
	}

	for _, row := range candidates {
		candidate := s.wrap(row)
		objectTag.linkTaxonomy(candidate)

		var tentativeTag *entity.DbTag
		tag, err := s.repo.FindTagByValue(ctx, candidate.ID, objectTag.Row.Value)
		switch {
		case err == nil:
			tentativeTag = tag
			objectTag.linkTag(tag)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			objectTag.linkTaxonomy(nil)
			return false, err
		}

		ok, err := s.ValidateObjectTag(ctx, candidate, objectTag, AllChecks())
		if err != nil {
			objectTag.linkTaxonomy(nil)
			if tentativeTag != nil {
				objectTag.linkTag(nil)
			}
			return false, err
		}
		if ok {
			return true, nil
		}

		// Undo the tentative link and try the next candidate.
		objectTag.linkTaxonomy(nil)
		if tentativeTag != nil {
			objectTag.linkTag(nil)
		}
	}

	return false, nil
}
