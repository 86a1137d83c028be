package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"tagstore/internal/entity"
)

// Policy violations surfaced by TagObject. These abort the whole operation
// before any persistence happens.
var (
	ErrTagsNotAllowMultiple = errors.New("taxonomy only allows one tag per object")
	ErrTagsRequired         = errors.New("taxonomy requires at least one tag per object")
	ErrInvalidObjectTag     = errors.New("invalid object tag for taxonomy")
)

// TagObject replaces the full set of object tags for one (taxonomy,
// object) pair with the given references, in caller order. Existing object
// tags whose tag_ref matches a reference are reused untouched; omitted ones
// are deleted. Every reference is resolved, resynced and validated before
// anything is persisted, so a single invalid reference leaves the prior
// tagging state unmodified.
//
// For closed taxonomies the references are tag ids; for free-text
// taxonomies they are literal values; for model-backed taxonomies they are
// external instance identifiers, materialized into tags on first use.
func (s *Service) TagObject(ctx context.Context, t *Taxonomy, refs []string, objectID, objectType string) ([]*ObjectTag, error) {
	if t == nil {
		return nil, fmt.Errorf("taxonomy is nil")
	}
	if !t.AllowMultiple && len(refs) > 1 {
		return nil, fmt.Errorf("%w: taxonomy %d", ErrTagsNotAllowMultiple, t.ID)
	}
	if t.Required && len(refs) == 0 {
		return nil, fmt.Errorf("%w: taxonomy %d", ErrTagsRequired, t.ID)
	}

	rows, err := s.repo.ListTaxonomyObjectTags(ctx, t.ID, objectID, objectType)
	if err != nil {
		return nil, err
	}

	current := make(map[string]*ObjectTag, len(rows))
	var strays []uint
	for _, row := range rows {
		objectTag, err := s.materialize(ctx, row)
		if err != nil {
			return nil, err
		}
		ref := objectTag.TagRef()
		if _, dup := current[ref]; dup {
			// The store should hold one row per (taxonomy, object,
			// tag_ref); drop extras rather than resurrect them.
			strays = append(strays, objectTag.Row.ID)
			continue
		}
		current[ref] = objectTag
	}

	strat := t.strategy()
	updated := make([]*ObjectTag, 0, len(refs))
	for _, ref := range refs {
		objectTag, reused := current[ref]
		if reused {
			delete(current, ref)
		} else {
			objectTag = s.newObjectTag(t, objectID, objectType)
		}

		tag, err := strat.resolveTag(ctx, s, t, ref)
		if err != nil {
			return nil, err
		}
		if tag != nil {
			objectTag.linkTag(tag)
		} else {
			// Might be fine, e.g. a free-text value; validation below
			// decides.
			objectTag.SetValue(ref)
		}

		if _, err := s.Resync(ctx, objectTag); err != nil {
			return nil, err
		}
		valid, err := s.ValidateObjectTag(ctx, t, objectTag, AllChecks())
		if err != nil {
			return nil, err
		}
		if !valid {
			return nil, fmt.Errorf("%w %d: %q", ErrInvalidObjectTag, t.ID, ref)
		}
		updated = append(updated, objectTag)
	}

	// Everything validated; commit the whole replacement set at once.
	save := make([]*entity.DbObjectTag, len(updated))
	for i, objectTag := range updated {
		save[i] = &objectTag.Row
	}
	deleteIDs := strays
	for _, omitted := range current {
		if omitted.Row.ID != 0 {
			deleteIDs = append(deleteIDs, omitted.Row.ID)
		}
	}
	if err := s.repo.ReplaceObjectTags(ctx, save, deleteIDs); err != nil {
		return nil, err
	}

	return updated, nil
}
