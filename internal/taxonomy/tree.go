package taxonomy

import (
	"context"
	"errors"
	"tagstore/internal/entity"

	"gorm.io/gorm"
)

// TreeTag is a vocabulary entry annotated with its depth in the tree,
// starting at 0 for roots.
type TreeTag struct {
	entity.DbTag

	Depth int
}

// Lineage returns the values of the tag's ancestor chain, root first,
// ending with the tag's own value. The walk is capped at MaxDepth steps so
// a corrupted or cyclic parent chain can never loop indefinitely.
func (s *Service) Lineage(ctx context.Context, tag *entity.DbTag) ([]string, error) {
	if tag == nil {
		return []string{}, nil
	}

	lineage := make([]string, 0, MaxDepth)
	current := tag
	for depth := 0; depth < MaxDepth; depth++ {
		lineage = append(lineage, current.Value)
		if current.ParentID == nil {
			break
		}
		parent, err := s.repo.GetTag(ctx, *current.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return nil, err
		}
		current = parent
	}

	for i, j := 0, len(lineage)-1; i < j; i, j = i+1, j-1 {
		lineage[i], lineage[j] = lineage[j], lineage[i]
	}
	return lineage, nil
}

// Tags returns the taxonomy's tags in level order down to MaxDepth levels,
// each level ordered by (parent value, own value, id). Free-text taxonomies
// have no predefined tags and yield an empty list. Variants may narrow the
// visible subset, e.g. the language taxonomy to supported locales.
func (s *Service) Tags(ctx context.Context, t *Taxonomy) ([]TreeTag, error) {
	tags := []TreeTag{}
	if t == nil || t.AllowFreeText {
		return tags, nil
	}
	strat := t.strategy()

	var parents []entity.DbTag
	for depth := 0; depth < MaxDepth; depth++ {
		var level []entity.DbTag
		var err error
		if depth == 0 {
			level, err = s.repo.ListRootTags(ctx, t.ID)
		} else {
			parentIDs := make([]uint, len(parents))
			for i := range parents {
				parentIDs[i] = parents[i].ID
			}
			level, err = s.repo.ListChildTags(ctx, t.ID, parentIDs)
		}
		if err != nil {
			return nil, err
		}

		if strat.filterTags != nil {
			level, err = strat.filterTags(ctx, s, t, level)
			if err != nil {
				return nil, err
			}
		}
		if len(level) == 0 {
			break
		}

		for _, tag := range level {
			tags = append(tags, TreeTag{DbTag: tag, Depth: depth})
		}
		parents = level
	}
	return tags, nil
}
