package taxonomy

import (
	"context"
	"testing"

	"tagstore/internal/entity"

	"github.com/stretchr/testify/require"
)

func TestResyncNoChangeIsIdempotent(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tx := createTaxonomy(t, s, entity.DbTaxonomy{Name: "Colors", Enabled: true})
	red := createTag(t, s, tx.ID, "Red", nil)

	objectTag := s.newObjectTag(tx, "obj-1", "")
	objectTag.linkTag(&red)
	objectTag.SetValue(red.Value)

	changed, err := s.Resync(ctx, objectTag)
	require.NoError(t, err)
	require.False(t, changed)
}

func TestResyncRefreshesCachedName(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tx := createTaxonomy(t, s, entity.DbTaxonomy{Name: "Colors", Enabled: true})
	red := createTag(t, s, tx.ID, "Red", nil)

	row := entity.DbObjectTag{
		ObjectID:   "obj-1",
		TaxonomyID: &tx.ID,
		TagID:      &red.ID,
		Name:       "Colours (old)",
		Value:      "Red",
	}
	require.NoError(t, s.repo.SaveObjectTag(ctx, &row))

	objectTag, err := s.materialize(ctx, row)
	require.NoError(t, err)

	changed, err := s.Resync(ctx, objectTag)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, "Colors", objectTag.Row.Name)

	changed, err = s.Resync(ctx, objectTag)
	require.NoError(t, err)
	require.False(t, changed)
}

func TestResyncRefreshesCachedNameCasing(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tx := createTaxonomy(t, s, entity.DbTaxonomy{Name: "Colors", Enabled: true})
	red := createTag(t, s, tx.ID, "Red", nil)

	row := entity.DbObjectTag{
		ObjectID:   "obj-1",
		TaxonomyID: &tx.ID,
		TagID:      &red.ID,
		Name:       "COLORS",
		Value:      "Red",
	}
	require.NoError(t, s.repo.SaveObjectTag(ctx, &row))

	objectTag, err := s.materialize(ctx, row)
	require.NoError(t, err)

	// A case-only drift in the cached name still counts as a change.
	changed, err := s.Resync(ctx, objectTag)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, "Colors", objectTag.Row.Name)
}

func TestResyncRefreshesCachedValue(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tx := createTaxonomy(t, s, entity.DbTaxonomy{Name: "Colors", Enabled: true})
	red := createTag(t, s, tx.ID, "Red", nil)

	row := entity.DbObjectTag{
		ObjectID:   "obj-1",
		TaxonomyID: &tx.ID,
		TagID:      &red.ID,
		Name:       "Colors",
		Value:      "Crimson",
	}
	require.NoError(t, s.repo.SaveObjectTag(ctx, &row))

	objectTag, err := s.materialize(ctx, row)
	require.NoError(t, err)

	changed, err := s.Resync(ctx, objectTag)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, "Red", objectTag.Row.Value)
}

func TestResyncLinksTagByCachedValue(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tx := createTaxonomy(t, s, entity.DbTaxonomy{Name: "Colors", Enabled: true})
	red := createTag(t, s, tx.ID, "Red", nil)

	row := entity.DbObjectTag{
		ObjectID:   "obj-1",
		TaxonomyID: &tx.ID,
		Name:       "Colors",
		Value:      "RED",
	}
	require.NoError(t, s.repo.SaveObjectTag(ctx, &row))

	objectTag, err := s.materialize(ctx, row)
	require.NoError(t, err)

	// First pass links by value, case-insensitively.
	changed, err := s.Resync(ctx, objectTag)
	require.NoError(t, err)
	require.True(t, changed)
	require.NotNil(t, objectTag.Row.TagID)
	require.Equal(t, red.ID, *objectTag.Row.TagID)
	require.Equal(t, "RED", objectTag.Row.Value)

	// A later pass normalizes the cached value to the tag's casing.
	changed, err = s.Resync(ctx, objectTag)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, "Red", objectTag.Row.Value)

	changed, err = s.Resync(ctx, objectTag)
	require.NoError(t, err)
	require.False(t, changed)
}

func TestResyncAdoptsLinkedTagTaxonomy(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tx := createTaxonomy(t, s, entity.DbTaxonomy{Name: "Colors", Enabled: true})
	red := createTag(t, s, tx.ID, "Red", nil)

	row := entity.DbObjectTag{
		ObjectID: "obj-1",
		TagID:    &red.ID,
		Name:     "Colors",
		Value:    "Red",
	}
	require.NoError(t, s.repo.SaveObjectTag(ctx, &row))

	objectTag, err := s.materialize(ctx, row)
	require.NoError(t, err)

	changed, err := s.Resync(ctx, objectTag)
	require.NoError(t, err)
	require.True(t, changed)
	require.NotNil(t, objectTag.Row.TaxonomyID)
	require.Equal(t, tx.ID, *objectTag.Row.TaxonomyID)
}

func TestResyncRelinkPrefersClosedCandidate(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	// Same name, one free-text (created first, lower id), one closed.
	createTaxonomy(t, s, entity.DbTaxonomy{Name: "Colors", Enabled: true, AllowFreeText: true})
	closed := createTaxonomy(t, s, entity.DbTaxonomy{Name: "Colors", Enabled: true})
	red := createTag(t, s, closed.ID, "Red", nil)

	row := entity.DbObjectTag{
		ObjectID: "obj-1",
		Name:     "Colors",
		Value:    "Red",
	}
	require.NoError(t, s.repo.SaveObjectTag(ctx, &row))

	objectTag, err := s.materialize(ctx, row)
	require.NoError(t, err)

	changed, err := s.Resync(ctx, objectTag)
	require.NoError(t, err)
	require.True(t, changed)
	require.NotNil(t, objectTag.Row.TaxonomyID)
	require.Equal(t, closed.ID, *objectTag.Row.TaxonomyID)
	require.NotNil(t, objectTag.Row.TagID)
	require.Equal(t, red.ID, *objectTag.Row.TagID)
}

func TestResyncRelinkFallsBackToFreeText(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	// The closed candidate has no matching tag, so only the free-text
	// taxonomy can accept the value.
	createTaxonomy(t, s, entity.DbTaxonomy{Name: "Colors", Enabled: true})
	open := createTaxonomy(t, s, entity.DbTaxonomy{Name: "Colors", Enabled: true, AllowFreeText: true})

	row := entity.DbObjectTag{
		ObjectID: "obj-1",
		Name:     "Colors",
		Value:    "Vermilion",
	}
	require.NoError(t, s.repo.SaveObjectTag(ctx, &row))

	objectTag, err := s.materialize(ctx, row)
	require.NoError(t, err)

	changed, err := s.Resync(ctx, objectTag)
	require.NoError(t, err)
	require.True(t, changed)
	require.NotNil(t, objectTag.Row.TaxonomyID)
	require.Equal(t, open.ID, *objectTag.Row.TaxonomyID)
	require.Nil(t, objectTag.Row.TagID)
}

func TestResyncLeavesHomelessObjectTagUnlinked(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	row := entity.DbObjectTag{
		ObjectID: "obj-1",
		Name:     "Gone Taxonomy",
		Value:    "Gone Value",
	}
	require.NoError(t, s.repo.SaveObjectTag(ctx, &row))

	objectTag, err := s.materialize(ctx, row)
	require.NoError(t, err)

	changed, err := s.Resync(ctx, objectTag)
	require.NoError(t, err)
	require.False(t, changed)
	require.Nil(t, objectTag.Row.TaxonomyID)
	require.Equal(t, "Gone Taxonomy", objectTag.Name())
	require.Equal(t, "Gone Value", objectTag.Value())
}

func TestShadowValueSurvivesTagDeletion(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tx := createTaxonomy(t, s, entity.DbTaxonomy{Name: "Colors", Enabled: true})
	red := createTag(t, s, tx.ID, "Red", nil)

	_, err := s.TagObject(ctx, tx, []string{tagRef(red.ID)}, "obj-1", "")
	require.NoError(t, err)

	require.NoError(t, s.repo.DeleteTag(ctx, red.ID))

	rows, err := s.ObjectTags(ctx, "obj-1", ObjectTagFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Nil(t, rows[0].Row.TagID)
	require.Equal(t, "Red", rows[0].Value())

	valid, err := s.IsValid(ctx, rows[0])
	require.NoError(t, err)
	require.False(t, valid)
}

func TestResyncSurvivesTaxonomyDeletion(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tx := createTaxonomy(t, s, entity.DbTaxonomy{Name: "Colors", Enabled: true})
	red := createTag(t, s, tx.ID, "Red", nil)

	objectTags, err := s.TagObject(ctx, tx, []string{tagRef(red.ID)}, "obj-1", "")
	require.NoError(t, err)
	require.Len(t, objectTags, 1)

	require.NoError(t, s.repo.DeleteTaxonomy(ctx, tx.ID))

	updated, err := s.ResyncObjectTags(ctx, ResyncScope{ObjectID: "obj-1"})
	require.NoError(t, err)
	require.Zero(t, updated)

	rows, err := s.ObjectTags(ctx, "obj-1", ObjectTagFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Colors", rows[0].Name())
	require.Equal(t, "Red", rows[0].Value())

	valid, err := s.IsValid(ctx, rows[0])
	require.NoError(t, err)
	require.False(t, valid)
}
