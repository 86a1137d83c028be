package taxonomy

import (
	"context"
	"testing"

	"tagstore/internal/entity"

	"github.com/stretchr/testify/require"
)

func TestLineageRootFirst(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tx := createTaxonomy(t, s, entity.DbTaxonomy{Name: "Science", Enabled: true})
	root := createTag(t, s, tx.ID, "Biology", nil)
	middle := createTag(t, s, tx.ID, "Genetics", &root.ID)
	leaf := createTag(t, s, tx.ID, "DNA", &middle.ID)

	lineage, err := s.Lineage(ctx, &leaf)
	require.NoError(t, err)
	require.Equal(t, []string{"Biology", "Genetics", "DNA"}, lineage)

	lineage, err = s.Lineage(ctx, &root)
	require.NoError(t, err)
	require.Equal(t, []string{"Biology"}, lineage)
}

func TestLineageCappedAtMaxDepth(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tx := createTaxonomy(t, s, entity.DbTaxonomy{Name: "Deep", Enabled: true})
	a := createTag(t, s, tx.ID, "a", nil)
	b := createTag(t, s, tx.ID, "b", &a.ID)
	c := createTag(t, s, tx.ID, "c", &b.ID)
	d := createTag(t, s, tx.ID, "d", &c.ID)

	lineage, err := s.Lineage(ctx, &d)
	require.NoError(t, err)
	require.Len(t, lineage, MaxDepth)
	require.Equal(t, []string{"b", "c", "d"}, lineage)
}

func TestLineageToleratesDanglingParent(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tx := createTaxonomy(t, s, entity.DbTaxonomy{Name: "Science", Enabled: true})
	missing := uint(9999)
	orphan := entity.DbTag{TaxonomyID: &tx.ID, ParentID: &missing, Value: "Stranded"}
	require.NoError(t, s.repo.CreateTag(ctx, &orphan))

	lineage, err := s.Lineage(ctx, &orphan)
	require.NoError(t, err)
	require.Equal(t, []string{"Stranded"}, lineage)
}

func TestTagsLevelOrder(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tx := createTaxonomy(t, s, entity.DbTaxonomy{Name: "Animals", Enabled: true})
	mammals := createTag(t, s, tx.ID, "Mammals", nil)
	birds := createTag(t, s, tx.ID, "Birds", nil)
	createTag(t, s, tx.ID, "Whales", &mammals.ID)
	createTag(t, s, tx.ID, "Bats", &mammals.ID)
	createTag(t, s, tx.ID, "Owls", &birds.ID)

	tags, err := s.Tags(ctx, tx)
	require.NoError(t, err)

	values := make([]string, len(tags))
	depths := make([]int, len(tags))
	for i, tag := range tags {
		values[i] = tag.Value
		depths[i] = tag.Depth
	}

	// Roots sorted by value, then the whole next level sorted by
	// (parent value, value).
	require.Equal(t, []string{"Birds", "Mammals", "Owls", "Bats", "Whales"}, values)
	require.Equal(t, []int{0, 0, 1, 1, 1}, depths)
}

func TestTagsDepthLimited(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tx := createTaxonomy(t, s, entity.DbTaxonomy{Name: "Deep", Enabled: true})
	a := createTag(t, s, tx.ID, "a", nil)
	b := createTag(t, s, tx.ID, "b", &a.ID)
	c := createTag(t, s, tx.ID, "c", &b.ID)
	createTag(t, s, tx.ID, "d", &c.ID)

	tags, err := s.Tags(ctx, tx)
	require.NoError(t, err)
	require.Len(t, tags, MaxDepth)
	for _, tag := range tags {
		require.Less(t, tag.Depth, MaxDepth)
	}
}

func TestTagsFreeTextTaxonomyIsEmpty(t *testing.T) {
	s := newTestService(t)

	tx := createTaxonomy(t, s, entity.DbTaxonomy{Name: "Keywords", Enabled: true, AllowFreeText: true})

	tags, err := s.Tags(context.Background(), tx)
	require.NoError(t, err)
	require.Empty(t, tags)
}

func TestTagsLanguageTaxonomyFiltersUnsupportedLocales(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tx := createTaxonomy(t, s, entity.DbTaxonomy{
		Name:          "Language",
		Enabled:       true,
		SystemDefined: true,
		Variant:       entity.VariantLanguage,
	})
	createExternalTag(t, s, tx.ID, "English", "en")
	createExternalTag(t, s, tx.ID, "Klingon", "tlh")

	tags, err := s.Tags(ctx, tx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	require.Equal(t, "English", tags[0].Value)
}
