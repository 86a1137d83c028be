package model

import (
	"context"
	"testing"

	"tagstore/internal/config"
	"tagstore/internal/entity"
	modelsql "tagstore/internal/model/sql"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entity.DbUser{},
		&entity.DbTaxonomy{},
		&entity.DbTag{},
		&entity.DbObjectTag{},
	))

	return modelsql.NewGormRepository(db)
}

func TestSeedSystemTaxonomies(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cfg := config.Config{SupportedLocales: []string{"en", "es", "pt-BR"}}

	require.NoError(t, SeedSystemTaxonomies(ctx, repo, cfg))

	taxonomies, err := repo.ListTaxonomies(ctx, nil)
	require.NoError(t, err)
	require.Len(t, taxonomies, 2)

	byName := make(map[string]entity.DbTaxonomy, len(taxonomies))
	for _, taxonomy := range taxonomies {
		byName[taxonomy.Name] = taxonomy
	}

	language, ok := byName["Language"]
	require.True(t, ok)
	require.True(t, language.SystemDefined)
	require.Equal(t, entity.VariantLanguage, language.Variant)
	require.True(t, language.VisibleToAuthors)

	author, ok := byName["Author"]
	require.True(t, ok)
	require.True(t, author.SystemDefined)
	require.Equal(t, entity.VariantModel, author.Variant)
	require.False(t, author.VisibleToAuthors)

	// One tag per locale, region suffixes reduced to the language part.
	tags, err := repo.ListRootTags(ctx, language.ID)
	require.NoError(t, err)
	require.Len(t, tags, 3)

	byCode := make(map[string]string, len(tags))
	for _, tag := range tags {
		require.NotNil(t, tag.ExternalID)
		byCode[*tag.ExternalID] = tag.Value
	}
	require.Equal(t, "English", byCode["en"])
	require.Equal(t, "Spanish", byCode["es"])
	require.Equal(t, "Portuguese", byCode["pt"])
}

func TestSeedSystemTaxonomiesIsIdempotent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cfg := config.Config{SupportedLocales: []string{"en", "fr"}}

	require.NoError(t, SeedSystemTaxonomies(ctx, repo, cfg))
	require.NoError(t, SeedSystemTaxonomies(ctx, repo, cfg))

	taxonomies, err := repo.ListTaxonomies(ctx, nil)
	require.NoError(t, err)
	require.Len(t, taxonomies, 2)

	for _, taxonomy := range taxonomies {
		if taxonomy.Variant != entity.VariantLanguage {
			continue
		}
		tags, err := repo.ListRootTags(ctx, taxonomy.ID)
		require.NoError(t, err)
		require.Len(t, tags, 2)
	}
}

func TestSeedExtendsLocalesOnRerun(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, SeedSystemTaxonomies(ctx, repo, config.Config{SupportedLocales: []string{"en"}}))
	require.NoError(t, SeedSystemTaxonomies(ctx, repo, config.Config{SupportedLocales: []string{"en", "de"}}))

	taxonomies, err := repo.ListTaxonomies(ctx, nil)
	require.NoError(t, err)

	for _, taxonomy := range taxonomies {
		if taxonomy.Variant != entity.VariantLanguage {
			continue
		}
		tags, err := repo.ListRootTags(ctx, taxonomy.ID)
		require.NoError(t, err)
		require.Len(t, tags, 2)
	}
}

func TestNormalizeLocale(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"en-US", "en"},
		{" PT-br ", "pt"},
		{"", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, normalizeLocale(tt.in), "normalizeLocale(%q)", tt.in)
	}
}
