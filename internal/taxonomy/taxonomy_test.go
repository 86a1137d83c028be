package taxonomy

import (
	"context"
	"testing"

	"tagstore/internal/entity"
	modelsql "tagstore/internal/model/sql"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive for the
	// whole test.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entity.DbUser{},
		&entity.DbTaxonomy{},
		&entity.DbTag{},
		&entity.DbObjectTag{},
	))

	repo := modelsql.NewGormRepository(db)
	return NewService(repo, NewUserDirectory(repo), StaticLocales{"en", "es", "fr"})
}

func createTaxonomy(t *testing.T, s *Service, row entity.DbTaxonomy) *Taxonomy {
	t.Helper()
	require.NoError(t, s.repo.CreateTaxonomy(context.Background(), &row))
	return s.wrap(row)
}

func createTag(t *testing.T, s *Service, taxonomyID uint, value string, parentID *uint) entity.DbTag {
	t.Helper()
	tag := entity.DbTag{
		TaxonomyID: &taxonomyID,
		ParentID:   parentID,
		Value:      value,
	}
	require.NoError(t, s.repo.CreateTag(context.Background(), &tag))
	return tag
}

func createExternalTag(t *testing.T, s *Service, taxonomyID uint, value, externalID string) entity.DbTag {
	t.Helper()
	tag := entity.DbTag{
		TaxonomyID: &taxonomyID,
		Value:      value,
		ExternalID: &externalID,
	}
	require.NoError(t, s.repo.CreateTag(context.Background(), &tag))
	return tag
}

func createUser(t *testing.T, s *Service, email, displayName string) entity.DbUser {
	t.Helper()
	user := entity.DbUser{
		Email:        email,
		PasswordHash: "x",
		DisplayName:  displayName,
		Role:         entity.UserRoleUser,
		IsActive:     true,
	}
	require.NoError(t, s.repo.CreateUser(context.Background(), &user))
	return user
}

func TestResolveVariantDefaults(t *testing.T) {
	s := newTestService(t)

	open := entity.DbTaxonomy{Name: "Open", AllowFreeText: true}
	require.Equal(t, entity.VariantOpen, s.resolveVariant(open))

	closed := entity.DbTaxonomy{Name: "Closed"}
	require.Equal(t, entity.VariantClosed, s.resolveVariant(closed))
}

func TestResolveVariantUnknownDegrades(t *testing.T) {
	s := newTestService(t)

	row := entity.DbTaxonomy{Name: "Weird", Variant: "no-such-variant"}
	require.Equal(t, entity.VariantClosed, s.resolveVariant(row))

	row.AllowFreeText = true
	require.Equal(t, entity.VariantOpen, s.resolveVariant(row))
}

func TestTaxonomyAbsentIsNotAnError(t *testing.T) {
	s := newTestService(t)

	taxonomy, err := s.Taxonomy(context.Background(), 12345)
	require.NoError(t, err)
	require.Nil(t, taxonomy)
}

func TestTaxonomiesFilterByVisibility(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	visible := createTaxonomy(t, s, entity.DbTaxonomy{Name: "Subjects", Enabled: true, VisibleToAuthors: true})
	hidden := createTaxonomy(t, s, entity.DbTaxonomy{Name: "Internal", Enabled: true})

	all, err := s.Taxonomies(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	wantVisible := true
	rows, err := s.Taxonomies(ctx, &entity.TaxonomyQuery{VisibleToAuthors: &wantVisible})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, visible.ID, rows[0].ID)

	wantVisible = false
	rows, err = s.Taxonomies(ctx, &entity.TaxonomyQuery{VisibleToAuthors: &wantVisible})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, hidden.ID, rows[0].ID)
}

func TestCreateTaxonomyPersistsDisabled(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	disabled := false
	created, err := s.CreateTaxonomy(ctx, entity.CreateTaxonomyRequest{
		Name:    "Drafts",
		Enabled: &disabled,
	})
	require.NoError(t, err)
	require.False(t, created.Enabled)

	// The flag must survive the round trip to the database, not just
	// live on the returned struct.
	row, err := s.repo.GetTaxonomy(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, row.Enabled)
	require.True(t, row.VisibleToAuthors)
}

func TestValidateObjectTagChecks(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tx := createTaxonomy(t, s, entity.DbTaxonomy{Name: "Colors", Enabled: true})
	red := createTag(t, s, tx.ID, "Red", nil)

	objectTag := s.newObjectTag(tx, "obj-1", "")
	objectTag.linkTag(&red)
	objectTag.SetValue(red.Value)

	valid, err := s.ValidateObjectTag(ctx, tx, objectTag, AllChecks())
	require.NoError(t, err)
	require.True(t, valid)

	// An empty object id fails the object check but passes without it.
	objectTag.Row.ObjectID = ""
	valid, err = s.ValidateObjectTag(ctx, tx, objectTag, AllChecks())
	require.NoError(t, err)
	require.False(t, valid)

	valid, err = s.ValidateObjectTag(ctx, tx, objectTag, Checks{Taxonomy: true, Tag: true})
	require.NoError(t, err)
	require.True(t, valid)
}

func TestIsValidRequiresTaxonomyLink(t *testing.T) {
	s := newTestService(t)

	orphan := &ObjectTag{Row: entity.DbObjectTag{
		ObjectID: "obj-1",
		Name:     "Colors",
		Value:    "Red",
	}}

	valid, err := s.IsValid(context.Background(), orphan)
	require.NoError(t, err)
	require.False(t, valid)
}
