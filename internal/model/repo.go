package model

import (
	"context"
	"tagstore/internal/entity"
)

// Repository defines the persistence operations the tagging core depends
// on. Lookups by value, name and external id are case-insensitive. Absent
// rows are reported as gorm.ErrRecordNotFound by Get/Find methods.
type Repository interface {
	// Taxonomies
	CreateTaxonomy(ctx context.Context, taxonomy *entity.DbTaxonomy) error
	GetTaxonomy(ctx context.Context, id uint) (*entity.DbTaxonomy, error)
	// ListTaxonomies returns taxonomies ordered by (name, id). A nil query
	// or nil query fields match everything.
	ListTaxonomies(ctx context.Context, query *entity.TaxonomyQuery) ([]entity.DbTaxonomy, error)
	// ListEnabledTaxonomiesByName returns enabled taxonomies whose name
	// matches, ordered by (allow_free_text asc, id asc) so that closed
	// taxonomies are considered before free-text ones.
	ListEnabledTaxonomiesByName(ctx context.Context, name string) ([]entity.DbTaxonomy, error)
	UpdateTaxonomy(ctx context.Context, id uint, updates entity.TaxonomyUpdates) error
	// DeleteTaxonomy removes the taxonomy and nulls the taxonomy reference
	// on dependent tags and object tags.
	DeleteTaxonomy(ctx context.Context, id uint) error

	// Tags
	CreateTag(ctx context.Context, tag *entity.DbTag) error
	UpdateTag(ctx context.Context, id uint, updates map[string]interface{}) error
	// DeleteTag removes the tag and nulls the references held by dependent
	// object tags and child tags.
	DeleteTag(ctx context.Context, id uint) error
	GetTag(ctx context.Context, id uint) (*entity.DbTag, error)
	FindTagInTaxonomy(ctx context.Context, taxonomyID, id uint) (*entity.DbTag, error)
	FindTagByValue(ctx context.Context, taxonomyID uint, value string) (*entity.DbTag, error)
	FindTagByExternalID(ctx context.Context, taxonomyID uint, externalID string) (*entity.DbTag, error)
	// ListRootTags returns the taxonomy's parentless tags ordered by
	// (value, id).
	ListRootTags(ctx context.Context, taxonomyID uint) ([]entity.DbTag, error)
	// ListChildTags returns tags whose parent is in parentIDs, ordered by
	// (parent value, value, id).
	ListChildTags(ctx context.Context, taxonomyID uint, parentIDs []uint) ([]entity.DbTag, error)

	// Object tags
	ListObjectTags(ctx context.Context, query *entity.ObjectTagQuery) ([]entity.DbObjectTag, error)
	ListTaxonomyObjectTags(ctx context.Context, taxonomyID uint, objectID, objectType string) ([]entity.DbObjectTag, error)
	SaveObjectTag(ctx context.Context, objectTag *entity.DbObjectTag) error
	DeleteObjectTag(ctx context.Context, id uint) error
	// ReplaceObjectTags persists every row in save and deletes the rows in
	// deleteIDs within a single transaction, so no reader observes a
	// partially replaced set.
	ReplaceObjectTags(ctx context.Context, save []*entity.DbObjectTag, deleteIDs []uint) error

	// Users
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	ListUsers(ctx context.Context) ([]entity.DbUser, error)
	DeleteUser(ctx context.Context, id uint) error
	CountUsers(ctx context.Context) (int64, error)
}
