package entity

// Re-export persisted row types from the db package.

import (
	"tagstore/internal/entity/db"
)

type DbTaxonomy = db.Taxonomy
type DbTag = db.Tag
type DbObjectTag = db.ObjectTag
type DbUser = db.User

const (
	UserRoleSuperAdmin = db.UserRoleSuperAdmin
	UserRoleAdmin      = db.UserRoleAdmin
	UserRoleUser       = db.UserRoleUser

	VariantOpen     = db.VariantOpen
	VariantClosed   = db.VariantClosed
	VariantSystem   = db.VariantSystem
	VariantModel    = db.VariantModel
	VariantLanguage = db.VariantLanguage
)
