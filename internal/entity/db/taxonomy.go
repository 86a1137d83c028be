package db

import "time"

// Taxonomy variant selectors. The variant decides which validation and
// tag-resolution strategy governs the taxonomy's object tags.
const (
	VariantOpen     = "open"
	VariantClosed   = "closed"
	VariantSystem   = "system"
	VariantModel    = "model"
	VariantLanguage = "language"
)

// Taxonomy is a named vocabulary namespace with the rules that govern how
// its tags may be applied to objects.
//
// Enabled and VisibleToAuthors carry no DB default: GORM drops zero-valued
// fields that declare one, so a false would insert as true.
type Taxonomy struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name             string `gorm:"size:255;index;not null" json:"name"`
	Description      string `gorm:"type:text" json:"description"`
	Enabled          bool   `gorm:"not null" json:"enabled"`
	Required         bool   `gorm:"not null;default:false" json:"required"`
	AllowMultiple    bool   `gorm:"not null;default:false" json:"allow_multiple"`
	AllowFreeText    bool   `gorm:"not null;default:false" json:"allow_free_text"`
	SystemDefined    bool   `gorm:"not null;default:false" json:"system_defined"`
	VisibleToAuthors bool   `gorm:"not null" json:"visible_to_authors"`

	// Variant is one of the Variant* constants. Empty means the taxonomy
	// follows the default open/closed behaviour derived from AllowFreeText.
	Variant string `gorm:"size:32;not null;default:''" json:"variant"`
}

// TableName sets the table name used by GORM.
func (Taxonomy) TableName() string {
	return "taxonomies"
}
