package db

import "time"

// Tag is one predefined entry in a taxonomy's vocabulary. Tags may nest
// under a parent tag to form a tree; both references are nullable so that
// deleting a taxonomy or a parent never cascades into dependent rows.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TaxonomyID *uint `gorm:"index:idx_tags_taxonomy_value;index:idx_tags_taxonomy_external" json:"taxonomy_id"`
	ParentID   *uint `gorm:"index" json:"parent_id"`

	Value string `gorm:"size:500;not null;index:idx_tags_taxonomy_value" json:"value"`

	// ExternalID binds the tag to an identity in another system, e.g. a
	// locale code or a user id for model-backed taxonomies.
	ExternalID *string `gorm:"size:255;index:idx_tags_taxonomy_external" json:"external_id,omitempty"`
}

// TableName sets the table name used by GORM.
func (Tag) TableName() string {
	return "tags"
}
