package db

import "time"

// ObjectTag associates one taxonomy-governed value with one external object.
//
// TaxonomyID and TagID are weak references: deleting the taxonomy or tag
// nulls them without touching this row. Name and Value are shadow columns
// that cache the human-facing label so the tag stays displayable after its
// authoritative source is gone. When the references are live, taxonomy name
// and tag value take precedence over the shadow copies.
type ObjectTag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ObjectID   string `gorm:"size:255;index;not null" json:"object_id"`
	ObjectType string `gorm:"size:255;index" json:"object_type"`

	TaxonomyID *uint `gorm:"index:idx_object_tags_taxonomy_value" json:"taxonomy_id"`
	TagID      *uint `gorm:"index" json:"tag_id"`

	Name  string `gorm:"size:255;not null" json:"name"`
	Value string `gorm:"size:500;not null;index:idx_object_tags_taxonomy_value" json:"value"`
}

// TableName sets the table name used by GORM.
func (ObjectTag) TableName() string {
	return "object_tags"
}
