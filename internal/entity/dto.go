package entity

import "time"

// TaxonomyItem is the API-facing representation of a taxonomy.
type TaxonomyItem struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Enabled          bool      `json:"enabled"`
	Required         bool      `json:"required"`
	AllowMultiple    bool      `json:"allow_multiple"`
	AllowFreeText    bool      `json:"allow_free_text"`
	SystemDefined    bool      `json:"system_defined"`
	VisibleToAuthors bool      `json:"visible_to_authors"`
	Variant          string    `json:"variant,omitempty"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
}

type TaxonomyListResponse struct {
	Taxonomies []TaxonomyItem `json:"taxonomies"`
}

type TaxonomyDetailResponse struct {
	Taxonomy TaxonomyItem `json:"taxonomy"`
}

// TagItem is one vocabulary entry, annotated with its depth in the tree.
type TagItem struct {
	ID         uint   `json:"id"`
	Value      string `json:"value"`
	ExternalID string `json:"external_id,omitempty"`
	ParentID   *uint  `json:"parent_id,omitempty"`
	Depth      int    `json:"depth"`
}

type TagListResponse struct {
	Tags []TagItem `json:"tags"`
}

// ObjectTagItem is one applied label on an object. Name and Value are the
// resolved display strings (live source when linked, cached copy otherwise).
type ObjectTagItem struct {
	ID         uint     `json:"id"`
	ObjectID   string   `json:"object_id"`
	ObjectType string   `json:"object_type,omitempty"`
	TaxonomyID *uint    `json:"taxonomy_id,omitempty"`
	TagID      *uint    `json:"tag_id,omitempty"`
	Name       string   `json:"name"`
	Value      string   `json:"value"`
	Lineage    []string `json:"lineage,omitempty"`
	IsValid    bool     `json:"is_valid"`
}

type ObjectTagListResponse struct {
	ObjectTags []ObjectTagItem `json:"object_tags"`
}

type CreateTaxonomyRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	Enabled       *bool  `json:"enabled"`
	Required      bool   `json:"required"`
	AllowMultiple bool   `json:"allow_multiple"`
	AllowFreeText bool   `json:"allow_free_text"`
}

type UpdateTaxonomyRequest struct {
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	Enabled          *bool   `json:"enabled"`
	Required         *bool   `json:"required"`
	AllowMultiple    *bool   `json:"allow_multiple"`
	AllowFreeText    *bool   `json:"allow_free_text"`
	VisibleToAuthors *bool   `json:"visible_to_authors"`
}

// ReplaceObjectTagsRequest carries the full replacement set of tag
// references for one (taxonomy, object) pair. For closed taxonomies the
// references are tag ids; for free-text taxonomies they are literal values.
type ReplaceObjectTagsRequest struct {
	Tags       []string `json:"tags"`
	ObjectType string   `json:"object_type"`
}

type ResyncObjectTagsRequest struct {
	ObjectID   string `json:"object_id"`
	TaxonomyID *uint  `json:"taxonomy_id"`
}

type ResyncObjectTagsResponse struct {
	Updated int `json:"updated"`
}

// TaxonomyQuery filters taxonomy listings. Nil fields match everything.
type TaxonomyQuery struct {
	Enabled          *bool
	VisibleToAuthors *bool
}

// ObjectTagQuery filters object-tag listings.
type ObjectTagQuery struct {
	ObjectID   string
	ObjectType string
	TaxonomyID *uint
}

type UserSummary struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

type AuthRegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

type AuthLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}

type UserListResponse struct {
	Users []UserSummary `json:"users"`
}

type CreateUserRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

type UpdateUserRequest struct {
	DisplayName *string `json:"display_name"`
	Role        *string `json:"role"`
	Password    *string `json:"password"`
	IsActive    *bool   `json:"is_active"`
}
