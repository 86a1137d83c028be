package entity

// TaxonomyUpdates holds optional taxonomy field updates.
type TaxonomyUpdates struct {
	Name             *string
	Description      *string
	Enabled          *bool
	Required         *bool
	AllowMultiple    *bool
	AllowFreeText    *bool
	VisibleToAuthors *bool
}

// ToMap converts the set fields into a GORM updates map.
func (u TaxonomyUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.Enabled != nil {
		updates["enabled"] = *u.Enabled
	}
	if u.Required != nil {
		updates["required"] = *u.Required
	}
	if u.AllowMultiple != nil {
		updates["allow_multiple"] = *u.AllowMultiple
	}
	if u.AllowFreeText != nil {
		updates["allow_free_text"] = *u.AllowFreeText
	}
	if u.VisibleToAuthors != nil {
		updates["visible_to_authors"] = *u.VisibleToAuthors
	}
	return updates
}

// IsEmpty reports whether no field is set.
func (u TaxonomyUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// UserUpdates holds optional user field updates.
type UserUpdates struct {
	DisplayName  *string
	Role         *string
	PasswordHash *string
	IsActive     *bool
}

// ToMap converts the set fields into a GORM updates map.
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.DisplayName != nil {
		updates["display_name"] = *u.DisplayName
	}
	if u.Role != nil {
		updates["role"] = *u.Role
	}
	if u.PasswordHash != nil {
		updates["password_hash"] = *u.PasswordHash
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	return updates
}

// IsEmpty reports whether no field is set.
func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
