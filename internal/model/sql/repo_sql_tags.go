package sql

import (
	"context"
	"fmt"
	"tagstore/internal/entity"

	"gorm.io/gorm"
)

// CreateTag inserts a new tag.
func (r *GormRepository) CreateTag(ctx context.Context, tag *entity.DbTag) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if tag == nil {
		return fmt.Errorf("tag is nil")
	}
	return r.db.WithContext(ctx).Create(tag).Error
}

// UpdateTag updates tag fields.
func (r *GormRepository) UpdateTag(ctx context.Context, id uint, updates map[string]interface{}) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid tag id")
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&entity.DbTag{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteTag removes a tag. Object tags and child tags keep their rows; the
// dangling references are nulled so cached values remain displayable.
func (r *GormRepository) DeleteTag(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid tag id")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.DbObjectTag{}).
			Where("tag_id = ?", id).
			Update("tag_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.DbTag{}).
			Where("parent_id = ?", id).
			Update("parent_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&entity.DbTag{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// GetTag fetches one tag by id.
func (r *GormRepository) GetTag(ctx context.Context, id uint) (*entity.DbTag, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	var tag entity.DbTag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindTagInTaxonomy fetches a tag by id scoped to one taxonomy.
func (r *GormRepository) FindTagInTaxonomy(ctx context.Context, taxonomyID, id uint) (*entity.DbTag, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	var tag entity.DbTag
	err := r.db.WithContext(ctx).
		Where("taxonomy_id = ?", taxonomyID).
		Where("id = ?", id).
		First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindTagByValue fetches the first tag in a taxonomy whose value matches,
// case-insensitively, lowest id first.
func (r *GormRepository) FindTagByValue(ctx context.Context, taxonomyID uint, value string) (*entity.DbTag, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	var tag entity.DbTag
	err := r.db.WithContext(ctx).
		Where("taxonomy_id = ?", taxonomyID).
		Where("LOWER(value) = LOWER(?)", value).
		Order("id ASC").
		First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindTagByExternalID fetches the tag in a taxonomy bound to the given
// external identity.
func (r *GormRepository) FindTagByExternalID(ctx context.Context, taxonomyID uint, externalID string) (*entity.DbTag, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	var tag entity.DbTag
	err := r.db.WithContext(ctx).
		Where("taxonomy_id = ?", taxonomyID).
		Where("LOWER(external_id) = LOWER(?)", externalID).
		Order("id ASC").
		First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListRootTags returns a taxonomy's parentless tags ordered by (value, id).
func (r *GormRepository) ListRootTags(ctx context.Context, taxonomyID uint) ([]entity.DbTag, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	var tags []entity.DbTag
	err := r.db.WithContext(ctx).
		Where("taxonomy_id = ?", taxonomyID).
		Where("parent_id IS NULL").
		Order("value ASC, id ASC").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// ListChildTags returns the tags under the given parents ordered by
// (parent value, value, id) for a stable level-order traversal.
func (r *GormRepository) ListChildTags(ctx context.Context, taxonomyID uint, parentIDs []uint) ([]entity.DbTag, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if len(parentIDs) == 0 {
		return []entity.DbTag{}, nil
	}

	var tags []entity.DbTag
	err := r.db.WithContext(ctx).
		Model(&entity.DbTag{}).
		Select("tags.*").
		Joins("JOIN tags parent ON parent.id = tags.parent_id").
		Where("tags.taxonomy_id = ?", taxonomyID).
		Where("tags.parent_id IN ?", parentIDs).
		Order("parent.value ASC, tags.value ASC, tags.id ASC").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}
