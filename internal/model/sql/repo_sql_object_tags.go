package sql

import (
	"context"
	"fmt"
	"tagstore/internal/entity"

	"gorm.io/gorm"
)

// ListObjectTags returns object tags matching the query, ordered by id.
func (r *GormRepository) ListObjectTags(ctx context.Context, query *entity.ObjectTagQuery) ([]entity.DbObjectTag, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	q := r.db.WithContext(ctx).Model(&entity.DbObjectTag{}).Order("id ASC")
	if query != nil {
		if query.ObjectID != "" {
			q = q.Where("LOWER(object_id) = LOWER(?)", query.ObjectID)
		}
		if query.ObjectType != "" {
			q = q.Where("LOWER(object_type) = LOWER(?)", query.ObjectType)
		}
		if query.TaxonomyID != nil {
			q = q.Where("taxonomy_id = ?", *query.TaxonomyID)
		}
	}

	var objectTags []entity.DbObjectTag
	if err := q.Find(&objectTags).Error; err != nil {
		return nil, err
	}
	return objectTags, nil
}

// ListTaxonomyObjectTags returns the object tags for one (taxonomy, object)
// pair, ordered by id.
func (r *GormRepository) ListTaxonomyObjectTags(ctx context.Context, taxonomyID uint, objectID, objectType string) ([]entity.DbObjectTag, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	q := r.db.WithContext(ctx).
		Model(&entity.DbObjectTag{}).
		Where("taxonomy_id = ?", taxonomyID).
		Where("LOWER(object_id) = LOWER(?)", objectID).
		Order("id ASC")
	if objectType != "" {
		q = q.Where("LOWER(object_type) = LOWER(?)", objectType)
	}

	var objectTags []entity.DbObjectTag
	if err := q.Find(&objectTags).Error; err != nil {
		return nil, err
	}
	return objectTags, nil
}

// SaveObjectTag creates or updates one object tag row.
func (r *GormRepository) SaveObjectTag(ctx context.Context, objectTag *entity.DbObjectTag) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if objectTag == nil {
		return fmt.Errorf("object tag is nil")
	}
	return r.db.WithContext(ctx).Save(objectTag).Error
}

// DeleteObjectTag removes one object tag row.
func (r *GormRepository) DeleteObjectTag(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid object tag id")
	}

	result := r.db.WithContext(ctx).Delete(&entity.DbObjectTag{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceObjectTags persists the given rows and deletes the given ids in a
// single transaction, so the replacement set becomes visible atomically.
func (r *GormRepository) ReplaceObjectTags(ctx context.Context, save []*entity.DbObjectTag, deleteIDs []uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, objectTag := range save {
			if objectTag == nil {
				continue
			}
			if err := tx.Save(objectTag).Error; err != nil {
				return err
			}
		}
		if len(deleteIDs) > 0 {
			if err := tx.Delete(&entity.DbObjectTag{}, deleteIDs).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
