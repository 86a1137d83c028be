package sql

import (
	"context"
	"fmt"
	"tagstore/internal/entity"

	"gorm.io/gorm"
)

// CreateTaxonomy inserts a new taxonomy.
func (r *GormRepository) CreateTaxonomy(ctx context.Context, taxonomy *entity.DbTaxonomy) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if taxonomy == nil {
		return fmt.Errorf("taxonomy is nil")
	}
	return r.db.WithContext(ctx).Create(taxonomy).Error
}

// GetTaxonomy fetches one taxonomy by id.
func (r *GormRepository) GetTaxonomy(ctx context.Context, id uint) (*entity.DbTaxonomy, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	var taxonomy entity.DbTaxonomy
	if err := r.db.WithContext(ctx).First(&taxonomy, id).Error; err != nil {
		return nil, err
	}
	return &taxonomy, nil
}

// ListTaxonomies returns taxonomies ordered by (name, id), optionally
// filtered by the enabled and visible_to_authors flags.
func (r *GormRepository) ListTaxonomies(ctx context.Context, params *entity.TaxonomyQuery) ([]entity.DbTaxonomy, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).
		Model(&entity.DbTaxonomy{}).
		Order("name ASC, id ASC")
	if params != nil {
		if params.Enabled != nil {
			query = query.Where("enabled = ?", *params.Enabled)
		}
		if params.VisibleToAuthors != nil {
			query = query.Where("visible_to_authors = ?", *params.VisibleToAuthors)
		}
	}

	var taxonomies []entity.DbTaxonomy
	if err := query.Find(&taxonomies).Error; err != nil {
		return nil, err
	}
	return taxonomies, nil
}

// ListEnabledTaxonomiesByName returns enabled taxonomies with a matching
// name, closed taxonomies first, then by id.
func (r *GormRepository) ListEnabledTaxonomiesByName(ctx context.Context, name string) ([]entity.DbTaxonomy, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	var taxonomies []entity.DbTaxonomy
	err := r.db.WithContext(ctx).
		Model(&entity.DbTaxonomy{}).
		Where("enabled = ?", true).
		Where("LOWER(name) = LOWER(?)", name).
		Order("allow_free_text ASC, id ASC").
		Find(&taxonomies).Error
	if err != nil {
		return nil, err
	}
	return taxonomies, nil
}

// UpdateTaxonomy updates taxonomy fields.
func (r *GormRepository) UpdateTaxonomy(ctx context.Context, id uint, updates entity.TaxonomyUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid taxonomy id")
	}
	if updates.IsEmpty() {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&entity.DbTaxonomy{}).
		Where("id = ?", id).
		Updates(updates.ToMap())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteTaxonomy removes the taxonomy and nulls the references held by
// dependent tags and object tags, leaving their cached values intact.
func (r *GormRepository) DeleteTaxonomy(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid taxonomy id")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.DbTag{}).
			Where("taxonomy_id = ?", id).
			Update("taxonomy_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.DbObjectTag{}).
			Where("taxonomy_id = ?", id).
			Update("taxonomy_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&entity.DbTaxonomy{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
