package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Catalog-side entities the identity service may touch through the generic
// store. Everything else about them is owned by the catalog collaborator.
const (
	EntityProducts   = "products"
	EntityEnquiries  = "enquiries"
	EntityBlogs      = "blogs"
	EntityCategories = "categories"
)

var allowedEntities = map[string]bool{
	EntityProducts:   true,
	EntityEnquiries:  true,
	EntityBlogs:      true,
	EntityCategories: true,
}

// ErrUnknownEntity is returned for table names outside the allowlist.
var ErrUnknownEntity = fmt.Errorf("unknown entity: %w", ErrNotFound)

// EntityStore is the boundary to the catalog/content collaborator. The
// identity service only counts rows, lists raw records, and patches single
// fields; it never interprets catalog data.
type EntityStore interface {
	Count(ctx context.Context, entity string) (int64, error)
	List(ctx context.Context, entity string, offset, limit int) ([]map[string]interface{}, error)
	// UpdateField patches one column on one row and reports ErrNotFound
	// if the row does not exist.
	UpdateField(ctx context.Context, entity string, id int64, field string, value interface{}) error
}

type entityStore struct {
	db *gorm.DB
}

// NewEntityStore creates a new EntityStore instance.
func NewEntityStore(db *gorm.DB) EntityStore {
	return &entityStore{db: db}
}

func (s *entityStore) Count(ctx context.Context, entity string) (int64, error) {
	if !allowedEntities[entity] {
		return 0, ErrUnknownEntity
	}
	var count int64
	if err := s.db.WithContext(ctx).Table(entity).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", entity, err)
	}
	return count, nil
}

func (s *entityStore) List(ctx context.Context, entity string, offset, limit int) ([]map[string]interface{}, error) {
	if !allowedEntities[entity] {
		return nil, ErrUnknownEntity
	}
	var rows []map[string]interface{}
	err := s.db.WithContext(ctx).Table(entity).Offset(offset).Limit(limit).Order("id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", entity, err)
	}
	return rows, nil
}

func (s *entityStore) UpdateField(ctx context.Context, entity string, id int64, field string, value interface{}) error {
	if !allowedEntities[entity] {
		return ErrUnknownEntity
	}
	result := s.db.WithContext(ctx).Table(entity).Where("id = ?", id).Update(field, value)
	if result.Error != nil {
		return fmt.Errorf("failed to update %s.%s: %w", entity, field, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update %s id %d: %w", entity, id, ErrNotFound)
	}
	return nil
}
