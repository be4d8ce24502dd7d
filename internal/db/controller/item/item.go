// Package item provides CRUD operations for durable storage items kept in the database.
package item

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/db/models"
)

const (
	keyQueryPattern = "item_key = ?"
)

var (
	// ErrItemNotFound is returned when an item is not found.
	ErrItemNotFound = errors.New("item not found")
	// ErrItemKeyEmpty is returned when attempting to read or write an item with an empty key.
	ErrItemKeyEmpty = errors.New("item key cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves an item by its key.
func Get(db *gorm.DB, key string) (*models.Item, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrItemKeyEmpty
	}

	var item models.Item
	result := db.Where(keyQueryPattern, key).First(&item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, result.Error
	}

	return &item, nil
}

// GetAll retrieves all items whose key starts with prefix.
// An empty prefix returns every item.
func GetAll(db *gorm.DB, prefix string) ([]models.Item, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var items []models.Item
	query := db.Order("item_key")
	if prefix != "" {
		query = query.Where("item_key LIKE ?", prefix+"%")
	}

	if result := query.Find(&items); result.Error != nil {
		return nil, result.Error
	}

	return items, nil
}

// Set creates or updates an item by key (upsert operation).
func Set(db *gorm.DB, key, value string) (*models.Item, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrItemKeyEmpty
	}

	item := &models.Item{
		Key:   key,
		Value: value,
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(item)
	if result.Error != nil {
		return nil, result.Error
	}

	return Get(db, key)
}

// Delete deletes an item by key.
// Deleting a missing item is not an error, removal is idempotent.
func Delete(db *gorm.DB, key string) error {
	if db == nil {
		return ErrDBNil
	}
	if key == "" {
		return ErrItemKeyEmpty
	}

	return db.Where(keyQueryPattern, key).Delete(&models.Item{}).Error
}

// DeletePrefix deletes all items whose key starts with prefix and returns the number of removed rows.
func DeletePrefix(db *gorm.DB, prefix string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}
	if prefix == "" {
		return 0, ErrItemKeyEmpty
	}

	result := db.Where("item_key LIKE ?", prefix+"%").Delete(&models.Item{})

	return result.RowsAffected, result.Error
}
