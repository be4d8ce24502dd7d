package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/db/controller/item"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/db/models"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/session"
)

// Gorm stores items as rows of the storage_items table.
type Gorm struct {
	db *gorm.DB
}

// NewGorm migrates the items table and returns the storage.
func NewGorm(db *gorm.DB) (*Gorm, error) {
	if db == nil {
		return nil, item.ErrDBNil
	}

	if err := db.AutoMigrate(&models.Item{}); err != nil {
		return nil, fmt.Errorf("migrate storage items: %w", err)
	}

	return &Gorm{db: db}, nil
}

// GetItem implements session.Storage.
func (g *Gorm) GetItem(ctx context.Context, key string) (string, error) {
	it, err := item.Get(g.db.WithContext(ctx), key)
	if errors.Is(err, item.ErrItemNotFound) {
		return "", session.ErrNotFound
	}

	if err != nil {
		return "", err
	}

	return it.Value, nil
}

// SetItem implements session.Storage.
func (g *Gorm) SetItem(ctx context.Context, key, value string) error {
	_, err := item.Set(g.db.WithContext(ctx), key, value)

	return err
}

// RemoveItem implements session.Storage.
func (g *Gorm) RemoveItem(ctx context.Context, key string) error {
	return item.Delete(g.db.WithContext(ctx), key)
}

// Close closes the underlying sql connection pool.
func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
