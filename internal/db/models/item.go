// Package models contains the data model shared by the session store, the
// authorization engine and the durable storage backends.
package models

import "time"

// Item represents one durable storage entry kept in the database.
type Item struct {
	ID        uint64 `gorm:"primaryKey"`
	Key       string `gorm:"column:item_key;uniqueIndex;size:255;not null"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Item model.
func (Item) TableName() string {
	return "storage_items"
}
