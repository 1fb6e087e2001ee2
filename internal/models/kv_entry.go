package models

import "time"

// KVEntry is one row of the client's durable key/value storage
type KVEntry struct {
	Key       string    `gorm:"primaryKey"`
	Value     string    `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName specifies the table name for KVEntry Model
func (KVEntry) TableName() string {
	return "kv_entries"
}
