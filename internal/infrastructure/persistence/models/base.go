package models

import (
	"time"
)

// AggregateModel provides common persistence fields for aggregate roots.
// IDs are storage-assigned bigserial values; Version backs optimistic locking.
type AggregateModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Version   int       `gorm:"not null;default:0"`
}
