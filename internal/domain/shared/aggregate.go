package shared

import "time"

// BaseAggregateRoot provides common fields for aggregate roots whose
// identity is assigned by the storage layer (bigint identity column).
// Version is a monotonically non-decreasing revision counter used for
// optimistic concurrency by the persistence layer.
type BaseAggregateRoot struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int
}

// NewBaseAggregateRoot creates a base aggregate root stamped with the given
// time. The ID stays zero until the storage layer assigns one.
func NewBaseAggregateRoot(now time.Time) BaseAggregateRoot {
	return BaseAggregateRoot{
		CreatedAt: now,
		UpdatedAt: now,
		Version:   0,
	}
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// Touch records a mutation: advances UpdatedAt and increments Version.
func (a *BaseAggregateRoot) Touch(now time.Time) {
	a.UpdatedAt = now
	a.Version++
}
