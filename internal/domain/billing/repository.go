package billing

import "context"

// BillFilter defines filtering options for bill list queries. Lists are
// always ordered by created_at descending.
type BillFilter struct {
	Status        *BillStatus
	PatientID     *int64
	AppointmentID *int64
	Page          int
	PageSize      int
}

// BillRepository is the storage contract for the Bill aggregate. The domain
// depends only on this interface; the gorm implementation lives in
// infrastructure/persistence.
type BillRepository interface {
	// FindByID loads a bill with its line items.
	// Returns (nil, nil) if no bill has the given id.
	FindByID(ctx context.Context, id int64) (*Bill, error)

	// FindAll returns bills matching the filter, newest first.
	FindAll(ctx context.Context, filter BillFilter) ([]Bill, error)

	// Count counts bills matching the filter, ignoring pagination.
	Count(ctx context.Context, filter BillFilter) (int64, error)

	// Create persists a new bill and its line items, assigning BillID and
	// the line items' LineID/BillID.
	Create(ctx context.Context, bill *Bill) error

	// SaveWithLock updates a mutated bill conditioned on the prior version
	// (optimistic concurrency). Returns shared.ErrConcurrencyConflict if
	// another writer advanced the version first.
	SaveWithLock(ctx context.Context, bill *Bill) error
}
