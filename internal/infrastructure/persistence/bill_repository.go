package persistence

import (
	"context"
	"errors"

	"github.com/hms/billing/internal/domain/billing"
	"github.com/hms/billing/internal/domain/shared"
	"github.com/hms/billing/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBillRepository implements billing.BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// FindByID loads a bill with its line items. Returns (nil, nil) when the
// bill does not exist.
func (r *GormBillRepository) FindByID(ctx context.Context, id int64) (*billing.Bill, error) {
	var model models.BillModel
	if err := r.db.WithContext(ctx).
		Preload("LineItems").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns bills matching the filter, newest first
func (r *GormBillRepository) FindAll(ctx context.Context, filter billing.BillFilter) ([]billing.Bill, error) {
	var billModels []models.BillModel
	query := r.db.WithContext(ctx).Model(&models.BillModel{}).Preload("LineItems")
	query = applyBillFilter(query, filter)
	query = query.Order("created_at DESC")

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 1 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	if err := query.Find(&billModels).Error; err != nil {
		return nil, err
	}

	bills := make([]billing.Bill, len(billModels))
	for i, model := range billModels {
		bills[i] = *model.ToDomain()
	}
	return bills, nil
}

// Count counts bills matching the filter, ignoring pagination
func (r *GormBillRepository) Count(ctx context.Context, filter billing.BillFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.BillModel{})
	query = applyBillFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists a new bill and its line items, writing the storage-assigned
// IDs back into the domain object
func (r *GormBillRepository) Create(ctx context.Context, bill *billing.Bill) error {
	model := models.BillModelFromDomain(bill)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}

	bill.ID = model.ID
	for i := range model.LineItems {
		bill.LineItems[i].LineID = model.LineItems[i].ID
		bill.LineItems[i].BillID = model.LineItems[i].BillID
	}
	return nil
}

// SaveWithLock updates a mutated bill conditioned on its prior version.
// Line items are immutable after creation and are not written here.
func (r *GormBillRepository) SaveWithLock(ctx context.Context, bill *billing.Bill) error {
	result := r.db.WithContext(ctx).
		Model(&models.BillModel{}).
		Where("id = ? AND version = ?", bill.ID, bill.Version-1).
		Updates(map[string]any{
			"status":     bill.Status,
			"updated_at": bill.UpdatedAt,
			"version":    bill.Version,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// IsEmpty reports whether the bills table has no rows, used to decide
// whether the CSV seed should run
func (r *GormBillRepository) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BillModel{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

func applyBillFilter(query *gorm.DB, filter billing.BillFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.AppointmentID != nil {
		query = query.Where("appointment_id = ?", *filter.AppointmentID)
	}
	return query
}
