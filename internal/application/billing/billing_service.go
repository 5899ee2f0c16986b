package billing

import (
	"context"
	"time"

	"github.com/hms/billing/internal/domain/billing"
	"github.com/hms/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BillingService provides application-level billing operations. It owns the
// clock and the not-found policy; all business rules live in the domain
// aggregate.
type BillingService struct {
	billRepo billing.BillRepository
	now      func() time.Time
}

// BillingServiceOption is a functional option for configuring BillingService
type BillingServiceOption func(*BillingService)

// WithClock overrides the time source, mainly for tests
func WithClock(now func() time.Time) BillingServiceOption {
	return func(s *BillingService) {
		s.now = now
	}
}

// NewBillingService creates a new BillingService
func NewBillingService(billRepo billing.BillRepository, opts ...BillingServiceOption) *BillingService {
	s := &BillingService{
		billRepo: billRepo,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BillResponse represents a bill in API responses
type BillResponse struct {
	BillID         int64              `json:"bill_id"`
	PatientID      int64              `json:"patient_id"`
	AppointmentID  int64              `json:"appointment_id"`
	AmountSubtotal decimal.Decimal    `json:"amount_subtotal"`
	TaxPercent     decimal.Decimal    `json:"tax_percent"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	AmountTotal    decimal.Decimal    `json:"amount_total"`
	Status         string             `json:"status"`
	Notes          string             `json:"notes,omitempty"`
	LineItems      []LineItemResponse `json:"line_items"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	Version        int                `json:"version"`
}

// LineItemResponse represents a bill line item in API responses
type LineItemResponse struct {
	LineID      int64           `json:"line_id"`
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// BillListFilter defines filtering options for bill list queries
type BillListFilter struct {
	Status        string `form:"status"`
	PatientID     *int64 `form:"patient_id"`
	AppointmentID *int64 `form:"appointment_id"`
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
}

// CreateBillInput describes a bill-creation request
type CreateBillInput struct {
	PatientID     int64
	AppointmentID int64
	TaxPercent    *decimal.Decimal
	Notes         string
	LineItems     []billing.LineItemRequest
}

// CreateBill creates and persists a new OPEN bill
func (s *BillingService) CreateBill(ctx context.Context, input CreateBillInput) (*BillResponse, error) {
	bill, err := billing.NewBill(
		input.PatientID,
		input.AppointmentID,
		input.LineItems,
		input.TaxPercent,
		input.Notes,
		s.now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, err
	}

	return toBillResponse(bill), nil
}

// GetBill gets a bill by ID with its line items
func (s *BillingService) GetBill(ctx context.Context, id int64) (*BillResponse, error) {
	bill, err := s.findBill(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBillResponse(bill), nil
}

// ListBills lists bills with filtering, newest first
func (s *BillingService) ListBills(ctx context.Context, filter BillListFilter) ([]BillResponse, int64, error) {
	domainFilter := billing.BillFilter{
		PatientID:     filter.PatientID,
		AppointmentID: filter.AppointmentID,
		Page:          filter.Page,
		PageSize:      filter.PageSize,
	}

	if filter.Status != "" {
		status := billing.BillStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "unknown status filter")
		}
		domainFilter.Status = &status
	}

	bills, err := s.billRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.billRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BillResponse, len(bills))
	for i := range bills {
		responses[i] = *toBillResponse(&bills[i])
	}

	return responses, total, nil
}

// MarkBillPaid records full payment of an open bill. amount must equal the
// bill total exactly.
func (s *BillingService) MarkBillPaid(ctx context.Context, id int64, amount decimal.Decimal) (*BillResponse, error) {
	bill, err := s.findBill(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := bill.MarkPaid(amount, s.now()); err != nil {
		return nil, err
	}

	if err := s.billRepo.SaveWithLock(ctx, bill); err != nil {
		return nil, err
	}

	return toBillResponse(bill), nil
}

// VoidBill cancels a bill. Voiding a voided bill is a no-op and skips the
// write entirely.
func (s *BillingService) VoidBill(ctx context.Context, id int64) (*BillResponse, error) {
	bill, err := s.findBill(ctx, id)
	if err != nil {
		return nil, err
	}

	alreadyVoid := bill.IsVoid()
	if err := bill.Void(s.now()); err != nil {
		return nil, err
	}

	if !alreadyVoid {
		if err := s.billRepo.SaveWithLock(ctx, bill); err != nil {
			return nil, err
		}
	}

	return toBillResponse(bill), nil
}

func (s *BillingService) findBill(ctx context.Context, id int64) (*billing.Bill, error) {
	bill, err := s.billRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Bill not found")
	}
	return bill, nil
}

func toBillResponse(bill *billing.Bill) *BillResponse {
	items := make([]LineItemResponse, len(bill.LineItems))
	for i, item := range bill.LineItems {
		items[i] = LineItemResponse{
			LineID:      item.LineID,
			Type:        item.Type,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		}
	}

	return &BillResponse{
		BillID:         bill.ID,
		PatientID:      bill.PatientID,
		AppointmentID:  bill.AppointmentID,
		AmountSubtotal: bill.AmountSubtotal,
		TaxPercent:     bill.TaxPercent,
		TaxAmount:      bill.TaxAmount,
		AmountTotal:    bill.AmountTotal,
		Status:         bill.Status.String(),
		Notes:          bill.Notes,
		LineItems:      items,
		CreatedAt:      bill.CreatedAt,
		UpdatedAt:      bill.UpdatedAt,
		Version:        bill.Version,
	}
}
