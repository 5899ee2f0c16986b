package billing

import (
	"fmt"
	"time"

	"github.com/hms/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultTaxPercent is applied when a creation request omits the tax percent
var DefaultTaxPercent = decimal.NewFromInt(5)

// roundingTolerance is the maximum drift Validate accepts between the stored
// tax amount and the recomputed one. One cent covers any legitimate
// round-to-2-places difference.
var roundingTolerance = decimal.New(1, -2)

// Bill is the aggregate root for one charge episode tied to one appointment
// and one patient. All money fields are fixed-point decimals; the struct is
// mutated only through NewBill, MarkPaid and Void, which keep the invariants:
//
//	AmountSubtotal = sum of line totals
//	TaxAmount      = round(AmountSubtotal * TaxPercent / 100, 2)
//	AmountTotal    = AmountSubtotal + TaxAmount
//
// PatientID and AppointmentID are opaque references; their existence is the
// caller's responsibility.
type Bill struct {
	shared.BaseAggregateRoot
	PatientID      int64           `json:"patient_id"`
	AppointmentID  int64           `json:"appointment_id"`
	AmountSubtotal decimal.Decimal `json:"amount_subtotal"`
	TaxPercent     decimal.Decimal `json:"tax_percent"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	AmountTotal    decimal.Decimal `json:"amount_total"`
	Status         BillStatus      `json:"status"`
	Notes          string          `json:"notes,omitempty"`
	LineItems      []BillLineItem  `json:"line_items"`
}

// NewBill creates a bill from a non-empty list of line-item requests,
// computing subtotal, tax and total. taxPercent may be nil, in which case
// DefaultTaxPercent applies. now must be UTC; the caller supplies the clock.
func NewBill(patientID, appointmentID int64, items []LineItemRequest, taxPercent *decimal.Decimal, notes string, now time.Time) (*Bill, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "line items required")
	}

	lineItems := make([]BillLineItem, len(items))
	subtotal := decimal.Zero
	for i, req := range items {
		item, err := newBillLineItem(req)
		if err != nil {
			return nil, err
		}
		lineItems[i] = item
		subtotal = subtotal.Add(item.LineTotal)
	}

	percent := DefaultTaxPercent
	if taxPercent != nil {
		if taxPercent.IsNegative() {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "tax percent must be non-negative")
		}
		percent = *taxPercent
	}

	taxAmount := subtotal.Mul(percent).Div(decimal.NewFromInt(100)).Round(2)

	return &Bill{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		PatientID:         patientID,
		AppointmentID:     appointmentID,
		AmountSubtotal:    subtotal,
		TaxPercent:        percent,
		TaxAmount:         taxAmount,
		AmountTotal:       subtotal.Add(taxAmount),
		Status:            BillStatusOpen,
		Notes:             notes,
		LineItems:         lineItems,
	}, nil
}

// MarkPaid transitions the bill to PAID. The bill must be OPEN and amount
// must equal AmountTotal exactly (decimal equality, not approximate).
func (b *Bill) MarkPaid(amount decimal.Decimal, now time.Time) error {
	if !b.Status.CanPay() {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("cannot pay bill in %s status", b.Status))
	}
	if !amount.Equal(b.AmountTotal) {
		return shared.NewDomainError("AMOUNT_MISMATCH", "amount mismatch")
	}

	b.Status = BillStatusPaid
	b.Touch(now)
	return nil
}

// Void transitions the bill to VOID. A paid bill cannot be voided. Voiding
// an already-void bill is an idempotent no-op: it succeeds without advancing
// UpdatedAt or Version.
func (b *Bill) Void(now time.Time) error {
	if !b.Status.CanVoid() {
		return shared.NewDomainError("INVALID_TRANSITION", "cannot void a paid bill")
	}
	if b.Status == BillStatusVoid {
		return nil
	}

	b.Status = BillStatusVoid
	b.Touch(now)
	return nil
}

// Validate checks the structural invariants. It performs no I/O.
func (b *Bill) Validate() error {
	if len(b.LineItems) == 0 {
		return shared.NewDomainError("INVALID_BILL", "bill must have at least one line item")
	}
	if !b.Status.IsValid() {
		return shared.NewDomainError("INVALID_BILL", fmt.Sprintf("unrecognized status %q", string(b.Status)))
	}
	if b.AmountSubtotal.IsNegative() || b.TaxPercent.IsNegative() || b.TaxAmount.IsNegative() || b.AmountTotal.IsNegative() {
		return shared.NewDomainError("INVALID_BILL", "money fields must be non-negative")
	}

	sum := decimal.Zero
	for _, item := range b.LineItems {
		if item.Quantity < 0 || item.UnitPrice.IsNegative() {
			return shared.NewDomainError("INVALID_BILL", "line items must have non-negative quantity and unit price")
		}
		sum = sum.Add(item.LineTotal)
	}
	if !sum.Equal(b.AmountSubtotal) {
		return shared.NewDomainError("INVALID_BILL", "subtotal does not match sum of line totals")
	}

	expectedTax := b.AmountSubtotal.Mul(b.TaxPercent).Div(decimal.NewFromInt(100)).Round(2)
	if expectedTax.Sub(b.TaxAmount).Abs().GreaterThan(roundingTolerance) {
		return shared.NewDomainError("INVALID_BILL", "tax amount does not match subtotal and tax percent")
	}
	if !b.AmountSubtotal.Add(b.TaxAmount).Equal(b.AmountTotal) {
		return shared.NewDomainError("INVALID_BILL", "total does not equal subtotal plus tax")
	}

	return nil
}

// IsOpen returns true if the bill is awaiting payment
func (b *Bill) IsOpen() bool {
	return b.Status == BillStatusOpen
}

// IsPaid returns true if the bill has been paid
func (b *Bill) IsPaid() bool {
	return b.Status == BillStatusPaid
}

// IsVoid returns true if the bill has been voided
func (b *Bill) IsVoid() bool {
	return b.Status == BillStatusVoid
}
