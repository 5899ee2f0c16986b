package billing

import (
	"github.com/hms/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultLineItemType is used when a line-item request leaves the type empty
const DefaultLineItemType = "CONSULTATION"

// BillLineItem is one charged service or product on a bill. It is owned by
// its Bill: line items never outlive the bill and are deleted with it.
type BillLineItem struct {
	LineID      int64           `json:"line_id"`
	BillID      int64           `json:"bill_id"`
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// LineItemRequest describes one line item in a bill-creation request
type LineItemRequest struct {
	Type        string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// newBillLineItem validates a line-item request and computes its total.
// LineTotal is computed once here and stored, never recomputed lazily.
func newBillLineItem(req LineItemRequest) (BillLineItem, error) {
	if req.Quantity < 0 {
		return BillLineItem{}, shared.NewDomainError("VALIDATION_ERROR", "line item quantity must be non-negative")
	}
	if req.UnitPrice.IsNegative() {
		return BillLineItem{}, shared.NewDomainError("VALIDATION_ERROR", "line item unit price must be non-negative")
	}

	itemType := req.Type
	if itemType == "" {
		itemType = DefaultLineItemType
	}

	return BillLineItem{
		Type:        itemType,
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		LineTotal:   req.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
	}, nil
}
