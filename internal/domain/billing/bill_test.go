package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/hms/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

// Test helpers
func createTestBill(t *testing.T) *Bill {
	bill, err := NewBill(42, 7,
		[]LineItemRequest{
			{Type: "CONSULTATION", Description: "General consultation", Quantity: 1, UnitPrice: decimal.RequireFromString("100.00")},
			{Type: "LAB", Description: "Blood panel", Quantity: 2, UnitPrice: decimal.RequireFromString("15.00")},
		},
		nil, "", testNow)
	require.NoError(t, err)
	return bill
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

// ============================================
// NewBill Tests
// ============================================

func TestNewBill_ComputesAmounts(t *testing.T) {
	bill := createTestBill(t)

	// 100.00 + 2*15.00 = 130.00 subtotal, 5% default tax
	assert.True(t, bill.AmountSubtotal.Equal(decimal.RequireFromString("130.00")), "subtotal = %s", bill.AmountSubtotal)
	assert.True(t, bill.TaxPercent.Equal(decimal.NewFromInt(5)))
	assert.True(t, bill.TaxAmount.Equal(decimal.RequireFromString("6.50")), "tax = %s", bill.TaxAmount)
	assert.True(t, bill.AmountTotal.Equal(decimal.RequireFromString("136.50")), "total = %s", bill.AmountTotal)

	assert.Equal(t, BillStatusOpen, bill.Status)
	assert.Equal(t, int64(42), bill.PatientID)
	assert.Equal(t, int64(7), bill.AppointmentID)
	assert.Equal(t, 0, bill.Version)
	assert.Equal(t, testNow, bill.CreatedAt)
	assert.Equal(t, testNow, bill.UpdatedAt)
	require.Len(t, bill.LineItems, 2)
	assert.True(t, bill.LineItems[1].LineTotal.Equal(decimal.RequireFromString("30.00")))

	assert.NoError(t, bill.Validate())
}

func TestNewBill_ExplicitTaxPercent(t *testing.T) {
	tax := decimal.RequireFromString("7.5")
	bill, err := NewBill(1, 1,
		[]LineItemRequest{{Quantity: 1, UnitPrice: decimal.RequireFromString("200.00")}},
		&tax, "", testNow)
	require.NoError(t, err)

	assert.True(t, bill.TaxAmount.Equal(decimal.RequireFromString("15.00")))
	assert.True(t, bill.AmountTotal.Equal(decimal.RequireFromString("215.00")))
}

func TestNewBill_ZeroTaxPercent(t *testing.T) {
	tax := decimal.Zero
	bill, err := NewBill(1, 1,
		[]LineItemRequest{{Quantity: 3, UnitPrice: decimal.RequireFromString("9.99")}},
		&tax, "", testNow)
	require.NoError(t, err)

	assert.True(t, bill.TaxAmount.IsZero())
	assert.True(t, bill.AmountTotal.Equal(bill.AmountSubtotal))
}

func TestNewBill_TaxRoundsToTwoPlaces(t *testing.T) {
	// 33.33 * 5% = 1.6665, rounds half away from zero to 1.67
	bill, err := NewBill(1, 1,
		[]LineItemRequest{{Quantity: 1, UnitPrice: decimal.RequireFromString("33.33")}},
		nil, "", testNow)
	require.NoError(t, err)

	assert.True(t, bill.TaxAmount.Equal(decimal.RequireFromString("1.67")), "tax = %s", bill.TaxAmount)
	assert.True(t, bill.AmountTotal.Equal(decimal.RequireFromString("35.00")))
	assert.NoError(t, bill.Validate())
}

func TestNewBill_DefaultsLineItemType(t *testing.T) {
	bill, err := NewBill(1, 1,
		[]LineItemRequest{{Quantity: 1, UnitPrice: decimal.NewFromInt(50)}},
		nil, "", testNow)
	require.NoError(t, err)

	assert.Equal(t, DefaultLineItemType, bill.LineItems[0].Type)
}

func TestNewBill_ZeroQuantityLineItem(t *testing.T) {
	bill, err := NewBill(1, 1,
		[]LineItemRequest{
			{Quantity: 0, UnitPrice: decimal.NewFromInt(100)},
			{Quantity: 1, UnitPrice: decimal.NewFromInt(40)},
		},
		nil, "", testNow)
	require.NoError(t, err)

	assert.True(t, bill.LineItems[0].LineTotal.IsZero())
	assert.True(t, bill.AmountSubtotal.Equal(decimal.NewFromInt(40)))
}

func TestNewBill_EmptyLineItems(t *testing.T) {
	_, err := NewBill(1, 1, nil, nil, "", testNow)
	assertDomainCode(t, err, "VALIDATION_ERROR")

	_, err = NewBill(1, 1, []LineItemRequest{}, nil, "", testNow)
	assertDomainCode(t, err, "VALIDATION_ERROR")
}

func TestNewBill_NegativeQuantity(t *testing.T) {
	_, err := NewBill(1, 1,
		[]LineItemRequest{{Quantity: -1, UnitPrice: decimal.NewFromInt(10)}},
		nil, "", testNow)
	assertDomainCode(t, err, "VALIDATION_ERROR")
}

func TestNewBill_NegativeUnitPrice(t *testing.T) {
	_, err := NewBill(1, 1,
		[]LineItemRequest{{Quantity: 1, UnitPrice: decimal.NewFromInt(-10)}},
		nil, "", testNow)
	assertDomainCode(t, err, "VALIDATION_ERROR")
}

func TestNewBill_NegativeTaxPercent(t *testing.T) {
	tax := decimal.NewFromInt(-5)
	_, err := NewBill(1, 1,
		[]LineItemRequest{{Quantity: 1, UnitPrice: decimal.NewFromInt(10)}},
		&tax, "", testNow)
	assertDomainCode(t, err, "VALIDATION_ERROR")
}

// ============================================
// MarkPaid Tests
// ============================================

func TestBill_MarkPaid(t *testing.T) {
	bill := createTestBill(t)
	paidAt := testNow.Add(time.Hour)

	err := bill.MarkPaid(decimal.RequireFromString("136.50"), paidAt)
	require.NoError(t, err)

	assert.Equal(t, BillStatusPaid, bill.Status)
	assert.Equal(t, 1, bill.Version)
	assert.Equal(t, paidAt, bill.UpdatedAt)
	assert.Equal(t, testNow, bill.CreatedAt)
}

func TestBill_MarkPaid_AcceptsEqualValueDifferentScale(t *testing.T) {
	bill := createTestBill(t)

	// 136.5 and 136.50 are the same decimal value
	err := bill.MarkPaid(decimal.RequireFromString("136.5"), testNow)
	assert.NoError(t, err)
}

func TestBill_MarkPaid_AmountMismatch(t *testing.T) {
	tests := []struct {
		name   string
		amount string
	}{
		{"one cent short", "136.49"},
		{"one cent over", "136.51"},
		{"zero", "0"},
		{"subtotal only", "130.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := createTestBill(t)
			err := bill.MarkPaid(decimal.RequireFromString(tt.amount), testNow)
			assertDomainCode(t, err, "AMOUNT_MISMATCH")
			assert.Equal(t, BillStatusOpen, bill.Status)
			assert.Equal(t, 0, bill.Version)
		})
	}
}

func TestBill_MarkPaid_AlreadyPaid(t *testing.T) {
	bill := createTestBill(t)
	require.NoError(t, bill.MarkPaid(bill.AmountTotal, testNow))

	err := bill.MarkPaid(bill.AmountTotal, testNow)
	assertDomainCode(t, err, "INVALID_TRANSITION")
	assert.Contains(t, err.Error(), "PAID")
}

func TestBill_MarkPaid_Voided(t *testing.T) {
	bill := createTestBill(t)
	require.NoError(t, bill.Void(testNow))

	err := bill.MarkPaid(bill.AmountTotal, testNow)
	assertDomainCode(t, err, "INVALID_TRANSITION")
	assert.Contains(t, err.Error(), "VOID")
}

func TestBill_MarkPaid_TransitionCheckedBeforeAmount(t *testing.T) {
	bill := createTestBill(t)
	require.NoError(t, bill.Void(testNow))

	// Wrong amount on a voided bill still reports the transition error
	err := bill.MarkPaid(decimal.NewFromInt(1), testNow)
	assertDomainCode(t, err, "INVALID_TRANSITION")
}

// ============================================
// Void Tests
// ============================================

func TestBill_Void(t *testing.T) {
	bill := createTestBill(t)
	voidAt := testNow.Add(time.Hour)

	err := bill.Void(voidAt)
	require.NoError(t, err)

	assert.Equal(t, BillStatusVoid, bill.Status)
	assert.Equal(t, 1, bill.Version)
	assert.Equal(t, voidAt, bill.UpdatedAt)
}

func TestBill_Void_Idempotent(t *testing.T) {
	bill := createTestBill(t)
	require.NoError(t, bill.Void(testNow))
	firstUpdate := bill.UpdatedAt

	// Repeat void succeeds but changes nothing
	err := bill.Void(testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, BillStatusVoid, bill.Status)
	assert.Equal(t, 1, bill.Version)
	assert.Equal(t, firstUpdate, bill.UpdatedAt)
}

func TestBill_Void_Paid(t *testing.T) {
	bill := createTestBill(t)
	require.NoError(t, bill.MarkPaid(bill.AmountTotal, testNow))

	err := bill.Void(testNow)
	assertDomainCode(t, err, "INVALID_TRANSITION")
	assert.Equal(t, BillStatusPaid, bill.Status)
}

// ============================================
// Validate Tests
// ============================================

func TestBill_Validate_DetectsTampering(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *Bill)
	}{
		{"no line items", func(b *Bill) { b.LineItems = nil }},
		{"bad status", func(b *Bill) { b.Status = BillStatus("SETTLED") }},
		{"negative subtotal", func(b *Bill) { b.AmountSubtotal = decimal.NewFromInt(-1) }},
		{"subtotal drift", func(b *Bill) { b.AmountSubtotal = b.AmountSubtotal.Add(decimal.NewFromInt(1)) }},
		{"tax drift", func(b *Bill) { b.TaxAmount = b.TaxAmount.Add(decimal.NewFromInt(1)) }},
		{"total drift", func(b *Bill) { b.AmountTotal = b.AmountTotal.Sub(decimal.RequireFromString("0.01")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := createTestBill(t)
			require.NoError(t, bill.Validate())
			tt.mutate(bill)
			assertDomainCode(t, bill.Validate(), "INVALID_BILL")
		})
	}
}

func TestBill_Validate_ToleratesCentOfTaxRounding(t *testing.T) {
	bill := createTestBill(t)
	bill.TaxAmount = bill.TaxAmount.Add(decimal.RequireFromString("0.01"))
	bill.AmountTotal = bill.AmountSubtotal.Add(bill.TaxAmount)

	assert.NoError(t, bill.Validate())
}

func TestBill_StatusPredicates(t *testing.T) {
	bill := createTestBill(t)
	assert.True(t, bill.IsOpen())
	assert.False(t, bill.IsPaid())
	assert.False(t, bill.IsVoid())

	require.NoError(t, bill.MarkPaid(bill.AmountTotal, testNow))
	assert.True(t, bill.IsPaid())
	assert.False(t, bill.IsOpen())
}
