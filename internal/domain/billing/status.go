package billing

// BillStatus represents the lifecycle status of a bill
type BillStatus string

const (
	BillStatusOpen BillStatus = "OPEN" // Awaiting payment, the only mutable state
	BillStatusPaid BillStatus = "PAID" // Paid in full (terminal)
	BillStatusVoid BillStatus = "VOID" // Cancelled without payment (terminal)
)

// IsValid checks if the status is a valid BillStatus
func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusOpen, BillStatusPaid, BillStatusVoid:
		return true
	}
	return false
}

// String returns the string representation of BillStatus
func (s BillStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the bill is in a terminal state
func (s BillStatus) IsTerminal() bool {
	return s == BillStatusPaid || s == BillStatusVoid
}

// CanPay returns true if a payment can be applied in this status
func (s BillStatus) CanPay() bool {
	return s == BillStatusOpen
}

// CanVoid returns true if the bill can be voided in this status
func (s BillStatus) CanVoid() bool {
	return s != BillStatusPaid
}
