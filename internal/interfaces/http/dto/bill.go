package dto

// CreateBillRequest is the payload for creating a bill
type CreateBillRequest struct {
	PatientID     int64                   `json:"patient_id" binding:"required,gt=0"`
	AppointmentID int64                   `json:"appointment_id" binding:"required,gt=0"`
	TaxPercent    *float64                `json:"tax_percent" binding:"omitempty,gte=0"`
	Notes         string                  `json:"notes" binding:"max=1000"`
	LineItems     []CreateLineItemRequest `json:"line_items" binding:"required,min=1,dive"`
}

// CreateLineItemRequest is one line item in a bill-creation payload
type CreateLineItemRequest struct {
	Type        string  `json:"type" binding:"max=50"`
	Description string  `json:"description" binding:"max=500"`
	Quantity    int     `json:"quantity" binding:"gte=0"`
	UnitPrice   float64 `json:"unit_price" binding:"gte=0"`
}

// MarkBillPaidRequest is the payload for recording full payment of a bill
type MarkBillPaidRequest struct {
	Amount *float64 `json:"amount" binding:"required,gte=0"`
}
