package dto

import "net/http"

// Error codes surfaced by the billing API. Domain errors carry these codes
// verbatim; the map below decides the HTTP status.

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
)

// Billing error codes
const (
	// ErrCodeValidation is used when a request fails input validation
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeInvalidTransition is used when a status transition is not allowed
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	// ErrCodeAmountMismatch is used when a payment amount does not equal the bill total
	ErrCodeAmountMismatch = "AMOUNT_MISMATCH"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	// ErrCodeIdempotencyConflict is used when an idempotency key is replayed
	ErrCodeIdempotencyConflict = "IDEMPOTENCY_CONFLICT"
	// ErrCodeInvalidBill is used when a stored bill violates its invariants
	ErrCodeInvalidBill = "INVALID_BILL"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeNotFound:   http.StatusNotFound,

	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeInvalidTransition:   http.StatusBadRequest,
	ErrCodeAmountMismatch:      http.StatusBadRequest,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeIdempotencyConflict: http.StatusConflict,
	ErrCodeInvalidBill:         http.StatusInternalServerError,

	// codes raised by the shared kernel
	"INVALID_INPUT": http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not mapped.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
