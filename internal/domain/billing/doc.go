// Package billing contains the bill aggregate and the pure operations that
// govern it: creation from line-item requests (subtotal/tax/total
// computation) and the OPEN -> PAID / OPEN -> VOID status transitions.
//
// The package performs no I/O and never logs; every operation is a function
// of its inputs plus a caller-supplied UTC timestamp. Persistence is reached
// only through the BillRepository interface.
package billing
