/*
errors.go - Centralized error types for the contract core

PURPOSE:
  All error types in one place for consistency and discoverability.
  Most core operations never fail: bad numbers coerce to zero, missing
  escalation inputs yield an empty schedule, unknown ids on removal are
  no-ops. The errors below cover the few places where input is rejected.

ERROR CATEGORIES:
  1. Lookup errors - Contract id not present
  2. Input errors  - Unparseable dates, unknown sort keys or modes

SEE ALSO:
  - api/handlers.go: Maps these errors to HTTP status codes
*/
package contract

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrContractNotFound is returned when a referenced contract doesn't exist.
	ErrContractNotFound = errors.New("contract not found")

	// ErrInvalidDate is returned when a date string is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidSortKey is returned for a sort key outside the supported set.
	ErrInvalidSortKey = errors.New("invalid sort key")

	// ErrInvalidDirection is returned for a sort direction other than asc/desc.
	ErrInvalidDirection = errors.New("invalid sort direction")

	// ErrUnknownEscalationMode is returned for a mode other than auto/manual.
	ErrUnknownEscalationMode = errors.New("unknown escalation mode")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidSortKey) ||
		errors.Is(err, ErrInvalidDirection) ||
		errors.Is(err, ErrUnknownEscalationMode)
}

// IsNotFound returns true if the error indicates a missing contract.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrContractNotFound)
}
