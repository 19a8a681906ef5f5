/*
errors.go - Centralized error types for the compliance engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Note the split with findings: a policy violation is NOT an error -
  it is data inside a Result. Errors here are for the surrounding
  layers (API handlers, stores) that need to distinguish "not found"
  from "bad input" from "infrastructure broke".

USAGE:
  if compliance.IsNotFound(err) {
      // 404
  }
*/
package compliance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUserNotFound is returned when a referenced user doesn't exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrPolicyNotFound is returned when no active policy exists for a leave type.
	ErrPolicyNotFound = errors.New("policy not found")

	// ErrRequestNotFound is returned when a referenced leave request doesn't exist.
	ErrRequestNotFound = errors.New("leave request not found")

	// ErrInvalidLeaveType is returned for an unknown leave type string.
	ErrInvalidLeaveType = errors.New("invalid leave type")

	// ErrInvalidDateRange is returned when end date precedes start date.
	ErrInvalidDateRange = errors.New("invalid date range: end before start")

	// ErrDuplicateActivePolicy is returned when activating a second
	// policy for a leave type that already has an active one.
	ErrDuplicateActivePolicy = errors.New("active policy already exists for leave type")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// UnknownLeaveTypeError reports which leave type string was rejected.
type UnknownLeaveTypeError struct {
	Value string
}

func (e *UnknownLeaveTypeError) Error() string {
	return fmt.Sprintf("invalid leave type: %q", e.Value)
}

func (e *UnknownLeaveTypeError) Unwrap() error {
	return ErrInvalidLeaveType
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrPolicyNotFound) ||
		errors.Is(err, ErrRequestNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidLeaveType) ||
		errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrDuplicateActivePolicy)
}
