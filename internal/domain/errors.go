package domain

import (
	"errors"
	"fmt"
)

// Reason identifies why a request was rejected. Handlers surface it to the
// client so the UI can show a targeted message instead of a generic failure.
type Reason string

const (
	ReasonInvalidDateRange   Reason = "invalid_date_range"
	ReasonCarNotFound        Reason = "car_not_found"
	ReasonInvalidStatus      Reason = "invalid_status"
	ReasonCarUnavailable     Reason = "car_unavailable"
	ReasonOverlappingBooking Reason = "overlapping_booking"
	ReasonBookingNotFound    Reason = "booking_not_found"
	ReasonCarHasBookings     Reason = "car_has_bookings"
	ReasonValidation         Reason = "validation_failed"
)

// ErrorKind classifies domain errors for transport mapping.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindNotFound
	KindConflict
	KindForbidden
	KindPersistence
)

// Error is the common error type returned across the domain and application
// layers. Validation errors are decided before any mutation happens;
// persistence and conflict errors surface at the commit boundary.
type Error struct {
	Kind    ErrorKind
	Reason  Reason
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// NewValidationError creates a validation rejection with a specific reason.
func NewValidationError(reason Reason, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError creates a not-found error for the given entity and key.
func NewNotFoundError(entity, id string) *Error {
	reason := ReasonValidation
	switch entity {
	case "Car":
		reason = ReasonCarNotFound
	case "Booking":
		reason = ReasonBookingNotFound
	}
	return &Error{
		Kind:    KindNotFound,
		Reason:  reason,
		Message: fmt.Sprintf("%s with id %s not found", entity, id),
	}
}

// NewConflictError creates a concurrency-conflict error. The caller may retry
// at its discretion; the service never retries internally.
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewForbiddenError creates an authorization error.
func NewForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NewPersistenceError wraps an entity-store failure.
func NewPersistenceError(message string, cause error) *Error {
	return &Error{Kind: KindPersistence, Message: message, cause: cause}
}

// KindOf extracts the error kind, defaulting to persistence for errors that
// did not originate in the domain.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindPersistence
}

// ReasonOf extracts the rejection reason, if any.
func ReasonOf(err error) (Reason, bool) {
	var de *Error
	if errors.As(err, &de) && de.Reason != "" {
		return de.Reason, true
	}
	return "", false
}
