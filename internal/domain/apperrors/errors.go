package apperrors

import (
	"errors"
	"fmt"
)

// Code identifies the kind of domain failure. The set is closed: handlers
// translate each code to a transport-level response.
type Code string

const (
	CodeNotFound             Code = "not_found"
	CodeInvalidTimeRange     Code = "invalid_time_range"
	CodeItemUnavailable      Code = "item_unavailable"
	CodeSelfBookingForbidden Code = "self_booking_forbidden"
	CodeNotAuthorized        Code = "not_authorized"
	CodeAlreadyApproved      Code = "already_approved"
	CodeInvalidFilter        Code = "invalid_filter"
	CodeConflict             Code = "conflict"
)

// Error is a domain failure carrying a machine-readable code.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewNotFoundError reports a missing entity by type and identifier.
func NewNotFoundError(resource, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
}

// NewInvalidTimeRangeError reports a booking window whose end is not strictly
// after its start.
func NewInvalidTimeRangeError(msg string) *Error {
	return &Error{Code: CodeInvalidTimeRange, Message: msg}
}

// NewItemUnavailableError reports an item whose available flag is off.
func NewItemUnavailableError(itemID string) *Error {
	return &Error{Code: CodeItemUnavailable, Message: fmt.Sprintf("item %s is not available for booking", itemID)}
}

// NewSelfBookingError reports an owner trying to book their own item.
func NewSelfBookingError() *Error {
	return &Error{Code: CodeSelfBookingForbidden, Message: "owner cannot book their own item"}
}

// NewNotAuthorizedError reports a caller who is neither booker nor item owner.
func NewNotAuthorizedError(msg string) *Error {
	return &Error{Code: CodeNotAuthorized, Message: msg}
}

// NewAlreadyApprovedError reports a decision on a booking already approved.
func NewAlreadyApprovedError(bookingID string) *Error {
	return &Error{Code: CodeAlreadyApproved, Message: fmt.Sprintf("booking %s is already approved", bookingID)}
}

// NewInvalidFilterError echoes the unrecognized state token for diagnostics.
func NewInvalidFilterError(state string) *Error {
	return &Error{Code: CodeInvalidFilter, Message: fmt.Sprintf("Unknown state: %s", state)}
}

// NewConflictError reports a lost optimistic-lock race.
func NewConflictError(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// CodeOf extracts the domain code from err, or empty when err is not a
// domain Error.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Is reports whether err is a domain Error with the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
