package booking

import (
	"strings"

	"github.com/shareloop/service-booking/internal/domain/apperrors"
)

// StateFilter narrows a booking list query by temporal or status criteria.
// It is parsed once at the HTTP boundary; the engine only ever sees a member
// of the closed set below.
type StateFilter string

const (
	FilterAll      StateFilter = "ALL"
	FilterCurrent  StateFilter = "CURRENT"
	FilterPast     StateFilter = "PAST"
	FilterFuture   StateFilter = "FUTURE"
	FilterWaiting  StateFilter = "WAITING"
	FilterRejected StateFilter = "REJECTED"
)

// ParseStateFilter converts a client-supplied token to a StateFilter. An
// empty token means ALL. Unrecognized input fails with the raw token echoed.
func ParseStateFilter(s string) (StateFilter, error) {
	if s == "" {
		return FilterAll, nil
	}
	switch f := StateFilter(strings.ToUpper(s)); f {
	case FilterAll, FilterCurrent, FilterPast, FilterFuture, FilterWaiting, FilterRejected:
		return f, nil
	default:
		return "", apperrors.NewInvalidFilterError(s)
	}
}
