package booking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shareloop/service-booking/internal/domain/apperrors"
	"github.com/shareloop/service-booking/internal/domain/booking"
)

func TestParseStateFilter(t *testing.T) {
	cases := map[string]booking.StateFilter{
		"ALL":      booking.FilterAll,
		"CURRENT":  booking.FilterCurrent,
		"PAST":     booking.FilterPast,
		"FUTURE":   booking.FilterFuture,
		"WAITING":  booking.FilterWaiting,
		"REJECTED": booking.FilterRejected,
		"rejected": booking.FilterRejected,
		"":         booking.FilterAll,
	}

	for input, want := range cases {
		got, err := booking.ParseStateFilter(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestParseStateFilter_UnknownTokenIsEchoed(t *testing.T) {
	_, err := booking.ParseStateFilter("SOMETIMES")

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidFilter, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "SOMETIMES")
}
