package booking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shareloop/service-booking/internal/domain/booking"
)

func TestStatusTransitions(t *testing.T) {
	assert.True(t, booking.StatusWaiting.CanTransitionTo(booking.StatusApproved))
	assert.True(t, booking.StatusWaiting.CanTransitionTo(booking.StatusRejected))
	assert.True(t, booking.StatusRejected.CanTransitionTo(booking.StatusApproved))
	assert.True(t, booking.StatusRejected.CanTransitionTo(booking.StatusRejected))

	assert.False(t, booking.StatusApproved.CanTransitionTo(booking.StatusRejected))
	assert.False(t, booking.StatusApproved.CanTransitionTo(booking.StatusWaiting))
	assert.False(t, booking.StatusCanceled.CanTransitionTo(booking.StatusApproved))
}

func TestStatusTerminality(t *testing.T) {
	assert.True(t, booking.StatusApproved.IsTerminal())
	assert.True(t, booking.StatusCanceled.IsTerminal())
	assert.False(t, booking.StatusWaiting.IsTerminal())
	assert.False(t, booking.StatusRejected.IsTerminal())
}

func TestParseStatus(t *testing.T) {
	status, err := booking.ParseStatus("WAITING")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusWaiting, status)

	_, err = booking.ParseStatus("PENDING")
	assert.Error(t, err)
}
