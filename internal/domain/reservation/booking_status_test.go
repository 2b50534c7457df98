package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus_Transitions(t *testing.T) {
	cases := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCanceled, true},
		{StatusConfirmed, StatusCanceled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCanceled, StatusPending, false},
		{StatusCanceled, StatusConfirmed, false},
		{StatusCanceled, StatusCanceled, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestBookingStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusCanceled.IsTerminal())
}

func TestBookingStatus_Active(t *testing.T) {
	assert.True(t, StatusPending.IsActive())
	assert.True(t, StatusConfirmed.IsActive())
	assert.False(t, StatusCanceled.IsActive())
}

func TestParseBookingStatus(t *testing.T) {
	status, err := ParseBookingStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, status)

	_, err = ParseBookingStatus("completed")
	assert.Error(t, err)

	// The double-l spelling is not a recognized status.
	_, err = ParseBookingStatus("cancelled")
	assert.Error(t, err)
}

func TestPaymentStatus_IsValid(t *testing.T) {
	assert.True(t, PaymentUnpaid.IsValid())
	assert.True(t, PaymentPaid.IsValid())
	assert.True(t, PaymentRefunded.IsValid())
	assert.False(t, PaymentStatus("chargeback").IsValid())
}
