package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxestay/service-reservations/internal/domain"
)

func TestNightlyRatePricing_Calculate(t *testing.T) {
	pricing := NewNightlyRatePricing()

	cases := []struct {
		name   string
		rate   int64
		nights int
		want   int64
	}{
		{"one night", 10000, 1, 10000},
		{"two nights", 10000, 2, 20000},
		{"week at odd rate", 12999, 7, 90993},
		{"month", 25000, 30, 750000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stay := mustStay(t, day(2026, 3, 1), day(2026, 3, 1+tc.nights))
			got, err := pricing.Calculate(PricingParams{NightlyRateCents: tc.rate, Stay: stay})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// Price grows linearly with nights at a fixed rate.
func TestNightlyRatePricing_Linearity(t *testing.T) {
	pricing := NewNightlyRatePricing()
	const rate = int64(13750)

	var prev int64
	for nights := 1; nights <= 14; nights++ {
		stay := mustStay(t, day(2026, 3, 1), day(2026, 3, 1+nights))
		got, err := pricing.Calculate(PricingParams{NightlyRateCents: rate, Stay: stay})
		require.NoError(t, err)
		if nights > 1 {
			assert.Equal(t, rate, got-prev)
		}
		prev = got
	}
}

func TestNightlyRatePricing_RejectsNonPositiveRate(t *testing.T) {
	pricing := NewNightlyRatePricing()
	stay := mustStay(t, day(2026, 3, 1), day(2026, 3, 3))

	for _, rate := range []int64{0, -100} {
		_, err := pricing.Calculate(PricingParams{NightlyRateCents: rate, Stay: stay})
		require.Error(t, err)
		assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	}
}

func TestNightlyRatePricing_RejectsEmptyStay(t *testing.T) {
	pricing := NewNightlyRatePricing()

	// A zero-value StayPeriod has zero nights.
	_, err := pricing.Calculate(PricingParams{NightlyRateCents: 10000, Stay: StayPeriod{}})
	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidRange, domain.CodeOf(err))
}
