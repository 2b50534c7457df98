package reservation

import "github.com/luxestay/service-reservations/internal/domain"

// PricingStrategy defines the interface for calculating stay prices.
type PricingStrategy interface {
	// Calculate returns the total price in cents for the given parameters.
	Calculate(params PricingParams) (int64, error)
}

// PricingParams holds the inputs for price calculation.
type PricingParams struct {
	NightlyRateCents int64
	Stay             StayPeriod
}

// NightlyRatePricing is the default strategy: nightly rate times nights.
type NightlyRatePricing struct{}

// NewNightlyRatePricing creates a NightlyRatePricing strategy.
func NewNightlyRatePricing() *NightlyRatePricing {
	return &NightlyRatePricing{}
}

// Calculate computes nightly rate x nights. A validated StayPeriod always
// covers at least one night.
func (s *NightlyRatePricing) Calculate(params PricingParams) (int64, error) {
	if params.NightlyRateCents <= 0 {
		return 0, domain.NewValidationError("nightly rate must be positive")
	}
	nights := params.Stay.Nights()
	if nights < 1 {
		return 0, domain.NewInvalidRangeError("stay must cover at least one night")
	}
	return params.NightlyRateCents * int64(nights), nil
}
