package reservation

import (
	"fmt"
	"time"

	"github.com/luxestay/service-reservations/internal/domain"
)

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StayPeriod is the half-open date range [check-in, check-out) of a stay.
// The checkout day itself is not occupied, so back-to-back stays that touch
// at a boundary do not conflict.
type StayPeriod struct {
	checkIn  time.Time
	checkOut time.Time
}

// NewStayPeriod creates a StayPeriod, normalizing both dates to UTC midnight.
// Returns an invalid-range error when check-out is not after check-in.
func NewStayPeriod(checkIn, checkOut time.Time) (StayPeriod, error) {
	in := DateOf(checkIn)
	out := DateOf(checkOut)
	if !out.After(in) {
		return StayPeriod{}, domain.NewInvalidRangeError("check-out date must be after check-in date")
	}
	return StayPeriod{checkIn: in, checkOut: out}, nil
}

// CheckIn returns the first occupied date.
func (s StayPeriod) CheckIn() time.Time { return s.checkIn }

// CheckOut returns the exclusive end date.
func (s StayPeriod) CheckOut() time.Time { return s.checkOut }

// Nights returns the number of nights covered by the stay, always >= 1 for a
// period built through NewStayPeriod.
func (s StayPeriod) Nights() int {
	return int(s.checkOut.Sub(s.checkIn).Hours() / 24)
}

// Overlaps reports whether two half-open ranges conflict:
// [a,b) and [c,d) overlap iff a < d && c < b.
func (s StayPeriod) Overlaps(other StayPeriod) bool {
	return s.checkIn.Before(other.checkOut) && other.checkIn.Before(s.checkOut)
}

// StartsOnOrBefore reports whether check-in falls on or before the given day.
func (s StayPeriod) StartsOnOrBefore(day time.Time) bool {
	return !s.checkIn.After(DateOf(day))
}

// ValidateNotPast rejects stays whose check-in precedes the given "today".
func (s StayPeriod) ValidateNotPast(today time.Time) error {
	if s.checkIn.Before(DateOf(today)) {
		return domain.NewPastDateError("check-in date cannot be in the past")
	}
	return nil
}

// String renders the period as "2006-01-02 to 2006-01-02".
func (s StayPeriod) String() string {
	return fmt.Sprintf("%s to %s", s.checkIn.Format("2006-01-02"), s.checkOut.Format("2006-01-02"))
}
