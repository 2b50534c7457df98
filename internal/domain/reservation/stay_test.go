package reservation

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxestay/service-reservations/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustStay(t *testing.T, checkIn, checkOut time.Time) StayPeriod {
	t.Helper()
	stay, err := NewStayPeriod(checkIn, checkOut)
	require.NoError(t, err)
	return stay
}

func TestNewStayPeriod_NormalizesToUTCMidnight(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kuala_Lumpur")
	require.NoError(t, err)

	// 23:30 local on Jan 10 is still Jan 10 in UTC terms of that wall clock's
	// date; DateOf keys off the UTC instant.
	in := time.Date(2026, 1, 10, 14, 30, 0, 0, loc)
	out := time.Date(2026, 1, 12, 9, 0, 0, 0, loc)

	stay, err := NewStayPeriod(in, out)
	require.NoError(t, err)

	assert.Equal(t, day(2026, 1, 10), stay.CheckIn())
	assert.Equal(t, day(2026, 1, 12), stay.CheckOut())
	assert.Equal(t, time.UTC, stay.CheckIn().Location())
}

func TestNewStayPeriod_RejectsInvalidRange(t *testing.T) {
	cases := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
	}{
		{"checkout before checkin", day(2026, 1, 12), day(2026, 1, 10)},
		{"zero-length stay", day(2026, 1, 10), day(2026, 1, 10)},
		{"same day different hours", day(2026, 1, 10).Add(2 * time.Hour), day(2026, 1, 10).Add(20 * time.Hour)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewStayPeriod(tc.checkIn, tc.checkOut)
			require.Error(t, err)
			assert.Equal(t, domain.CodeInvalidRange, domain.CodeOf(err))
		})
	}
}

func TestStayPeriod_Nights(t *testing.T) {
	assert.Equal(t, 1, mustStay(t, day(2026, 1, 10), day(2026, 1, 11)).Nights())
	assert.Equal(t, 2, mustStay(t, day(2026, 1, 10), day(2026, 1, 12)).Nights())
	assert.Equal(t, 31, mustStay(t, day(2026, 1, 1), day(2026, 2, 1)).Nights())
	// Crosses a DST boundary in most zones; UTC-midnight normalization keeps
	// the night count exact.
	assert.Equal(t, 365, mustStay(t, day(2026, 1, 1), day(2027, 1, 1)).Nights())
}

func TestStayPeriod_Overlaps_BackToBack(t *testing.T) {
	first := mustStay(t, day(2026, 1, 10), day(2026, 1, 12))
	second := mustStay(t, day(2026, 1, 12), day(2026, 1, 14))

	// Checkout day equals checkin day: the half-open ranges touch but do not
	// overlap, so back-to-back stays are allowed.
	assert.False(t, first.Overlaps(second))
	assert.False(t, second.Overlaps(first))
}

func TestStayPeriod_Overlaps_Cases(t *testing.T) {
	base := mustStay(t, day(2026, 1, 10), day(2026, 1, 15))

	cases := []struct {
		name     string
		other    StayPeriod
		overlaps bool
	}{
		{"identical", mustStay(t, day(2026, 1, 10), day(2026, 1, 15)), true},
		{"contained", mustStay(t, day(2026, 1, 11), day(2026, 1, 13)), true},
		{"containing", mustStay(t, day(2026, 1, 8), day(2026, 1, 20)), true},
		{"overlap left edge", mustStay(t, day(2026, 1, 8), day(2026, 1, 11)), true},
		{"overlap right edge", mustStay(t, day(2026, 1, 14), day(2026, 1, 18)), true},
		{"single shared night", mustStay(t, day(2026, 1, 14), day(2026, 1, 15)), true},
		{"before, touching", mustStay(t, day(2026, 1, 8), day(2026, 1, 10)), false},
		{"after, touching", mustStay(t, day(2026, 1, 15), day(2026, 1, 18)), false},
		{"disjoint before", mustStay(t, day(2026, 1, 1), day(2026, 1, 5)), false},
		{"disjoint after", mustStay(t, day(2026, 1, 20), day(2026, 1, 25)), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, base.Overlaps(tc.other))
			assert.Equal(t, tc.overlaps, tc.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

// TestStayPeriod_Overlaps_Randomized cross-checks Overlaps against a
// night-by-night occupancy comparison over random ranges.
func TestStayPeriod_Overlaps_Randomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	origin := day(2026, 1, 1)

	randomStay := func() StayPeriod {
		start := rng.Intn(60)
		nights := 1 + rng.Intn(14)
		return mustStay(t,
			origin.AddDate(0, 0, start),
			origin.AddDate(0, 0, start+nights),
		)
	}

	occupiedNights := func(s StayPeriod) map[int]bool {
		nights := map[int]bool{}
		for d := s.CheckIn(); d.Before(s.CheckOut()); d = d.AddDate(0, 0, 1) {
			nights[int(d.Sub(origin).Hours()/24)] = true
		}
		return nights
	}

	for i := 0; i < 500; i++ {
		a, b := randomStay(), randomStay()

		shared := false
		bn := occupiedNights(b)
		for n := range occupiedNights(a) {
			if bn[n] {
				shared = true
				break
			}
		}

		require.Equalf(t, shared, a.Overlaps(b), "%s vs %s", a, b)
	}
}

func TestStayPeriod_ValidateNotPast(t *testing.T) {
	today := day(2026, 1, 10)

	assert.NoError(t, mustStay(t, day(2026, 1, 10), day(2026, 1, 12)).ValidateNotPast(today))
	assert.NoError(t, mustStay(t, day(2026, 1, 11), day(2026, 1, 13)).ValidateNotPast(today))

	err := mustStay(t, day(2026, 1, 9), day(2026, 1, 12)).ValidateNotPast(today)
	require.Error(t, err)
	assert.Equal(t, domain.CodePastDate, domain.CodeOf(err))

	// "Today" carrying a time-of-day must not push same-day check-ins into
	// the past.
	assert.NoError(t, mustStay(t, day(2026, 1, 10), day(2026, 1, 12)).ValidateNotPast(today.Add(18*time.Hour)))
}

func TestStayPeriod_String(t *testing.T) {
	stay := mustStay(t, day(2026, 1, 10), day(2026, 1, 12))
	assert.Equal(t, "2026-01-10 to 2026-01-12", stay.String())
}
