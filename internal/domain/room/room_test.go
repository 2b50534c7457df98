package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxestay/service-reservations/internal/domain"
)

func TestParseRoomType(t *testing.T) {
	for _, valid := range []string{"standard", "deluxe", "suite"} {
		rt, err := ParseRoomType(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, rt.String())
	}

	_, err := ParseRoomType("penthouse")
	assert.Error(t, err)
}

func TestNewRoom(t *testing.T) {
	r, err := NewRoom("101", TypeStandard, 2, 10000, "Garden view", "wifi,tv", "")
	require.NoError(t, err)

	assert.Equal(t, "101", r.Number())
	assert.Equal(t, TypeStandard, r.Type())
	assert.Equal(t, 2, r.Capacity())
	assert.Equal(t, int64(10000), r.NightlyRateCents())
	assert.Equal(t, int64(1), r.Version())
}

func TestNewRoom_Validation(t *testing.T) {
	cases := []struct {
		name string
		fn   func() (*Room, error)
	}{
		{"empty number", func() (*Room, error) { return NewRoom("", TypeStandard, 2, 10000, "", "", "") }},
		{"bad type", func() (*Room, error) { return NewRoom("101", RoomType("cabin"), 2, 10000, "", "", "") }},
		{"zero capacity", func() (*Room, error) { return NewRoom("101", TypeStandard, 0, 10000, "", "", "") }},
		{"zero rate", func() (*Room, error) { return NewRoom("101", TypeStandard, 2, 0, "", "", "") }},
		{"negative rate", func() (*Room, error) { return NewRoom("101", TypeStandard, 2, -500, "", "", "") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.fn()
			require.Error(t, err)
			assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
		})
	}
}

func TestRoom_Fits(t *testing.T) {
	r, err := NewRoom("201", TypeDeluxe, 3, 15000, "", "", "")
	require.NoError(t, err)

	assert.True(t, r.Fits(1))
	assert.True(t, r.Fits(3))
	assert.False(t, r.Fits(4))
	assert.False(t, r.Fits(0))
	assert.False(t, r.Fits(-1))
}

func TestRoom_Update(t *testing.T) {
	r, err := NewRoom("301", TypeSuite, 4, 40000, "", "", "")
	require.NoError(t, err)

	require.NoError(t, r.Update("301A", TypeSuite, 5, 45000, "Corner suite", "wifi,minibar", "https://img.example.com/301a.jpg"))
	assert.Equal(t, "301A", r.Number())
	assert.Equal(t, 5, r.Capacity())
	assert.Equal(t, int64(45000), r.NightlyRateCents())
	assert.Equal(t, int64(2), r.Version(), "update bumps the version")

	err = r.Update("", TypeSuite, 5, 45000, "", "", "")
	require.Error(t, err)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}
