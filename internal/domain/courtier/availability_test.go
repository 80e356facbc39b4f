package courtier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailabilityValidate(t *testing.T) {
	cases := []struct {
		name  string
		slots []TimeSlot
		ok    bool
	}{
		{"empty", nil, true},
		{"single", []TimeSlot{{"08:00", "12:00"}}, true},
		{"touching", []TimeSlot{{"08:00", "12:00"}, {"12:00", "18:00"}}, true},
		{"overlap", []TimeSlot{{"08:00", "12:30"}, {"12:00", "18:00"}}, false},
		{"unordered", []TimeSlot{{"14:00", "18:00"}, {"08:00", "12:00"}}, false},
		{"reversed", []TimeSlot{{"12:00", "08:00"}}, false},
		{"empty interval", []TimeSlot{{"12:00", "12:00"}}, false},
		{"bad format", []TimeSlot{{"8h", "12:00"}}, false},
		{"out of range", []TimeSlot{{"08:00", "25:00"}}, false},
	}

	for _, tc := range cases {
		a := DefaultAvailability()
		a.Wednesday.Slots = tc.slots
		err := a.Validate()
		if tc.ok {
			assert.NoError(t, err, tc.name)
		} else {
			assert.ErrorIs(t, err, ErrInvalidAvailability, tc.name)
		}
	}
}

func TestDefaultAvailabilityIsValid(t *testing.T) {
	a := DefaultAvailability()
	assert.NoError(t, a.Validate())
	assert.True(t, a.Friday.Enabled)
	assert.False(t, a.Saturday.Enabled)
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" Associate ")
	assert.True(t, ok)
	assert.Equal(t, RoleAssociate, r)

	_, ok = ParseRole("owner")
	assert.False(t, ok)
}
