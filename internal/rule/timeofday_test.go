package rule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"08:00", "08:00", true},
		{"8:05", "08:05", true},
		{"23:59", "23:59", true},
		{"00:00", "00:00", true},
		{"09:30:45", "09:30", true}, // seconds dropped
		{" 12:15 ", "12:15", true},
		{"24:00", "", false},
		{"12:60", "", false},
		{"noon", "", false},
		{"12", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := ParseTimeOfDay(c.in)
		require.Equal(t, c.ok, ok, c.in)
		if ok {
			assert.Equal(t, c.want, got.String(), c.in)
		}
	}
}

func TestMinuteProjectionDropsSeconds(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 30, 59, 999000000, time.UTC)
	d := Minute(now)
	assert.Equal(t, "09:30", d.String())
	assert.True(t, d.Matches(now))

	start, ok := ParseTimeOfDay("09:30")
	require.True(t, ok)
	assert.True(t, start.Matches(now))
}

func TestHoursSinceFloorsTowardNegativeInfinity(t *testing.T) {
	start, ok := ParseTimeOfDay("08:00")
	require.True(t, ok)
	day := func(hour, min int) time.Time {
		return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
	}

	assert.Equal(t, 0, start.HoursSince(day(8, 0)))
	assert.Equal(t, 0, start.HoursSince(day(8, 59)))
	assert.Equal(t, 1, start.HoursSince(day(9, 0)))
	assert.Equal(t, 12, start.HoursSince(day(20, 0)))
	// A minute before the start still counts as a full hour behind.
	assert.Equal(t, -1, start.HoursSince(day(7, 59)))
	assert.Equal(t, -8, start.HoursSince(day(0, 0)))
}

func TestOnKeepsDateAndLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	now := time.Date(2026, 3, 2, 23, 45, 12, 0, loc)
	d, ok := ParseTimeOfDay("06:30")
	require.True(t, ok)

	anchored := d.On(now)
	assert.Equal(t, time.Date(2026, 3, 2, 6, 30, 0, 0, loc), anchored)
}
