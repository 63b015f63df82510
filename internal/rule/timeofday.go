package rule

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is an immutable minute-granularity time of day. All rule matching
// happens at this granularity: two instants match iff they project to the
// same "HH:MM".
type TimeOfDay struct {
	hour   int
	minute int
}

// ParseTimeOfDay parses "HH:MM". A seconds suffix ("HH:MM:SS") is tolerated
// and dropped.
func ParseTimeOfDay(s string) (TimeOfDay, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return TimeOfDay{}, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, false
	}
	return TimeOfDay{hour: hour, minute: minute}, true
}

// At builds a TimeOfDay from clock components. Values are not range-checked;
// use ParseTimeOfDay for untrusted input.
func At(hour, minute int) TimeOfDay {
	return TimeOfDay{hour: hour, minute: minute}
}

// Minute projects an instant to its time of day.
func Minute(t time.Time) TimeOfDay {
	return TimeOfDay{hour: t.Hour(), minute: t.Minute()}
}

func (d TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", d.hour, d.minute)
}

// Matches reports minute equality with the given instant.
func (d TimeOfDay) Matches(t time.Time) bool {
	return d == Minute(t)
}

// On anchors the time of day to the calendar date of t, in t's location.
func (d TimeOfDay) On(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), d.hour, d.minute, 0, 0, t.Location())
}

// HoursSince returns the number of whole hours from today's occurrence of d
// up to now, rounding toward negative infinity so instants before the
// occurrence yield a negative count.
func (d TimeOfDay) HoursSince(now time.Time) int {
	return int(math.Floor(now.Sub(d.On(now)).Hours()))
}

// matchesAny reports whether now's minute projection is a member of the given
// "HH:MM" list. Unparseable entries never match.
func matchesAny(times []string, now time.Time) bool {
	for _, s := range times {
		if d, ok := ParseTimeOfDay(s); ok && d.Matches(now) {
			return true
		}
	}
	return false
}

// sameOrBeforeDate reports whether a's calendar date is on or before b's.
func sameOrBeforeDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad <= bd
}
