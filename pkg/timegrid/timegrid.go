// Package timegrid holds the canonical appointment slot grid and the pure
// temporal rules applied to booking dates and times. All functions that
// depend on the current moment take it as a parameter so callers can inject
// a fixed clock in tests.
package timegrid

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var slots = buildSlots()

// buildSlots generates the half-hour grid from 08:00 through 15:30,
// excluding the 11:30 lunch slot.
func buildSlots() []string {
	var out []string
	for hour := 8; hour < 16; hour++ {
		for _, minute := range []int{0, 30} {
			if hour == 11 && minute == 30 {
				continue
			}
			out = append(out, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return out
}

// Slots returns the ordered canonical slot grid. Callers must not mutate
// the returned slice.
func Slots() []string {
	return slots
}

// IsValidSlot reports whether t is a member of the canonical grid.
func IsValidSlot(t string) bool {
	for _, s := range slots {
		if s == t {
			return true
		}
	}
	return false
}

// ParseDate parses an ISO calendar date into its local midnight instant.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// Weekday returns the English weekday name for the given date.
func Weekday(date time.Time) string {
	return date.Weekday().String()
}

// IsBusinessDay reports whether the named weekday is Monday through Friday.
func IsBusinessDay(weekday string) bool {
	return weekday != time.Saturday.String() && weekday != time.Sunday.String()
}

// SlotInstant combines a date's midnight with a grid time into the exact
// start instant of that slot.
func SlotInstant(date time.Time, slot string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, slot)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", slot, err)
	}
	return date.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
}

// IsPastDate reports whether date falls strictly before today. The
// comparison is date-only: both sides are truncated to start of day.
func IsPastDate(date time.Time, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return date.Before(today)
}

// IsFutureOrToday reports whether the date's midnight is at or after the
// current instant. Unlike IsPastDate this compares against the full
// timestamp, so "today" stops qualifying the moment midnight has passed.
// The two functions are intentionally not complements of each other.
func IsFutureOrToday(date time.Time, now time.Time) bool {
	return !date.Before(now)
}

// WithinMinimumBuffer reports whether the slot's start instant is less than
// one hour ahead of now. True means the booking must be rejected.
func WithinMinimumBuffer(date time.Time, slot string, now time.Time) bool {
	at, err := SlotInstant(date, slot)
	if err != nil {
		return true
	}
	return at.Sub(now) < time.Hour
}

// WithinBookingHorizon reports whether the date is no more than 28 days
// ahead of now. The boundary day itself is accepted.
func WithinBookingHorizon(date time.Time, now time.Time) bool {
	return !date.After(now.Add(28 * 24 * time.Hour))
}

// WithinCancellationWindow reports whether at least the given number of
// hours remain before the appointment date. The notice period is measured
// to the date's midnight, not to the slot's start time.
func WithinCancellationWindow(date time.Time, hours int, now time.Time) bool {
	return date.Sub(now) >= time.Duration(hours)*time.Hour
}
