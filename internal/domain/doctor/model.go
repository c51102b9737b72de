// Package doctor models doctors and their weekly availability templates.
package doctor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/torildhov/sandefjord-legesenter-booking-system/pkg/timegrid"
)

// BusinessDays lists the bookable weekdays in canonical rendering order.
var BusinessDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

type Doctor struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Specialisation string       `json:"specialisation"`
	Availability   Availability `json:"availability"`
}

// WeeklySchedule maps a business weekday to the slots normally open on it.
// It marshals its keys in Monday..Friday order so rendered schedules read
// naturally regardless of how the stored JSON was keyed.
type WeeklySchedule map[string][]string

func (ws WeeklySchedule) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, day := range BusinessDays {
		slots, ok := ws[day]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, _ := json.Marshal(day)
		val, err := json.Marshal(slots)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	// Keys outside the canonical weekday set never validate, but if present
	// in stored data they are still rendered rather than silently dropped.
	for day, slots := range ws {
		if isBusinessDayName(day) {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, _ := json.Marshal(day)
		val, err := json.Marshal(slots)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func isBusinessDayName(day string) bool {
	for _, d := range BusinessDays {
		if d == day {
			return true
		}
	}
	return false
}

// Availability is a doctor's weekly template plus date-keyed exceptions.
// Exceptions only ever withdraw slots; they never add any.
type Availability struct {
	WeeklySchedule WeeklySchedule      `json:"weekly_schedule"`
	Exceptions     map[string][]string `json:"exceptions"`
}

// Validate rejects weekend or unknown weekday keys, malformed exception
// dates, and any slot outside the canonical grid.
func (a Availability) Validate() error {
	for day, slots := range a.WeeklySchedule {
		if !isBusinessDayName(day) {
			return fmt.Errorf("weekly schedule key %q is not a business weekday", day)
		}
		for _, slot := range slots {
			if !timegrid.IsValidSlot(slot) {
				return fmt.Errorf("weekly schedule slot %q for %s is not on the slot grid", slot, day)
			}
		}
	}
	for date, slots := range a.Exceptions {
		if _, err := time.Parse(timegrid.DateLayout, date); err != nil {
			return fmt.Errorf("exception key %q is not a valid date", date)
		}
		for _, slot := range slots {
			if !timegrid.IsValidSlot(slot) {
				return fmt.Errorf("exception slot %q for %s is not on the slot grid", slot, date)
			}
		}
	}
	return nil
}

// OpenSlots resolves the open slots for a concrete date: the weekly bucket
// for its weekday minus that date's exceptions, intersected with the grid
// and returned in grid order. Weekends resolve to nothing.
func (a Availability) OpenSlots(weekday, date string) []string {
	if !timegrid.IsBusinessDay(weekday) {
		return nil
	}
	bucket := a.WeeklySchedule[weekday]
	if len(bucket) == 0 {
		return nil
	}
	withdrawn := make(map[string]bool)
	for _, slot := range a.Exceptions[date] {
		withdrawn[slot] = true
	}
	open := make(map[string]bool, len(bucket))
	for _, slot := range bucket {
		if !withdrawn[slot] {
			open[slot] = true
		}
	}
	var out []string
	for _, slot := range timegrid.Slots() {
		if open[slot] {
			out = append(out, slot)
		}
	}
	return out
}

// HasWeekday reports whether the weekly template has a bucket for the day.
func (a Availability) HasWeekday(weekday string) bool {
	_, ok := a.WeeklySchedule[weekday]
	return ok
}
