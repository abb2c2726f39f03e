package scheduling

import (
	"fmt"
	"strings"
	"time"
)

// Slot identifies one half of a working day.
type Slot string

const (
	// SlotMorning is the first half of the day.
	SlotMorning Slot = "MORNING"
	// SlotAfternoon is the second half of the day.
	SlotAfternoon Slot = "AFTERNOON"
)

// Slots lists both half-day slots in chronological order.
var Slots = [...]Slot{SlotMorning, SlotAfternoon}

// Valid reports whether the slot is one of the two known half-day values.
func (s Slot) Valid() bool {
	return s == SlotMorning || s == SlotAfternoon
}

// ParseSlot converts user supplied input into a Slot.
func ParseSlot(value string) (Slot, error) {
	switch Slot(strings.ToUpper(strings.TrimSpace(value))) {
	case SlotMorning:
		return SlotMorning, nil
	case SlotAfternoon:
		return SlotAfternoon, nil
	}
	return "", fmt.Errorf("scheduling: unknown slot %q", value)
}

// Status describes whether an employee can be seated during a half day.
type Status string

const (
	// StatusAvailable marks a half day the employee can be seated in.
	StatusAvailable Status = "AVAILABLE"
	// StatusUnavailable marks a half day the employee cannot be seated in.
	StatusUnavailable Status = "UNAVAILABLE"
)

// NormalizeDate truncates a timestamp to local midnight. All planner dates are
// day granular; comparing anything finer than the calendar day is a bug.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return NormalizeDate(a).Equal(NormalizeDate(b))
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsWorkday reports whether the weekday is within the plannable Monday-Friday
// range.
func IsWorkday(weekday time.Weekday) bool {
	return weekday >= time.Monday && weekday <= time.Friday
}
