package scheduling

import (
	"errors"
	"time"
)

var (
	// ErrMissingDesk is returned when a placement names no desk.
	ErrMissingDesk = errors.New("scheduling: desk id is required")
	// ErrMissingEmployee is returned when a placement names no employee.
	ErrMissingEmployee = errors.New("scheduling: employee id is required")
	// ErrInvalidSlot is returned when a placement uses an unknown slot value.
	ErrInvalidSlot = errors.New("scheduling: invalid slot")
)

// SlotKey addresses one desk half-day within a single date.
type SlotKey struct {
	DeskID string
	Slot   Slot
}

// DayAssignments is the occupancy state of all desks for one date. A missing
// key means the desk half-day is vacant. The map is treated as immutable;
// every operation returns a fresh copy.
type DayAssignments map[SlotKey]string

// Occupant returns the employee seated at the desk for the slot, if any.
func (d DayAssignments) Occupant(deskID string, slot Slot) (string, bool) {
	employeeID, ok := d[SlotKey{DeskID: deskID, Slot: slot}]
	return employeeID, ok
}

// clone copies the state so callers can rely on value semantics.
func (d DayAssignments) clone() DayAssignments {
	next := make(DayAssignments, len(d)+1)
	for key, employeeID := range d {
		next[key] = employeeID
	}
	return next
}

// Place seats an employee at a desk for one slot and evicts the employee from
// every other desk they hold in the same slot. The other slot is untouched,
// so the same employee may occupy both halves of one desk. The previous
// occupant of the target desk half-day is displaced implicitly.
//
// Placement never consults availability: seating an absent employee is a
// deliberate exception assignment, not an error.
func Place(state DayAssignments, deskID string, slot Slot, employeeID string) (DayAssignments, error) {
	if deskID == "" {
		return nil, ErrMissingDesk
	}
	if employeeID == "" {
		return nil, ErrMissingEmployee
	}
	if !slot.Valid() {
		return nil, ErrInvalidSlot
	}

	next := state.clone()
	for key, occupant := range next {
		if key.Slot == slot && occupant == employeeID {
			delete(next, key)
		}
	}
	next[SlotKey{DeskID: deskID, Slot: slot}] = employeeID
	return next, nil
}

// PlaceWholeDay seats an employee for both halves of one desk. Each slot is
// resolved independently, so prior morning and afternoon assignments
// elsewhere are both cleared. The operation is idempotent.
func PlaceWholeDay(state DayAssignments, deskID, employeeID string) (DayAssignments, error) {
	next := state
	for _, slot := range Slots {
		placed, err := Place(next, deskID, slot, employeeID)
		if err != nil {
			return nil, err
		}
		next = placed
	}
	return next, nil
}

// ClearSlot vacates a desk half-day unconditionally.
func ClearSlot(state DayAssignments, deskID string, slot Slot) DayAssignments {
	next := state.clone()
	delete(next, SlotKey{DeskID: deskID, Slot: slot})
	return next
}

// ApplyPreferences seeds the day with every preference matching the date's
// weekday. Each preference is applied with the same two-sided eviction rule
// as Place, in input order, so a later preference wins a contested desk.
// Weekend dates return the state unchanged: preferences exist only for
// Monday through Friday.
func ApplyPreferences(date time.Time, state DayAssignments, preferences []Preference) (DayAssignments, error) {
	day := NormalizeDate(date)
	if IsWeekend(day) {
		return state, nil
	}

	weekday := day.Weekday()
	next := state
	for _, pref := range preferences {
		if pref.Weekday != weekday {
			continue
		}
		placed, err := Place(next, pref.DeskID, pref.Slot, pref.EmployeeID)
		if err != nil {
			return nil, err
		}
		next = placed
	}
	return next, nil
}
