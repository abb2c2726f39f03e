package scheduling

import "time"

// Preference is a recurring wish: which desk an employee would like to sit at
// for one weekday half-day. At most one preference exists per
// (employee, weekday, slot).
type Preference struct {
	EmployeeID string
	Weekday    time.Weekday
	Slot       Slot
	DeskID     string
}

// PreferenceSet offers lookups over a preference list. Preferences carry no
// conflict detection of their own; two employees may prefer the same desk and
// the contest is settled at application time.
type PreferenceSet []Preference

// DeskFor returns the preferred desk of an employee for a weekday slot, or
// false when none is recorded.
func (p PreferenceSet) DeskFor(employeeID string, weekday time.Weekday, slot Slot) (string, bool) {
	for _, pref := range p {
		if pref.EmployeeID == employeeID && pref.Weekday == weekday && pref.Slot == slot {
			return pref.DeskID, true
		}
	}
	return "", false
}

// ForWeekday returns the preferences recorded for one weekday, preserving
// input order.
func (p PreferenceSet) ForWeekday(weekday time.Weekday) []Preference {
	var matched []Preference
	for _, pref := range p {
		if pref.Weekday == weekday {
			matched = append(matched, pref)
		}
	}
	return matched
}
