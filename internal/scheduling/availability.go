package scheduling

import (
	"sort"
	"time"
)

// WeekendReason is attached to half days resolved on a Saturday or Sunday
// when no absence covers the date. Weekend work is not representable in the
// planner.
const WeekendReason = "Weekend"

// Employee carries the subset of employee data the resolver needs.
type Employee struct {
	ID       string
	Schedule *WeekSchedule
	Absences []Absence
}

// DayPlan holds the recurring flags for one weekday of a week schedule.
type DayPlan struct {
	Morning   bool
	Afternoon bool
	Note      *string
}

// WeekSchedule is the recurring Monday-Friday attendance policy of one
// employee. A missing weekday entry means the employee is present for both
// halves of that day.
type WeekSchedule struct {
	Days map[time.Weekday]DayPlan
}

// Plan returns the configured plan for a weekday, defaulting to full
// attendance when the weekday has no entry.
func (s *WeekSchedule) Plan(weekday time.Weekday) DayPlan {
	if s == nil {
		return DayPlan{Morning: true, Afternoon: true}
	}
	if plan, ok := s.Days[weekday]; ok {
		return plan
	}
	return DayPlan{Morning: true, Afternoon: true}
}

// Absence is an inclusive day-granular interval during which the employee is
// away, with a free-text reason.
type Absence struct {
	ID     string
	Start  time.Time
	End    time.Time
	Reason string
}

// Covers reports whether the absence interval contains the given date. Both
// endpoints are inclusive and compared at day granularity.
func (a Absence) Covers(date time.Time) bool {
	d := NormalizeDate(date)
	return !d.Before(NormalizeDate(a.Start)) && !d.After(NormalizeDate(a.End))
}

// HalfDay is the resolved availability of one half-day slot. Reason is nil
// whenever the status is available.
type HalfDay struct {
	Status Status
	Reason *string
}

// DayAvailability is the resolved availability of an employee for one date.
type DayAvailability struct {
	Morning   HalfDay
	Afternoon HalfDay
}

// ResolveAvailability computes the per-half-day availability of an employee
// on a date.
//
// Precedence, highest first: a covering absence marks both halves
// unavailable with the absence reason, even on weekends; otherwise weekends
// are always unavailable; otherwise the week schedule flags decide each half
// independently, with the weekday note as the reason for an inactive half.
// Employees without a schedule default to available.
func ResolveAvailability(date time.Time, employee Employee) DayAvailability {
	day := NormalizeDate(date)

	if absence, ok := matchAbsence(day, employee.Absences); ok {
		reason := absence.Reason
		off := HalfDay{Status: StatusUnavailable, Reason: &reason}
		return DayAvailability{Morning: off, Afternoon: off}
	}

	if IsWeekend(day) {
		reason := WeekendReason
		off := HalfDay{Status: StatusUnavailable, Reason: &reason}
		return DayAvailability{Morning: off, Afternoon: off}
	}

	plan := employee.Schedule.Plan(day.Weekday())
	return DayAvailability{
		Morning:   resolveHalf(plan.Morning, plan.Note),
		Afternoon: resolveHalf(plan.Afternoon, plan.Note),
	}
}

// matchAbsence returns the first absence covering the date, evaluated in
// ascending (Start, ID) order so overlapping absences resolve
// deterministically.
func matchAbsence(day time.Time, absences []Absence) (Absence, bool) {
	if len(absences) == 0 {
		return Absence{}, false
	}

	ordered := make([]Absence, len(absences))
	copy(ordered, absences)
	sort.Slice(ordered, func(i, j int) bool {
		si, sj := NormalizeDate(ordered[i].Start), NormalizeDate(ordered[j].Start)
		if si.Equal(sj) {
			return ordered[i].ID < ordered[j].ID
		}
		return si.Before(sj)
	})

	for _, absence := range ordered {
		if absence.Covers(day) {
			return absence, true
		}
	}
	return Absence{}, false
}

func resolveHalf(active bool, note *string) HalfDay {
	if active {
		return HalfDay{Status: StatusAvailable}
	}
	var reason *string
	if note != nil && *note != "" {
		value := *note
		reason = &value
	}
	return HalfDay{Status: StatusUnavailable, Reason: reason}
}
