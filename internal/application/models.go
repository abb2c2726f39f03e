package application

import (
	"errors"
	"time"

	"github.com/example/deskplanner/internal/persistence"
	"github.com/example/deskplanner/internal/scheduling"
)

// EmployeeInput carries the writable fields of an employee.
type EmployeeInput struct {
	Name        string
	Initials    string
	AvatarColor string
}

// WorkScheduleInput carries a full weekly schedule replacement. Keys outside
// Monday-Friday are rejected.
type WorkScheduleInput struct {
	Days map[time.Weekday]persistence.WorkScheduleDay
}

// AbsenceInput carries a new absence interval.
type AbsenceInput struct {
	Start  time.Time
	End    time.Time
	Reason string
}

// EmployeeDetail is an employee together with their owned records.
type EmployeeDetail struct {
	Employee persistence.Employee
	Schedule *persistence.WorkSchedule
	Absences []persistence.Absence
}

// DeskInput carries the writable fields of a desk.
type DeskInput struct {
	Label      string
	GridX      int
	GridY      int
	GridW      int
	GridH      int
	Rotation   int
	TitleColor *string
}

// EmployeeAvailability pairs an employee with their resolved availability
// for one date.
type EmployeeAvailability struct {
	Employee     persistence.Employee
	Availability scheduling.DayAvailability
}

// DayView is everything the presentation layer needs to render one planner
// day: the floor plan, current occupancy and per-employee availability.
type DayView struct {
	Date        time.Time
	Desks       []persistence.Desk
	Assignments []persistence.Assignment
	Employees   []EmployeeAvailability
}

// PlaceParams describes one drag-and-drop placement. When WholeDay is set
// the Slot field is ignored and both halves are assigned.
type PlaceParams struct {
	Date       time.Time
	DeskID     string
	EmployeeID string
	Slot       scheduling.Slot
	WholeDay   bool
}

// ClearSlotParams describes a single slot clearing.
type ClearSlotParams struct {
	Date   time.Time
	DeskID string
	Slot   scheduling.Slot
}

// PreferenceInput sets or clears one preference entry. An empty DeskID
// deletes the entry.
type PreferenceInput struct {
	EmployeeID string
	Weekday    time.Weekday
	Slot       scheduling.Slot
	DeskID     string
}

// mapRepoError translates persistence sentinels into application sentinels.
func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrConstraintViolation):
		return ErrConflict
	}
	return err
}

// toSchedulingEmployee projects stored records into the resolver's employee
// shape.
func toSchedulingEmployee(employee persistence.Employee, schedule *persistence.WorkSchedule, absences []persistence.Absence) scheduling.Employee {
	result := scheduling.Employee{ID: employee.ID}

	if schedule != nil {
		week := &scheduling.WeekSchedule{Days: make(map[time.Weekday]scheduling.DayPlan, len(schedule.Days))}
		for weekday, day := range schedule.Days {
			week.Days[weekday] = scheduling.DayPlan{
				Morning:   day.Morning,
				Afternoon: day.Afternoon,
				Note:      day.Note,
			}
		}
		result.Schedule = week
	}

	for _, absence := range absences {
		result.Absences = append(result.Absences, scheduling.Absence{
			ID:     absence.ID,
			Start:  absence.Start,
			End:    absence.End,
			Reason: absence.Reason,
		})
	}
	return result
}

// toDayAssignments projects stored rows into the conflict resolver's state.
func toDayAssignments(assignments []persistence.Assignment) scheduling.DayAssignments {
	state := make(scheduling.DayAssignments, len(assignments))
	for _, assignment := range assignments {
		state[scheduling.SlotKey{DeskID: assignment.DeskID, Slot: scheduling.Slot(assignment.Slot)}] = assignment.EmployeeID
	}
	return state
}
