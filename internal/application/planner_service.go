package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/example/deskplanner/internal/persistence"
	"github.com/example/deskplanner/internal/scheduling"
)

// PlannerService orchestrates the day planner: it resolves availability,
// runs the pure placement rules and persists the resulting day in one
// transaction per operation.
type PlannerService struct {
	employees   persistence.EmployeeRepository
	desks       persistence.DeskRepository
	preferences persistence.PreferenceRepository
	assignments persistence.AssignmentRepository
	idGenerator func() string
	logger      *slog.Logger
}

// NewPlannerService wires dependencies for planner operations.
func NewPlannerService(employees persistence.EmployeeRepository, desks persistence.DeskRepository, preferences persistence.PreferenceRepository, assignments persistence.AssignmentRepository, idGenerator func() string, logger *slog.Logger) *PlannerService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &PlannerService{
		employees:   employees,
		desks:       desks,
		preferences: preferences,
		assignments: assignments,
		idGenerator: idGenerator,
		logger:      defaultLogger(logger),
	}
}

func (s *PlannerService) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "PlannerService", operation, attrs...)
}

// DayView assembles the floor plan, occupancy and per-employee availability
// for one date.
func (s *PlannerService) DayView(ctx context.Context, date time.Time) (DayView, error) {
	day := scheduling.NormalizeDate(date)

	desks, err := s.desks.ListDesks(ctx)
	if err != nil {
		return DayView{}, err
	}
	assignments, err := s.assignments.ListAssignments(ctx, day)
	if err != nil {
		return DayView{}, err
	}
	availability, err := s.resolveRoster(ctx, day)
	if err != nil {
		return DayView{}, err
	}

	return DayView{
		Date:        day,
		Desks:       desks,
		Assignments: assignments,
		Employees:   availability,
	}, nil
}

// PlaceEmployee seats an employee at a desk for one slot, or for both slots
// when WholeDay is set. Placing an unavailable employee is allowed: such
// exception assignments are a feature, and the caller can flag them using
// the availability in the returned view.
func (s *PlannerService) PlaceEmployee(ctx context.Context, params PlaceParams) (DayView, error) {
	day := scheduling.NormalizeDate(params.Date)

	if _, err := s.desks.GetDesk(ctx, params.DeskID); err != nil {
		return DayView{}, mapRepoError(err)
	}
	if _, err := s.employees.GetEmployee(ctx, params.EmployeeID); err != nil {
		return DayView{}, mapRepoError(err)
	}

	current, err := s.assignments.ListAssignments(ctx, day)
	if err != nil {
		return DayView{}, err
	}

	state := toDayAssignments(current)
	var next scheduling.DayAssignments
	if params.WholeDay {
		next, err = scheduling.PlaceWholeDay(state, params.DeskID, params.EmployeeID)
	} else {
		next, err = scheduling.Place(state, params.DeskID, params.Slot, params.EmployeeID)
	}
	if err != nil {
		return DayView{}, mapPlacementError(err)
	}

	if err := s.persistDay(ctx, day, current, next); err != nil {
		return DayView{}, err
	}

	s.log(ctx, "PlaceEmployee", "date", day.Format(time.DateOnly), "desk_id", params.DeskID,
		"employee_id", params.EmployeeID, "whole_day", params.WholeDay).InfoContext(ctx, "employee placed")
	return s.DayView(ctx, day)
}

// ClearSlot vacates one desk half-day. Clearing an already vacant slot
// succeeds without effect.
func (s *PlannerService) ClearSlot(ctx context.Context, params ClearSlotParams) (DayView, error) {
	day := scheduling.NormalizeDate(params.Date)

	vErr := &ValidationError{}
	if params.DeskID == "" {
		vErr.add("deskId", "desk id is required")
	}
	if !params.Slot.Valid() {
		vErr.add("slot", "slot must be MORNING or AFTERNOON")
	}
	if vErr.HasErrors() {
		return DayView{}, vErr
	}

	current, err := s.assignments.ListAssignments(ctx, day)
	if err != nil {
		return DayView{}, err
	}

	next := scheduling.ClearSlot(toDayAssignments(current), params.DeskID, params.Slot)
	if err := s.persistDay(ctx, day, current, next); err != nil {
		return DayView{}, err
	}

	s.log(ctx, "ClearSlot", "date", day.Format(time.DateOnly), "desk_id", params.DeskID,
		"slot", string(params.Slot)).InfoContext(ctx, "slot cleared")
	return s.DayView(ctx, day)
}

// ApplyPreferences seeds the date with every preference recorded for its
// weekday. Weekend dates and empty preference sets leave the day untouched.
// All derived placements commit in one transaction or not at all.
func (s *PlannerService) ApplyPreferences(ctx context.Context, date time.Time) (DayView, error) {
	day := scheduling.NormalizeDate(date)

	if scheduling.IsWeekend(day) {
		s.log(ctx, "ApplyPreferences", "date", day.Format(time.DateOnly)).InfoContext(ctx, "weekend date, nothing to apply")
		return s.DayView(ctx, day)
	}

	stored, err := s.preferences.ListPreferences(ctx, day.Weekday())
	if err != nil {
		return DayView{}, err
	}
	if len(stored) == 0 {
		return s.DayView(ctx, day)
	}

	prefs := make([]scheduling.Preference, 0, len(stored))
	for _, preference := range stored {
		prefs = append(prefs, scheduling.Preference{
			EmployeeID: preference.EmployeeID,
			Weekday:    preference.Weekday,
			Slot:       scheduling.Slot(preference.Slot),
			DeskID:     preference.DeskID,
		})
	}

	current, err := s.assignments.ListAssignments(ctx, day)
	if err != nil {
		return DayView{}, err
	}

	next, err := scheduling.ApplyPreferences(day, toDayAssignments(current), prefs)
	if err != nil {
		return DayView{}, mapPlacementError(err)
	}

	if err := s.persistDay(ctx, day, current, next); err != nil {
		return DayView{}, err
	}

	s.log(ctx, "ApplyPreferences", "date", day.Format(time.DateOnly),
		"preferences", len(prefs)).InfoContext(ctx, "preferences applied")
	return s.DayView(ctx, day)
}

// persistDay writes the computed occupancy back, keeping row identity for
// entries that survived the transformation.
func (s *PlannerService) persistDay(ctx context.Context, day time.Time, previous []persistence.Assignment, next scheduling.DayAssignments) error {
	existing := make(map[scheduling.SlotKey]persistence.Assignment, len(previous))
	for _, assignment := range previous {
		existing[scheduling.SlotKey{DeskID: assignment.DeskID, Slot: scheduling.Slot(assignment.Slot)}] = assignment
	}

	rows := make([]persistence.Assignment, 0, len(next))
	for key, employeeID := range next {
		if old, ok := existing[key]; ok && old.EmployeeID == employeeID {
			rows = append(rows, old)
			continue
		}
		rows = append(rows, persistence.Assignment{
			ID:         s.idGenerator(),
			Date:       day,
			Slot:       string(key.Slot),
			DeskID:     key.DeskID,
			EmployeeID: employeeID,
		})
	}

	return mapRepoError(s.assignments.ReplaceDay(ctx, day, rows))
}

// resolveRoster computes availability for every employee on the date.
func (s *PlannerService) resolveRoster(ctx context.Context, day time.Time) ([]EmployeeAvailability, error) {
	employees, err := s.employees.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}

	schedules, err := s.employees.ListWorkSchedules(ctx)
	if err != nil {
		return nil, err
	}
	scheduleByEmployee := make(map[string]*persistence.WorkSchedule, len(schedules))
	for i := range schedules {
		scheduleByEmployee[schedules[i].EmployeeID] = &schedules[i]
	}

	absences, err := s.employees.ListAbsences(ctx, "")
	if err != nil {
		return nil, err
	}
	absencesByEmployee := make(map[string][]persistence.Absence)
	for _, absence := range absences {
		absencesByEmployee[absence.EmployeeID] = append(absencesByEmployee[absence.EmployeeID], absence)
	}

	result := make([]EmployeeAvailability, 0, len(employees))
	for _, employee := range employees {
		resolved := scheduling.ResolveAvailability(day, toSchedulingEmployee(
			employee,
			scheduleByEmployee[employee.ID],
			absencesByEmployee[employee.ID],
		))
		result = append(result, EmployeeAvailability{Employee: employee, Availability: resolved})
	}
	return result, nil
}

// mapPlacementError converts core placement errors into field validation
// errors for the transport layer.
func mapPlacementError(err error) error {
	vErr := &ValidationError{}
	switch {
	case errors.Is(err, scheduling.ErrMissingDesk):
		vErr.add("deskId", "desk id is required")
	case errors.Is(err, scheduling.ErrMissingEmployee):
		vErr.add("employeeId", "employee id is required")
	case errors.Is(err, scheduling.ErrInvalidSlot):
		vErr.add("slot", "slot must be MORNING or AFTERNOON")
	default:
		return err
	}
	return vErr
}
