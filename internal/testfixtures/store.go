package testfixtures

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/deskplanner/internal/persistence"
)

// Store is an in-memory implementation of every persistence repository,
// suitable for service and handler tests. Mutations take a write lock and
// copy records on the way in and out, mirroring the value semantics of the
// SQLite layer.
type Store struct {
	mu          sync.RWMutex
	employees   map[string]persistence.Employee
	schedules   map[string]persistence.WorkSchedule
	absences    map[string]persistence.Absence
	desks       map[string]persistence.Desk
	preferences map[string]persistence.Preference
	assignments map[string]persistence.Assignment

	// ReplaceDayErr, when set, fails the next ReplaceDay call without
	// touching stored rows, emulating a transaction rollback.
	ReplaceDayErr error
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		employees:   make(map[string]persistence.Employee),
		schedules:   make(map[string]persistence.WorkSchedule),
		absences:    make(map[string]persistence.Absence),
		desks:       make(map[string]persistence.Desk),
		preferences: make(map[string]persistence.Preference),
		assignments: make(map[string]persistence.Assignment),
	}
}

// --- EmployeeRepository ---

func (s *Store) CreateEmployee(ctx context.Context, employee persistence.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[employee.ID]; ok {
		return persistence.ErrConstraintViolation
	}
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = time.Now().UTC()
	}
	employee.UpdatedAt = employee.CreatedAt
	s.employees[employee.ID] = employee
	return nil
}

func (s *Store) UpdateEmployee(ctx context.Context, employee persistence.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.employees[employee.ID]
	if !ok {
		return persistence.ErrNotFound
	}
	employee.CreatedAt = current.CreatedAt
	employee.UpdatedAt = time.Now().UTC()
	s.employees[employee.ID] = employee
	return nil
}

func (s *Store) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	employee, ok := s.employees[id]
	if !ok {
		return persistence.Employee{}, persistence.ErrNotFound
	}
	return employee, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	employees := make([]persistence.Employee, 0, len(s.employees))
	for _, employee := range s.employees {
		employees = append(employees, employee)
	}
	sort.Slice(employees, func(i, j int) bool {
		if employees[i].Name == employees[j].Name {
			return employees[i].ID < employees[j].ID
		}
		return employees[i].Name < employees[j].Name
	})
	return employees, nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.employees, id)
	delete(s.schedules, id)
	for absenceID, absence := range s.absences {
		if absence.EmployeeID == id {
			delete(s.absences, absenceID)
		}
	}
	for preferenceID, preference := range s.preferences {
		if preference.EmployeeID == id {
			delete(s.preferences, preferenceID)
		}
	}
	for assignmentID, assignment := range s.assignments {
		if assignment.EmployeeID == id {
			delete(s.assignments, assignmentID)
		}
	}
	return nil
}

func (s *Store) UpsertWorkSchedule(ctx context.Context, schedule persistence.WorkSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	days := make(map[time.Weekday]persistence.WorkScheduleDay, len(schedule.Days))
	for weekday, day := range schedule.Days {
		days[weekday] = day
	}
	schedule.Days = days
	schedule.UpdatedAt = time.Now().UTC()
	if current, ok := s.schedules[schedule.EmployeeID]; ok {
		schedule.CreatedAt = current.CreatedAt
	} else {
		schedule.CreatedAt = schedule.UpdatedAt
	}
	s.schedules[schedule.EmployeeID] = schedule
	return nil
}

func (s *Store) GetWorkSchedule(ctx context.Context, employeeID string) (persistence.WorkSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	schedule, ok := s.schedules[employeeID]
	if !ok {
		return persistence.WorkSchedule{}, persistence.ErrNotFound
	}
	return schedule, nil
}

func (s *Store) ListWorkSchedules(ctx context.Context) ([]persistence.WorkSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	schedules := make([]persistence.WorkSchedule, 0, len(s.schedules))
	for _, schedule := range s.schedules {
		schedules = append(schedules, schedule)
	}
	sort.Slice(schedules, func(i, j int) bool {
		return schedules[i].EmployeeID < schedules[j].EmployeeID
	})
	return schedules, nil
}

func (s *Store) CreateAbsence(ctx context.Context, absence persistence.Absence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.absences[absence.ID]; ok {
		return persistence.ErrConstraintViolation
	}
	if _, ok := s.employees[absence.EmployeeID]; !ok {
		return persistence.ErrConstraintViolation
	}
	s.absences[absence.ID] = absence
	return nil
}

func (s *Store) DeleteAbsence(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.absences[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.absences, id)
	return nil
}

func (s *Store) ListAbsences(ctx context.Context, employeeID string) ([]persistence.Absence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var absences []persistence.Absence
	for _, absence := range s.absences {
		if employeeID == "" || absence.EmployeeID == employeeID {
			absences = append(absences, absence)
		}
	}
	sort.Slice(absences, func(i, j int) bool {
		if absences[i].Start.Equal(absences[j].Start) {
			return absences[i].ID < absences[j].ID
		}
		return absences[i].Start.Before(absences[j].Start)
	})
	return absences, nil
}

// --- DeskRepository ---

func (s *Store) CreateDesk(ctx context.Context, desk persistence.Desk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.desks[desk.ID]; ok {
		return persistence.ErrConstraintViolation
	}
	if desk.CreatedAt.IsZero() {
		desk.CreatedAt = time.Now().UTC()
	}
	desk.UpdatedAt = desk.CreatedAt
	s.desks[desk.ID] = desk
	return nil
}

func (s *Store) UpdateDesk(ctx context.Context, desk persistence.Desk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.desks[desk.ID]
	if !ok {
		return persistence.ErrNotFound
	}
	desk.CreatedAt = current.CreatedAt
	desk.UpdatedAt = time.Now().UTC()
	s.desks[desk.ID] = desk
	return nil
}

func (s *Store) GetDesk(ctx context.Context, id string) (persistence.Desk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	desk, ok := s.desks[id]
	if !ok {
		return persistence.Desk{}, persistence.ErrNotFound
	}
	return desk, nil
}

func (s *Store) ListDesks(ctx context.Context) ([]persistence.Desk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	desks := make([]persistence.Desk, 0, len(s.desks))
	for _, desk := range s.desks {
		desks = append(desks, desk)
	}
	sort.Slice(desks, func(i, j int) bool {
		if desks[i].Label == desks[j].Label {
			return desks[i].ID < desks[j].ID
		}
		return desks[i].Label < desks[j].Label
	})
	return desks, nil
}

func (s *Store) DeleteDesk(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.desks[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.desks, id)
	for preferenceID, preference := range s.preferences {
		if preference.DeskID == id {
			delete(s.preferences, preferenceID)
		}
	}
	for assignmentID, assignment := range s.assignments {
		if assignment.DeskID == id {
			delete(s.assignments, assignmentID)
		}
	}
	return nil
}

// --- PreferenceRepository ---

func (s *Store) UpsertPreference(ctx context.Context, preference persistence.Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for existingID, existing := range s.preferences {
		if existing.EmployeeID == preference.EmployeeID &&
			existing.Weekday == preference.Weekday &&
			existing.Slot == preference.Slot {
			delete(s.preferences, existingID)
		}
	}
	s.preferences[preference.ID] = preference
	return nil
}

func (s *Store) DeletePreference(ctx context.Context, employeeID string, weekday time.Weekday, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, preference := range s.preferences {
		if preference.EmployeeID == employeeID && preference.Weekday == weekday && preference.Slot == slot {
			delete(s.preferences, id)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *Store) ListPreferences(ctx context.Context, weekday time.Weekday) ([]persistence.Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var preferences []persistence.Preference
	for _, preference := range s.preferences {
		if weekday < 0 || preference.Weekday == weekday {
			preferences = append(preferences, preference)
		}
	}
	sort.Slice(preferences, func(i, j int) bool {
		a, b := preferences[i], preferences[j]
		if a.EmployeeID != b.EmployeeID {
			return a.EmployeeID < b.EmployeeID
		}
		if a.Weekday != b.Weekday {
			return a.Weekday < b.Weekday
		}
		return a.Slot < b.Slot
	})
	return preferences, nil
}

// --- AssignmentRepository ---

func (s *Store) ListAssignments(ctx context.Context, date time.Time) ([]persistence.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	day := date.Format(time.DateOnly)
	var assignments []persistence.Assignment
	for _, assignment := range s.assignments {
		if assignment.Date.Format(time.DateOnly) == day {
			assignments = append(assignments, assignment)
		}
	}
	sort.Slice(assignments, func(i, j int) bool {
		a, b := assignments[i], assignments[j]
		if a.Slot != b.Slot {
			return a.Slot < b.Slot
		}
		return a.DeskID < b.DeskID
	})
	return assignments, nil
}

func (s *Store) ReplaceDay(ctx context.Context, date time.Time, assignments []persistence.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReplaceDayErr != nil {
		err := s.ReplaceDayErr
		s.ReplaceDayErr = nil
		return err
	}
	day := date.Format(time.DateOnly)
	for id, assignment := range s.assignments {
		if assignment.Date.Format(time.DateOnly) == day {
			delete(s.assignments, id)
		}
	}
	for _, assignment := range assignments {
		assignment.Date = date
		if assignment.CreatedAt.IsZero() {
			assignment.CreatedAt = time.Now().UTC()
		}
		s.assignments[assignment.ID] = assignment
	}
	return nil
}
