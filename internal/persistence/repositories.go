package persistence

import (
	"context"
	"time"
)

// EmployeeRepository exposes CRUD operations for employees and their owned
// schedule and absence records.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee Employee) error
	UpdateEmployee(ctx context.Context, employee Employee) error
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	// DeleteEmployee removes the employee together with their schedule,
	// absences, preferences and assignments in one transaction.
	DeleteEmployee(ctx context.Context, id string) error

	UpsertWorkSchedule(ctx context.Context, schedule WorkSchedule) error
	GetWorkSchedule(ctx context.Context, employeeID string) (WorkSchedule, error)
	ListWorkSchedules(ctx context.Context) ([]WorkSchedule, error)

	CreateAbsence(ctx context.Context, absence Absence) error
	DeleteAbsence(ctx context.Context, id string) error
	// ListAbsences returns absences ordered by (start, id) ascending so
	// overlap resolution stays deterministic. An empty employeeID lists all.
	ListAbsences(ctx context.Context, employeeID string) ([]Absence, error)
}

// DeskRepository exposes CRUD operations for desks.
type DeskRepository interface {
	CreateDesk(ctx context.Context, desk Desk) error
	UpdateDesk(ctx context.Context, desk Desk) error
	GetDesk(ctx context.Context, id string) (Desk, error)
	ListDesks(ctx context.Context) ([]Desk, error)
	// DeleteDesk removes the desk together with preferences and assignments
	// referencing it in one transaction.
	DeleteDesk(ctx context.Context, id string) error
}

// PreferenceRepository stores recurring desk preferences.
type PreferenceRepository interface {
	// UpsertPreference replaces the entry for (EmployeeID, Weekday, Slot).
	UpsertPreference(ctx context.Context, preference Preference) error
	DeletePreference(ctx context.Context, employeeID string, weekday time.Weekday, slot string) error
	// ListPreferences returns all preferences; weekday < 0 disables the
	// weekday filter.
	ListPreferences(ctx context.Context, weekday time.Weekday) ([]Preference, error)
}

// AssignmentRepository stores desk occupancy per date. Dates are day
// granular.
type AssignmentRepository interface {
	ListAssignments(ctx context.Context, date time.Time) ([]Assignment, error)
	// ReplaceDay atomically swaps the full assignment set of one date:
	// every existing row for the date is deleted and the given rows are
	// inserted inside a single transaction. Callers always read the day,
	// transform it, and write it back whole, so concurrent writers resolve
	// to last-write-wins without torn state.
	ReplaceDay(ctx context.Context, date time.Time, assignments []Assignment) error
}
