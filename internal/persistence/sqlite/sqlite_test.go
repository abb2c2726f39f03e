package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/deskplanner/internal/persistence"
)

func openTestPool(t *testing.T) *ConnectionPool {
	t.Helper()

	pool, err := Open("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	require.NoError(t, pool.Migrate(context.Background()))
	return pool
}

func newCounter(prefix string) func() string {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func day(value string) time.Time {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMigrateIsIdempotent(t *testing.T) {
	pool := openTestPool(t)
	require.NoError(t, pool.Migrate(context.Background()))
}

func TestEmployeeRepository_CRUD(t *testing.T) {
	pool := openTestPool(t)
	repo := NewEmployeeRepository(pool)
	ctx := context.Background()

	employee := persistence.Employee{ID: "emp-1", Name: "Colette Müller", Initials: "cm", AvatarColor: "#F97316"}
	require.NoError(t, repo.CreateEmployee(ctx, employee))

	stored, err := repo.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Colette Müller", stored.Name)
	assert.False(t, stored.CreatedAt.IsZero())

	employee.Name = "Colette Meier"
	require.NoError(t, repo.UpdateEmployee(ctx, employee))
	stored, err = repo.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Colette Meier", stored.Name)

	require.NoError(t, repo.CreateEmployee(ctx, persistence.Employee{ID: "emp-2", Name: "Beat Schuler", Initials: "bs"}))
	employees, err := repo.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "Beat Schuler", employees[0].Name, "listing is ordered by name")

	require.NoError(t, repo.DeleteEmployee(ctx, "emp-2"))
	_, err = repo.GetEmployee(ctx, "emp-2")
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestEmployeeRepository_NotFoundAndDuplicates(t *testing.T) {
	pool := openTestPool(t)
	repo := NewEmployeeRepository(pool)
	ctx := context.Background()

	_, err := repo.GetEmployee(ctx, "missing")
	assert.ErrorIs(t, err, persistence.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateEmployee(ctx, persistence.Employee{ID: "missing"}), persistence.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteEmployee(ctx, "missing"), persistence.ErrNotFound)

	require.NoError(t, repo.CreateEmployee(ctx, persistence.Employee{ID: "emp-1", Name: "A"}))
	assert.ErrorIs(t, repo.CreateEmployee(ctx, persistence.Employee{ID: "emp-1", Name: "B"}), persistence.ErrConstraintViolation)
}

func TestEmployeeRepository_WorkSchedule(t *testing.T) {
	pool := openTestPool(t)
	repo := NewEmployeeRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.CreateEmployee(ctx, persistence.Employee{ID: "emp-1", Name: "A"}))

	_, err := repo.GetWorkSchedule(ctx, "emp-1")
	assert.ErrorIs(t, err, persistence.ErrNotFound)

	note := "home office"
	schedule := persistence.WorkSchedule{
		EmployeeID: "emp-1",
		Days: map[time.Weekday]persistence.WorkScheduleDay{
			time.Monday:  {Morning: true, Afternoon: true},
			time.Tuesday: {Morning: true, Afternoon: false, Note: &note},
		},
	}
	require.NoError(t, repo.UpsertWorkSchedule(ctx, schedule))

	stored, err := repo.GetWorkSchedule(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, stored.Days, 2)
	assert.True(t, stored.Days[time.Monday].Afternoon)
	require.NotNil(t, stored.Days[time.Tuesday].Note)
	assert.Equal(t, "home office", *stored.Days[time.Tuesday].Note)

	// Upsert replaces the previous weekday rows wholesale.
	schedule.Days = map[time.Weekday]persistence.WorkScheduleDay{
		time.Friday: {Morning: false, Afternoon: true},
	}
	require.NoError(t, repo.UpsertWorkSchedule(ctx, schedule))
	stored, err = repo.GetWorkSchedule(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, stored.Days, 1)
	assert.True(t, stored.Days[time.Friday].Afternoon)

	schedules, err := repo.ListWorkSchedules(ctx)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, "emp-1", schedules[0].EmployeeID)
}

func TestEmployeeRepository_AbsencesOrderedByStartThenID(t *testing.T) {
	pool := openTestPool(t)
	repo := NewEmployeeRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.CreateEmployee(ctx, persistence.Employee{ID: "emp-1", Name: "A"}))

	require.NoError(t, repo.CreateAbsence(ctx, persistence.Absence{
		ID: "abs-b", EmployeeID: "emp-1", Start: day("2026-02-04"), End: day("2026-02-04"), Reason: "Krank",
	}))
	require.NoError(t, repo.CreateAbsence(ctx, persistence.Absence{
		ID: "abs-a", EmployeeID: "emp-1", Start: day("2026-02-02"), End: day("2026-02-06"), Reason: "Ferien",
	}))

	absences, err := repo.ListAbsences(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, absences, 2)
	assert.Equal(t, "abs-a", absences[0].ID)
	assert.Equal(t, "Ferien", absences[0].Reason)
	assert.Equal(t, day("2026-02-02"), absences[0].Start)

	require.NoError(t, repo.DeleteAbsence(ctx, "abs-b"))
	assert.ErrorIs(t, repo.DeleteAbsence(ctx, "abs-b"), persistence.ErrNotFound)

	absences, err = repo.ListAbsences(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, absences, 1)
}

func TestEmployeeRepository_DeleteCascades(t *testing.T) {
	pool := openTestPool(t)
	employees := NewEmployeeRepository(pool)
	desks := NewDeskRepository(pool)
	preferences := NewPreferenceRepository(pool)
	assignments := NewAssignmentRepository(pool)
	ctx := context.Background()

	require.NoError(t, employees.CreateEmployee(ctx, persistence.Employee{ID: "emp-1", Name: "A"}))
	require.NoError(t, desks.CreateDesk(ctx, persistence.Desk{ID: "desk-1", Label: "D1"}))
	require.NoError(t, employees.UpsertWorkSchedule(ctx, persistence.WorkSchedule{
		EmployeeID: "emp-1",
		Days:       map[time.Weekday]persistence.WorkScheduleDay{time.Monday: {Morning: true}},
	}))
	require.NoError(t, employees.CreateAbsence(ctx, persistence.Absence{
		ID: "abs-1", EmployeeID: "emp-1", Start: day("2026-02-02"), End: day("2026-02-02"), Reason: "x",
	}))
	require.NoError(t, preferences.UpsertPreference(ctx, persistence.Preference{
		ID: "pref-1", EmployeeID: "emp-1", Weekday: time.Monday, Slot: "MORNING", DeskID: "desk-1",
	}))
	require.NoError(t, assignments.ReplaceDay(ctx, day("2026-02-02"), []persistence.Assignment{
		{ID: "asg-1", Slot: "MORNING", DeskID: "desk-1", EmployeeID: "emp-1"},
	}))

	require.NoError(t, employees.DeleteEmployee(ctx, "emp-1"))

	absences, err := employees.ListAbsences(ctx, "emp-1")
	require.NoError(t, err)
	assert.Empty(t, absences)

	prefs, err := preferences.ListPreferences(ctx, -1)
	require.NoError(t, err)
	assert.Empty(t, prefs)

	rows, err := assignments.ListAssignments(ctx, day("2026-02-02"))
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = employees.GetWorkSchedule(ctx, "emp-1")
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestDeskRepository_CRUDAndCascade(t *testing.T) {
	pool := openTestPool(t)
	employees := NewEmployeeRepository(pool)
	desks := NewDeskRepository(pool)
	preferences := NewPreferenceRepository(pool)
	assignments := NewAssignmentRepository(pool)
	ctx := context.Background()

	color := "#FF0000"
	desk := persistence.Desk{ID: "desk-1", Label: "EWK 1", GridX: 1, GridY: 1, GridW: 3, GridH: 2, Rotation: 90, TitleColor: &color}
	require.NoError(t, desks.CreateDesk(ctx, desk))

	stored, err := desks.GetDesk(ctx, "desk-1")
	require.NoError(t, err)
	assert.Equal(t, 90, stored.Rotation)
	require.NotNil(t, stored.TitleColor)
	assert.Equal(t, "#FF0000", *stored.TitleColor)

	desk.Label = "EWK 1b"
	desk.TitleColor = nil
	require.NoError(t, desks.UpdateDesk(ctx, desk))
	stored, err = desks.GetDesk(ctx, "desk-1")
	require.NoError(t, err)
	assert.Equal(t, "EWK 1b", stored.Label)
	assert.Nil(t, stored.TitleColor)

	require.NoError(t, employees.CreateEmployee(ctx, persistence.Employee{ID: "emp-1", Name: "A"}))
	require.NoError(t, preferences.UpsertPreference(ctx, persistence.Preference{
		ID: "pref-1", EmployeeID: "emp-1", Weekday: time.Monday, Slot: "MORNING", DeskID: "desk-1",
	}))
	require.NoError(t, assignments.ReplaceDay(ctx, day("2026-02-02"), []persistence.Assignment{
		{ID: "asg-1", Slot: "MORNING", DeskID: "desk-1", EmployeeID: "emp-1"},
	}))

	require.NoError(t, desks.DeleteDesk(ctx, "desk-1"))
	_, err = desks.GetDesk(ctx, "desk-1")
	assert.ErrorIs(t, err, persistence.ErrNotFound)

	prefs, err := preferences.ListPreferences(ctx, -1)
	require.NoError(t, err)
	assert.Empty(t, prefs)

	rows, err := assignments.ListAssignments(ctx, day("2026-02-02"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestPreferenceRepository_UpsertReplacesEntry(t *testing.T) {
	pool := openTestPool(t)
	employees := NewEmployeeRepository(pool)
	desks := NewDeskRepository(pool)
	repo := NewPreferenceRepository(pool)
	ctx := context.Background()

	require.NoError(t, employees.CreateEmployee(ctx, persistence.Employee{ID: "emp-1", Name: "A"}))
	require.NoError(t, desks.CreateDesk(ctx, persistence.Desk{ID: "desk-1", Label: "D1"}))
	require.NoError(t, desks.CreateDesk(ctx, persistence.Desk{ID: "desk-2", Label: "D2"}))

	require.NoError(t, repo.UpsertPreference(ctx, persistence.Preference{
		ID: "pref-1", EmployeeID: "emp-1", Weekday: time.Monday, Slot: "MORNING", DeskID: "desk-1",
	}))
	require.NoError(t, repo.UpsertPreference(ctx, persistence.Preference{
		ID: "pref-2", EmployeeID: "emp-1", Weekday: time.Monday, Slot: "MORNING", DeskID: "desk-2",
	}))

	prefs, err := repo.ListPreferences(ctx, time.Monday)
	require.NoError(t, err)
	require.Len(t, prefs, 1, "at most one preference per (employee, weekday, slot)")
	assert.Equal(t, "desk-2", prefs[0].DeskID)

	prefs, err = repo.ListPreferences(ctx, time.Tuesday)
	require.NoError(t, err)
	assert.Empty(t, prefs)

	require.NoError(t, repo.DeletePreference(ctx, "emp-1", time.Monday, "MORNING"))
	assert.ErrorIs(t, repo.DeletePreference(ctx, "emp-1", time.Monday, "MORNING"), persistence.ErrNotFound)
}

func TestAssignmentRepository_ReplaceDay(t *testing.T) {
	pool := openTestPool(t)
	employees := NewEmployeeRepository(pool)
	desks := NewDeskRepository(pool)
	repo := NewAssignmentRepository(pool)
	ctx := context.Background()

	require.NoError(t, employees.CreateEmployee(ctx, persistence.Employee{ID: "emp-1", Name: "A"}))
	require.NoError(t, employees.CreateEmployee(ctx, persistence.Employee{ID: "emp-2", Name: "B"}))
	require.NoError(t, desks.CreateDesk(ctx, persistence.Desk{ID: "desk-1", Label: "D1"}))
	require.NoError(t, desks.CreateDesk(ctx, persistence.Desk{ID: "desk-2", Label: "D2"}))

	monday := day("2026-02-02")
	require.NoError(t, repo.ReplaceDay(ctx, monday, []persistence.Assignment{
		{ID: "asg-1", Slot: "MORNING", DeskID: "desk-1", EmployeeID: "emp-1"},
		{ID: "asg-2", Slot: "AFTERNOON", DeskID: "desk-1", EmployeeID: "emp-1"},
	}))

	rows, err := repo.ListAssignments(ctx, monday)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, monday, rows[0].Date)

	// Other dates are untouched by a replace.
	tuesday := day("2026-02-03")
	require.NoError(t, repo.ReplaceDay(ctx, tuesday, []persistence.Assignment{
		{ID: "asg-3", Slot: "MORNING", DeskID: "desk-2", EmployeeID: "emp-2"},
	}))
	require.NoError(t, repo.ReplaceDay(ctx, monday, nil))

	rows, err = repo.ListAssignments(ctx, monday)
	require.NoError(t, err)
	assert.Empty(t, rows)
	rows, err = repo.ListAssignments(ctx, tuesday)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestAssignmentRepository_ReplaceDayAllOrNothing(t *testing.T) {
	pool := openTestPool(t)
	employees := NewEmployeeRepository(pool)
	desks := NewDeskRepository(pool)
	repo := NewAssignmentRepository(pool)
	ctx := context.Background()

	require.NoError(t, employees.CreateEmployee(ctx, persistence.Employee{ID: "emp-1", Name: "A"}))
	require.NoError(t, desks.CreateDesk(ctx, persistence.Desk{ID: "desk-1", Label: "D1"}))

	monday := day("2026-02-02")
	require.NoError(t, repo.ReplaceDay(ctx, monday, []persistence.Assignment{
		{ID: "asg-1", Slot: "MORNING", DeskID: "desk-1", EmployeeID: "emp-1"},
	}))

	// Second row references a missing desk: the whole replace must fail and
	// leave the previous day intact.
	err := repo.ReplaceDay(ctx, monday, []persistence.Assignment{
		{ID: "asg-2", Slot: "MORNING", DeskID: "desk-1", EmployeeID: "emp-1"},
		{ID: "asg-3", Slot: "AFTERNOON", DeskID: "desk-missing", EmployeeID: "emp-1"},
	})
	require.Error(t, err)

	rows, listErr := repo.ListAssignments(ctx, monday)
	require.NoError(t, listErr)
	require.Len(t, rows, 1)
	assert.Equal(t, "asg-1", rows[0].ID)
}

func TestSeed(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, pool, newCounter("seed")))

	employees, err := NewEmployeeRepository(pool).ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, 9)

	desks, err := NewDeskRepository(pool).ListDesks(ctx)
	require.NoError(t, err)
	assert.Len(t, desks, 9)

	assignments, err := NewAssignmentRepository(pool).ListAssignments(ctx, day("2026-02-02"))
	require.NoError(t, err)
	assert.Len(t, assignments, 3)

	// Seeding twice keeps the dataset stable.
	require.NoError(t, Seed(ctx, pool, newCounter("reseed")))
	employees, err = NewEmployeeRepository(pool).ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, 9)
}
