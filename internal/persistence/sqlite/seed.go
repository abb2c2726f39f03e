package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/deskplanner/internal/persistence"
)

type seedEmployee struct {
	name        string
	initials    string
	avatarColor string
}

type seedDesk struct {
	label                      string
	gridX, gridY, gridW, gridH int
	rotation                   int
}

var seedEmployees = []seedEmployee{
	{name: "Colette Müller", initials: "cm", avatarColor: "#F97316"},
	{name: "Petra Imgrüt", initials: "pi", avatarColor: "#22C55E"},
	{name: "Ursi Schmidt", initials: "us", avatarColor: "#6366F1"},
	{name: "Beat Schuler", initials: "bs", avatarColor: "#EC4899"},
	{name: "Monika Kempf", initials: "mk", avatarColor: "#14B8A6"},
	{name: "Daniel Ritter", initials: "dr", avatarColor: "#A855F7"},
	{name: "Gioia Gisler", initials: "gg", avatarColor: "#FBBF24"},
	{name: "Joana Büchi", initials: "jb", avatarColor: "#0EA5E9"},
	{name: "Liliane Schuler", initials: "ls", avatarColor: "#F97316"},
}

// Desk zones A-D laid out on a 12x12 grid.
var seedDesks = []seedDesk{
	{label: "EWK 1", gridX: 1, gridY: 1, gridW: 3, gridH: 2},
	{label: "EWK 2", gridX: 1, gridY: 3, gridW: 3, gridH: 2},
	{label: "Steuern 1", gridX: 1, gridY: 6, gridW: 3, gridH: 2},
	{label: "Steuern 2", gridX: 1, gridY: 8, gridW: 3, gridH: 2},
	{label: "Steuern 3", gridX: 1, gridY: 11, gridW: 3, gridH: 2},
	{label: "C1", gridX: 5, gridY: 1, gridW: 2, gridH: 3, rotation: 90},
	{label: "C2", gridX: 7, gridY: 1, gridW: 3, gridH: 2},
	{label: "C3", gridX: 7, gridY: 3, gridW: 3, gridH: 2},
	{label: "D1", gridX: 5, gridY: 11, gridW: 3, gridH: 2},
}

// Seed fills the database with a sample roster, default Monday-Friday
// schedules, two absences, the desk zones and a handful of assignments for
// 2026-02-02. Existing planner data is wiped first, so the call is
// idempotent.
func Seed(ctx context.Context, pool *ConnectionPool, idGenerator func() string) error {
	employees := NewEmployeeRepository(pool)
	desks := NewDeskRepository(pool)
	preferences := NewPreferenceRepository(pool)
	assignments := NewAssignmentRepository(pool)

	err := pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"assignments", "preferences", "absences", "work_schedule_days", "work_schedules", "desks", "employees"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return mapSQLiteError(err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	employeeIDs := make([]string, 0, len(seedEmployees))
	for _, entry := range seedEmployees {
		id := idGenerator()
		if err := employees.CreateEmployee(ctx, persistence.Employee{
			ID:          id,
			Name:        entry.name,
			Initials:    entry.initials,
			AvatarColor: entry.avatarColor,
		}); err != nil {
			return err
		}
		employeeIDs = append(employeeIDs, id)

		schedule := persistence.WorkSchedule{
			EmployeeID: id,
			Days:       make(map[time.Weekday]persistence.WorkScheduleDay),
		}
		for weekday := time.Monday; weekday <= time.Friday; weekday++ {
			schedule.Days[weekday] = persistence.WorkScheduleDay{Morning: true, Afternoon: true}
		}
		if err := employees.UpsertWorkSchedule(ctx, schedule); err != nil {
			return err
		}
	}

	sampleAbsences := []persistence.Absence{
		{
			ID:         idGenerator(),
			EmployeeID: employeeIDs[0],
			Start:      time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC),
			End:        time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC),
			Reason:     "Ferien",
		},
		{
			ID:         idGenerator(),
			EmployeeID: employeeIDs[1],
			Start:      time.Date(2026, time.February, 4, 0, 0, 0, 0, time.UTC),
			End:        time.Date(2026, time.February, 4, 0, 0, 0, 0, time.UTC),
			Reason:     "Krank",
		},
	}
	for _, absence := range sampleAbsences {
		if err := employees.CreateAbsence(ctx, absence); err != nil {
			return err
		}
	}

	deskIDs := make([]string, 0, len(seedDesks))
	for _, entry := range seedDesks {
		id := idGenerator()
		if err := desks.CreateDesk(ctx, persistence.Desk{
			ID:       id,
			Label:    entry.label,
			GridX:    entry.gridX,
			GridY:    entry.gridY,
			GridW:    entry.gridW,
			GridH:    entry.gridH,
			Rotation: entry.rotation,
		}); err != nil {
			return err
		}
		deskIDs = append(deskIDs, id)
	}

	// A few Monday preferences so "apply preferences" has something to do.
	samplePreferences := []persistence.Preference{
		{ID: idGenerator(), EmployeeID: employeeIDs[2], Weekday: time.Monday, Slot: "MORNING", DeskID: deskIDs[0]},
		{ID: idGenerator(), EmployeeID: employeeIDs[2], Weekday: time.Monday, Slot: "AFTERNOON", DeskID: deskIDs[0]},
		{ID: idGenerator(), EmployeeID: employeeIDs[3], Weekday: time.Monday, Slot: "MORNING", DeskID: deskIDs[1]},
	}
	for _, preference := range samplePreferences {
		if err := preferences.UpsertPreference(ctx, preference); err != nil {
			return err
		}
	}

	// Example occupancy for Monday 2026-02-02.
	exampleDate := time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)
	return assignments.ReplaceDay(ctx, exampleDate, []persistence.Assignment{
		{ID: idGenerator(), Date: exampleDate, Slot: "MORNING", DeskID: deskIDs[0], EmployeeID: employeeIDs[4]},
		{ID: idGenerator(), Date: exampleDate, Slot: "AFTERNOON", DeskID: deskIDs[0], EmployeeID: employeeIDs[4]},
		{ID: idGenerator(), Date: exampleDate, Slot: "MORNING", DeskID: deskIDs[5], EmployeeID: employeeIDs[5]},
	})
}
