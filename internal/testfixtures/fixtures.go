package testfixtures

import (
	"context"
	"time"

	"github.com/example/deskplanner/internal/persistence"
)

// Roster bundles the identifiers created by PopulatePlanner for convenient
// reference in tests.
type Roster struct {
	EmployeeIDs []string
	DeskIDs     []string
}

// PopulatePlanner fills the store with three employees and three desks. The
// first employee carries a default Monday-Friday schedule, the second has an
// absence over 2026-02-03..05, the third has neither record.
func PopulatePlanner(ctx context.Context, store *Store) (Roster, error) {
	roster := Roster{
		EmployeeIDs: []string{"emp-1", "emp-2", "emp-3"},
		DeskIDs:     []string{"desk-1", "desk-2", "desk-3"},
	}

	employees := []persistence.Employee{
		{ID: "emp-1", Name: "Colette Müller", Initials: "cm", AvatarColor: "#F97316"},
		{ID: "emp-2", Name: "Petra Imgrüt", Initials: "pi", AvatarColor: "#22C55E"},
		{ID: "emp-3", Name: "Ursi Schmidt", Initials: "us", AvatarColor: "#6366F1"},
	}
	for _, employee := range employees {
		if err := store.CreateEmployee(ctx, employee); err != nil {
			return Roster{}, err
		}
	}

	schedule := persistence.WorkSchedule{
		EmployeeID: "emp-1",
		Days:       make(map[time.Weekday]persistence.WorkScheduleDay),
	}
	for weekday := time.Monday; weekday <= time.Friday; weekday++ {
		schedule.Days[weekday] = persistence.WorkScheduleDay{Morning: true, Afternoon: true}
	}
	if err := store.UpsertWorkSchedule(ctx, schedule); err != nil {
		return Roster{}, err
	}

	if err := store.CreateAbsence(ctx, persistence.Absence{
		ID:         "abs-1",
		EmployeeID: "emp-2",
		Start:      time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC),
		Reason:     "Vacation",
	}); err != nil {
		return Roster{}, err
	}

	desks := []persistence.Desk{
		{ID: "desk-1", Label: "EWK 1", GridX: 1, GridY: 1, GridW: 3, GridH: 2},
		{ID: "desk-2", Label: "EWK 2", GridX: 1, GridY: 3, GridW: 3, GridH: 2},
		{ID: "desk-3", Label: "Steuern 1", GridX: 1, GridY: 6, GridW: 3, GridH: 2},
	}
	for _, desk := range desks {
		if err := store.CreateDesk(ctx, desk); err != nil {
			return Roster{}, err
		}
	}

	return roster, nil
}
