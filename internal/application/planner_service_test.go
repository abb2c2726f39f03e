package application_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/deskplanner/internal/application"
	"github.com/example/deskplanner/internal/persistence"
	"github.com/example/deskplanner/internal/scheduling"
	"github.com/example/deskplanner/internal/testfixtures"
)

func newPlannerService(t *testing.T) (*application.PlannerService, *testfixtures.Store) {
	t.Helper()
	store := testfixtures.NewStore()
	_, err := testfixtures.PopulatePlanner(context.Background(), store)
	require.NoError(t, err)

	ids := testfixtures.NewIDGenerator("asg")
	service := application.NewPlannerService(store, store, store, store, ids.NextFunc(), slog.Default())
	return service, store
}

func monday() time.Time {
	return time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)
}

func findAssignment(assignments []persistence.Assignment, deskID, slot string) (persistence.Assignment, bool) {
	for _, assignment := range assignments {
		if assignment.DeskID == deskID && assignment.Slot == slot {
			return assignment, true
		}
	}
	return persistence.Assignment{}, false
}

func TestPlannerService_DayView(t *testing.T) {
	service, _ := newPlannerService(t)
	ctx := context.Background()

	view, err := service.DayView(ctx, monday())
	require.NoError(t, err)

	assert.Len(t, view.Desks, 3)
	assert.Empty(t, view.Assignments)
	require.Len(t, view.Employees, 3)

	// Roster is ordered by name; all three are available on a regular Monday.
	for _, entry := range view.Employees {
		assert.Equal(t, scheduling.StatusAvailable, entry.Availability.Morning.Status, entry.Employee.ID)
	}
}

func TestPlannerService_DayViewReflectsAbsence(t *testing.T) {
	service, _ := newPlannerService(t)
	ctx := context.Background()

	// 2026-02-04 falls inside emp-2's absence.
	view, err := service.DayView(ctx, time.Date(2026, time.February, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	var absent *application.EmployeeAvailability
	for i := range view.Employees {
		if view.Employees[i].Employee.ID == "emp-2" {
			absent = &view.Employees[i]
		}
	}
	require.NotNil(t, absent)
	assert.Equal(t, scheduling.StatusUnavailable, absent.Availability.Morning.Status)
	require.NotNil(t, absent.Availability.Morning.Reason)
	assert.Equal(t, "Vacation", *absent.Availability.Morning.Reason)
}

func TestPlannerService_PlaceEmployee(t *testing.T) {
	service, _ := newPlannerService(t)
	ctx := context.Background()

	view, err := service.PlaceEmployee(ctx, application.PlaceParams{
		Date: monday(), DeskID: "desk-1", EmployeeID: "emp-1", Slot: scheduling.SlotMorning,
	})
	require.NoError(t, err)
	require.Len(t, view.Assignments, 1)

	// Moving to another desk in the same slot vacates the first desk.
	view, err = service.PlaceEmployee(ctx, application.PlaceParams{
		Date: monday(), DeskID: "desk-2", EmployeeID: "emp-1", Slot: scheduling.SlotMorning,
	})
	require.NoError(t, err)
	require.Len(t, view.Assignments, 1)
	moved, ok := findAssignment(view.Assignments, "desk-2", "MORNING")
	require.True(t, ok)
	assert.Equal(t, "emp-1", moved.EmployeeID)
}

func TestPlannerService_PlaceEmployeeKeepsRowIdentity(t *testing.T) {
	service, _ := newPlannerService(t)
	ctx := context.Background()

	view, err := service.PlaceEmployee(ctx, application.PlaceParams{
		Date: monday(), DeskID: "desk-1", EmployeeID: "emp-1", Slot: scheduling.SlotMorning,
	})
	require.NoError(t, err)
	original, ok := findAssignment(view.Assignments, "desk-1", "MORNING")
	require.True(t, ok)

	// An unrelated placement must not rewrite the surviving row.
	view, err = service.PlaceEmployee(ctx, application.PlaceParams{
		Date: monday(), DeskID: "desk-2", EmployeeID: "emp-2", Slot: scheduling.SlotMorning,
	})
	require.NoError(t, err)
	kept, ok := findAssignment(view.Assignments, "desk-1", "MORNING")
	require.True(t, ok)
	assert.Equal(t, original.ID, kept.ID)
}

func TestPlannerService_PlaceEmployeeWholeDay(t *testing.T) {
	service, _ := newPlannerService(t)
	ctx := context.Background()

	// emp-1 starts with a morning seat at desk-1 and an afternoon seat at desk-2.
	_, err := service.PlaceEmployee(ctx, application.PlaceParams{
		Date: monday(), DeskID: "desk-1", EmployeeID: "emp-1", Slot: scheduling.SlotMorning,
	})
	require.NoError(t, err)
	_, err = service.PlaceEmployee(ctx, application.PlaceParams{
		Date: monday(), DeskID: "desk-2", EmployeeID: "emp-1", Slot: scheduling.SlotAfternoon,
	})
	require.NoError(t, err)

	view, err := service.PlaceEmployee(ctx, application.PlaceParams{
		Date: monday(), DeskID: "desk-3", EmployeeID: "emp-1", WholeDay: true,
	})
	require.NoError(t, err)

	require.Len(t, view.Assignments, 2)
	morning, ok := findAssignment(view.Assignments, "desk-3", "MORNING")
	require.True(t, ok)
	afternoon, ok := findAssignment(view.Assignments, "desk-3", "AFTERNOON")
	require.True(t, ok)
	assert.Equal(t, "emp-1", morning.EmployeeID)
	assert.Equal(t, "emp-1", afternoon.EmployeeID)
}

func TestPlannerService_PlaceUnknownDeskOrEmployee(t *testing.T) {
	service, _ := newPlannerService(t)
	ctx := context.Background()

	_, err := service.PlaceEmployee(ctx, application.PlaceParams{
		Date: monday(), DeskID: "desk-missing", EmployeeID: "emp-1", Slot: scheduling.SlotMorning,
	})
	assert.ErrorIs(t, err, application.ErrNotFound)

	_, err = service.PlaceEmployee(ctx, application.PlaceParams{
		Date: monday(), DeskID: "desk-1", EmployeeID: "emp-missing", Slot: scheduling.SlotMorning,
	})
	assert.ErrorIs(t, err, application.ErrNotFound)
}

func TestPlannerService_PlaceInvalidSlot(t *testing.T) {
	service, _ := newPlannerService(t)

	_, err := service.PlaceEmployee(context.Background(), application.PlaceParams{
		Date: monday(), DeskID: "desk-1", EmployeeID: "emp-1", Slot: scheduling.Slot("LUNCH"),
	})

	var vErr *application.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.FieldErrors, "slot")
}

func TestPlannerService_ExceptionAssignmentAllowed(t *testing.T) {
	service, _ := newPlannerService(t)
	ctx := context.Background()

	// emp-2 is absent on 2026-02-04, yet may still be seated.
	wednesday := time.Date(2026, time.February, 4, 0, 0, 0, 0, time.UTC)
	view, err := service.PlaceEmployee(ctx, application.PlaceParams{
		Date: wednesday, DeskID: "desk-1", EmployeeID: "emp-2", Slot: scheduling.SlotMorning,
	})
	require.NoError(t, err)

	seated, ok := findAssignment(view.Assignments, "desk-1", "MORNING")
	require.True(t, ok)
	assert.Equal(t, "emp-2", seated.EmployeeID)
}

func TestPlannerService_ClearSlot(t *testing.T) {
	service, _ := newPlannerService(t)
	ctx := context.Background()

	_, err := service.PlaceEmployee(ctx, application.PlaceParams{
		Date: monday(), DeskID: "desk-1", EmployeeID: "emp-1", WholeDay: true,
	})
	require.NoError(t, err)

	view, err := service.ClearSlot(ctx, application.ClearSlotParams{
		Date: monday(), DeskID: "desk-1", Slot: scheduling.SlotMorning,
	})
	require.NoError(t, err)

	require.Len(t, view.Assignments, 1)
	_, morningLeft := findAssignment(view.Assignments, "desk-1", "MORNING")
	assert.False(t, morningLeft)
	afternoon, ok := findAssignment(view.Assignments, "desk-1", "AFTERNOON")
	require.True(t, ok)
	assert.Equal(t, "emp-1", afternoon.EmployeeID)

	// Clearing the vacant slot again is harmless.
	view, err = service.ClearSlot(ctx, application.ClearSlotParams{
		Date: monday(), DeskID: "desk-1", Slot: scheduling.SlotMorning,
	})
	require.NoError(t, err)
	assert.Len(t, view.Assignments, 1)
}

func TestPlannerService_ApplyPreferences(t *testing.T) {
	service, store := newPlannerService(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertPreference(ctx, persistence.Preference{
		ID: "pref-1", EmployeeID: "emp-1", Weekday: time.Monday, Slot: "MORNING", DeskID: "desk-3",
	}))

	view, err := service.ApplyPreferences(ctx, monday())
	require.NoError(t, err)

	require.Len(t, view.Assignments, 1)
	seeded, ok := findAssignment(view.Assignments, "desk-3", "MORNING")
	require.True(t, ok)
	assert.Equal(t, "emp-1", seeded.EmployeeID)
}

func TestPlannerService_ApplyPreferencesEvictsTwoSided(t *testing.T) {
	service, store := newPlannerService(t)
	ctx := context.Background()

	// emp-3 holds the preferred desk; emp-1 sits elsewhere in the same slot.
	_, err := service.PlaceEmployee(ctx, application.PlaceParams{
		Date: monday(), DeskID: "desk-3", EmployeeID: "emp-3", Slot: scheduling.SlotMorning,
	})
	require.NoError(t, err)
	_, err = service.PlaceEmployee(ctx, application.PlaceParams{
		Date: monday(), DeskID: "desk-1", EmployeeID: "emp-1", Slot: scheduling.SlotMorning,
	})
	require.NoError(t, err)

	require.NoError(t, store.UpsertPreference(ctx, persistence.Preference{
		ID: "pref-1", EmployeeID: "emp-1", Weekday: time.Monday, Slot: "MORNING", DeskID: "desk-3",
	}))

	view, err := service.ApplyPreferences(ctx, monday())
	require.NoError(t, err)

	require.Len(t, view.Assignments, 1)
	seeded, ok := findAssignment(view.Assignments, "desk-3", "MORNING")
	require.True(t, ok)
	assert.Equal(t, "emp-1", seeded.EmployeeID)
}

func TestPlannerService_ApplyPreferencesWeekendNoOp(t *testing.T) {
	service, store := newPlannerService(t)
	ctx := context.Background()

	_, err := service.PlaceEmployee(ctx, application.PlaceParams{
		Date: monday(), DeskID: "desk-1", EmployeeID: "emp-1", Slot: scheduling.SlotMorning,
	})
	require.NoError(t, err)
	require.NoError(t, store.UpsertPreference(ctx, persistence.Preference{
		ID: "pref-1", EmployeeID: "emp-1", Weekday: time.Monday, Slot: "MORNING", DeskID: "desk-3",
	}))

	saturday := time.Date(2026, time.February, 7, 0, 0, 0, 0, time.UTC)
	view, err := service.ApplyPreferences(ctx, saturday)
	require.NoError(t, err)
	assert.Empty(t, view.Assignments, "weekend day has no assignments and gains none")

	// The Monday state is untouched.
	mondayView, err := service.DayView(ctx, monday())
	require.NoError(t, err)
	assert.Len(t, mondayView.Assignments, 1)
}

func TestPlannerService_FailedReplaceKeepsState(t *testing.T) {
	service, store := newPlannerService(t)
	ctx := context.Background()

	_, err := service.PlaceEmployee(ctx, application.PlaceParams{
		Date: monday(), DeskID: "desk-1", EmployeeID: "emp-1", Slot: scheduling.SlotMorning,
	})
	require.NoError(t, err)

	store.ReplaceDayErr = errors.New("disk full")
	_, err = service.PlaceEmployee(ctx, application.PlaceParams{
		Date: monday(), DeskID: "desk-2", EmployeeID: "emp-1", Slot: scheduling.SlotMorning,
	})
	require.Error(t, err)

	view, err := service.DayView(ctx, monday())
	require.NoError(t, err)
	require.Len(t, view.Assignments, 1)
	kept, ok := findAssignment(view.Assignments, "desk-1", "MORNING")
	require.True(t, ok)
	assert.Equal(t, "emp-1", kept.EmployeeID)
}
