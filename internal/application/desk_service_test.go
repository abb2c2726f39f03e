package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/deskplanner/internal/application"
	"github.com/example/deskplanner/internal/persistence"
	"github.com/example/deskplanner/internal/testfixtures"
)

func newDeskService(t *testing.T) (*application.DeskService, *testfixtures.Store) {
	t.Helper()
	store := testfixtures.NewStore()
	ids := testfixtures.NewIDGenerator("desk")
	service := application.NewDeskService(store, ids.NextFunc(), testfixtures.NewClock(time.Time{}).NowFunc(), nil)
	return service, store
}

func TestDeskService_CreateDesk(t *testing.T) {
	service, _ := newDeskService(t)

	desk, err := service.CreateDesk(context.Background(), application.DeskInput{
		Label: " EWK 1 ", GridX: 1, GridY: 1, GridW: 3, GridH: 2, Rotation: 90,
	})
	require.NoError(t, err)
	assert.Equal(t, "desk-1", desk.ID)
	assert.Equal(t, "EWK 1", desk.Label)
	assert.Equal(t, 90, desk.Rotation)
}

func TestDeskService_CreateDeskValidation(t *testing.T) {
	service, _ := newDeskService(t)

	_, err := service.CreateDesk(context.Background(), application.DeskInput{
		Label: "", GridX: -1, GridW: 0, GridH: 0,
	})

	var vErr *application.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.FieldErrors, "label")
	assert.Contains(t, vErr.FieldErrors, "grid")
}

func TestDeskService_UpdateDesk(t *testing.T) {
	service, _ := newDeskService(t)
	ctx := context.Background()

	created, err := service.CreateDesk(ctx, application.DeskInput{Label: "EWK 1", GridW: 3, GridH: 2})
	require.NoError(t, err)

	updated, err := service.UpdateDesk(ctx, created.ID, application.DeskInput{
		Label: "EWK 1b", GridX: 4, GridY: 2, GridW: 3, GridH: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "EWK 1b", updated.Label)
	assert.Equal(t, 4, updated.GridX)

	_, err = service.UpdateDesk(ctx, "missing", application.DeskInput{Label: "x", GridW: 1, GridH: 1})
	assert.ErrorIs(t, err, application.ErrNotFound)
}

func TestDeskService_DeleteDeskCascades(t *testing.T) {
	service, store := newDeskService(t)
	ctx := context.Background()
	_, err := testfixtures.PopulatePlanner(ctx, store)
	require.NoError(t, err)

	require.NoError(t, store.UpsertPreference(ctx, persistence.Preference{
		ID: "pref-1", EmployeeID: "emp-1", Weekday: time.Monday, Slot: "MORNING", DeskID: "desk-1",
	}))

	require.NoError(t, service.DeleteDesk(ctx, "desk-1"))

	preferences, err := store.ListPreferences(ctx, -1)
	require.NoError(t, err)
	assert.Empty(t, preferences)

	assert.ErrorIs(t, service.DeleteDesk(ctx, "desk-1"), application.ErrNotFound)
}

func TestDeskService_ListDesksOrdered(t *testing.T) {
	service, store := newDeskService(t)
	ctx := context.Background()
	_, err := testfixtures.PopulatePlanner(ctx, store)
	require.NoError(t, err)

	desks, err := service.ListDesks(ctx)
	require.NoError(t, err)
	require.Len(t, desks, 3)
	assert.Equal(t, "EWK 1", desks[0].Label)
	assert.Equal(t, "Steuern 1", desks[2].Label)
}
