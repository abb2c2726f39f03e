package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(value string) time.Time {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}
	return t
}

func strptr(value string) *string {
	return &value
}

func TestResolveAvailability_AbsenceOverridesSchedule(t *testing.T) {
	employee := Employee{
		ID: "emp-alice",
		Schedule: &WeekSchedule{Days: map[time.Weekday]DayPlan{
			time.Wednesday: {Morning: true, Afternoon: true},
		}},
		Absences: []Absence{
			{ID: "abs-1", Start: date("2026-02-03"), End: date("2026-02-05"), Reason: "Vacation"},
		},
	}

	// 2026-02-04 is a Wednesday inside the absence interval.
	result := ResolveAvailability(date("2026-02-04"), employee)

	assert.Equal(t, StatusUnavailable, result.Morning.Status)
	assert.Equal(t, StatusUnavailable, result.Afternoon.Status)
	require.NotNil(t, result.Morning.Reason)
	require.NotNil(t, result.Afternoon.Reason)
	assert.Equal(t, "Vacation", *result.Morning.Reason)
	assert.Equal(t, "Vacation", *result.Afternoon.Reason)
}

func TestResolveAvailability_AbsenceEndpointsInclusive(t *testing.T) {
	employee := Employee{
		ID: "emp-1",
		Absences: []Absence{
			{ID: "abs-1", Start: date("2026-02-03"), End: date("2026-02-05"), Reason: "Vacation"},
		},
	}

	for _, day := range []string{"2026-02-03", "2026-02-05"} {
		result := ResolveAvailability(date(day), employee)
		assert.Equal(t, StatusUnavailable, result.Morning.Status, day)
	}

	// 2026-02-06 is the Friday after the interval.
	after := ResolveAvailability(date("2026-02-06"), employee)
	assert.Equal(t, StatusAvailable, after.Morning.Status)
	assert.Nil(t, after.Morning.Reason)
}

func TestResolveAvailability_AbsenceIgnoresTimeOfDay(t *testing.T) {
	employee := Employee{
		ID: "emp-1",
		Absences: []Absence{{
			ID:     "abs-1",
			Start:  time.Date(2026, time.February, 3, 23, 30, 0, 0, time.UTC),
			End:    time.Date(2026, time.February, 3, 1, 0, 0, 0, time.UTC),
			Reason: "Appointment",
		}},
	}

	result := ResolveAvailability(time.Date(2026, time.February, 3, 9, 15, 0, 0, time.UTC), employee)
	assert.Equal(t, StatusUnavailable, result.Morning.Status)
}

func TestResolveAvailability_OverlappingAbsencesDeterministic(t *testing.T) {
	employee := Employee{
		ID: "emp-1",
		Absences: []Absence{
			{ID: "abs-b", Start: date("2026-02-04"), End: date("2026-02-04"), Reason: "Sick"},
			{ID: "abs-a", Start: date("2026-02-02"), End: date("2026-02-06"), Reason: "Vacation"},
		},
	}

	// The earlier-starting absence wins regardless of slice order.
	result := ResolveAvailability(date("2026-02-04"), employee)
	require.NotNil(t, result.Morning.Reason)
	assert.Equal(t, "Vacation", *result.Morning.Reason)
}

func TestResolveAvailability_WeekendAlwaysUnavailable(t *testing.T) {
	// An all-active schedule cannot make a weekend plannable.
	employee := Employee{
		ID: "emp-1",
		Schedule: &WeekSchedule{Days: map[time.Weekday]DayPlan{
			time.Saturday: {Morning: true, Afternoon: true},
		}},
	}

	for _, day := range []string{"2026-02-07", "2026-02-08"} { // Sat, Sun
		result := ResolveAvailability(date(day), employee)
		assert.Equal(t, StatusUnavailable, result.Morning.Status, day)
		assert.Equal(t, StatusUnavailable, result.Afternoon.Status, day)
		require.NotNil(t, result.Morning.Reason, day)
		assert.Equal(t, WeekendReason, *result.Morning.Reason, day)
	}
}

func TestResolveAvailability_AbsenceReasonWinsOnWeekend(t *testing.T) {
	// A covering absence outranks the weekend reason: the day stays
	// unavailable either way, but the absence explains why.
	employee := Employee{
		ID: "emp-1",
		Absences: []Absence{
			{ID: "abs-1", Start: date("2026-02-06"), End: date("2026-02-09"), Reason: "Vacation"},
		},
	}

	for _, day := range []string{"2026-02-07", "2026-02-08"} { // Sat, Sun
		result := ResolveAvailability(date(day), employee)
		assert.Equal(t, StatusUnavailable, result.Morning.Status, day)
		assert.Equal(t, StatusUnavailable, result.Afternoon.Status, day)
		require.NotNil(t, result.Morning.Reason, day)
		require.NotNil(t, result.Afternoon.Reason, day)
		assert.Equal(t, "Vacation", *result.Morning.Reason, day)
		assert.Equal(t, "Vacation", *result.Afternoon.Reason, day)
	}
}

func TestResolveAvailability_WeekendWithoutScheduleStillUnavailable(t *testing.T) {
	result := ResolveAvailability(date("2026-02-07"), Employee{ID: "emp-1"})

	assert.Equal(t, StatusUnavailable, result.Morning.Status)
	require.NotNil(t, result.Afternoon.Reason)
	assert.Equal(t, WeekendReason, *result.Afternoon.Reason)
}

func TestResolveAvailability_NoScheduleDefaultsToAvailable(t *testing.T) {
	result := ResolveAvailability(date("2026-02-04"), Employee{ID: "emp-1"})

	assert.Equal(t, StatusAvailable, result.Morning.Status)
	assert.Equal(t, StatusAvailable, result.Afternoon.Status)
	assert.Nil(t, result.Morning.Reason)
	assert.Nil(t, result.Afternoon.Reason)
}

func TestResolveAvailability_HalfDayFlagsIndependent(t *testing.T) {
	employee := Employee{
		ID: "emp-1",
		Schedule: &WeekSchedule{Days: map[time.Weekday]DayPlan{
			time.Wednesday: {Morning: true, Afternoon: false, Note: strptr("home office pm")},
		}},
	}

	result := ResolveAvailability(date("2026-02-04"), employee)

	assert.Equal(t, StatusAvailable, result.Morning.Status)
	assert.Nil(t, result.Morning.Reason)
	assert.Equal(t, StatusUnavailable, result.Afternoon.Status)
	require.NotNil(t, result.Afternoon.Reason)
	assert.Equal(t, "home office pm", *result.Afternoon.Reason)
}

func TestResolveAvailability_InactiveHalfWithoutNote(t *testing.T) {
	employee := Employee{
		ID: "emp-1",
		Schedule: &WeekSchedule{Days: map[time.Weekday]DayPlan{
			time.Wednesday: {Morning: false, Afternoon: true},
		}},
	}

	result := ResolveAvailability(date("2026-02-04"), employee)

	assert.Equal(t, StatusUnavailable, result.Morning.Status)
	assert.Nil(t, result.Morning.Reason)
}

func TestResolveAvailability_MissingWeekdayEntryDefaultsToPresent(t *testing.T) {
	employee := Employee{
		ID: "emp-1",
		Schedule: &WeekSchedule{Days: map[time.Weekday]DayPlan{
			time.Monday: {Morning: false, Afternoon: false},
		}},
	}

	result := ResolveAvailability(date("2026-02-04"), employee)
	assert.Equal(t, StatusAvailable, result.Morning.Status)
	assert.Equal(t, StatusAvailable, result.Afternoon.Status)
}
