package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/example/deskplanner/internal/persistence"
	"github.com/example/deskplanner/internal/scheduling"
)

// PreferenceService manages recurring desk preferences. Conflicting wishes
// are allowed at definition time; they are settled when preferences are
// applied to a concrete day.
type PreferenceService struct {
	preferences persistence.PreferenceRepository
	employees   persistence.EmployeeRepository
	desks       persistence.DeskRepository
	idGenerator func() string
	logger      *slog.Logger
}

// NewPreferenceService wires dependencies for preference operations.
func NewPreferenceService(preferences persistence.PreferenceRepository, employees persistence.EmployeeRepository, desks persistence.DeskRepository, idGenerator func() string, logger *slog.Logger) *PreferenceService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &PreferenceService{
		preferences: preferences,
		employees:   employees,
		desks:       desks,
		idGenerator: idGenerator,
		logger:      defaultLogger(logger),
	}
}

func (s *PreferenceService) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "PreferenceService", operation, attrs...)
}

// SetPreference upserts or deletes the entry for (employee, weekday, slot).
// An empty desk id deletes the entry; deleting a missing entry is a no-op.
func (s *PreferenceService) SetPreference(ctx context.Context, input PreferenceInput) error {
	vErr := &ValidationError{}
	if input.EmployeeID == "" {
		vErr.add("employeeId", "employee id is required")
	}
	if !scheduling.IsWorkday(input.Weekday) {
		vErr.add("weekday", "weekday must be Monday through Friday")
	}
	if !input.Slot.Valid() {
		vErr.add("slot", "slot must be MORNING or AFTERNOON")
	}
	if vErr.HasErrors() {
		return vErr
	}

	if input.DeskID == "" {
		err := s.preferences.DeletePreference(ctx, input.EmployeeID, input.Weekday, string(input.Slot))
		if err != nil && !errors.Is(err, persistence.ErrNotFound) {
			return mapRepoError(err)
		}
		s.log(ctx, "SetPreference", "employee_id", input.EmployeeID).InfoContext(ctx, "preference cleared",
			"weekday", int(input.Weekday), "slot", string(input.Slot))
		return nil
	}

	if _, err := s.employees.GetEmployee(ctx, input.EmployeeID); err != nil {
		return mapRepoError(err)
	}
	if _, err := s.desks.GetDesk(ctx, input.DeskID); err != nil {
		return mapRepoError(err)
	}

	preference := persistence.Preference{
		ID:         s.idGenerator(),
		EmployeeID: input.EmployeeID,
		Weekday:    input.Weekday,
		Slot:       string(input.Slot),
		DeskID:     input.DeskID,
	}
	if err := s.preferences.UpsertPreference(ctx, preference); err != nil {
		return mapRepoError(err)
	}

	s.log(ctx, "SetPreference", "employee_id", input.EmployeeID).InfoContext(ctx, "preference stored",
		"weekday", int(input.Weekday), "slot", string(input.Slot), "desk_id", input.DeskID)
	return nil
}

// ListPreferences returns preferences, optionally restricted to one weekday.
// Pass a negative weekday to list everything.
func (s *PreferenceService) ListPreferences(ctx context.Context, weekday time.Weekday) ([]persistence.Preference, error) {
	if weekday >= 0 && !scheduling.IsWorkday(weekday) {
		vErr := &ValidationError{}
		vErr.add("weekday", "weekday must be Monday through Friday")
		return nil, vErr
	}
	return s.preferences.ListPreferences(ctx, weekday)
}
