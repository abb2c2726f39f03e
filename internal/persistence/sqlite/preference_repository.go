package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/deskplanner/internal/persistence"
)

// PreferenceRepository implements persistence.PreferenceRepository using SQLite.
type PreferenceRepository struct {
	pool *ConnectionPool
}

// NewPreferenceRepository creates a new SQLite preference repository.
func NewPreferenceRepository(pool *ConnectionPool) *PreferenceRepository {
	return &PreferenceRepository{pool: pool}
}

// UpsertPreference inserts or replaces the preference for the employee's
// (weekday, slot) pair.
func (r *PreferenceRepository) UpsertPreference(ctx context.Context, preference persistence.Preference) error {
	if preference.ID == "" || preference.EmployeeID == "" || preference.DeskID == "" {
		return persistence.ErrConstraintViolation
	}

	now := timestampString(time.Now().UTC())
	_, err := r.pool.DB().ExecContext(ctx,
		`INSERT INTO preferences (id, employee_id, weekday, slot, desk_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (employee_id, weekday, slot)
		 DO UPDATE SET desk_id = excluded.desk_id, updated_at = excluded.updated_at`,
		preference.ID,
		preference.EmployeeID,
		int(preference.Weekday),
		preference.Slot,
		preference.DeskID,
		now,
		now,
	)
	return mapSQLiteError(err)
}

// DeletePreference removes the entry for (employeeID, weekday, slot). A
// missing entry is reported as ErrNotFound.
func (r *PreferenceRepository) DeletePreference(ctx context.Context, employeeID string, weekday time.Weekday, slot string) error {
	if employeeID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.DB().ExecContext(ctx,
		`DELETE FROM preferences WHERE employee_id = ? AND weekday = ? AND slot = ?`,
		employeeID, int(weekday), slot)
	if err != nil {
		return mapSQLiteError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListPreferences returns preferences ordered by (employee_id, weekday,
// slot). A negative weekday disables the weekday filter.
func (r *PreferenceRepository) ListPreferences(ctx context.Context, weekday time.Weekday) ([]persistence.Preference, error) {
	query := `SELECT id, employee_id, weekday, slot, desk_id, created_at, updated_at FROM preferences`
	args := []any{}
	if weekday >= 0 {
		query += ` WHERE weekday = ?`
		args = append(args, int(weekday))
	}
	query += ` ORDER BY employee_id, weekday, slot`

	rows, err := r.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var preferences []persistence.Preference
	for rows.Next() {
		var preference persistence.Preference
		var weekdayValue int
		var createdAt, updatedAt string
		if err := rows.Scan(&preference.ID, &preference.EmployeeID, &weekdayValue, &preference.Slot,
			&preference.DeskID, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		preference.Weekday = time.Weekday(weekdayValue)
		if preference.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		if preference.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
			return nil, err
		}
		preferences = append(preferences, preference)
	}
	return preferences, rows.Err()
}
