package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migration is one versioned schema step. Statements run in order inside a
// single transaction together with the version bookkeeping row.
type migration struct {
	version    int
	statements []string
}

var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS employees (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				initials TEXT NOT NULL,
				avatar_color TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS work_schedules (
				employee_id TEXT PRIMARY KEY REFERENCES employees(id) ON DELETE CASCADE,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS work_schedule_days (
				employee_id TEXT NOT NULL REFERENCES work_schedules(employee_id) ON DELETE CASCADE,
				weekday INTEGER NOT NULL,
				morning INTEGER NOT NULL DEFAULT 0,
				afternoon INTEGER NOT NULL DEFAULT 0,
				note TEXT,
				PRIMARY KEY (employee_id, weekday)
			)`,
			`CREATE TABLE IF NOT EXISTS absences (
				id TEXT PRIMARY KEY,
				employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
				start_date TEXT NOT NULL,
				end_date TEXT NOT NULL,
				reason TEXT NOT NULL,
				created_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_absences_employee ON absences(employee_id, start_date)`,
			`CREATE TABLE IF NOT EXISTS desks (
				id TEXT PRIMARY KEY,
				label TEXT NOT NULL,
				grid_x INTEGER NOT NULL DEFAULT 0,
				grid_y INTEGER NOT NULL DEFAULT 0,
				grid_w INTEGER NOT NULL DEFAULT 1,
				grid_h INTEGER NOT NULL DEFAULT 1,
				rotation INTEGER NOT NULL DEFAULT 0,
				title_color TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS preferences (
				id TEXT PRIMARY KEY,
				employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
				weekday INTEGER NOT NULL,
				slot TEXT NOT NULL,
				desk_id TEXT NOT NULL REFERENCES desks(id) ON DELETE CASCADE,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				UNIQUE (employee_id, weekday, slot)
			)`,
			`CREATE TABLE IF NOT EXISTS assignments (
				id TEXT PRIMARY KEY,
				date TEXT NOT NULL,
				slot TEXT NOT NULL,
				desk_id TEXT NOT NULL REFERENCES desks(id) ON DELETE CASCADE,
				employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
				created_at TEXT NOT NULL,
				UNIQUE (date, slot, desk_id),
				UNIQUE (date, slot, employee_id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_assignments_date ON assignments(date)`,
		},
	},
}

// Migrate applies any pending schema migrations. Applied versions are
// tracked in schema_migrations so the call is idempotent.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		applied, err := cp.migrationApplied(ctx, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = cp.WithTransaction(ctx, func(tx *sql.Tx) error {
			for _, stmt := range m.statements {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("migration %d failed: %w", m.version, err)
				}
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
				m.version, time.Now().UTC().Format(time.RFC3339))
			return err
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (cp *ConnectionPool) migrationApplied(ctx context.Context, version int) (bool, error) {
	var count int
	err := cp.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to inspect schema_migrations: %w", err)
	}
	return count > 0, nil
}
