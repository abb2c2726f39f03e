package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/deskplanner/internal/persistence"
)

// AssignmentRepository implements persistence.AssignmentRepository using SQLite.
type AssignmentRepository struct {
	pool *ConnectionPool
}

// NewAssignmentRepository creates a new SQLite assignment repository.
func NewAssignmentRepository(pool *ConnectionPool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// ListAssignments returns the assignments of one date ordered by
// (slot, desk_id).
func (r *AssignmentRepository) ListAssignments(ctx context.Context, date time.Time) ([]persistence.Assignment, error) {
	rows, err := r.pool.DB().QueryContext(ctx,
		`SELECT id, date, slot, desk_id, employee_id, created_at
		 FROM assignments WHERE date = ? ORDER BY slot, desk_id`,
		dayString(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []persistence.Assignment
	for rows.Next() {
		var assignment persistence.Assignment
		var day, createdAt string
		if err := rows.Scan(&assignment.ID, &day, &assignment.Slot, &assignment.DeskID,
			&assignment.EmployeeID, &createdAt); err != nil {
			return nil, err
		}
		if assignment.Date, err = parseDay(day); err != nil {
			return nil, err
		}
		if assignment.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	return assignments, rows.Err()
}

// ReplaceDay swaps the complete assignment set of a date in one transaction.
// A failure anywhere leaves the previous rows in place, so readers never see
// a partially applied day.
func (r *AssignmentRepository) ReplaceDay(ctx context.Context, date time.Time, assignments []persistence.Assignment) error {
	day := dayString(date)
	now := time.Now().UTC()

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE date = ?`, day); err != nil {
			return mapSQLiteError(err)
		}

		for _, assignment := range assignments {
			if assignment.ID == "" || assignment.DeskID == "" || assignment.EmployeeID == "" {
				return persistence.ErrConstraintViolation
			}
			createdAt := assignment.CreatedAt
			if createdAt.IsZero() {
				createdAt = now
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO assignments (id, date, slot, desk_id, employee_id, created_at)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				assignment.ID,
				day,
				assignment.Slot,
				assignment.DeskID,
				assignment.EmployeeID,
				timestampString(createdAt),
			)
			if err != nil {
				return mapSQLiteError(err)
			}
		}
		return nil
	})
}
