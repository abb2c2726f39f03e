package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/deskplanner/internal/persistence"
)

// EmployeeRepository implements persistence.EmployeeRepository using SQLite.
type EmployeeRepository struct {
	pool *ConnectionPool
}

// NewEmployeeRepository creates a new SQLite employee repository.
func NewEmployeeRepository(pool *ConnectionPool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// CreateEmployee inserts a new employee.
func (r *EmployeeRepository) CreateEmployee(ctx context.Context, employee persistence.Employee) error {
	if employee.ID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = now
	}
	employee.UpdatedAt = now

	_, err := r.pool.DB().ExecContext(ctx,
		`INSERT INTO employees (id, name, initials, avatar_color, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		employee.ID,
		employee.Name,
		employee.Initials,
		employee.AvatarColor,
		timestampString(employee.CreatedAt),
		timestampString(employee.UpdatedAt),
	)
	return mapSQLiteError(err)
}

// UpdateEmployee updates an existing employee.
func (r *EmployeeRepository) UpdateEmployee(ctx context.Context, employee persistence.Employee) error {
	if employee.ID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.DB().ExecContext(ctx,
		`UPDATE employees SET name = ?, initials = ?, avatar_color = ?, updated_at = ? WHERE id = ?`,
		employee.Name,
		employee.Initials,
		employee.AvatarColor,
		timestampString(time.Now().UTC()),
		employee.ID,
	)
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

// GetEmployee retrieves an employee by ID.
func (r *EmployeeRepository) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	if id == "" {
		return persistence.Employee{}, persistence.ErrNotFound
	}

	row := r.pool.DB().QueryRowContext(ctx,
		`SELECT id, name, initials, avatar_color, created_at, updated_at FROM employees WHERE id = ?`, id)

	employee, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Employee{}, persistence.ErrNotFound
	}
	return employee, err
}

// ListEmployees returns all employees ordered by name.
func (r *EmployeeRepository) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	rows, err := r.pool.DB().QueryContext(ctx,
		`SELECT id, name, initials, avatar_color, created_at, updated_at FROM employees ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []persistence.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes the employee and every record owned by or
// referencing them inside one transaction.
func (r *EmployeeRepository) DeleteEmployee(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM assignments WHERE employee_id = ?`,
			`DELETE FROM preferences WHERE employee_id = ?`,
			`DELETE FROM absences WHERE employee_id = ?`,
			`DELETE FROM work_schedule_days WHERE employee_id = ?`,
			`DELETE FROM work_schedules WHERE employee_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return mapSQLiteError(err)
			}
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
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
	})
}

// UpsertWorkSchedule replaces the weekly schedule of an employee. The header
// row and all weekday rows are rewritten in one transaction.
func (r *EmployeeRepository) UpsertWorkSchedule(ctx context.Context, schedule persistence.WorkSchedule) error {
	if schedule.EmployeeID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO work_schedules (employee_id, created_at, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT (employee_id) DO UPDATE SET updated_at = excluded.updated_at`,
			schedule.EmployeeID, timestampString(now), timestampString(now))
		if err != nil {
			return mapSQLiteError(err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM work_schedule_days WHERE employee_id = ?`, schedule.EmployeeID); err != nil {
			return mapSQLiteError(err)
		}

		for weekday, day := range schedule.Days {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO work_schedule_days (employee_id, weekday, morning, afternoon, note)
				 VALUES (?, ?, ?, ?, ?)`,
				schedule.EmployeeID, int(weekday), day.Morning, day.Afternoon, nullString(day.Note))
			if err != nil {
				return mapSQLiteError(err)
			}
		}
		return nil
	})
}

// GetWorkSchedule retrieves the weekly schedule of one employee.
func (r *EmployeeRepository) GetWorkSchedule(ctx context.Context, employeeID string) (persistence.WorkSchedule, error) {
	if employeeID == "" {
		return persistence.WorkSchedule{}, persistence.ErrNotFound
	}

	var createdAt, updatedAt string
	err := r.pool.DB().QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM work_schedules WHERE employee_id = ?`, employeeID).
		Scan(&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.WorkSchedule{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.WorkSchedule{}, err
	}

	schedule := persistence.WorkSchedule{
		EmployeeID: employeeID,
		Days:       make(map[time.Weekday]persistence.WorkScheduleDay),
	}
	if schedule.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.WorkSchedule{}, err
	}
	if schedule.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.WorkSchedule{}, err
	}

	rows, err := r.pool.DB().QueryContext(ctx,
		`SELECT weekday, morning, afternoon, note FROM work_schedule_days WHERE employee_id = ?`, employeeID)
	if err != nil {
		return persistence.WorkSchedule{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var weekday int
		var day persistence.WorkScheduleDay
		var note sql.NullString
		if err := rows.Scan(&weekday, &day.Morning, &day.Afternoon, &note); err != nil {
			return persistence.WorkSchedule{}, err
		}
		day.Note = stringPtr(note)
		schedule.Days[time.Weekday(weekday)] = day
	}
	return schedule, rows.Err()
}

// ListWorkSchedules returns the schedules of all employees that have one.
func (r *EmployeeRepository) ListWorkSchedules(ctx context.Context) ([]persistence.WorkSchedule, error) {
	rows, err := r.pool.DB().QueryContext(ctx,
		`SELECT s.employee_id, s.created_at, s.updated_at, d.weekday, d.morning, d.afternoon, d.note
		 FROM work_schedules s
		 LEFT JOIN work_schedule_days d ON d.employee_id = s.employee_id
		 ORDER BY s.employee_id, d.weekday`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byEmployee := make(map[string]*persistence.WorkSchedule)
	var order []string
	for rows.Next() {
		var employeeID, createdAt, updatedAt string
		var weekday sql.NullInt64
		var morning, afternoon sql.NullBool
		var note sql.NullString
		if err := rows.Scan(&employeeID, &createdAt, &updatedAt, &weekday, &morning, &afternoon, &note); err != nil {
			return nil, err
		}

		schedule, ok := byEmployee[employeeID]
		if !ok {
			schedule = &persistence.WorkSchedule{
				EmployeeID: employeeID,
				Days:       make(map[time.Weekday]persistence.WorkScheduleDay),
			}
			if schedule.CreatedAt, err = parseTimestamp(createdAt); err != nil {
				return nil, err
			}
			if schedule.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
				return nil, err
			}
			byEmployee[employeeID] = schedule
			order = append(order, employeeID)
		}

		if weekday.Valid {
			schedule.Days[time.Weekday(weekday.Int64)] = persistence.WorkScheduleDay{
				Morning:   morning.Bool,
				Afternoon: afternoon.Bool,
				Note:      stringPtr(note),
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	schedules := make([]persistence.WorkSchedule, 0, len(order))
	for _, employeeID := range order {
		schedules = append(schedules, *byEmployee[employeeID])
	}
	return schedules, nil
}

// CreateAbsence inserts an absence record.
func (r *EmployeeRepository) CreateAbsence(ctx context.Context, absence persistence.Absence) error {
	if absence.ID == "" || absence.EmployeeID == "" {
		return persistence.ErrConstraintViolation
	}
	if absence.CreatedAt.IsZero() {
		absence.CreatedAt = time.Now().UTC()
	}

	_, err := r.pool.DB().ExecContext(ctx,
		`INSERT INTO absences (id, employee_id, start_date, end_date, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		absence.ID,
		absence.EmployeeID,
		dayString(absence.Start),
		dayString(absence.End),
		absence.Reason,
		timestampString(absence.CreatedAt),
	)
	return mapSQLiteError(err)
}

// DeleteAbsence removes an absence by ID.
func (r *EmployeeRepository) DeleteAbsence(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.DB().ExecContext(ctx, `DELETE FROM absences WHERE id = ?`, id)
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

// ListAbsences returns absences ordered by (start_date, id) so the first
// covering absence is stable across reads. An empty employeeID lists every
// absence.
func (r *EmployeeRepository) ListAbsences(ctx context.Context, employeeID string) ([]persistence.Absence, error) {
	query := `SELECT id, employee_id, start_date, end_date, reason, created_at FROM absences`
	args := []any{}
	if employeeID != "" {
		query += ` WHERE employee_id = ?`
		args = append(args, employeeID)
	}
	query += ` ORDER BY start_date, id`

	rows, err := r.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var absences []persistence.Absence
	for rows.Next() {
		var absence persistence.Absence
		var start, end, createdAt string
		if err := rows.Scan(&absence.ID, &absence.EmployeeID, &start, &end, &absence.Reason, &createdAt); err != nil {
			return nil, err
		}
		if absence.Start, err = parseDay(start); err != nil {
			return nil, err
		}
		if absence.End, err = parseDay(end); err != nil {
			return nil, err
		}
		if absence.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		absences = append(absences, absence)
	}
	return absences, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (persistence.Employee, error) {
	var employee persistence.Employee
	var createdAt, updatedAt string
	if err := row.Scan(&employee.ID, &employee.Name, &employee.Initials, &employee.AvatarColor, &createdAt, &updatedAt); err != nil {
		return persistence.Employee{}, err
	}

	var err error
	if employee.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Employee{}, err
	}
	if employee.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Employee{}, err
	}
	return employee, nil
}
