package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/deskplanner/internal/persistence"
)

// DeskRepository implements persistence.DeskRepository using SQLite.
type DeskRepository struct {
	pool *ConnectionPool
}

// NewDeskRepository creates a new SQLite desk repository.
func NewDeskRepository(pool *ConnectionPool) *DeskRepository {
	return &DeskRepository{pool: pool}
}

// CreateDesk inserts a new desk.
func (r *DeskRepository) CreateDesk(ctx context.Context, desk persistence.Desk) error {
	if desk.ID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if desk.CreatedAt.IsZero() {
		desk.CreatedAt = now
	}
	desk.UpdatedAt = now

	_, err := r.pool.DB().ExecContext(ctx,
		`INSERT INTO desks (id, label, grid_x, grid_y, grid_w, grid_h, rotation, title_color, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		desk.ID,
		desk.Label,
		desk.GridX,
		desk.GridY,
		desk.GridW,
		desk.GridH,
		desk.Rotation,
		nullString(desk.TitleColor),
		timestampString(desk.CreatedAt),
		timestampString(desk.UpdatedAt),
	)
	return mapSQLiteError(err)
}

// UpdateDesk updates an existing desk.
func (r *DeskRepository) UpdateDesk(ctx context.Context, desk persistence.Desk) error {
	if desk.ID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.DB().ExecContext(ctx,
		`UPDATE desks
		 SET label = ?, grid_x = ?, grid_y = ?, grid_w = ?, grid_h = ?, rotation = ?, title_color = ?, updated_at = ?
		 WHERE id = ?`,
		desk.Label,
		desk.GridX,
		desk.GridY,
		desk.GridW,
		desk.GridH,
		desk.Rotation,
		nullString(desk.TitleColor),
		timestampString(time.Now().UTC()),
		desk.ID,
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

// GetDesk retrieves a desk by ID.
func (r *DeskRepository) GetDesk(ctx context.Context, id string) (persistence.Desk, error) {
	if id == "" {
		return persistence.Desk{}, persistence.ErrNotFound
	}

	row := r.pool.DB().QueryRowContext(ctx,
		`SELECT id, label, grid_x, grid_y, grid_w, grid_h, rotation, title_color, created_at, updated_at
		 FROM desks WHERE id = ?`, id)

	desk, err := scanDesk(row)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Desk{}, persistence.ErrNotFound
	}
	return desk, err
}

// ListDesks returns all desks ordered by label.
func (r *DeskRepository) ListDesks(ctx context.Context) ([]persistence.Desk, error) {
	rows, err := r.pool.DB().QueryContext(ctx,
		`SELECT id, label, grid_x, grid_y, grid_w, grid_h, rotation, title_color, created_at, updated_at
		 FROM desks ORDER BY label, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var desks []persistence.Desk
	for rows.Next() {
		desk, err := scanDesk(rows)
		if err != nil {
			return nil, err
		}
		desks = append(desks, desk)
	}
	return desks, rows.Err()
}

// DeleteDesk removes the desk along with preferences and assignments that
// reference it inside one transaction.
func (r *DeskRepository) DeleteDesk(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM assignments WHERE desk_id = ?`,
			`DELETE FROM preferences WHERE desk_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return mapSQLiteError(err)
			}
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM desks WHERE id = ?`, id)
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

func scanDesk(row rowScanner) (persistence.Desk, error) {
	var desk persistence.Desk
	var titleColor sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(&desk.ID, &desk.Label, &desk.GridX, &desk.GridY, &desk.GridW, &desk.GridH,
		&desk.Rotation, &titleColor, &createdAt, &updatedAt); err != nil {
		return persistence.Desk{}, err
	}
	desk.TitleColor = stringPtr(titleColor)

	var err error
	if desk.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Desk{}, err
	}
	if desk.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Desk{}, err
	}
	return desk, nil
}
