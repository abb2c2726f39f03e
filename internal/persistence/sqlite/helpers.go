package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/deskplanner/internal/persistence"
)

// dayString renders a timestamp as the canonical day-granular storage form.
func dayString(t time.Time) string {
	return t.Format(time.DateOnly)
}

func parseDay(value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored date %q: %w", value, err)
	}
	return t, nil
}

func timestampString(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored timestamp %q: %w", value, err)
	}
	return t, nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	clone := value.String
	return &clone
}

// mapSQLiteError translates driver errors into persistence sentinels.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	message := err.Error()
	if strings.Contains(message, "UNIQUE constraint failed") ||
		strings.Contains(message, "FOREIGN KEY constraint failed") ||
		strings.Contains(message, "NOT NULL constraint failed") ||
		strings.Contains(message, "CHECK constraint failed") {
		return fmt.Errorf("%w: %s", persistence.ErrConstraintViolation, message)
	}
	return err
}
