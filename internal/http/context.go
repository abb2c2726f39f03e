package http

import (
	"context"
	"log/slog"

	"github.com/example/deskplanner/internal/logging"
)

type contextKey string

const (
	plannerDateContextKey contextKey = "planner_date"
	employeeIDContextKey  contextKey = "employee_id"
	deskIDContextKey      contextKey = "desk_id"
	absenceIDContextKey   contextKey = "absence_id"
)

// ContextWithPlannerDate injects the raw date segment resolved from the
// request path. Handlers parse and validate it.
func ContextWithPlannerDate(ctx context.Context, date string) context.Context {
	return context.WithValue(ctx, plannerDateContextKey, date)
}

// PlannerDateFromContext extracts a raw planner date previously associated
// with the context.
func PlannerDateFromContext(ctx context.Context) (string, bool) {
	date, ok := ctx.Value(plannerDateContextKey).(string)
	return date, ok
}

// ContextWithEmployeeID injects the employee identifier resolved from the
// request path.
func ContextWithEmployeeID(ctx context.Context, employeeID string) context.Context {
	return context.WithValue(ctx, employeeIDContextKey, employeeID)
}

// EmployeeIDFromContext extracts an employee identifier previously associated
// with the context.
func EmployeeIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(employeeIDContextKey).(string)
	return id, ok
}

// ContextWithDeskID injects the desk identifier resolved from the request path.
func ContextWithDeskID(ctx context.Context, deskID string) context.Context {
	return context.WithValue(ctx, deskIDContextKey, deskID)
}

// DeskIDFromContext extracts a desk identifier previously associated with the
// context.
func DeskIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(deskIDContextKey).(string)
	return id, ok
}

// ContextWithAbsenceID injects the absence identifier resolved from the
// request path.
func ContextWithAbsenceID(ctx context.Context, absenceID string) context.Context {
	return context.WithValue(ctx, absenceIDContextKey, absenceID)
}

// AbsenceIDFromContext extracts an absence identifier previously associated
// with the context.
func AbsenceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(absenceIDContextKey).(string)
	return id, ok
}

// ContextWithLogger returns a derived context carrying the request scoped
// logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts a logger previously attached to the context.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
