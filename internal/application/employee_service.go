package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/deskplanner/internal/persistence"
	"github.com/example/deskplanner/internal/scheduling"
)

// EmployeeService orchestrates validation and persistence for roster
// operations: employees, their weekly schedules and their absences.
type EmployeeService struct {
	employees   persistence.EmployeeRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewEmployeeService wires dependencies for employee operations.
func NewEmployeeService(employees persistence.EmployeeRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *EmployeeService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &EmployeeService{
		employees:   employees,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *EmployeeService) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EmployeeService", operation, attrs...)
}

// CreateEmployee validates the input and stores a new roster member.
func (s *EmployeeService) CreateEmployee(ctx context.Context, input EmployeeInput) (persistence.Employee, error) {
	if err := validateEmployeeInput(input); err != nil {
		return persistence.Employee{}, err
	}

	employee := persistence.Employee{
		ID:          s.idGenerator(),
		Name:        strings.TrimSpace(input.Name),
		Initials:    strings.TrimSpace(input.Initials),
		AvatarColor: strings.TrimSpace(input.AvatarColor),
	}
	if err := s.employees.CreateEmployee(ctx, employee); err != nil {
		return persistence.Employee{}, mapRepoError(err)
	}

	s.log(ctx, "CreateEmployee", "employee_id", employee.ID).InfoContext(ctx, "employee created")
	return s.employees.GetEmployee(ctx, employee.ID)
}

// UpdateEmployee replaces the writable fields of an employee.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id string, input EmployeeInput) (persistence.Employee, error) {
	if err := validateEmployeeInput(input); err != nil {
		return persistence.Employee{}, err
	}

	employee := persistence.Employee{
		ID:          id,
		Name:        strings.TrimSpace(input.Name),
		Initials:    strings.TrimSpace(input.Initials),
		AvatarColor: strings.TrimSpace(input.AvatarColor),
	}
	if err := s.employees.UpdateEmployee(ctx, employee); err != nil {
		return persistence.Employee{}, mapRepoError(err)
	}

	s.log(ctx, "UpdateEmployee", "employee_id", id).InfoContext(ctx, "employee updated")
	stored, err := s.employees.GetEmployee(ctx, id)
	return stored, mapRepoError(err)
}

// DeleteEmployee removes an employee and everything they own.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id string) error {
	if err := s.employees.DeleteEmployee(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.log(ctx, "DeleteEmployee", "employee_id", id).InfoContext(ctx, "employee deleted")
	return nil
}

// GetEmployee returns one employee with schedule and absences attached.
func (s *EmployeeService) GetEmployee(ctx context.Context, id string) (EmployeeDetail, error) {
	employee, err := s.employees.GetEmployee(ctx, id)
	if err != nil {
		return EmployeeDetail{}, mapRepoError(err)
	}

	detail := EmployeeDetail{Employee: employee}

	schedule, err := s.employees.GetWorkSchedule(ctx, id)
	switch mapRepoError(err) {
	case nil:
		detail.Schedule = &schedule
	case ErrNotFound:
		// No schedule means the employee defaults to available.
	default:
		return EmployeeDetail{}, err
	}

	if detail.Absences, err = s.employees.ListAbsences(ctx, id); err != nil {
		return EmployeeDetail{}, err
	}
	return detail, nil
}

// ListEmployees returns the full roster ordered by name.
func (s *EmployeeService) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	return s.employees.ListEmployees(ctx)
}

// UpsertWorkSchedule replaces the weekly schedule of an employee.
func (s *EmployeeService) UpsertWorkSchedule(ctx context.Context, employeeID string, input WorkScheduleInput) (persistence.WorkSchedule, error) {
	vErr := &ValidationError{}
	if employeeID == "" {
		vErr.add("employeeId", "employee id is required")
	}
	for weekday := range input.Days {
		if !scheduling.IsWorkday(weekday) {
			vErr.add("days", fmt.Sprintf("weekday %d is outside Monday-Friday", weekday))
		}
	}
	if vErr.HasErrors() {
		return persistence.WorkSchedule{}, vErr
	}

	if _, err := s.employees.GetEmployee(ctx, employeeID); err != nil {
		return persistence.WorkSchedule{}, mapRepoError(err)
	}

	schedule := persistence.WorkSchedule{EmployeeID: employeeID, Days: input.Days}
	if err := s.employees.UpsertWorkSchedule(ctx, schedule); err != nil {
		return persistence.WorkSchedule{}, mapRepoError(err)
	}

	s.log(ctx, "UpsertWorkSchedule", "employee_id", employeeID).InfoContext(ctx, "work schedule replaced")
	stored, err := s.employees.GetWorkSchedule(ctx, employeeID)
	return stored, mapRepoError(err)
}

// CreateAbsence records a new absence interval for an employee.
func (s *EmployeeService) CreateAbsence(ctx context.Context, employeeID string, input AbsenceInput) (persistence.Absence, error) {
	vErr := &ValidationError{}
	if employeeID == "" {
		vErr.add("employeeId", "employee id is required")
	}
	if strings.TrimSpace(input.Reason) == "" {
		vErr.add("reason", "reason is required")
	}
	start := scheduling.NormalizeDate(input.Start)
	end := scheduling.NormalizeDate(input.End)
	if input.Start.IsZero() {
		vErr.add("startDate", "start date is required")
	}
	if input.End.IsZero() {
		vErr.add("endDate", "end date is required")
	}
	if !input.Start.IsZero() && !input.End.IsZero() && end.Before(start) {
		vErr.add("endDate", "end date must not precede start date")
	}
	if vErr.HasErrors() {
		return persistence.Absence{}, vErr
	}

	if _, err := s.employees.GetEmployee(ctx, employeeID); err != nil {
		return persistence.Absence{}, mapRepoError(err)
	}

	absence := persistence.Absence{
		ID:         s.idGenerator(),
		EmployeeID: employeeID,
		Start:      start,
		End:        end,
		Reason:     strings.TrimSpace(input.Reason),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.employees.CreateAbsence(ctx, absence); err != nil {
		return persistence.Absence{}, mapRepoError(err)
	}

	s.log(ctx, "CreateAbsence", "employee_id", employeeID, "absence_id", absence.ID).InfoContext(ctx, "absence created")
	return absence, nil
}

// DeleteAbsence removes one absence record.
func (s *EmployeeService) DeleteAbsence(ctx context.Context, id string) error {
	if err := s.employees.DeleteAbsence(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.log(ctx, "DeleteAbsence", "absence_id", id).InfoContext(ctx, "absence deleted")
	return nil
}

func validateEmployeeInput(input EmployeeInput) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if strings.TrimSpace(input.Initials) == "" {
		vErr.add("initials", "initials are required")
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}
