package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/example/deskplanner/internal/application"
	"github.com/example/deskplanner/internal/persistence"
)

type employeeService interface {
	CreateEmployee(ctx context.Context, input application.EmployeeInput) (persistence.Employee, error)
	UpdateEmployee(ctx context.Context, id string, input application.EmployeeInput) (persistence.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
	GetEmployee(ctx context.Context, id string) (application.EmployeeDetail, error)
	ListEmployees(ctx context.Context) ([]persistence.Employee, error)
	UpsertWorkSchedule(ctx context.Context, employeeID string, input application.WorkScheduleInput) (persistence.WorkSchedule, error)
	CreateAbsence(ctx context.Context, employeeID string, input application.AbsenceInput) (persistence.Absence, error)
	DeleteAbsence(ctx context.Context, id string) error
}

type EmployeeHandler struct {
	service   employeeService
	responder responder
	logger    *slog.Logger
}

func NewEmployeeHandler(service employeeService, logger *slog.Logger) *EmployeeHandler {
	base := defaultLogger(logger)
	return &EmployeeHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EmployeeHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "EmployeeHandler", operation, attrs...)
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	employees, err := h.service.ListEmployees(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "employee list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(employees)).InfoContext(r.Context(), "employees listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEmployeesResponse{Employees: toEmployeeDTOs(employees)})
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode employee request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")

	if err := checkRequest(req); err != nil {
		logger.ErrorContext(r.Context(), "employee request rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	employee, err := h.service.CreateEmployee(r.Context(), req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "employee creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("employee_id", employee.ID).InfoContext(r.Context(), "employee created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, employeeResponse{Employee: toEmployeeDTO(employee)})
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.log(r.Context(), "Get", "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployee)
		return
	}

	logger := h.log(r.Context(), "Get", "employee_id", employeeID)
	detail, err := h.service.GetEmployee(r.Context(), employeeID)
	if err != nil {
		logger.ErrorContext(r.Context(), "employee fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "employee served")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toEmployeeDetailResponse(detail))
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployee)
		return
	}

	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "employee_id", employeeID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode employee update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "employee_id", employeeID)

	if err := checkRequest(req); err != nil {
		logger.ErrorContext(r.Context(), "employee update rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	employee, err := h.service.UpdateEmployee(r.Context(), employeeID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "employee update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "employee updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, employeeResponse{Employee: toEmployeeDTO(employee)})
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployee)
		return
	}

	logger := h.log(r.Context(), "Delete", "employee_id", employeeID)
	if err := h.service.DeleteEmployee(r.Context(), employeeID); err != nil {
		logger.ErrorContext(r.Context(), "employee delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "employee deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *EmployeeHandler) UpsertSchedule(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.log(r.Context(), "UpsertSchedule", "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for schedule")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployee)
		return
	}

	var req workScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpsertSchedule", "employee_id", employeeID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode schedule request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "UpsertSchedule", "employee_id", employeeID)

	if err := checkRequest(req); err != nil {
		logger.ErrorContext(r.Context(), "schedule request rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	schedule, err := h.service.UpsertWorkSchedule(r.Context(), employeeID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "schedule replacement failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "work schedule replaced")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, workScheduleResponse{Schedule: toWorkScheduleDTO(schedule)})
}

func (h *EmployeeHandler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.log(r.Context(), "CreateAbsence", "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for absence")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployee)
		return
	}

	var req absenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateAbsence", "employee_id", employeeID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode absence request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreateAbsence", "employee_id", employeeID)

	if err := checkRequest(req); err != nil {
		logger.ErrorContext(r.Context(), "absence request rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		logger.ErrorContext(r.Context(), "absence request rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	absence, err := h.service.CreateAbsence(r.Context(), employeeID, input)
	if err != nil {
		logger.ErrorContext(r.Context(), "absence creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("absence_id", absence.ID).InfoContext(r.Context(), "absence created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, absenceResponse{Absence: toAbsenceDTO(absence)})
}

func (h *EmployeeHandler) DeleteAbsence(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	absenceID, ok := AbsenceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(absenceID) == "" {
		h.log(r.Context(), "DeleteAbsence", "error_kind", "bad_request").ErrorContext(r.Context(), "missing absence id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAbsence)
		return
	}

	logger := h.log(r.Context(), "DeleteAbsence", "absence_id", absenceID)
	if err := h.service.DeleteAbsence(r.Context(), absenceID); err != nil {
		logger.ErrorContext(r.Context(), "absence delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "absence deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type employeeRequest struct {
	Name        string `json:"name" validate:"required"`
	Initials    string `json:"initials" validate:"required"`
	AvatarColor string `json:"avatarColor"`
}

func (r employeeRequest) toInput() application.EmployeeInput {
	return application.EmployeeInput{
		Name:        strings.TrimSpace(r.Name),
		Initials:    strings.TrimSpace(r.Initials),
		AvatarColor: strings.TrimSpace(r.AvatarColor),
	}
}

type workScheduleRequest struct {
	Days []workScheduleDayRequest `json:"days" validate:"required,dive"`
}

type workScheduleDayRequest struct {
	Weekday   int     `json:"weekday" validate:"min=1,max=5"`
	Morning   bool    `json:"morning"`
	Afternoon bool    `json:"afternoon"`
	Note      *string `json:"note"`
}

func (r workScheduleRequest) toInput() application.WorkScheduleInput {
	days := make(map[time.Weekday]persistence.WorkScheduleDay, len(r.Days))
	for _, day := range r.Days {
		days[time.Weekday(day.Weekday)] = persistence.WorkScheduleDay{
			Morning:   day.Morning,
			Afternoon: day.Afternoon,
			Note:      day.Note,
		}
	}
	return application.WorkScheduleInput{Days: days}
}

type absenceRequest struct {
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
}

func (r absenceRequest) toInput() (application.AbsenceInput, error) {
	vErr := &application.ValidationError{FieldErrors: map[string]string{}}

	start, err := time.Parse(time.DateOnly, r.StartDate)
	if err != nil {
		vErr.FieldErrors["startDate"] = "startDate must be formatted as YYYY-MM-DD"
	}
	end, err := time.Parse(time.DateOnly, r.EndDate)
	if err != nil {
		vErr.FieldErrors["endDate"] = "endDate must be formatted as YYYY-MM-DD"
	}
	if vErr.HasErrors() {
		return application.AbsenceInput{}, vErr
	}

	return application.AbsenceInput{
		Start:  start.UTC(),
		End:    end.UTC(),
		Reason: strings.TrimSpace(r.Reason),
	}, nil
}

type employeeResponse struct {
	Employee employeeDTO `json:"employee"`
}

type listEmployeesResponse struct {
	Employees []employeeDTO `json:"employees"`
}

type employeeDetailResponse struct {
	Employee employeeDTO      `json:"employee"`
	Schedule *workScheduleDTO `json:"schedule,omitempty"`
	Absences []absenceDTO     `json:"absences"`
}

type workScheduleResponse struct {
	Schedule workScheduleDTO `json:"schedule"`
}

type absenceResponse struct {
	Absence absenceDTO `json:"absence"`
}

type employeeDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Initials    string `json:"initials"`
	AvatarColor string `json:"avatarColor,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type workScheduleDTO struct {
	EmployeeID string               `json:"employeeId"`
	Days       []workScheduleDayDTO `json:"days"`
}

type workScheduleDayDTO struct {
	Weekday   int     `json:"weekday"`
	Morning   bool    `json:"morning"`
	Afternoon bool    `json:"afternoon"`
	Note      *string `json:"note,omitempty"`
}

type absenceDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Reason     string `json:"reason"`
	CreatedAt  string `json:"created_at"`
}

func toEmployeeDTO(employee persistence.Employee) employeeDTO {
	return employeeDTO{
		ID:          employee.ID,
		Name:        employee.Name,
		Initials:    employee.Initials,
		AvatarColor: employee.AvatarColor,
		CreatedAt:   employee.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   employee.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toEmployeeDTOs(employees []persistence.Employee) []employeeDTO {
	if len(employees) == 0 {
		return nil
	}
	out := make([]employeeDTO, 0, len(employees))
	for _, employee := range employees {
		out = append(out, toEmployeeDTO(employee))
	}
	return out
}

func toEmployeeDetailResponse(detail application.EmployeeDetail) employeeDetailResponse {
	response := employeeDetailResponse{Employee: toEmployeeDTO(detail.Employee)}
	if detail.Schedule != nil {
		schedule := toWorkScheduleDTO(*detail.Schedule)
		response.Schedule = &schedule
	}
	response.Absences = make([]absenceDTO, 0, len(detail.Absences))
	for _, absence := range detail.Absences {
		response.Absences = append(response.Absences, toAbsenceDTO(absence))
	}
	return response
}

func toWorkScheduleDTO(schedule persistence.WorkSchedule) workScheduleDTO {
	days := make([]workScheduleDayDTO, 0, len(schedule.Days))
	for weekday, day := range schedule.Days {
		days = append(days, workScheduleDayDTO{
			Weekday:   int(weekday),
			Morning:   day.Morning,
			Afternoon: day.Afternoon,
			Note:      day.Note,
		})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Weekday < days[j].Weekday })
	return workScheduleDTO{EmployeeID: schedule.EmployeeID, Days: days}
}

func toAbsenceDTO(absence persistence.Absence) absenceDTO {
	return absenceDTO{
		ID:         absence.ID,
		EmployeeID: absence.EmployeeID,
		StartDate:  absence.Start.Format(time.DateOnly),
		EndDate:    absence.End.Format(time.DateOnly),
		Reason:     absence.Reason,
		CreatedAt:  absence.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
