package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/deskplanner/internal/application"
	"github.com/example/deskplanner/internal/scheduling"
)

type plannerService interface {
	DayView(ctx context.Context, date time.Time) (application.DayView, error)
	PlaceEmployee(ctx context.Context, params application.PlaceParams) (application.DayView, error)
	ClearSlot(ctx context.Context, params application.ClearSlotParams) (application.DayView, error)
	ApplyPreferences(ctx context.Context, date time.Time) (application.DayView, error)
}

type PlannerHandler struct {
	service   plannerService
	responder responder
	logger    *slog.Logger
}

func NewPlannerHandler(service plannerService, logger *slog.Logger) *PlannerHandler {
	base := defaultLogger(logger)
	return &PlannerHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *PlannerHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "PlannerHandler", operation, attrs...)
}

// plannerDate resolves and parses the date path segment, writing the error
// response itself when the segment is missing or malformed.
func (h *PlannerHandler) plannerDate(w http.ResponseWriter, r *http.Request, operation string) (time.Time, bool) {
	raw, ok := PlannerDateFromContext(r.Context())
	if !ok || strings.TrimSpace(raw) == "" {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "missing planner date")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return time.Time{}, false
	}

	date, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		h.log(r.Context(), operation, "date", raw, "error_kind", "bad_request").ErrorContext(r.Context(), "malformed planner date", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return time.Time{}, false
	}
	return date.UTC(), true
}

func (h *PlannerHandler) Day(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date, ok := h.plannerDate(w, r, "Day")
	if !ok {
		return
	}

	logger := h.log(r.Context(), "Day", "date", date.Format(time.DateOnly))
	view, err := h.service.DayView(r.Context(), date)
	if err != nil {
		logger.ErrorContext(r.Context(), "day view failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("assignments", len(view.Assignments)).InfoContext(r.Context(), "day view served")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDayViewResponse(view))
}

func (h *PlannerHandler) Place(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date, ok := h.plannerDate(w, r, "Place")
	if !ok {
		return
	}

	var req placeAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Place", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode placement request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Place", "date", date.Format(time.DateOnly), "desk_id", req.DeskID, "employee_id", req.EmployeeID)

	if err := checkRequest(req); err != nil {
		logger.ErrorContext(r.Context(), "placement request rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	params := application.PlaceParams{
		Date:       date,
		DeskID:     req.DeskID,
		EmployeeID: req.EmployeeID,
		WholeDay:   req.WholeDay,
	}
	if !req.WholeDay {
		slot, err := scheduling.ParseSlot(req.Slot)
		if err != nil {
			logger.ErrorContext(r.Context(), "placement request rejected", "error", err, "error_kind", "validation")
			h.responder.handleServiceError(r.Context(), w, &application.ValidationError{
				FieldErrors: map[string]string{"slot": "slot must be MORNING or AFTERNOON"},
			})
			return
		}
		params.Slot = slot
	}

	view, err := h.service.PlaceEmployee(r.Context(), params)
	if err != nil {
		logger.ErrorContext(r.Context(), "placement failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "employee placed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDayViewResponse(view))
}

func (h *PlannerHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date, ok := h.plannerDate(w, r, "Clear")
	if !ok {
		return
	}

	var req clearSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Clear", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode clear request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Clear", "date", date.Format(time.DateOnly), "desk_id", req.DeskID, "slot", req.Slot)

	if err := checkRequest(req); err != nil {
		logger.ErrorContext(r.Context(), "clear request rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	slot, err := scheduling.ParseSlot(req.Slot)
	if err != nil {
		logger.ErrorContext(r.Context(), "clear request rejected", "error", err, "error_kind", "validation")
		h.responder.handleServiceError(r.Context(), w, &application.ValidationError{
			FieldErrors: map[string]string{"slot": "slot must be MORNING or AFTERNOON"},
		})
		return
	}

	view, err := h.service.ClearSlot(r.Context(), application.ClearSlotParams{
		Date:   date,
		DeskID: req.DeskID,
		Slot:   slot,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "clear failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "slot cleared")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDayViewResponse(view))
}

func (h *PlannerHandler) ApplyPreferences(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date, ok := h.plannerDate(w, r, "ApplyPreferences")
	if !ok {
		return
	}

	logger := h.log(r.Context(), "ApplyPreferences", "date", date.Format(time.DateOnly))
	view, err := h.service.ApplyPreferences(r.Context(), date)
	if err != nil {
		logger.ErrorContext(r.Context(), "preference application failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "preferences applied")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDayViewResponse(view))
}

type placeAssignmentRequest struct {
	DeskID     string `json:"deskId" validate:"required"`
	EmployeeID string `json:"employeeId" validate:"required"`
	Slot       string `json:"slot"`
	WholeDay   bool   `json:"wholeDay"`
}

type clearSlotRequest struct {
	DeskID string `json:"deskId" validate:"required"`
	Slot   string `json:"slot" validate:"required"`
}

type dayViewResponse struct {
	Date        string                    `json:"date"`
	Desks       []deskDTO                 `json:"desks"`
	Assignments []assignmentDTO           `json:"assignments"`
	Employees   []employeeAvailabilityDTO `json:"employees"`
}

type assignmentDTO struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Slot       string `json:"slot"`
	DeskID     string `json:"deskId"`
	EmployeeID string `json:"employeeId"`
}

type employeeAvailabilityDTO struct {
	Employee     employeeDTO     `json:"employee"`
	Availability availabilityDTO `json:"availability"`
}

type availabilityDTO struct {
	Morning   halfDayDTO `json:"morning"`
	Afternoon halfDayDTO `json:"afternoon"`
}

type halfDayDTO struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"`
}

func toDayViewResponse(view application.DayView) dayViewResponse {
	assignments := make([]assignmentDTO, 0, len(view.Assignments))
	for _, assignment := range view.Assignments {
		assignments = append(assignments, assignmentDTO{
			ID:         assignment.ID,
			Date:       assignment.Date.Format(time.DateOnly),
			Slot:       assignment.Slot,
			DeskID:     assignment.DeskID,
			EmployeeID: assignment.EmployeeID,
		})
	}

	employees := make([]employeeAvailabilityDTO, 0, len(view.Employees))
	for _, entry := range view.Employees {
		employees = append(employees, employeeAvailabilityDTO{
			Employee:     toEmployeeDTO(entry.Employee),
			Availability: availabilityDTO{
				Morning:   toHalfDayDTO(entry.Availability.Morning),
				Afternoon: toHalfDayDTO(entry.Availability.Afternoon),
			},
		})
	}

	return dayViewResponse{
		Date:        view.Date.Format(time.DateOnly),
		Desks:       toDeskDTOs(view.Desks),
		Assignments: assignments,
		Employees:   employees,
	}
}

func toHalfDayDTO(half scheduling.HalfDay) halfDayDTO {
	return halfDayDTO{Status: string(half.Status), Reason: half.Reason}
}
