package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/deskplanner/internal/application"
	"github.com/example/deskplanner/internal/persistence"
	"github.com/example/deskplanner/internal/scheduling"
)

type preferenceService interface {
	SetPreference(ctx context.Context, input application.PreferenceInput) error
	ListPreferences(ctx context.Context, weekday time.Weekday) ([]persistence.Preference, error)
}

type PreferenceHandler struct {
	service   preferenceService
	responder responder
	logger    *slog.Logger
}

func NewPreferenceHandler(service preferenceService, logger *slog.Logger) *PreferenceHandler {
	base := defaultLogger(logger)
	return &PreferenceHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *PreferenceHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "PreferenceHandler", operation, attrs...)
}

// List serves GET /preferences. Without a weekday query parameter every
// stored preference is returned.
func (h *PreferenceHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	weekday := time.Weekday(-1)
	if raw := strings.TrimSpace(r.URL.Query().Get("weekday")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.log(r.Context(), "List", "weekday", raw, "error_kind", "bad_request").ErrorContext(r.Context(), "malformed weekday filter", "error", err)
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidWeekday)
			return
		}
		weekday = time.Weekday(parsed)
	}

	logger := h.log(r.Context(), "List", "weekday", int(weekday))
	preferences, err := h.service.ListPreferences(r.Context(), weekday)
	if err != nil {
		logger.ErrorContext(r.Context(), "preference list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(preferences)).InfoContext(r.Context(), "preferences listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listPreferencesResponse{Preferences: toPreferenceDTOs(preferences)})
}

// SetForEmployee serves PUT /employees/{id}/preferences. An empty deskId in
// the body clears the entry for (weekday, slot).
func (h *PreferenceHandler) SetForEmployee(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.log(r.Context(), "SetForEmployee", "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for preference")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployee)
		return
	}

	var req preferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "SetForEmployee", "employee_id", employeeID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode preference request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SetForEmployee", "employee_id", employeeID, "weekday", req.Weekday, "slot", req.Slot)

	if err := checkRequest(req); err != nil {
		logger.ErrorContext(r.Context(), "preference request rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	err := h.service.SetPreference(r.Context(), application.PreferenceInput{
		EmployeeID: employeeID,
		Weekday:    time.Weekday(req.Weekday),
		Slot:       scheduling.Slot(strings.ToUpper(strings.TrimSpace(req.Slot))),
		DeskID:     strings.TrimSpace(req.DeskID),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "preference write failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "preference stored")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type preferenceRequest struct {
	Weekday int    `json:"weekday" validate:"min=1,max=5"`
	Slot    string `json:"slot" validate:"required,oneof=MORNING AFTERNOON"`
	DeskID  string `json:"deskId"`
}

type listPreferencesResponse struct {
	Preferences []preferenceDTO `json:"preferences"`
}

type preferenceDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	Weekday    int    `json:"weekday"`
	Slot       string `json:"slot"`
	DeskID     string `json:"deskId"`
}

func toPreferenceDTOs(preferences []persistence.Preference) []preferenceDTO {
	if len(preferences) == 0 {
		return nil
	}
	out := make([]preferenceDTO, 0, len(preferences))
	for _, preference := range preferences {
		out = append(out, preferenceDTO{
			ID:         preference.ID,
			EmployeeID: preference.EmployeeID,
			Weekday:    int(preference.Weekday),
			Slot:       preference.Slot,
			DeskID:     preference.DeskID,
		})
	}
	return out
}
