package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/deskplanner/internal/application"
	"github.com/example/deskplanner/internal/persistence"
)

type deskService interface {
	CreateDesk(ctx context.Context, input application.DeskInput) (persistence.Desk, error)
	UpdateDesk(ctx context.Context, id string, input application.DeskInput) (persistence.Desk, error)
	DeleteDesk(ctx context.Context, id string) error
	ListDesks(ctx context.Context) ([]persistence.Desk, error)
}

type DeskHandler struct {
	service   deskService
	responder responder
	logger    *slog.Logger
}

func NewDeskHandler(service deskService, logger *slog.Logger) *DeskHandler {
	base := defaultLogger(logger)
	return &DeskHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *DeskHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "DeskHandler", operation, attrs...)
}

func (h *DeskHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	desks, err := h.service.ListDesks(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "desk list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(desks)).InfoContext(r.Context(), "desks listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listDesksResponse{Desks: toDeskDTOs(desks)})
}

func (h *DeskHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req deskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode desk request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")

	if err := checkRequest(req); err != nil {
		logger.ErrorContext(r.Context(), "desk request rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	desk, err := h.service.CreateDesk(r.Context(), req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "desk creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("desk_id", desk.ID).InfoContext(r.Context(), "desk created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, deskResponse{Desk: toDeskDTO(desk)})
}

func (h *DeskHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	deskID, ok := DeskIDFromContext(r.Context())
	if !ok || strings.TrimSpace(deskID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing desk id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDesk)
		return
	}

	var req deskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "desk_id", deskID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode desk update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "desk_id", deskID)

	if err := checkRequest(req); err != nil {
		logger.ErrorContext(r.Context(), "desk update rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	desk, err := h.service.UpdateDesk(r.Context(), deskID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "desk update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "desk updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, deskResponse{Desk: toDeskDTO(desk)})
}

func (h *DeskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	deskID, ok := DeskIDFromContext(r.Context())
	if !ok || strings.TrimSpace(deskID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing desk id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDesk)
		return
	}

	logger := h.log(r.Context(), "Delete", "desk_id", deskID)
	if err := h.service.DeleteDesk(r.Context(), deskID); err != nil {
		logger.ErrorContext(r.Context(), "desk delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "desk deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type deskRequest struct {
	Label      string  `json:"label" validate:"required"`
	GridX      int     `json:"gridX" validate:"min=0"`
	GridY      int     `json:"gridY" validate:"min=0"`
	GridW      int     `json:"gridW" validate:"min=1"`
	GridH      int     `json:"gridH" validate:"min=1"`
	Rotation   int     `json:"rotation"`
	TitleColor *string `json:"titleColor"`
}

func (r deskRequest) toInput() application.DeskInput {
	return application.DeskInput{
		Label:      strings.TrimSpace(r.Label),
		GridX:      r.GridX,
		GridY:      r.GridY,
		GridW:      r.GridW,
		GridH:      r.GridH,
		Rotation:   r.Rotation,
		TitleColor: r.TitleColor,
	}
}

type deskResponse struct {
	Desk deskDTO `json:"desk"`
}

type listDesksResponse struct {
	Desks []deskDTO `json:"desks"`
}

type deskDTO struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	GridX      int     `json:"gridX"`
	GridY      int     `json:"gridY"`
	GridW      int     `json:"gridW"`
	GridH      int     `json:"gridH"`
	Rotation   int     `json:"rotation"`
	TitleColor *string `json:"titleColor,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func toDeskDTO(desk persistence.Desk) deskDTO {
	return deskDTO{
		ID:         desk.ID,
		Label:      desk.Label,
		GridX:      desk.GridX,
		GridY:      desk.GridY,
		GridW:      desk.GridW,
		GridH:      desk.GridH,
		Rotation:   desk.Rotation,
		TitleColor: desk.TitleColor,
		CreatedAt:  desk.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:  desk.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toDeskDTOs(desks []persistence.Desk) []deskDTO {
	if len(desks) == 0 {
		return nil
	}
	out := make([]deskDTO, 0, len(desks))
	for _, desk := range desks {
		out = append(out, toDeskDTO(desk))
	}
	return out
}
