package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/example/deskplanner/internal/persistence"
)

// DeskService orchestrates validation and persistence for floor plan desks.
type DeskService struct {
	desks       persistence.DeskRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewDeskService wires dependencies for desk operations.
func NewDeskService(desks persistence.DeskRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *DeskService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &DeskService{
		desks:       desks,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *DeskService) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DeskService", operation, attrs...)
}

// CreateDesk validates and stores a new desk.
func (s *DeskService) CreateDesk(ctx context.Context, input DeskInput) (persistence.Desk, error) {
	if err := validateDeskInput(input); err != nil {
		return persistence.Desk{}, err
	}

	desk := deskFromInput(s.idGenerator(), input)
	if err := s.desks.CreateDesk(ctx, desk); err != nil {
		return persistence.Desk{}, mapRepoError(err)
	}

	s.log(ctx, "CreateDesk", "desk_id", desk.ID).InfoContext(ctx, "desk created")
	stored, err := s.desks.GetDesk(ctx, desk.ID)
	return stored, mapRepoError(err)
}

// UpdateDesk replaces the writable fields of a desk.
func (s *DeskService) UpdateDesk(ctx context.Context, id string, input DeskInput) (persistence.Desk, error) {
	if err := validateDeskInput(input); err != nil {
		return persistence.Desk{}, err
	}

	if err := s.desks.UpdateDesk(ctx, deskFromInput(id, input)); err != nil {
		return persistence.Desk{}, mapRepoError(err)
	}

	s.log(ctx, "UpdateDesk", "desk_id", id).InfoContext(ctx, "desk updated")
	stored, err := s.desks.GetDesk(ctx, id)
	return stored, mapRepoError(err)
}

// DeleteDesk removes a desk and every preference or assignment pointing at it.
func (s *DeskService) DeleteDesk(ctx context.Context, id string) error {
	if err := s.desks.DeleteDesk(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.log(ctx, "DeleteDesk", "desk_id", id).InfoContext(ctx, "desk deleted")
	return nil
}

// GetDesk returns one desk.
func (s *DeskService) GetDesk(ctx context.Context, id string) (persistence.Desk, error) {
	desk, err := s.desks.GetDesk(ctx, id)
	return desk, mapRepoError(err)
}

// ListDesks returns the floor plan ordered by label.
func (s *DeskService) ListDesks(ctx context.Context) ([]persistence.Desk, error) {
	return s.desks.ListDesks(ctx)
}

func deskFromInput(id string, input DeskInput) persistence.Desk {
	return persistence.Desk{
		ID:         id,
		Label:      strings.TrimSpace(input.Label),
		GridX:      input.GridX,
		GridY:      input.GridY,
		GridW:      input.GridW,
		GridH:      input.GridH,
		Rotation:   input.Rotation,
		TitleColor: input.TitleColor,
	}
}

func validateDeskInput(input DeskInput) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Label) == "" {
		vErr.add("label", "label is required")
	}
	if input.GridX < 0 || input.GridY < 0 {
		vErr.add("grid", "grid position must not be negative")
	}
	if input.GridW < 1 || input.GridH < 1 {
		vErr.add("grid", "grid size must be at least 1x1")
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}
