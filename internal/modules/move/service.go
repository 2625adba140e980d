// README: Move booking service.
package move

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"movelink/internal/types"
)

var (
	ErrNotFound   = errors.New("move not found")
	ErrBadRequest = errors.New("bad request")
)

type Service struct {
	store *Store
	log   *zap.Logger
}

func NewService(store *Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

type CreateCommand struct {
	Carrier       string
	Departure     types.Address
	Arrival       types.Address
	DepartureDate time.Time
	MaxVolume     float64
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Move, error) {
	if cmd.Carrier == "" {
		return nil, fmt.Errorf("%w: carrier required", ErrBadRequest)
	}
	if !cmd.Departure.Complete() || !cmd.Arrival.Complete() {
		return nil, fmt.Errorf("%w: postal code and city required on both endpoints", ErrBadRequest)
	}
	if cmd.DepartureDate.IsZero() {
		return nil, fmt.Errorf("%w: departure date required", ErrBadRequest)
	}
	if cmd.MaxVolume <= 0 {
		return nil, fmt.Errorf("%w: max volume must be positive", ErrBadRequest)
	}

	id := types.NewID()
	m := &Move{
		ID:            id,
		Carrier:       cmd.Carrier,
		Reference:     "MOV-" + string(id)[:8],
		Departure:     cmd.Departure,
		Arrival:       cmd.Arrival,
		DepartureDate: cmd.DepartureDate,
		MaxVolume:     cmd.MaxVolume,
		UsedVolume:    0,
		Status:        StatusConfirmed,
		CustomStatus:  CustomEnCours,
		CreatedAt:     time.Now(),
	}
	if err := s.store.Create(ctx, m); err != nil {
		return nil, err
	}
	s.log.Info("move created",
		zap.String("move_id", string(m.ID)),
		zap.String("carrier", m.Carrier))
	return m, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Move, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListActive(ctx context.Context) ([]*Move, error) {
	return s.store.ListActive(ctx)
}
