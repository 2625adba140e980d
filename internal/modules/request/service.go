// README: Client request intake and lifecycle service.
package request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"movelink/internal/types"
)

var (
	ErrNotFound   = errors.New("request not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("request state conflict")
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
	Departure       types.Address
	Arrival         types.Address
	DesiredDate     time.Time
	FlexibleDates   bool
	RangeStart      *time.Time
	RangeEnd        *time.Time
	EstimatedVolume float64
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*ClientRequest, error) {
	if !cmd.Departure.Complete() || !cmd.Arrival.Complete() {
		return nil, fmt.Errorf("%w: postal code and city required on both endpoints", ErrBadRequest)
	}
	if cmd.DesiredDate.IsZero() {
		return nil, fmt.Errorf("%w: desired date required", ErrBadRequest)
	}
	if cmd.EstimatedVolume <= 0 {
		return nil, fmt.Errorf("%w: estimated volume must be positive", ErrBadRequest)
	}
	if cmd.FlexibleDates {
		if cmd.RangeStart == nil || cmd.RangeEnd == nil {
			return nil, fmt.Errorf("%w: flexible requests need both range bounds", ErrBadRequest)
		}
		if cmd.RangeStart.After(cmd.DesiredDate) || cmd.RangeEnd.Before(cmd.DesiredDate) {
			return nil, fmt.Errorf("%w: desired date must fall inside the flexible range", ErrBadRequest)
		}
	}

	id := types.NewID()
	r := &ClientRequest{
		ID:              id,
		Reference:       "REQ-" + string(id)[:8],
		Departure:       cmd.Departure,
		Arrival:         cmd.Arrival,
		DesiredDate:     cmd.DesiredDate,
		FlexibleDates:   cmd.FlexibleDates,
		RangeStart:      cmd.RangeStart,
		RangeEnd:        cmd.RangeEnd,
		EstimatedVolume: cmd.EstimatedVolume,
		Status:          StatusPending,
		MatchStatus:     MatchPending,
		CreatedAt:       time.Now(),
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	s.log.Info("request created",
		zap.String("request_id", string(r.ID)),
		zap.String("reference", r.Reference))
	return r, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*ClientRequest, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListActive(ctx context.Context) ([]*ClientRequest, error) {
	return s.store.ListActive(ctx)
}

// Complete records that the physical relocation happened. It is orthogonal
// to match accept/reject.
func (s *Service) Complete(ctx context.Context, id types.ID) error {
	ok, err := s.store.Complete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		if _, err := s.store.Get(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}
