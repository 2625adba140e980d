// README: Match generation orchestrator and accept/reject lifecycle.
package matching

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"movelink/internal/config"
	"movelink/internal/modules/move"
	"movelink/internal/modules/request"
	"movelink/internal/types"
)

var (
	ErrNotFound = errors.New("match not found")
	// ErrDecided means the match already carries an accept/reject action.
	ErrDecided = errors.New("match already decided")
	// ErrConflict means a lifecycle mutation lost against a concurrent
	// change; the caller decides whether to retry.
	ErrConflict = errors.New("match state conflict")
	// ErrVolumeExceeded means accepting would oversell the move.
	ErrVolumeExceeded = errors.New("move volume exceeded")
	ErrBadRequest     = errors.New("bad request")
)

// Store is the durable collaborator for matches and their decision
// actions. Accept and Reject are transactional: the action record must
// commit atomically with the state change it describes.
type Store interface {
	ActiveRequests(ctx context.Context) ([]*request.ClientRequest, error)
	ActiveMoves(ctx context.Context) ([]*move.Move, error)
	// LivePairs returns every (request, move) pair that currently has a
	// match row, for the generator's idempotence check.
	LivePairs(ctx context.Context) (map[Pair]struct{}, error)
	// PruneUndecided deletes matches with no associated action.
	PruneUndecided(ctx context.Context) (int, error)
	// Insert persists a match unless the pair already has a live row; it
	// reports whether a row was written.
	Insert(ctx context.Context, m *Match) (bool, error)
	Get(ctx context.Context, id types.ID) (*Match, error)
	ListDetails(ctx context.Context) ([]*Detail, error)
	Actions(ctx context.Context, matchID types.ID) ([]Action, error)
	Accept(ctx context.Context, matchID types.ID, a Action) error
	Reject(ctx context.Context, matchID types.ID, a Action) error
}

type Service struct {
	store     Store
	estimator *Estimator
	cfg       config.MatchingConfig
	log       *zap.Logger
}

func NewService(store Store, estimator *Estimator, cfg config.MatchingConfig, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, estimator: estimator, cfg: cfg, log: log}
}

// Report summarizes one generation run for the caller.
type Report struct {
	RequestsConsidered int `json:"requests_considered"`
	RequestsExcluded   int `json:"requests_excluded"`
	MovesConsidered    int `json:"moves_considered"`
	PairsEvaluated     int `json:"pairs_evaluated"`
	PairsSkipped       int `json:"pairs_skipped"`
	MatchesCreated     int `json:"matches_created"`
	Pruned             int `json:"pruned"`
}

// Generate evaluates every active (request, move) pair and persists one
// match per newly compatible pair. Stale undecided matches are pruned
// first; pairs that already have a live match are skipped. Pair
// evaluations run concurrently but bounded, and each insert commits
// independently, so a cancelled run keeps the matches it already made.
func (s *Service) Generate(ctx context.Context) (*Report, error) {
	pruned, err := s.store.PruneUndecided(ctx)
	if err != nil {
		return nil, fmt.Errorf("prune undecided matches: %w", err)
	}

	requests, err := s.store.ActiveRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active requests: %w", err)
	}
	moves, err := s.store.ActiveMoves(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active moves: %w", err)
	}
	live, err := s.store.LivePairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load existing matches: %w", err)
	}

	report := &Report{MovesConsidered: len(moves), Pruned: pruned}

	eligible := requests[:0]
	for _, r := range requests {
		if !r.RouteComplete() {
			report.RequestsExcluded++
			continue
		}
		eligible = append(eligible, r)
	}
	report.RequestsConsidered = len(eligible)

	var evaluated, skipped, created atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	limit := s.cfg.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for _, r := range eligible {
		r := r
		for _, m := range moves {
			m := m
			if _, ok := live[Pair{RequestID: r.ID, MoveID: m.ID}]; ok {
				skipped.Add(1)
				continue
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				// Date gate first: incompatible dates never reach the
				// routing service, and never reach storage.
				dates := EvaluateDates(r, m.DepartureDate, s.cfg.MaxDateDiffDays)
				if !dates.Compatible {
					skipped.Add(1)
					return nil
				}
				evaluated.Add(1)

				distance := s.estimator.Estimate(gctx, r, m)
				volume := EvaluateVolume(r, m)

				id := types.NewID()
				match := &Match{
					ID:             id,
					Reference:      "MT-" + string(id)[:8],
					RequestID:      r.ID,
					MoveID:         m.ID,
					DistanceKm:     int(math.Round(distance)),
					DateDiffDays:   dates.DiffDays,
					CombinedVolume: volume.Combined,
					VolumeOK:       volume.OK,
					Type:           Classify(r, m, distance, dates),
					Valid:          Valid(s.cfg, distance, dates, volume.OK),
					CreatedAt:      time.Now(),
				}
				ok, err := s.store.Insert(gctx, match)
				if err != nil {
					return fmt.Errorf("insert match for request %s / move %s: %w", r.ID, m.ID, err)
				}
				if ok {
					created.Add(1)
				} else {
					// Lost against a concurrent run; the pair is matched
					// either way.
					skipped.Add(1)
				}
				return nil
			})
		}
	}

	err = g.Wait()
	report.PairsEvaluated = int(evaluated.Load())
	report.PairsSkipped = int(skipped.Load())
	report.MatchesCreated = int(created.Load())
	if err != nil {
		return report, err
	}

	s.log.Info("generation run complete",
		zap.Int("requests", report.RequestsConsidered),
		zap.Int("requests_excluded", report.RequestsExcluded),
		zap.Int("moves", report.MovesConsidered),
		zap.Int("pairs_evaluated", report.PairsEvaluated),
		zap.Int("pairs_skipped", report.PairsSkipped),
		zap.Int("matches_created", report.MatchesCreated),
		zap.Int("pruned", report.Pruned))
	return report, nil
}

type AcceptCommand struct {
	MatchID types.ID
	Actor   string
	Notes   string
}

// Accept records the decision, confirms the request, reserves the move's
// volume, and removes competing undecided matches for the same request.
// All of it commits in one transaction or not at all.
func (s *Service) Accept(ctx context.Context, cmd AcceptCommand) error {
	if cmd.MatchID == "" {
		return ErrBadRequest
	}
	err := s.store.Accept(ctx, cmd.MatchID, Action{
		MatchID:   cmd.MatchID,
		Decision:  DecisionAccepted,
		Actor:     cmd.Actor,
		Notes:     cmd.Notes,
		CreatedAt: time.Now(),
	})
	if err != nil {
		s.log.Warn("accept failed",
			zap.String("match_id", string(cmd.MatchID)),
			zap.Error(err))
		return err
	}
	s.log.Info("match accepted", zap.String("match_id", string(cmd.MatchID)))
	return nil
}

type RejectCommand struct {
	MatchID types.ID
	Actor   string
	Notes   string
}

// Reject records the decision and deletes the match row. The action
// commits atomically with the deletion so the audit trail survives.
func (s *Service) Reject(ctx context.Context, cmd RejectCommand) error {
	if cmd.MatchID == "" {
		return ErrBadRequest
	}
	err := s.store.Reject(ctx, cmd.MatchID, Action{
		MatchID:   cmd.MatchID,
		Decision:  DecisionRejected,
		Actor:     cmd.Actor,
		Notes:     cmd.Notes,
		CreatedAt: time.Now(),
	})
	if err != nil {
		s.log.Warn("reject failed",
			zap.String("match_id", string(cmd.MatchID)),
			zap.Error(err))
		return err
	}
	s.log.Info("match rejected", zap.String("match_id", string(cmd.MatchID)))
	return nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Match, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListDetails(ctx context.Context) ([]*Detail, error) {
	return s.store.ListDetails(ctx)
}

func (s *Service) Actions(ctx context.Context, matchID types.ID) ([]Action, error) {
	return s.store.Actions(ctx, matchID)
}
