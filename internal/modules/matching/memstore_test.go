package matching

import (
	"context"
	"sync"
	"time"

	"movelink/internal/modules/move"
	"movelink/internal/modules/request"
	"movelink/internal/types"
)

// memStore is an in-memory Store with the same semantics as the SQL
// implementation, including pair uniqueness and the capacity guard.
type memStore struct {
	mu           sync.Mutex
	requests     map[types.ID]*request.ClientRequest
	moves        map[types.ID]*move.Move
	matches      map[types.ID]*Match
	actions      []Action
	nextActionID int64
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		requests: make(map[types.ID]*request.ClientRequest),
		moves:    make(map[types.ID]*move.Move),
		matches:  make(map[types.ID]*Match),
	}
}

func (s *memStore) addRequest(r *request.ClientRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[r.ID] = r
}

func (s *memStore) addMove(m *move.Move) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moves[m.ID] = m
}

func (s *memStore) matchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matches)
}

func (s *memStore) matchesForPair(p Pair) []*Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Match
	for _, m := range s.matches {
		if m.RequestID == p.RequestID && m.MoveID == p.MoveID {
			out = append(out, m)
		}
	}
	return out
}

func (s *memStore) ActiveRequests(context.Context) ([]*request.ClientRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*request.ClientRequest
	for _, r := range s.requests {
		if r.Active() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) ActiveMoves(context.Context) ([]*move.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*move.Move
	for _, m := range s.moves {
		if m.Active() {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memStore) LivePairs(context.Context) (map[Pair]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pairs := make(map[Pair]struct{}, len(s.matches))
	for _, m := range s.matches {
		pairs[Pair{RequestID: m.RequestID, MoveID: m.MoveID}] = struct{}{}
	}
	return pairs, nil
}

func (s *memStore) PruneUndecided(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pruned := 0
	for id := range s.matches {
		if !s.decidedLocked(id) {
			delete(s.matches, id)
			pruned++
		}
	}
	return pruned, nil
}

func (s *memStore) Insert(_ context.Context, m *Match) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.matches {
		if existing.RequestID == m.RequestID && existing.MoveID == m.MoveID {
			return false, nil
		}
	}
	cp := *m
	s.matches[m.ID] = &cp
	return true, nil
}

func (s *memStore) Get(_ context.Context, id types.ID) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *memStore) ListDetails(context.Context) ([]*Detail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Detail
	for _, m := range s.matches {
		d := &Detail{Match: *m}
		if r, ok := s.requests[m.RequestID]; ok {
			d.Request = RequestSummary{
				Reference:     r.Reference,
				DepartureCity: r.Departure.City,
				ArrivalCity:   r.Arrival.City,
				DesiredDate:   r.DesiredDate,
				Volume:        r.EstimatedVolume,
			}
		}
		if v, ok := s.moves[m.MoveID]; ok {
			d.Move = MoveSummary{
				Carrier:       v.Carrier,
				Reference:     v.Reference,
				DepartureCity: v.Departure.City,
				ArrivalCity:   v.Arrival.City,
				DepartureDate: v.DepartureDate,
				MaxVolume:     v.MaxVolume,
				UsedVolume:    v.UsedVolume,
			}
		}
		d.Actions = s.actionsLocked(m.ID)
		out = append(out, d)
	}
	return out, nil
}

func (s *memStore) Actions(_ context.Context, matchID types.ID) ([]Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actionsLocked(matchID), nil
}

func (s *memStore) Accept(_ context.Context, matchID types.ID, a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.matches[matchID]
	if !ok {
		return ErrNotFound
	}
	if s.decidedLocked(matchID) {
		return ErrDecided
	}
	r, ok := s.requests[m.RequestID]
	if !ok || !r.Active() {
		return ErrConflict
	}
	mv, ok := s.moves[m.MoveID]
	if !ok {
		return ErrConflict
	}
	if mv.UsedVolume+r.EstimatedVolume > mv.MaxVolume {
		return ErrVolumeExceeded
	}

	s.appendActionLocked(a)

	now := time.Now()
	r.Status = request.StatusConfirmed
	r.IsMatched = true
	r.MatchStatus = request.MatchAccepted
	r.MatchedAt = &now
	mv.UsedVolume += r.EstimatedVolume

	for id, other := range s.matches {
		if id != matchID && other.RequestID == m.RequestID && !s.decidedLocked(id) {
			delete(s.matches, id)
		}
	}
	return nil
}

func (s *memStore) Reject(_ context.Context, matchID types.ID, a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches[matchID]; !ok {
		return ErrNotFound
	}
	if s.decidedLocked(matchID) {
		return ErrDecided
	}
	s.appendActionLocked(a)
	delete(s.matches, matchID)
	return nil
}

func (s *memStore) decidedLocked(matchID types.ID) bool {
	for _, a := range s.actions {
		if a.MatchID == matchID {
			return true
		}
	}
	return false
}

func (s *memStore) actionsLocked(matchID types.ID) []Action {
	var out []Action
	for _, a := range s.actions {
		if a.MatchID == matchID {
			out = append(out, a)
		}
	}
	return out
}

func (s *memStore) appendActionLocked(a Action) {
	s.nextActionID++
	a.ID = s.nextActionID
	s.actions = append(s.actions, a)
}
