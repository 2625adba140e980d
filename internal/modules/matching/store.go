// README: Match store backed by PostgreSQL; owns the lifecycle transactions.
package matching

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"movelink/internal/modules/move"
	"movelink/internal/modules/request"
	"movelink/internal/types"
)

type PGStore struct {
	db       *pgxpool.Pool
	requests *request.Store
	moves    *move.Store
}

func NewPGStore(db *pgxpool.Pool, requests *request.Store, moves *move.Store) *PGStore {
	return &PGStore{db: db, requests: requests, moves: moves}
}

func (s *PGStore) ActiveRequests(ctx context.Context) ([]*request.ClientRequest, error) {
	return s.requests.ListActive(ctx)
}

func (s *PGStore) ActiveMoves(ctx context.Context) ([]*move.Move, error) {
	return s.moves.ListActive(ctx)
}

func (s *PGStore) LivePairs(ctx context.Context) (map[Pair]struct{}, error) {
	rows, err := s.db.Query(ctx, `SELECT client_request_id, move_id FROM matches`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pairs := make(map[Pair]struct{})
	for rows.Next() {
		var p Pair
		if err := rows.Scan(&p.RequestID, &p.MoveID); err != nil {
			return nil, err
		}
		pairs[p] = struct{}{}
	}
	return pairs, rows.Err()
}

func (s *PGStore) PruneUndecided(ctx context.Context) (int, error) {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM matches m
		WHERE NOT EXISTS (
			SELECT 1 FROM match_actions a WHERE a.match_id = m.id
		)`)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// Insert writes one match; the unique constraint on (client_request_id,
// move_id) makes check-then-insert safe across concurrent runs.
func (s *PGStore) Insert(ctx context.Context, m *Match) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		INSERT INTO matches (
			id, reference, client_request_id, move_id,
			distance_km, date_diff_days, combined_volume, volume_ok,
			match_type, is_valid, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (client_request_id, move_id) DO NOTHING`,
		string(m.ID), m.Reference, string(m.RequestID), string(m.MoveID),
		m.DistanceKm, m.DateDiffDays, m.CombinedVolume, m.VolumeOK,
		string(m.Type), m.Valid, m.CreatedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*Match, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, reference, client_request_id, move_id,
		       distance_km, date_diff_days, combined_volume, volume_ok,
		       match_type, is_valid, created_at
		FROM matches WHERE id = $1`, string(id))
	return scanMatch(row)
}

func (s *PGStore) ListDetails(ctx context.Context) ([]*Detail, error) {
	rows, err := s.db.Query(ctx, `
		SELECT m.id, m.reference, m.client_request_id, m.move_id,
		       m.distance_km, m.date_diff_days, m.combined_volume, m.volume_ok,
		       m.match_type, m.is_valid, m.created_at,
		       r.reference, r.departure_city, r.arrival_city, r.desired_date, r.estimated_volume,
		       v.carrier, v.reference, v.departure_city, v.arrival_city, v.departure_date,
		       v.max_volume, v.used_volume
		FROM matches m
		JOIN client_requests r ON r.id = m.client_request_id
		JOIN moves v ON v.id = m.move_id
		ORDER BY m.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Detail
	for rows.Next() {
		var d Detail
		err := rows.Scan(
			&d.ID, &d.Reference, &d.RequestID, &d.MoveID,
			&d.DistanceKm, &d.DateDiffDays, &d.CombinedVolume, &d.VolumeOK,
			&d.Type, &d.Valid, &d.CreatedAt,
			&d.Request.Reference, &d.Request.DepartureCity, &d.Request.ArrivalCity,
			&d.Request.DesiredDate, &d.Request.Volume,
			&d.Move.Carrier, &d.Move.Reference, &d.Move.DepartureCity, &d.Move.ArrivalCity,
			&d.Move.DepartureDate, &d.Move.MaxVolume, &d.Move.UsedVolume,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, d := range out {
		actions, err := s.Actions(ctx, d.Match.ID)
		if err != nil {
			return nil, err
		}
		d.Actions = actions
	}
	return out, nil
}

func (s *PGStore) Actions(ctx context.Context, matchID types.ID) ([]Action, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, match_id, decision, actor, notes, created_at
		FROM match_actions
		WHERE match_id = $1
		ORDER BY created_at, id`, string(matchID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Action
	for rows.Next() {
		var a Action
		if err := rows.Scan(&a.ID, &a.MatchID, &a.Decision, &a.Actor, &a.Notes, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Accept runs the whole accept path in one transaction: record the
// action, confirm the request, reserve move volume with a guarded update
// (the one real race in the system), and delete competing undecided
// matches for the same request.
func (s *PGStore) Accept(ctx context.Context, matchID types.ID, a Action) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		m, err := lockMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		decided, err := hasAction(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if decided {
			return ErrDecided
		}

		var volume float64
		err = tx.QueryRow(ctx,
			`SELECT estimated_volume FROM client_requests WHERE id = $1`,
			string(m.RequestID)).Scan(&volume)
		if err != nil {
			return fmt.Errorf("load request volume: %w", err)
		}

		if err := insertAction(ctx, tx, a); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `
			UPDATE client_requests
			SET status = 'confirmed', is_matched = TRUE,
			    match_status = 'accepted', matched_at = now()
			WHERE id = $1 AND status IN ('pending', 'confirmed')`,
			string(m.RequestID))
		if err != nil {
			return err
		}
		if tag.RowsAffected() != 1 {
			return ErrConflict
		}

		// Guarded increment: concurrent accepts against the same move
		// serialize on the row and the capacity check re-evaluates under
		// the lock, so used_volume can never overshoot max_volume.
		tag, err = tx.Exec(ctx, `
			UPDATE moves
			SET used_volume = used_volume + $1
			WHERE id = $2 AND used_volume + $1 <= max_volume`,
			volume, string(m.MoveID))
		if err != nil {
			return err
		}
		if tag.RowsAffected() != 1 {
			return ErrVolumeExceeded
		}

		_, err = tx.Exec(ctx, `
			DELETE FROM matches m
			WHERE m.client_request_id = $1 AND m.id <> $2
			  AND NOT EXISTS (
				SELECT 1 FROM match_actions a WHERE a.match_id = m.id
			  )`,
			string(m.RequestID), string(matchID))
		return err
	})
}

// Reject records the action and deletes the match row in one transaction,
// so the audit trail cannot be lost between the two.
func (s *PGStore) Reject(ctx context.Context, matchID types.ID, a Action) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := lockMatch(ctx, tx, matchID); err != nil {
			return err
		}
		decided, err := hasAction(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if decided {
			return ErrDecided
		}
		if err := insertAction(ctx, tx, a); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM matches WHERE id = $1`, string(matchID))
		if err != nil {
			return err
		}
		if tag.RowsAffected() != 1 {
			return ErrConflict
		}
		return nil
	})
}

func lockMatch(ctx context.Context, tx pgx.Tx, id types.ID) (*Match, error) {
	row := tx.QueryRow(ctx, `
		SELECT id, reference, client_request_id, move_id,
		       distance_km, date_diff_days, combined_volume, volume_ok,
		       match_type, is_valid, created_at
		FROM matches WHERE id = $1
		FOR UPDATE`, string(id))
	return scanMatch(row)
}

func hasAction(ctx context.Context, tx pgx.Tx, matchID types.ID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM match_actions WHERE match_id = $1)`,
		string(matchID)).Scan(&exists)
	return exists, err
}

func insertAction(ctx context.Context, tx pgx.Tx, a Action) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO match_actions (match_id, decision, actor, notes, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		string(a.MatchID), string(a.Decision), a.Actor, a.Notes, a.CreatedAt)
	return err
}

func scanMatch(row pgx.Row) (*Match, error) {
	var m Match
	err := row.Scan(
		&m.ID, &m.Reference, &m.RequestID, &m.MoveID,
		&m.DistanceKm, &m.DateDiffDays, &m.CombinedVolume, &m.VolumeOK,
		&m.Type, &m.Valid, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
