// README: Client request store backed by PostgreSQL.
package request

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"movelink/internal/types"
)

const requestColumns = `
	id, reference,
	departure_postal, departure_city, departure_country,
	arrival_postal, arrival_city, arrival_country,
	desired_date, flexible_dates, date_range_start, date_range_end,
	estimated_volume, status, is_matched, match_status, matched_at, created_at`

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, r *ClientRequest) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO client_requests (
			id, reference,
			departure_postal, departure_city, departure_country,
			arrival_postal, arrival_city, arrival_country,
			desired_date, flexible_dates, date_range_start, date_range_end,
			estimated_volume, status, is_matched, match_status, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14, $15, $16, $17
		)`,
		string(r.ID), r.Reference,
		r.Departure.Postal, r.Departure.City, r.Departure.Country,
		r.Arrival.Postal, r.Arrival.City, r.Arrival.Country,
		r.DesiredDate, r.FlexibleDates, r.RangeStart, r.RangeEnd,
		r.EstimatedVolume, string(r.Status), r.IsMatched, string(r.MatchStatus), r.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*ClientRequest, error) {
	row := s.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM client_requests WHERE id = $1`, string(id))
	return scanRequest(row)
}

// ListActive returns requests still eligible for matching.
func (s *Store) ListActive(ctx context.Context) ([]*ClientRequest, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+requestColumns+`
		FROM client_requests
		WHERE status IN ('pending', 'confirmed')
		ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ClientRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Complete marks the physical move as done. The transition is guarded so a
// concurrently retired request does not get resurrected.
func (s *Store) Complete(ctx context.Context, id types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE client_requests
		SET status = 'completed'
		WHERE id = $1 AND status IN ('pending', 'confirmed')`,
		string(id),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanRequest(row pgx.Row) (*ClientRequest, error) {
	var r ClientRequest
	var rangeStart, rangeEnd, matchedAt *time.Time
	err := row.Scan(
		&r.ID, &r.Reference,
		&r.Departure.Postal, &r.Departure.City, &r.Departure.Country,
		&r.Arrival.Postal, &r.Arrival.City, &r.Arrival.Country,
		&r.DesiredDate, &r.FlexibleDates, &rangeStart, &rangeEnd,
		&r.EstimatedVolume, &r.Status, &r.IsMatched, &r.MatchStatus, &matchedAt, &r.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.RangeStart = rangeStart
	r.RangeEnd = rangeEnd
	r.MatchedAt = matchedAt
	return &r, nil
}
