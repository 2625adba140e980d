// README: Move store backed by PostgreSQL.
package move

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"movelink/internal/types"
)

const moveColumns = `
	id, carrier, reference,
	departure_postal, departure_city,
	arrival_postal, arrival_city,
	departure_date, max_volume, used_volume,
	status, custom_status, created_at`

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, m *Move) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO moves (
			id, carrier, reference,
			departure_postal, departure_city,
			arrival_postal, arrival_city,
			departure_date, max_volume, used_volume,
			status, custom_status, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13
		)`,
		string(m.ID), m.Carrier, m.Reference,
		m.Departure.Postal, m.Departure.City,
		m.Arrival.Postal, m.Arrival.City,
		m.DepartureDate, m.MaxVolume, m.UsedVolume,
		string(m.Status), m.CustomStatus, m.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Move, error) {
	row := s.db.QueryRow(ctx, `SELECT `+moveColumns+` FROM moves WHERE id = $1`, string(id))
	return scanMove(row)
}

// ListActive returns confirmed moves whose custom status is not terminal.
func (s *Store) ListActive(ctx context.Context) ([]*Move, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+moveColumns+`
		FROM moves
		WHERE status = 'confirmed' AND custom_status <> 'termine'
		ORDER BY departure_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Move
	for rows.Next() {
		m, err := scanMove(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMove(row pgx.Row) (*Move, error) {
	var m Move
	err := row.Scan(
		&m.ID, &m.Carrier, &m.Reference,
		&m.Departure.Postal, &m.Departure.City,
		&m.Arrival.Postal, &m.Arrival.City,
		&m.DepartureDate, &m.MaxVolume, &m.UsedVolume,
		&m.Status, &m.CustomStatus, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
