// README: Carrier capacity unit (one truck trip) and status definitions.
package move

import (
	"time"

	"movelink/internal/types"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Custom operational statuses used by carriers to flag finished trips.
const (
	CustomEnCours = "en_cours"
	CustomTermine = "termine"
)

type Move struct {
	ID        types.ID
	Carrier   string
	Reference string

	Departure types.Address
	Arrival   types.Address

	DepartureDate time.Time

	MaxVolume  float64
	UsedVolume float64

	Status       Status
	CustomStatus string

	CreatedAt time.Time
}

// AvailableVolume derives the spare capacity. It is never stored; a
// negative result means the move is over capacity and nothing fits.
func (m *Move) AvailableVolume() float64 {
	return m.MaxVolume - m.UsedVolume
}

// Active reports whether the move should be offered to the matcher.
func (m *Move) Active() bool {
	return m.Status == StatusConfirmed && m.CustomStatus != CustomTermine
}
