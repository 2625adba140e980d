// README: Match record, decision actions, and qualitative match types.
package matching

import (
	"time"

	"movelink/internal/types"
)

// Type ranks a compatible pair qualitatively. It is orthogonal to
// validity: a partial match can be valid and a perfect one invalid.
type Type string

const (
	TypePerfect Type = "perfect"
	TypeGood    Type = "good"
	TypePartial Type = "partial"
)

type Decision string

const (
	DecisionAccepted Decision = "accepted"
	DecisionRejected Decision = "rejected"
)

// Match links one client request to one move. At most one live match
// exists per (request, move) pair; the store enforces that uniqueness.
type Match struct {
	ID        types.ID
	Reference string

	RequestID types.ID
	MoveID    types.ID

	DistanceKm     int
	DateDiffDays   int
	CombinedVolume float64
	VolumeOK       bool

	Type  Type
	Valid bool

	CreatedAt time.Time
}

// Action is one accept or reject event. Actions are append-only; the most
// recent action for a match id is authoritative for its decision state.
// They intentionally carry no foreign key so the audit trail survives the
// match row's deletion on reject.
type Action struct {
	ID       int64
	MatchID  types.ID
	Decision Decision
	Actor    string
	Notes    string

	CreatedAt time.Time
}

// Pair identifies a (request, move) combination during generation.
type Pair struct {
	RequestID types.ID
	MoveID    types.ID
}

// RequestSummary and MoveSummary carry the display fields the
// presentation layer needs next to each match.
type RequestSummary struct {
	Reference     string
	DepartureCity string
	ArrivalCity   string
	DesiredDate   time.Time
	Volume        float64
}

type MoveSummary struct {
	Carrier       string
	Reference     string
	DepartureCity string
	ArrivalCity   string
	DepartureDate time.Time
	MaxVolume     float64
	UsedVolume    float64
}

// Detail is a match joined with its request/move summaries and decision
// history, ready for display.
type Detail struct {
	Match
	Request RequestSummary
	Move    MoveSummary
	Actions []Action
}
