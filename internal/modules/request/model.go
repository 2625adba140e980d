// README: Client relocation request aggregate and status definitions.
package request

import (
	"time"

	"movelink/internal/types"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

// MatchStatus is the request's own match bookkeeping, independent of the
// business status above.
type MatchStatus string

const (
	MatchPending  MatchStatus = "pending"
	MatchAccepted MatchStatus = "accepted"
	MatchRejected MatchStatus = "rejected"
)

type ClientRequest struct {
	ID        types.ID
	Reference string

	Departure types.Address
	Arrival   types.Address

	DesiredDate   time.Time
	FlexibleDates bool
	// RangeStart/RangeEnd bound the acceptable departure window when
	// FlexibleDates is set. Intake enforces RangeStart <= DesiredDate <=
	// RangeEnd; the engine degrades defensively when that does not hold.
	RangeStart *time.Time
	RangeEnd   *time.Time

	EstimatedVolume float64

	Status      Status
	IsMatched   bool
	MatchStatus MatchStatus
	MatchedAt   *time.Time

	CreatedAt time.Time
}

// Active reports whether the request should be considered for matching.
func (r *ClientRequest) Active() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// RouteComplete reports whether both endpoints carry enough address data
// to be geocoded. Incomplete requests are excluded from generation.
func (r *ClientRequest) RouteComplete() bool {
	return r.Departure.Complete() && r.Arrival.Complete()
}

// Window returns the flexible-date window when it is usable: the request
// is flagged flexible, both bounds are present, and the range is not
// inverted. Anything else degrades the request to fixed-date handling.
func (r *ClientRequest) Window() (start, end time.Time, ok bool) {
	if !r.FlexibleDates || r.RangeStart == nil || r.RangeEnd == nil {
		return time.Time{}, time.Time{}, false
	}
	if r.RangeStart.After(*r.RangeEnd) {
		return time.Time{}, time.Time{}, false
	}
	return *r.RangeStart, *r.RangeEnd, true
}
