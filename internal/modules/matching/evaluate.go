// README: Pure compatibility evaluation for one (request, move) pair.
package matching

import (
	"math"
	"time"

	"movelink/internal/config"
	"movelink/internal/modules/move"
	"movelink/internal/modules/request"
)

// DateCheck is the outcome of the date gate. Pairs failing it are
// discarded before any distance work happens.
type DateCheck struct {
	Compatible bool
	// DiffDays is 0 for a flexible request whose window contains the
	// departure date, the distance in days to the nearest bound when it
	// does not, and the absolute desired/departure difference otherwise.
	DiffDays int
	// Flexible reports whether the request was evaluated against a usable
	// flexible window. A flexible flag with a missing or inverted window
	// degrades to fixed-date handling and reports false here.
	Flexible bool
}

// EvaluateDates applies the date gate: a flexible request accepts any
// departure inside its window, a fixed-date request tolerates up to
// maxDiffDays around the desired date.
func EvaluateDates(r *request.ClientRequest, departure time.Time, maxDiffDays int) DateCheck {
	if start, end, ok := r.Window(); ok {
		if !departure.Before(start) && !departure.After(end) {
			return DateCheck{Compatible: true, DiffDays: 0, Flexible: true}
		}
		diff := daysBetween(departure, start)
		if d := daysBetween(departure, end); d < diff {
			diff = d
		}
		return DateCheck{Compatible: false, DiffDays: diff, Flexible: true}
	}

	diff := daysBetween(r.DesiredDate, departure)
	return DateCheck{Compatible: diff <= maxDiffDays, DiffDays: diff}
}

// VolumeCheck reports whether the request fits the move's spare capacity.
type VolumeCheck struct {
	OK bool
	// Combined is the move's used volume plus the request's volume.
	Combined float64
}

// EvaluateVolume fits the request's volume against the move's derived
// available capacity. A move already over capacity fits nothing.
func EvaluateVolume(r *request.ClientRequest, m *move.Move) VolumeCheck {
	return VolumeCheck{
		OK:       r.EstimatedVolume <= m.AvailableVolume(),
		Combined: m.UsedVolume + r.EstimatedVolume,
	}
}

// Valid applies the hard thresholds: distance, date closeness, and volume
// must all hold. The date bound is zero for a flexible request already
// inside its window, the configured tolerance otherwise.
func Valid(cfg config.MatchingConfig, distanceKm float64, dates DateCheck, volumeOK bool) bool {
	maxDays := cfg.MaxDateDiffDays
	if dates.Flexible {
		maxDays = 0
	}
	return distanceKm <= cfg.MaxDistanceKm && dates.DiffDays <= maxDays && volumeOK
}

func daysBetween(a, b time.Time) int {
	return int(math.Round(math.Abs(b.Sub(a).Hours()) / 24))
}
