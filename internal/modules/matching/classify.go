// README: Qualitative classification of a date-compatible pair.
package matching

import (
	"strings"

	"movelink/internal/modules/move"
	"movelink/internal/modules/request"
)

// Distance bound for the "good" proximity rule.
const goodDistanceKm = 50.0

// Classify assigns perfect/good/partial to a pair that already passed the
// date gate. First matching rule wins:
//
//  1. perfect: both cities match and the date is tight (flexible inside
//     its window, or within 3 days of a fixed desired date);
//  2. good: cities match with looser dates, or the detour stays under
//     50 km with acceptable date closeness;
//  3. partial: everything else that got this far.
func Classify(r *request.ClientRequest, m *move.Move, distanceKm float64, dates DateCheck) Type {
	sameCities := equalCity(r.Departure.City, m.Departure.City) &&
		equalCity(r.Arrival.City, m.Arrival.City)

	tightDates := (dates.Flexible && dates.DiffDays == 0) ||
		(!dates.Flexible && dates.DiffDays <= 3)
	if sameCities && tightDates {
		return TypePerfect
	}

	closeDates := (dates.Flexible && dates.DiffDays == 0) || dates.DiffDays <= 7
	if sameCities || (distanceKm <= goodDistanceKm && closeDates) {
		return TypeGood
	}

	return TypePartial
}

func equalCity(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
