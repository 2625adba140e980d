// README: Detour distance estimation with a geometric degraded path.
package matching

import (
	"context"

	"go.uber.org/zap"

	"movelink/internal/geo"
	"movelink/internal/modules/move"
	"movelink/internal/modules/request"
	"movelink/internal/types"
)

// Router is the consumed routing/geocoding collaborator. The estimator
// functions without one (nil) or with one that errors; it only degrades.
type Router interface {
	Geocode(ctx context.Context, query string) (types.Point, error)
	DrivingDistanceKm(ctx context.Context, origin, dest types.Point) (float64, error)
}

// Estimator computes the functional detour distance for a pair: the
// shorter of request-departure→move-departure and
// request-arrival→move-arrival.
type Estimator struct {
	router Router
	cache  *Cache
	log    *zap.Logger
	// defaultKm is returned when no endpoint can be geocoded. It sits
	// above the validity threshold so unresolvable pairs never validate.
	defaultKm float64
}

func NewEstimator(router Router, cache *Cache, defaultKm float64, log *zap.Logger) *Estimator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Estimator{router: router, cache: cache, log: log, defaultKm: defaultKm}
}

// Estimate returns an unrounded distance in kilometres. It never fails:
// routing errors fall back to point-to-segment great-circle distance and
// total geocoding failure yields the conservative default.
func (e *Estimator) Estimate(ctx context.Context, r *request.ClientRequest, m *move.Move) float64 {
	reqDep, ok1 := e.geocode(ctx, r.Departure)
	reqArr, ok2 := e.geocode(ctx, r.Arrival)
	mvDep, ok3 := e.geocode(ctx, m.Departure)
	mvArr, ok4 := e.geocode(ctx, m.Arrival)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		e.log.Warn("geocoding failed, assuming default distance",
			zap.String("request_id", string(r.ID)),
			zap.String("move_id", string(m.ID)),
			zap.Float64("default_km", e.defaultKm))
		return e.defaultKm
	}

	depLeg, okDep := e.route(ctx, reqDep, mvDep)
	arrLeg, okArr := e.route(ctx, reqArr, mvArr)
	if okDep && okArr {
		return min(depLeg, arrLeg)
	}

	// Degraded path: the move's route as a spherical segment, request
	// endpoints projected onto it.
	e.log.Debug("routing unavailable, using geometric fallback",
		zap.String("request_id", string(r.ID)),
		zap.String("move_id", string(m.ID)))
	return min(
		geo.PointToSegmentKm(reqDep, mvDep, mvArr),
		geo.PointToSegmentKm(reqArr, mvDep, mvArr),
	)
}

func (e *Estimator) geocode(ctx context.Context, addr types.Address) (types.Point, bool) {
	if !addr.Complete() {
		return types.Point{}, false
	}
	query := addr.Query()
	if p, ok := e.cache.GetPoint(ctx, query); ok {
		return p, true
	}
	if e.router == nil {
		return types.Point{}, false
	}
	p, err := e.router.Geocode(ctx, query)
	if err != nil {
		e.log.Debug("geocode failed", zap.String("query", query), zap.Error(err))
		return types.Point{}, false
	}
	e.cache.SetPoint(ctx, query, p)
	return p, true
}

func (e *Estimator) route(ctx context.Context, origin, dest types.Point) (float64, bool) {
	if km, ok := e.cache.GetDistance(ctx, origin, dest); ok {
		return km, true
	}
	if e.router == nil {
		return 0, false
	}
	km, err := e.router.DrivingDistanceKm(ctx, origin, dest)
	if err != nil {
		e.log.Debug("routing failed", zap.Error(err))
		return 0, false
	}
	e.cache.SetDistance(ctx, origin, dest, km)
	return km, true
}
