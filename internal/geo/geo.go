// README: Pure great-circle math used by the degraded distance path.
package geo

import (
	"math"

	"movelink/internal/types"
)

const earthRadiusKm = 6371.0

// kmPerDegree is the meridian arc length of one degree on the 6371 km sphere.
const kmPerDegree = earthRadiusKm * math.Pi / 180.0

// HaversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func HaversineKm(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// PointToSegmentKm returns the distance in kilometres from p to the closest
// point on the segment [a, b]. The projection runs in a local tangent plane
// around the segment, which is accurate at the few-hundred-kilometre scale
// this engine operates on; the final distance is a true great-circle value.
// A degenerate segment (a == b) reduces to point-to-point distance.
func PointToSegmentKm(p, a, b types.Point) float64 {
	// Local plane: x east, y north, in kilometres, origin at a.
	cosLat := math.Cos(degreesToRadians((a.Lat + b.Lat) / 2))

	bx := (b.Lng - a.Lng) * kmPerDegree * cosLat
	by := (b.Lat - a.Lat) * kmPerDegree
	px := (p.Lng - a.Lng) * kmPerDegree * cosLat
	py := (p.Lat - a.Lat) * kmPerDegree

	segLenSq := bx*bx + by*by
	t := 0.0
	if segLenSq > 0 {
		t = (px*bx + py*by) / segLenSq
		t = math.Max(0, math.Min(1, t))
	}

	closest := types.Point{
		Lat: a.Lat + t*(b.Lat-a.Lat),
		Lng: a.Lng + t*(b.Lng-a.Lng),
	}
	return HaversineKm(p, closest)
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
