package geo

import (
	"math"
	"testing"

	"movelink/internal/types"
)

var (
	paris  = types.Point{Lat: 48.8566, Lng: 2.3522}
	lyon   = types.Point{Lat: 45.7640, Lng: 4.8357}
	dijon  = types.Point{Lat: 47.3220, Lng: 5.0415}
	newYrk = types.Point{Lat: 40.7128, Lng: -74.0060}
	losAng = types.Point{Lat: 34.0522, Lng: -118.2437}
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		a, b      types.Point
		wantKm    float64
		tolerance float64
	}{
		{
			name: "same point",
			a:    paris, b: paris,
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name: "Paris to Lyon (~392km)",
			a:    paris, b: lyon,
			wantKm:    392,
			tolerance: 5,
		},
		{
			name: "New York to Los Angeles (~3944km)",
			a:    newYrk, b: losAng,
			wantKm:    3944,
			tolerance: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("HaversineKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	d1 := HaversineKm(paris, lyon)
	d2 := HaversineKm(lyon, paris)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}

func TestPointToSegmentKm_EndpointsAndInterior(t *testing.T) {
	// Segment endpoints are at distance zero.
	if d := PointToSegmentKm(paris, paris, lyon); d > 0.001 {
		t.Errorf("distance from segment start = %f, want ~0", d)
	}
	if d := PointToSegmentKm(lyon, paris, lyon); d > 0.001 {
		t.Errorf("distance from segment end = %f, want ~0", d)
	}

	// Dijon sits roughly 90km east of the Paris-Lyon axis; the segment
	// distance must be far below the distance to either endpoint.
	d := PointToSegmentKm(dijon, paris, lyon)
	if d <= 0 || d >= HaversineKm(dijon, paris) || d >= HaversineKm(dijon, lyon) {
		t.Errorf("segment distance %f not below endpoint distances (%f, %f)",
			d, HaversineKm(dijon, paris), HaversineKm(dijon, lyon))
	}
}

func TestPointToSegmentKm_ClampsToEndpoints(t *testing.T) {
	// A point "behind" the segment start projects onto the start itself.
	behind := types.Point{Lat: 49.5, Lng: 1.8}
	d := PointToSegmentKm(behind, paris, lyon)
	want := HaversineKm(behind, paris)
	if math.Abs(d-want) > 0.5 {
		t.Errorf("clamped distance = %f, want endpoint distance %f", d, want)
	}
}

func TestPointToSegmentKm_DegenerateSegment(t *testing.T) {
	d := PointToSegmentKm(lyon, paris, paris)
	want := HaversineKm(lyon, paris)
	if math.Abs(d-want) > 0.001 {
		t.Errorf("degenerate segment distance = %f, want %f", d, want)
	}
}

func TestPointToSegmentKm_FiniteEverywhere(t *testing.T) {
	coords := []types.Point{
		{Lat: 0, Lng: 0},
		{Lat: 90, Lng: 0},
		{Lat: -90, Lng: 0},
		{Lat: 45, Lng: 180},
		{Lat: -45, Lng: -180},
		{Lat: 48.85, Lng: 2.35},
	}
	for _, p := range coords {
		for _, a := range coords {
			for _, b := range coords {
				d := PointToSegmentKm(p, a, b)
				if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
					t.Fatalf("PointToSegmentKm(%v, %v, %v) = %f", p, a, b, d)
				}
			}
		}
	}
}
