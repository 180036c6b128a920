package geo

import (
	"math"
	"testing"
)

func TestDistanceKnownPairs(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64 // meters
		tolerance              float64 // relative
	}{
		// One degree of latitude at the equator.
		{"one degree latitude", 0, 0, 1, 0, 111195, 0.001},
		// Riyadh -> Jeddah, roughly 850 km.
		{"riyadh jeddah", 24.7136, 46.6753, 21.4858, 39.1925, 850000, 0.02},
		// Two points ~1 km apart in a city grid.
		{"short hop", 24.7136, 46.6753, 24.7226, 46.6753, 1000, 0.01},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Distance(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
			if math.Abs(got-tc.want)/tc.want > tc.tolerance {
				t.Errorf("Distance = %.1f, want %.1f (±%.1f%%)", got, tc.want, tc.tolerance*100)
			}
		})
	}
}

func TestDistanceProperties(t *testing.T) {
	if d := Distance(10, 20, 10, 20); d != 0 {
		t.Errorf("distance to self = %f, want 0", d)
	}

	d1 := Distance(24.7, 46.6, 21.4, 39.1)
	d2 := Distance(21.4, 39.1, 24.7, 46.6)
	if math.Abs(d1-d2) > 1e-6 {
		t.Errorf("distance not symmetric: %f vs %f", d1, d2)
	}
}

func TestClampRadius(t *testing.T) {
	if got := ClampRadius(0, 50, 50000); got != 50 {
		t.Errorf("zero radius: got %d, want 50", got)
	}
	if got := ClampRadius(99999999, 100, 200000); got != 200000 {
		t.Errorf("oversized radius: got %d, want 200000", got)
	}
	if got := ClampRadius(5000, 50, 50000); got != 5000 {
		t.Errorf("in-range radius: got %d, want 5000", got)
	}
}

func TestValidLatLon(t *testing.T) {
	if !ValidLatLon(24.7, 46.6) {
		t.Error("valid point rejected")
	}
	if ValidLatLon(91, 0) || ValidLatLon(0, -181) {
		t.Error("out-of-range point accepted")
	}
}
