// Package geo provides great-circle distance helpers mirroring the
// haversine expression used by the proximity SQL, so ranking behavior can
// be reasoned about and tested in-process.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used by the spherical model.
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters between two
// WGS84 points given in degrees.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)

	return EarthRadiusMeters * 2 * math.Asin(math.Min(1, math.Sqrt(a)))
}

// ClampRadius bounds a radius in meters to [min, max]. A zero or negative
// radius resolves to the minimum.
func ClampRadius(radius, min, max int) int {
	if radius < min {
		return min
	}
	if radius > max {
		return max
	}
	return radius
}

// ValidLatLon reports whether the coordinates denote a real WGS84 point.
func ValidLatLon(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
