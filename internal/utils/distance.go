package utils

import "math"

// DistanceKm returns the great-circle distance between two coordinates in
// kilometers, via the spherical law of cosines. The cosine term is clamped
// to [-1, 1] so floating-point drift can never push acos out of its domain.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	radLat1 := degreesToRadians(lat1)
	radLat2 := degreesToRadians(lat2)
	radTheta := degreesToRadians(lon1 - lon2)

	dist := math.Sin(radLat1)*math.Sin(radLat2) +
		math.Cos(radLat1)*math.Cos(radLat2)*math.Cos(radTheta)
	if dist > 1 {
		dist = 1
	}
	if dist < -1 {
		dist = -1
	}

	dist = math.Acos(dist)
	dist = dist * 180 / math.Pi
	dist = dist * 60 * 1.1515 // degrees to statute miles
	return dist * 1.609344    // miles to kilometers
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}
