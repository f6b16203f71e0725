package vector

import "math"

// EarthRadiusKm is the mean Earth radius used for kilometre conversions.
const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometres between two
// latitude/longitude pairs in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	return EarthRadiusKm * CentralAngle(lat1, lon1, lat2, lon2)
}

// CentralAngle returns the angle in radians subtended at the sphere centre by
// two latitude/longitude pairs in degrees.
func CentralAngle(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can push a past 1 for near-antipodal points
	a = math.Min(math.Max(a, 0), 1)
	return 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// ChordToAngle converts a squared chord distance between two unit-sphere
// points into the central angle in radians.
func ChordToAngle(sqChord float64) float64 {
	half := math.Sqrt(sqChord) / 2
	if half > 1 {
		half = 1
	}
	return 2 * math.Asin(half)
}

// ChordToKm converts a squared chord distance into a great-circle distance in
// kilometres.
func ChordToKm(sqChord float64) float64 {
	return EarthRadiusKm * ChordToAngle(sqChord)
}
