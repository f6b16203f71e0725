package vector

import "math"

// LatLon is a geographic coordinate in degrees.
type LatLon struct {
	Lat float64
	Lon float64
}

// LatLonToXYZ projects a latitude/longitude pair in degrees onto the unit
// sphere: x = cos(lat)·cos(lon), y = cos(lat)·sin(lon), z = sin(lat).
func LatLonToXYZ(lat, lon float64) [3]float64 {
	latRad := lat * math.Pi / 180
	lonRad := lon * math.Pi / 180
	cosLat := math.Cos(latRad)
	return [3]float64{
		cosLat * math.Cos(lonRad),
		cosLat * math.Sin(lonRad),
		math.Sin(latRad),
	}
}

// LatLonIdxToXYZIdx returns the projection as the 4-vector (x, y, z, idx).
// Pass idx 0 for one-off query projections.
func LatLonIdxToXYZIdx(lat, lon float64, idx int) []float64 {
	xyz := LatLonToXYZ(lat, lon)
	return []float64{xyz[0], xyz[1], xyz[2], float64(idx)}
}
