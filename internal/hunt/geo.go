package hunt

import "math"

// earthRadiusM is the mean Earth radius used for haversine distance.
const earthRadiusM = 6371000.0

// LatLng is a WGS84 coordinate pair in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceM returns the great-circle distance between a and b in meters.
// Symmetric, zero for coincident points; non-finite inputs propagate as
// non-finite output, callers must guard.
func DistanceM(a, b LatLng) float64 {
	toRad := math.Pi / 180.0

	dLat := (b.Lat - a.Lat) * toRad
	dLng := (b.Lng - a.Lng) * toRad

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat + math.Cos(a.Lat*toRad)*math.Cos(b.Lat*toRad)*sinLng*sinLng
	return 2 * earthRadiusM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
