package domain

import "math"

// EarthRadiusMeters is the mean Earth radius used by DistanceMeters.
const EarthRadiusMeters = 6371000.0

// degToRad is the double-precision quotient of π and 180. Degrees are
// multiplied by it rather than by π and then divided by 180.
const degToRad = 0.017453292519943295

// Coordinate represents a geographic point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat" bson:"lat" yaml:"lat"`
	Lng float64 `json:"lng" bson:"lng" yaml:"lng"`
}

// Equal reports whether both coordinates have exactly the same lat/lng pair.
func (c Coordinate) Equal(o Coordinate) bool {
	return c.Lat == o.Lat && c.Lng == o.Lng
}

// DistanceMeters returns the great-circle distance between a and b using the
// haversine formula.
func DistanceMeters(a, b Coordinate) float64 {
	lat1 := toRadians(a.Lat)
	lng1 := toRadians(a.Lng)
	lat2 := toRadians(b.Lat)
	lng2 := toRadians(b.Lng)

	dLat := lat2 - lat1
	dLng := lng2 - lng1

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

func toRadians(deg float64) float64 {
	return deg * degToRad
}
