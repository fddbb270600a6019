package domain

import "math"

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Known reports whether both components carry a usable value. Records
// without geodata store their coordinates as zeros, so a zero component
// means "unknown". This also classifies a point exactly on the equator or
// prime meridian as unknown; kept as observed upstream behavior.
func (c Coordinates) Known() bool { return c.Lat != 0 && c.Lon != 0 }

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between origin and
// destination in kilometers, rounded to 2 decimal places, using the
// haversine formula. Returns nil when either coordinate is unknown.
// Pure and symmetric.
func DistanceKm(origin, destination Coordinates) *float64 {
	if !origin.Known() || !destination.Known() {
		return nil
	}

	lat1 := origin.Lat * math.Pi / 180
	lat2 := destination.Lat * math.Pi / 180
	dLat := (destination.Lat - origin.Lat) * math.Pi / 180
	dLon := (destination.Lon - origin.Lon) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	km := math.Round(earthRadiusKm*c*100) / 100
	return &km
}
