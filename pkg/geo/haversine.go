// Package geo filters coordinates by great-circle distance.
package geo

import "math"

// earthRadiusMeters is the equatorial radius used by the distance formula.
const earthRadiusMeters = 6378137

type Point struct {
	Lat float64
	Lon float64
}

// Locatable is anything that can report a geographic coordinate.
type Locatable interface {
	Coordinate() Point
}

// Distance returns the great-circle distance between a and b in meters
// using the haversine formula. Identical points yield exactly 0.
func Distance(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// WithinRadius keeps the candidates whose distance from origin is at most
// radiusMeters. The boundary is inclusive and input order is preserved.
func WithinRadius[T Locatable](origin Point, candidates []T, radiusMeters float64) []T {
	var matched []T
	for _, c := range candidates {
		if Distance(origin, c.Coordinate()) <= radiusMeters {
			matched = append(matched, c)
		}
	}
	return matched
}
