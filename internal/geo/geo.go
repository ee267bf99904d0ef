package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/teebox/annotator/pkg/core"
	"github.com/wroge/wgs84"
)

// ErrInvalidCoordinates is returned when a flat coordinate list cannot be paired up
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// Epsilon is the tolerance, in degrees, under which two vertices are the same point.
const Epsilon = 1e-9

// PairsFromFlat converts [lon0, lat0, lon1, lat1, ...] into points.
// The longitude comes first in the flat form and must stay first.
func PairsFromFlat(raw []float64) ([]core.LatLng, error) {
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length %d", ErrInvalidCoordinates, len(raw))
	}
	out := make([]core.LatLng, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		lng, lat := raw[i], raw[i+1]
		if math.IsNaN(lng) || math.IsNaN(lat) {
			return nil, fmt.Errorf("%w: NaN at offset %d", ErrInvalidCoordinates, i)
		}
		out = append(out, core.LatLng{Lat: lat, Lng: lng})
	}
	return out, nil
}

// FlatFromPairs is the inverse of PairsFromFlat.
func FlatFromPairs(points []core.LatLng) []float64 {
	out := make([]float64, 0, len(points)*2)
	for _, p := range points {
		out = append(out, p.Lng, p.Lat)
	}
	return out
}

// SamePoint reports whether a and b are within Epsilon on both axes.
func SamePoint(a, b core.LatLng) bool {
	return math.Abs(a.Lat-b.Lat) <= Epsilon && math.Abs(a.Lng-b.Lng) <= Epsilon
}

// OpenRing drops the duplicate closing vertex of a ring, if present.
func OpenRing(ring []core.LatLng) []core.LatLng {
	if len(ring) > 1 && SamePoint(ring[0], ring[len(ring)-1]) {
		return ring[:len(ring)-1]
	}
	return ring
}

// Midpoint is the arithmetic mean of latitude and longitude. This is an
// approximation of the geographic midpoint that holds for short segments.
func Midpoint(a, b core.LatLng) core.LatLng {
	return core.LatLng{Lat: (a.Lat + b.Lat) / 2, Lng: (a.Lng + b.Lng) / 2}
}

// Project3857 converts a WGS84 point to web mercator meters (x, y).
func Project3857(p core.LatLng) (x, y float64) {
	f := wgs84.EPSG().Transform(4326, 3857)
	x, y, _ = f(p.Lng, p.Lat, 0)
	return x, y
}
