package geo

import (
	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/teebox/annotator/pkg/core"
)

// Projection maps a point to the X, Y stored in an exported geometry.
type Projection func(core.LatLng) (x, y float64)

// LonLat keeps EPSG:4326 axis order (x = longitude).
func LonLat(p core.LatLng) (float64, float64) {
	return p.Lng, p.Lat
}

// WebMercator projects to EPSG:3857.
func WebMercator(p core.LatLng) (float64, float64) {
	return Project3857(p)
}

func sequence(points []core.LatLng, proj Projection) geom.Sequence {
	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		x, y := proj(p)
		flat = append(flat, x, y)
	}
	return geom.NewSequence(flat, geom.DimXY)
}

// PointGeometry converts a marker position.
func PointGeometry(p core.LatLng, proj Projection) geom.Geometry {
	x, y := proj(p)
	return geom.NewPoint(geom.Coordinates{XY: geom.XY{X: x, Y: y}, Type: geom.DimXY}).AsGeometry()
}

// LineGeometry converts a polyline path. Paths with fewer than two vertices
// are exported as a point (or empty) since a LineString needs two.
func LineGeometry(path []core.LatLng, proj Projection) geom.Geometry {
	switch len(path) {
	case 0:
		return geom.LineString{}.AsGeometry()
	case 1:
		return PointGeometry(path[0], proj)
	}
	return geom.NewLineString(sequence(path, proj)).AsGeometry()
}

// PolygonGeometry converts open rings (no closing vertex) into a polygon,
// closing each ring on the way.
func PolygonGeometry(rings [][]core.LatLng, proj Projection) geom.Geometry {
	lines := make([]geom.LineString, 0, len(rings))
	for _, ring := range rings {
		ring = OpenRing(ring)
		if len(ring) < 3 {
			continue
		}
		closed := make([]core.LatLng, 0, len(ring)+1)
		closed = append(closed, ring...)
		closed = append(closed, ring[0])
		lines = append(lines, geom.NewLineString(sequence(closed, proj)))
	}
	return geom.NewPolygon(lines).AsGeometry()
}
