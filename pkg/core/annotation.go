// pkg/core/annotation.go
package core

import "strings"

// AnnotType is the semantic type of an annotation as stored by the backend.
type AnnotType string

const (
	AnnotFairway     AnnotType = "fairway"
	AnnotFairwayHole AnnotType = "fairway_hole"
	AnnotGreen       AnnotType = "green"
	AnnotGreenHole   AnnotType = "green_hole"
	AnnotOB          AnnotType = "ob"
	AnnotTeebox      AnnotType = "teebox"
	AnnotBunker      AnnotType = "bunker"
	AnnotBunkerHole  AnnotType = "bunker_hole"
	AnnotWater       AnnotType = "water"
	AnnotWaterHole   AnnotType = "water_hole"
	AnnotAsphalt     AnnotType = "asphalt"
	AnnotDrop        AnnotType = "drop"
	AnnotTrees       AnnotType = "trees"
	AnnotTree        AnnotType = "tree"
	AnnotTee         AnnotType = "tee"
	AnnotCup         AnnotType = "cup"
)

// IsCutout reports whether the type is a "_hole" cutout of its parent region.
func (t AnnotType) IsCutout() bool {
	return strings.HasSuffix(string(t), "_hole")
}

// Parent strips the "_hole" suffix.
func (t AnnotType) Parent() AnnotType {
	return AnnotType(strings.TrimSuffix(string(t), "_hole"))
}

// GeometryKind is the rendered geometry of an annotation.
type GeometryKind int

const (
	KindUnknown GeometryKind = iota
	KindMarker
	KindPolygon
	KindPolyline
)

// String returns the name used inside appIds.
func (k GeometryKind) String() string {
	switch k {
	case KindMarker:
		return "Marker"
	case KindPolygon:
		return "Polygon"
	case KindPolyline:
		return "Polyline"
	default:
		return "Unknown"
	}
}

// Annotation is one geographic feature of a course or a hole.
// RawCoords alternates longitude and latitude: [lon0, lat0, lon1, lat1, ...].
type Annotation struct {
	ID        int       `json:"id"`
	HoleID    *int      `json:"holeId"`
	AnnotType AnnotType `json:"annotType"`
	NumCoords int       `json:"numCoords"`
	RawCoords []float64 `json:"rawCoords"`
	AppID     string    `json:"appId,omitempty"`
}

// LatLng is a geographic point in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Add returns the point offset by the given deltas.
func (p LatLng) Add(dLat, dLng float64) LatLng {
	return LatLng{Lat: p.Lat + dLat, Lng: p.Lng + dLng}
}
