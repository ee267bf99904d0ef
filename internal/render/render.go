// Package render defines the drawing surface the editor mutates. The surface
// owns drawables; the editor only ever holds their IDs and keeps its own side
// tables from ID to annotation.
package render

import (
	"errors"

	"github.com/teebox/annotator/pkg/core"
)

// ErrUnknownDrawable is returned when an ID does not name a live drawable.
var ErrUnknownDrawable = errors.New("unknown drawable")

// ErrPathIndex is returned when a path index is out of range.
var ErrPathIndex = errors.New("path index out of range")

// ID identifies a drawable on a surface. Zero is never a valid ID.
type ID uint64

// Kind is the type of a drawable.
type Kind int

const (
	KindMarker Kind = iota + 1
	KindPolygon
	KindPolyline
	KindHandle
)

func (k Kind) String() string {
	switch k {
	case KindMarker:
		return "marker"
	case KindPolygon:
		return "polygon"
	case KindPolyline:
		return "polyline"
	case KindHandle:
		return "handle"
	}
	return "unknown"
}

// Style is the visual state of a drawable. Fields that do not apply to a
// kind are ignored by the surface.
type Style struct {
	FillColor    string  `json:"fillColor,omitempty"`
	FillOpacity  float64 `json:"fillOpacity,omitempty"`
	StrokeColor  string  `json:"strokeColor,omitempty"`
	StrokeWeight float64 `json:"strokeWeight,omitempty"`
	Scale        float64 `json:"scale,omitempty"`
	ZIndex       int     `json:"zIndex,omitempty"`
}

// Surface is the map widget as seen by the editor.
//
// Markers and handles are single points. Polygons have one or more open
// rings (the surface closes them implicitly). Polylines have one path,
// addressed as ring 0.
type Surface interface {
	AddMarker(pos core.LatLng, style Style) ID
	AddHandle(pos core.LatLng, style Style) ID
	AddPolygon(rings [][]core.LatLng, style Style) ID
	AddPolyline(path []core.LatLng, style Style) ID
	Remove(id ID) error

	Position(id ID) (core.LatLng, error)
	SetPosition(id ID, pos core.LatLng) error

	Rings(id ID) (int, error)
	Path(id ID, ring int) ([]core.LatLng, error)
	SetPathAt(id ID, ring, index int, pos core.LatLng) error
	InsertPathAt(id ID, ring, index int, pos core.LatLng) error
	RemovePathAt(id ID, ring, index int) error

	SetStyle(id ID, style Style) error
	SetClickable(id ID, clickable bool) error
	Clickable(id ID) bool
}
