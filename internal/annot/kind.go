// Package annot turns annotation records into drawables. It owns the
// type-to-geometry table, the appId scheme and the folder layout used by
// the selection checkboxes.
package annot

import "github.com/teebox/annotator/pkg/core"

var kindByType = map[core.AnnotType]core.GeometryKind{
	core.AnnotTee:  core.KindMarker,
	core.AnnotCup:  core.KindMarker,
	core.AnnotDrop: core.KindMarker,
	core.AnnotTree: core.KindMarker,

	core.AnnotTrees: core.KindPolyline,
	core.AnnotOB:    core.KindPolyline,

	core.AnnotFairway:     core.KindPolygon,
	core.AnnotFairwayHole: core.KindPolygon,
	core.AnnotGreen:       core.KindPolygon,
	core.AnnotGreenHole:   core.KindPolygon,
	core.AnnotTeebox:      core.KindPolygon,
	core.AnnotBunker:      core.KindPolygon,
	core.AnnotBunkerHole:  core.KindPolygon,
	core.AnnotWater:       core.KindPolygon,
	core.AnnotWaterHole:   core.KindPolygon,
	core.AnnotAsphalt:     core.KindPolygon,
}

// KindOf returns the geometry kind an annotation type renders as.
func KindOf(t core.AnnotType) (core.GeometryKind, bool) {
	k, ok := kindByType[t]
	return k, ok
}

// CutoutStyleKey is the style used by every "_hole" region.
const CutoutStyleKey = "cutout"

// StyleKey normalizes an annotation type into a style table key.
func StyleKey(t core.AnnotType) string {
	if t.IsCutout() {
		return CutoutStyleKey
	}
	return string(t)
}
