// Package annottest provides a small course shared by the package tests.
package annottest

import "github.com/teebox/annotator/pkg/core"

const (
	CourseID = 7
	BaseLat  = 36.5680
	BaseLng  = -121.9500
)

func box(lng, lat, size float64, closed bool) []float64 {
	raw := []float64{
		lng, lat,
		lng, lat + size,
		lng + size, lat + size,
		lng + size, lat,
	}
	if closed {
		raw = append(raw, lng, lat)
	}
	return raw
}

func intPtr(n int) *int { return &n }

// Course returns an undecorated course:
//
//	global: a three-point tree line (100), an OB line (101), a water area (102)
//	hole 1: fairway (200), green (201), tee (202), cup (203)
//	hole 2: bunker (300), a hole-level tree line (301), cup (302)
func Course() *core.CourseData {
	return &core.CourseData{
		ID:   CourseID,
		Name: "Seaside Links",
		Annotations: []core.Annotation{
			{ID: 100, AnnotType: core.AnnotTrees, NumCoords: 3, RawCoords: []float64{
				BaseLng, BaseLat, BaseLng + 0.0001, BaseLat, BaseLng + 0.0002, BaseLat,
			}},
			{ID: 101, AnnotType: core.AnnotOB, NumCoords: 2, RawCoords: []float64{
				BaseLng - 0.001, BaseLat, BaseLng - 0.001, BaseLat + 0.002,
			}},
			{ID: 102, AnnotType: core.AnnotWater, NumCoords: 5, RawCoords: box(BaseLng+0.003, BaseLat, 0.0005, true)},
		},
		Holes: []core.HoleData{
			{ID: 11, HoleNumber: 1, Par: 4, CourseID: CourseID, Annotations: []core.Annotation{
				{ID: 200, HoleID: intPtr(11), AnnotType: core.AnnotFairway, NumCoords: 5, RawCoords: box(BaseLng, BaseLat+0.001, 0.001, true)},
				{ID: 201, HoleID: intPtr(11), AnnotType: core.AnnotGreen, NumCoords: 4, RawCoords: box(BaseLng, BaseLat+0.0025, 0.0003, false)},
				{ID: 202, HoleID: intPtr(11), AnnotType: core.AnnotTee, NumCoords: 1, RawCoords: []float64{BaseLng, BaseLat + 0.0009}},
				{ID: 203, HoleID: intPtr(11), AnnotType: core.AnnotCup, NumCoords: 1, RawCoords: []float64{BaseLng + 0.00015, BaseLat + 0.00265}},
			}},
			{ID: 12, HoleNumber: 2, Par: 3, CourseID: CourseID, Annotations: []core.Annotation{
				{ID: 300, HoleID: intPtr(12), AnnotType: core.AnnotBunker, NumCoords: 4, RawCoords: box(BaseLng+0.002, BaseLat+0.001, 0.0002, false)},
				{ID: 301, HoleID: intPtr(12), AnnotType: core.AnnotTrees, NumCoords: 2, RawCoords: []float64{BaseLng, BaseLat, BaseLng, BaseLat}},
				{ID: 302, HoleID: intPtr(12), AnnotType: core.AnnotCup, NumCoords: 1, RawCoords: []float64{BaseLng + 0.0021, BaseLat + 0.0011}},
			}},
		},
	}
}

// Decorated ids of Course, in build order.
var (
	GlobalIDs = []string{
		"g100-Polyline-0", "g100-Polyline-2", "g100-Polyline-4",
		"g101-Polyline", "g102-Polygon",
	}
	Hole1IDs = []string{"200-Polygon", "201-Polygon", "202-Marker", "203-Marker"}
	Hole2IDs = []string{"300-Polygon", "302-Marker"}
)
