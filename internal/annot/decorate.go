package annot

import "github.com/teebox/annotator/pkg/core"

// Decorate prepares a fetched course for rendering: it assigns appIds,
// expands global tree lines into tree points, drops hole-level tree lines
// and computes RefLat. Annotations that already carry an appId keep it, so
// decorating twice is harmless.
func Decorate(c *core.CourseData) {
	global := make([]core.Annotation, 0, len(c.Annotations))
	for _, a := range c.Annotations {
		if a.AnnotType == core.AnnotTrees {
			global = append(global, ExpandTrees(a)...)
			continue
		}
		if a.AppID == "" {
			a.AppID = appIDFor(a, true)
		}
		global = append(global, a)
	}
	c.Annotations = global

	for i := range c.Holes {
		h := &c.Holes[i]
		kept := make([]core.Annotation, 0, len(h.Annotations))
		for _, a := range h.Annotations {
			// hole-level tree lines are not supported
			if a.AnnotType == core.AnnotTrees {
				continue
			}
			if a.AppID == "" {
				a.AppID = appIDFor(a, false)
			}
			kept = append(kept, a)
		}
		h.Annotations = kept
	}

	c.RefLat = RefLat(c)
}

func appIDFor(a core.Annotation, global bool) string {
	kind, ok := KindOf(a.AnnotType)
	if !ok {
		return ""
	}
	return AppID(a.ID, kind, global)
}

// ExpandTrees splits a tree line into one "tree" point per coordinate pair.
func ExpandTrees(a core.Annotation) []core.Annotation {
	out := make([]core.Annotation, 0, len(a.RawCoords)/2)
	for off := 0; off+1 < len(a.RawCoords); off += 2 {
		out = append(out, core.Annotation{
			ID:        a.ID,
			AnnotType: core.AnnotTree,
			NumCoords: 1,
			RawCoords: []float64{a.RawCoords[off], a.RawCoords[off+1]},
			AppID:     TreeAppID(a.ID, off),
		})
	}
	return out
}

// RefLat is the latitude of the first coordinate pair found, global
// annotations first. Zero when the course has no coordinates.
func RefLat(c *core.CourseData) float64 {
	for _, a := range c.Annotations {
		if len(a.RawCoords) >= 2 {
			return a.RawCoords[1]
		}
	}
	for _, h := range c.Holes {
		for _, a := range h.Annotations {
			if len(a.RawCoords) >= 2 {
				return a.RawCoords[1]
			}
		}
	}
	return 0
}
