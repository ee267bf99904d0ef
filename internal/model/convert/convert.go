// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/teebox/annotator/internal/model"
	"github.com/teebox/annotator/pkg/core"
)

// coordsToJSON converts a flat coordinate array to datatypes.JSON for DB storage.
func coordsToJSON(raw []float64) datatypes.JSON {
	if len(raw) == 0 {
		return datatypes.JSON("[]")
	}
	data, _ := json.Marshal(raw)
	return datatypes.JSON(data)
}

func coordsFromJSON(data datatypes.JSON) ([]float64, error) {
	if len(data) == 0 {
		return []float64{}, nil
	}
	var raw []float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding raw coords: %w", err)
	}
	return raw, nil
}

// CoreToCourse converts an undecorated course to GORM models, holes and
// annotations included.
func CoreToCourse(c *core.CourseData, mirroredAt time.Time) model.Course {
	out := model.Course{
		ID:              c.ID,
		Name:            c.Name,
		LeaderboardCode: c.LeaderboardCode,
		AchievementCode: c.AchievementCode,
		MirroredAt:      mirroredAt,
		Holes:           make([]model.Hole, 0, len(c.Holes)),
		Annotations:     make([]model.CourseAnnotation, 0, len(c.Annotations)),
	}
	for _, a := range c.Annotations {
		out.Annotations = append(out.Annotations, model.CourseAnnotation{
			ID:        a.ID,
			CourseID:  c.ID,
			AnnotType: string(a.AnnotType),
			NumCoords: a.NumCoords,
			RawCoords: coordsToJSON(a.RawCoords),
		})
	}
	for _, h := range c.Holes {
		hole := model.Hole{
			ID:          h.ID,
			CourseID:    c.ID,
			HoleNumber:  h.HoleNumber,
			Par:         h.Par,
			Annotations: make([]model.HoleAnnotation, 0, len(h.Annotations)),
		}
		for _, a := range h.Annotations {
			hole.Annotations = append(hole.Annotations, model.HoleAnnotation{
				ID:        a.ID,
				HoleID:    h.ID,
				AnnotType: string(a.AnnotType),
				NumCoords: a.NumCoords,
				RawCoords: coordsToJSON(a.RawCoords),
			})
		}
		out.Holes = append(out.Holes, hole)
	}
	return out
}

// CourseToCore converts a GORM course with preloaded associations back to
// the shape the backend serves.
func CourseToCore(m model.Course) (*core.CourseData, error) {
	out := &core.CourseData{
		ID:              m.ID,
		Name:            m.Name,
		LeaderboardCode: m.LeaderboardCode,
		AchievementCode: m.AchievementCode,
		Holes:           make([]core.HoleData, 0, len(m.Holes)),
		Annotations:     make([]core.Annotation, 0, len(m.Annotations)),
	}
	for _, a := range m.Annotations {
		raw, err := coordsFromJSON(a.RawCoords)
		if err != nil {
			return nil, fmt.Errorf("course annotation %d: %w", a.ID, err)
		}
		out.Annotations = append(out.Annotations, core.Annotation{
			ID:        a.ID,
			AnnotType: core.AnnotType(a.AnnotType),
			NumCoords: a.NumCoords,
			RawCoords: raw,
		})
	}
	for _, h := range m.Holes {
		hole := core.HoleData{
			ID:          h.ID,
			HoleNumber:  h.HoleNumber,
			Par:         h.Par,
			CourseID:    h.CourseID,
			Annotations: make([]core.Annotation, 0, len(h.Annotations)),
		}
		for _, a := range h.Annotations {
			raw, err := coordsFromJSON(a.RawCoords)
			if err != nil {
				return nil, fmt.Errorf("hole annotation %d: %w", a.ID, err)
			}
			holeID := h.ID
			hole.Annotations = append(hole.Annotations, core.Annotation{
				ID:        a.ID,
				HoleID:    &holeID,
				AnnotType: core.AnnotType(a.AnnotType),
				NumCoords: a.NumCoords,
				RawCoords: raw,
			})
		}
		out.Holes = append(out.Holes, hole)
	}
	return out, nil
}

// CourseToSummary converts a GORM course to a selector entry.
func CourseToSummary(m model.Course) core.CourseSummary {
	return core.CourseSummary{ID: m.ID, Name: m.Name}
}
