// Package shift moves selected drawables by whole geographic steps.
package shift

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/teebox/annotator/internal/geo"
	"github.com/teebox/annotator/internal/render"
)

// Direction is one of the four arrow keys.
type Direction int

const (
	Up Direction = iota + 1
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// ParseDirection accepts up/down/left/right and the north/south/west/east aliases.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "up", "north", "n":
		return Up, nil
	case "down", "south", "s":
		return Down, nil
	case "left", "west", "w":
		return Left, nil
	case "right", "east", "e":
		return Right, nil
	}
	return 0, fmt.Errorf("invalid direction %q", s)
}

// Delta returns the lat/lng delta of one step in the given direction.
func Delta(d Direction, refLat, stepMeters float64) (dLat, dLng float64) {
	switch d {
	case Up:
		return geo.LatStep(stepMeters), 0
	case Down:
		return -geo.LatStep(stepMeters), 0
	case Left:
		return 0, -geo.LngStep(stepMeters, refLat)
	case Right:
		return 0, geo.LngStep(stepMeters, refLat)
	}
	return 0, 0
}

// Targets are the drawables to move, by kind.
type Targets struct {
	Markers   []render.ID
	Polygons  []render.ID
	Polylines []render.ID
}

// Len is the number of targets.
func (t Targets) Len() int {
	return len(t.Markers) + len(t.Polygons) + len(t.Polylines)
}

// Result counts moved and failed drawables.
type Result struct {
	Moved  int
	Failed int
}

// Apply translates every target by (dLat, dLng). A failure on one drawable
// is logged and does not stop the others.
func Apply(surface render.Surface, t Targets, dLat, dLng float64, log *slog.Logger) Result {
	if log == nil {
		log = slog.Default()
	}
	var res Result
	count := func(id render.ID, kind string, err error) {
		if err != nil {
			res.Failed++
			log.Error("error shifting "+kind, "drawable", id, "error", err)
			return
		}
		res.Moved++
	}

	for _, id := range t.Markers {
		count(id, "marker", shiftPoint(surface, id, dLat, dLng))
	}
	for _, id := range t.Polygons {
		count(id, "polygon", shiftRings(surface, id, dLat, dLng))
	}
	for _, id := range t.Polylines {
		count(id, "polyline", shiftRings(surface, id, dLat, dLng))
	}
	return res
}

func shiftPoint(surface render.Surface, id render.ID, dLat, dLng float64) error {
	pos, err := surface.Position(id)
	if err != nil {
		return err
	}
	return surface.SetPosition(id, pos.Add(dLat, dLng))
}

func shiftRings(surface render.Surface, id render.ID, dLat, dLng float64) error {
	n, err := surface.Rings(id)
	if err != nil {
		return err
	}
	for r := 0; r < n; r++ {
		path, err := surface.Path(id, r)
		if err != nil {
			return err
		}
		for i, p := range path {
			if err := surface.SetPathAt(id, r, i, p.Add(dLat, dLng)); err != nil {
				return err
			}
		}
	}
	return nil
}
