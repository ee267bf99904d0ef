package shift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teebox/annotator/internal/geo"
	"github.com/teebox/annotator/internal/render"
	"github.com/teebox/annotator/internal/render/memory"
	"github.com/teebox/annotator/pkg/core"
)

func TestParseDirection(t *testing.T) {
	tests := map[string]Direction{"up": Up, "N": Up, "south": Down, "left": Left, "e": Right}
	for in, want := range tests {
		got, err := ParseDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseDirection("sideways")
	assert.Error(t, err)
	assert.Equal(t, "none", Direction(0).String())
}

func TestDelta(t *testing.T) {
	dLat, dLng := Delta(Up, 45, geo.DefaultStepMeters)
	assert.InDelta(t, geo.LatStep(geo.DefaultStepMeters), dLat, 1e-15)
	assert.Zero(t, dLng)

	dLat, dLng = Delta(Left, 45, geo.DefaultStepMeters)
	assert.Zero(t, dLat)
	assert.Less(t, dLng, 0.0)
	assert.InDelta(t, geo.LngStep(geo.DefaultStepMeters, 45), -dLng, 1e-15)

	up, _ := Delta(Up, 0, 1)
	down, _ := Delta(Down, 0, 1)
	assert.Equal(t, up, -down)
}

func fixture() (*memory.Surface, Targets) {
	s := memory.New()
	m := s.AddMarker(core.LatLng{Lat: 10, Lng: 20}, render.Style{})
	p := s.AddPolygon([][]core.LatLng{
		{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 0}, {Lat: 1, Lng: 1}},
		{{Lat: 0.25, Lng: 0.25}, {Lat: 0.5, Lng: 0.25}, {Lat: 0.5, Lng: 0.5}},
	}, render.Style{})
	l := s.AddPolyline([]core.LatLng{{Lat: 5, Lng: 5}, {Lat: 6, Lng: 6}}, render.Style{})
	return s, Targets{Markers: []render.ID{m}, Polygons: []render.ID{p}, Polylines: []render.ID{l}}
}

func TestApplyMovesEveryVertex(t *testing.T) {
	s, tg := fixture()
	res := Apply(s, tg, 0.5, -0.25, nil)
	assert.Equal(t, Result{Moved: 3}, res)

	pos, _ := s.Position(tg.Markers[0])
	assert.Equal(t, core.LatLng{Lat: 10.5, Lng: 19.75}, pos)

	hole, _ := s.Path(tg.Polygons[0], 1)
	assert.Equal(t, core.LatLng{Lat: 0.75, Lng: 0}, hole[0])

	line, _ := s.Path(tg.Polylines[0], 0)
	assert.Equal(t, core.LatLng{Lat: 6.5, Lng: 5.75}, line[1])
}

func TestApplyRoundTrip(t *testing.T) {
	s, tg := fixture()
	before, _ := s.Path(tg.Polygons[0], 0)

	for _, d := range []Direction{Up, Right, Down, Left} {
		dLat, dLng := Delta(d, 10, geo.DefaultStepMeters)
		Apply(s, tg, dLat, dLng, nil)
	}

	after, _ := s.Path(tg.Polygons[0], 0)
	for i := range before {
		assert.InDelta(t, before[i].Lat, after[i].Lat, 1e-12)
		assert.InDelta(t, before[i].Lng, after[i].Lng, 1e-12)
	}
}

func TestApplyEmptyTargets(t *testing.T) {
	s, _ := fixture()
	assert.Equal(t, Result{}, Apply(s, Targets{}, 1, 1, nil))
	assert.Equal(t, 0, Targets{}.Len())
}

func TestApplyCountsFailures(t *testing.T) {
	s, tg := fixture()
	require.NoError(t, s.Remove(tg.Polylines[0]))
	tg.Markers = append(tg.Markers, render.ID(999))

	res := Apply(s, tg, 1, 1, nil)
	assert.Equal(t, Result{Moved: 2, Failed: 2}, res)
}
