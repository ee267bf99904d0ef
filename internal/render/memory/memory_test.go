package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teebox/annotator/internal/render"
	"github.com/teebox/annotator/pkg/core"
)

func TestAddAndRemove(t *testing.T) {
	s := New()
	m := s.AddMarker(core.LatLng{Lat: 1, Lng: 2}, render.Style{Scale: 5})
	h := s.AddHandle(core.LatLng{}, render.Style{})
	p := s.AddPolygon([][]core.LatLng{{{Lat: 0}, {Lat: 1}, {Lat: 1, Lng: 1}}}, render.Style{})
	l := s.AddPolyline([]core.LatLng{{Lat: 0}, {Lat: 1}}, render.Style{})

	assert.Equal(t, 4, s.Count(0))
	assert.Equal(t, 1, s.Count(render.KindHandle))
	assert.Equal(t, []render.ID{m, h, p, l}, s.IDs(0))
	assert.True(t, s.Clickable(m))

	require.NoError(t, s.Remove(h))
	assert.ErrorIs(t, s.Remove(h), render.ErrUnknownDrawable)
	assert.False(t, s.Clickable(h))
	assert.Equal(t, 3, s.Count(0))
}

func TestPointOperations(t *testing.T) {
	s := New()
	m := s.AddMarker(core.LatLng{Lat: 1, Lng: 2}, render.Style{})

	pos, err := s.Position(m)
	require.NoError(t, err)
	assert.Equal(t, core.LatLng{Lat: 1, Lng: 2}, pos)

	require.NoError(t, s.SetPosition(m, core.LatLng{Lat: 3, Lng: 4}))
	o, ok := s.Object(m)
	require.True(t, ok)
	assert.Equal(t, core.LatLng{Lat: 3, Lng: 4}, o.Position)

	l := s.AddPolyline([]core.LatLng{{}}, render.Style{})
	_, err = s.Position(l)
	assert.Error(t, err)
	_, err = s.Position(render.ID(999))
	assert.ErrorIs(t, err, render.ErrUnknownDrawable)
}

func TestPathEditing(t *testing.T) {
	s := New()
	src := []core.LatLng{{Lat: 0}, {Lat: 1}, {Lat: 2}}
	l := s.AddPolyline(src, render.Style{})
	src[0] = core.LatLng{Lat: 100}

	path, err := s.Path(l, 0)
	require.NoError(t, err)
	assert.Equal(t, []core.LatLng{{Lat: 0}, {Lat: 1}, {Lat: 2}}, path)

	require.NoError(t, s.InsertPathAt(l, 0, 1, core.LatLng{Lat: 0.5}))
	require.NoError(t, s.InsertPathAt(l, 0, 4, core.LatLng{Lat: 3}))
	path, _ = s.Path(l, 0)
	assert.Equal(t, []core.LatLng{{Lat: 0}, {Lat: 0.5}, {Lat: 1}, {Lat: 2}, {Lat: 3}}, path)

	require.NoError(t, s.SetPathAt(l, 0, 0, core.LatLng{Lat: -1}))
	require.NoError(t, s.RemovePathAt(l, 0, 2))
	path, _ = s.Path(l, 0)
	assert.Equal(t, []core.LatLng{{Lat: -1}, {Lat: 0.5}, {Lat: 2}, {Lat: 3}}, path)

	assert.ErrorIs(t, s.SetPathAt(l, 0, 4, core.LatLng{}), render.ErrPathIndex)
	assert.ErrorIs(t, s.InsertPathAt(l, 0, 6, core.LatLng{}), render.ErrPathIndex)
	assert.ErrorIs(t, s.RemovePathAt(l, 1, 0), render.ErrPathIndex)

	n, err := s.Rings(l)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStyleAndClickable(t *testing.T) {
	s := New()
	p := s.AddPolygon([][]core.LatLng{{{}, {Lat: 1}, {Lng: 1}}}, render.Style{})

	require.NoError(t, s.SetStyle(p, render.Style{FillColor: "#00FF00"}))
	require.NoError(t, s.SetClickable(p, false))
	o, _ := s.Object(p)
	assert.Equal(t, "#00FF00", o.Style.FillColor)
	assert.False(t, s.Clickable(p))

	assert.ErrorIs(t, s.SetStyle(render.ID(42), render.Style{}), render.ErrUnknownDrawable)
	assert.ErrorIs(t, s.SetClickable(render.ID(42), true), render.ErrUnknownDrawable)
}
