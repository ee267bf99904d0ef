package annot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teebox/annotator/internal/annot/annottest"
	"github.com/teebox/annotator/internal/render"
	"github.com/teebox/annotator/internal/render/memory"
	"github.com/teebox/annotator/pkg/core"
)

func entryIDs(es []Entry) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.AppID)
	}
	return out
}

func TestBuild(t *testing.T) {
	c := annottest.Course()
	Decorate(c)
	s := memory.New()

	entries := Build(s, c, DefaultStyles(), nil)

	want := append(append(append([]string(nil), annottest.GlobalIDs...), annottest.Hole1IDs...), annottest.Hole2IDs...)
	assert.Equal(t, want, entryIDs(entries))
	assert.Equal(t, 6, s.Count(render.KindMarker))
	assert.Equal(t, 1, s.Count(render.KindPolyline))
	assert.Equal(t, 4, s.Count(render.KindPolygon))

	byID := map[string]Entry{}
	for _, e := range entries {
		byID[e.AppID] = e
	}
	assert.Equal(t, HoleFolder(1), byID["203-Marker"].Folder)
	assert.Equal(t, GlobalFolder, byID["g100-Polyline-2"].Folder)
	assert.Equal(t, core.KindMarker, byID["g100-Polyline-2"].Kind)

	fairway, err := s.Path(byID["200-Polygon"].Drawable, 0)
	require.NoError(t, err)
	assert.Len(t, fairway, 4, "closing vertex is dropped")

	o, ok := s.Object(byID["201-Polygon"].Drawable)
	require.True(t, ok)
	assert.Equal(t, DefaultStyles().For("green", false), o.Style)
}

func TestBuildSkipsBadRecords(t *testing.T) {
	c := &core.CourseData{
		Annotations: []core.Annotation{
			{ID: 1, AnnotType: "hazard", RawCoords: []float64{0, 0}},
			{ID: 2, AnnotType: core.AnnotGreen, RawCoords: []float64{0, 0, 1}},
			{ID: 3, AnnotType: core.AnnotCup},
			{ID: 4, AnnotType: core.AnnotGreen},
			{ID: 5, AnnotType: core.AnnotOB},
			{ID: 6, AnnotType: core.AnnotTrees, RawCoords: []float64{0, 0, 1, 1}},
			{ID: 7, AnnotType: core.AnnotTee, RawCoords: []float64{0, 0}},
			{ID: 7, AnnotType: core.AnnotCup, RawCoords: []float64{1, 1}},
		},
	}
	s := memory.New()

	entries := Build(s, c, DefaultStyles(), nil)

	assert.Equal(t, []string{"g7-Marker"}, entryIDs(entries))
	assert.Equal(t, 1, s.Count(0), "duplicate drawable is removed")
}

func TestNewFolderIndex(t *testing.T) {
	c := annottest.Course()
	Decorate(c)
	entries := Build(memory.New(), c, DefaultStyles(), nil)

	ix := NewFolderIndex([]int{2, 1, 3}, entries)

	assert.Equal(t, []Folder{GlobalFolder, HoleFolder(1), HoleFolder(2), HoleFolder(3)}, ix.Folders())
	assert.Equal(t, annottest.Hole1IDs, ix.IDs(HoleFolder(1)))
	assert.Empty(t, ix.IDs(HoleFolder(3)))
	assert.Len(t, ix.IDs(AllFolder), len(entries))
	assert.Equal(t, annottest.GlobalIDs[0], ix.IDs(AllFolder)[0])
	assert.Equal(t, len(entries), ix.Len())

	f, ok := ix.FolderOf("302-Marker")
	require.True(t, ok)
	assert.Equal(t, HoleFolder(2), f)
	assert.False(t, ix.Has("999-Marker"))
}

func TestParseFolder(t *testing.T) {
	tests := map[string]Folder{
		"all":    AllFolder,
		"global": GlobalFolder,
		"Course": GlobalFolder,
		"7":      HoleFolder(7),
	}
	for in, want := range tests {
		got, err := ParseFolder(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
		assert.NotEmpty(t, got.String())
	}
	for _, in := range []string{"", "0", "-1", "hole"} {
		_, err := ParseFolder(in)
		assert.Error(t, err, in)
	}
}
