package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teebox/annotator/internal/annot"
	"github.com/teebox/annotator/internal/annot/annottest"
	"github.com/teebox/annotator/internal/render"
	"github.com/teebox/annotator/internal/render/memory"
	"github.com/teebox/annotator/internal/shift"
	"github.com/teebox/annotator/pkg/core"
)

const totalDrawables = 11

func newLoaded(t *testing.T, mode Mode) (*Controller, *memory.Surface) {
	t.Helper()
	s := memory.New()
	c := New(s, Options{Mode: mode}, nil)
	c.LoadCourse(annottest.Course())
	require.Equal(t, totalDrawables, s.Count(0))
	return c, s
}

func drawable(t *testing.T, c *Controller, appID string) render.ID {
	t.Helper()
	id, ok := c.Drawable(appID)
	require.True(t, ok, appID)
	return id
}

// squareCourse is a course with the single global polygon P of
// vertices (0,0) (0,2) (2,2) (2,0), given as lon,lat pairs.
func squareCourse() *core.CourseData {
	return &core.CourseData{
		ID:   1,
		Name: "Square",
		Annotations: []core.Annotation{
			{ID: 1, AnnotType: core.AnnotGreen, NumCoords: 4, RawCoords: []float64{0, 0, 0, 2, 2, 2, 2, 0}},
		},
	}
}

func TestLoadCourse(t *testing.T) {
	c, s := newLoaded(t, ModeShift)

	assert.Equal(t, annottest.CourseID, c.Course().ID)
	assert.Equal(t, annottest.BaseLat, c.Course().RefLat)
	assert.Len(t, c.Entries(), totalDrawables)
	assert.Equal(t, 0, c.Selection().Len())

	marker := drawable(t, c, "202-Marker")
	assert.True(t, s.Clickable(marker))
	appID, ok := c.AppIDOf(marker)
	require.True(t, ok)
	assert.Equal(t, "202-Marker", appID)

	attrs := c.LogAttrs()
	assert.Len(t, attrs, 3)
}

func TestLoadReplacesCourse(t *testing.T) {
	c, s := newLoaded(t, ModeEdit)
	c.Toggle("200-Polygon")
	require.NotNil(t, c.Session())

	c.LoadCourse(squareCourse())

	assert.Nil(t, c.Session())
	assert.Equal(t, 1, s.Count(0))
	assert.Equal(t, 0, c.Selection().Len())
	_, ok := c.Drawable("200-Polygon")
	assert.False(t, ok)
}

func TestUnload(t *testing.T) {
	c, s := newLoaded(t, ModeShift)
	c.SelectAll(true)

	c.Unload()

	assert.Equal(t, 0, s.Count(0))
	assert.Equal(t, 0, c.Selection().Len())
	assert.Zero(t, c.Course().ID)
	assert.Empty(t, c.Entries())
}

func TestApplyLoadDiscardsStale(t *testing.T) {
	s := memory.New()
	c := New(s, Options{}, nil)

	first := c.BeginLoad()
	second := c.BeginLoad()

	require.True(t, c.ApplyLoad(second, squareCourse()))
	assert.False(t, c.ApplyLoad(first, annottest.Course()))
	assert.Equal(t, "Square", c.Course().Name)
	assert.Equal(t, 1, s.Count(0))
}

func TestInsertScenario(t *testing.T) {
	s := memory.New()
	c := New(s, Options{}, nil)
	c.LoadCourse(squareCourse())
	p := drawable(t, c, "g1-Polygon")

	require.True(t, c.SetMode(ModeEdit))
	require.True(t, c.Click(p))
	require.NotNil(t, c.Session())
	assert.Equal(t, 4, s.Count(render.KindHandle))

	h, ok := c.HandleAt(0)
	require.True(t, ok)
	require.True(t, c.Click(h))
	require.True(t, c.KeyDown(KeyInsert))

	path, err := s.Path(p, 0)
	require.NoError(t, err)
	require.Len(t, path, 5)
	assert.Equal(t, core.LatLng{Lat: 1, Lng: 0}, path[1])
	assert.NoError(t, c.Session().Verify())
}

func TestEditToShiftTearsDownSession(t *testing.T) {
	c, s := newLoaded(t, ModeEdit)
	c.Toggle("200-Polygon")
	c.Toggle("202-Marker")
	require.NotNil(t, c.Session())

	handles := s.Count(render.KindHandle)
	require.Equal(t, c.Session().Len(), handles)
	before := s.Count(0)

	require.True(t, c.SetMode(ModeShift))

	assert.Nil(t, c.Session())
	assert.Equal(t, 0, s.Count(render.KindHandle))
	assert.Equal(t, before-handles, s.Count(0))
	assert.Empty(t, c.Selection().Markers())
	assert.Empty(t, c.Selection().Polygons())
	assert.Empty(t, c.Selection().Polylines())

	o, _ := s.Object(drawable(t, c, "200-Polygon"))
	assert.Equal(t, annot.DefaultStyles().For("fairway", false), o.Style)
}

func TestSetModeSameIsNoop(t *testing.T) {
	c, _ := newLoaded(t, ModeShift)
	c.Toggle("202-Marker")
	assert.False(t, c.SetMode(ModeShift))
	assert.Equal(t, 1, c.Selection().Len())
}

func TestEditModeMarkersInert(t *testing.T) {
	c, s := newLoaded(t, ModeShift)
	marker := drawable(t, c, "203-Marker")

	c.SetMode(ModeEdit)
	assert.False(t, s.Clickable(marker))
	assert.False(t, c.Click(marker))
	assert.Equal(t, 0, c.Selection().Len())

	c.SetMode(ModeShift)
	assert.True(t, s.Clickable(marker))
	assert.True(t, c.Click(marker))
	assert.True(t, c.Selection().IsSelected("203-Marker"))
}

func TestSessionOnlyForSoleShape(t *testing.T) {
	c, s := newLoaded(t, ModeEdit)

	c.Toggle("200-Polygon")
	require.NotNil(t, c.Session())
	assert.Equal(t, "200-Polygon", c.SessionAppID())

	// a second shape via the checkbox tree ends the session
	c.Toggle("g101-Polyline")
	assert.Nil(t, c.Session())
	assert.Equal(t, 0, s.Count(render.KindHandle))

	c.Toggle("200-Polygon")
	require.NotNil(t, c.Session())
	assert.Equal(t, "g101-Polyline", c.SessionAppID())
	assert.Equal(t, 2, s.Count(render.KindHandle))

	c.Toggle("g101-Polyline")
	assert.Nil(t, c.Session())
}

func TestOtherShapesInertDuringSession(t *testing.T) {
	c, s := newLoaded(t, ModeEdit)
	fairway := drawable(t, c, "200-Polygon")
	green := drawable(t, c, "201-Polygon")
	ob := drawable(t, c, "g101-Polyline")

	require.True(t, c.Click(fairway))
	assert.True(t, s.Clickable(fairway))
	assert.False(t, s.Clickable(green))
	assert.False(t, s.Clickable(ob))
	assert.False(t, c.Click(green))

	require.True(t, c.Click(fairway))
	assert.Nil(t, c.Session())
	assert.True(t, s.Clickable(green))
	assert.True(t, s.Clickable(ob))
}

func TestVertexDragAndDeselect(t *testing.T) {
	c, s := newLoaded(t, ModeEdit)
	fairway := drawable(t, c, "200-Polygon")
	c.Click(fairway)

	h, _ := c.HandleAt(2)
	require.True(t, c.Click(h))
	assert.False(t, s.Clickable(fairway))
	assert.False(t, c.Click(fairway), "shape is inert while a vertex is selected")

	target := core.LatLng{Lat: 36.6, Lng: -121.9}
	require.True(t, c.MapClick(target))
	path, _ := s.Path(fairway, 0)
	assert.Equal(t, target, path[2])
	assert.False(t, c.MapClick(core.LatLng{}), "drag ended")

	require.True(t, c.RightClick(h))
	assert.True(t, s.Clickable(fairway))
	_, _, selected := c.Session().Selected()
	assert.False(t, selected)
	assert.False(t, c.RightClick(drawable(t, c, "201-Polygon")))
}

func TestDeleteKeyRespectsFloor(t *testing.T) {
	c, s := newLoaded(t, ModeEdit)
	bunker := drawable(t, c, "300-Polygon")
	c.Click(bunker)
	h, _ := c.HandleAt(0)
	c.Click(h)

	assert.True(t, c.KeyDown(KeyDelete))
	assert.False(t, c.KeyDown(KeyDelete))
	path, _ := s.Path(bunker, 0)
	assert.Len(t, path, 3)
	assert.Equal(t, 3, s.Count(render.KindHandle))
}

func TestShiftMovesSelection(t *testing.T) {
	c, s := newLoaded(t, ModeShift)
	cup := drawable(t, c, "203-Marker")
	before, _ := s.Position(cup)

	assert.False(t, c.KeyDown(KeyUp), "nothing selected")

	c.Toggle("203-Marker")
	c.Toggle("201-Polygon")
	require.True(t, c.KeyDown(KeyUp))
	res := c.Shift(shift.Down)
	assert.Equal(t, 2, res.Moved)
	c.KeyDown(KeyRight)
	c.KeyDown(KeyLeft)

	after, _ := s.Position(cup)
	assert.InDelta(t, before.Lat, after.Lat, 1e-12)
	assert.InDelta(t, before.Lng, after.Lng, 1e-12)

	c.KeyDown(KeyUp)
	moved, _ := s.Position(cup)
	assert.Greater(t, moved.Lat, before.Lat)
}

func TestShiftIgnoredInEditMode(t *testing.T) {
	c, s := newLoaded(t, ModeEdit)
	c.SelectFolder(annot.GlobalFolder, true)
	water := drawable(t, c, "g102-Polygon")
	before, _ := s.Path(water, 0)

	assert.Equal(t, shift.Result{}, c.Shift(shift.Up))
	after, _ := s.Path(water, 0)
	assert.Equal(t, before, after)
}

func TestSelectionRestyles(t *testing.T) {
	c, s := newLoaded(t, ModeShift)
	styles := annot.DefaultStyles()
	green := drawable(t, c, "201-Polygon")

	c.Toggle("201-Polygon")
	o, _ := s.Object(green)
	assert.Equal(t, styles.For("green", true), o.Style)

	c.Toggle("201-Polygon")
	o, _ = s.Object(green)
	assert.Equal(t, styles.For("green", false), o.Style)
}

func TestHoleFolderThenDeselectAll(t *testing.T) {
	c, _ := newLoaded(t, ModeShift)

	ch := c.SelectFolder(annot.HoleFolder(1), true)
	assert.Len(t, ch.Added, 4)
	assert.True(t, c.Selection().FolderChecked(annot.HoleFolder(1)))

	c.SelectAll(false)
	assert.Equal(t, 0, c.Selection().Len())
	for _, cb := range c.Selection().Checkboxes() {
		assert.False(t, cb.Checked)
	}
}

func TestClickUnknownDrawable(t *testing.T) {
	c, _ := newLoaded(t, ModeShift)
	assert.False(t, c.Click(render.ID(9999)))
	assert.False(t, c.KeyDown("F5"))
	assert.False(t, c.KeyDown(KeyInsert))
	assert.False(t, c.MapClick(core.LatLng{}))
	_, ok := c.HandleAt(0)
	assert.False(t, ok)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("EDIT")
	require.NoError(t, err)
	assert.Equal(t, ModeEdit, m)
	assert.Equal(t, "shift", ModeShift.String())
	_, err = ParseMode("draw")
	assert.Error(t, err)
}
