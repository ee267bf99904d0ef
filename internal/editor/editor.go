// Package editor is the mode controller. It owns the drawables of the
// loaded course, the selection sets and the vertex edit session, and routes
// every input to the shift engine or the edit engine depending on the mode.
//
// A Controller is not safe for concurrent use: all calls are expected to
// come from the goroutine draining the dispatcher.
package editor

import (
	"log/slog"
	"sort"
	"sync/atomic"

	"github.com/teebox/annotator/internal/annot"
	"github.com/teebox/annotator/internal/cache"
	"github.com/teebox/annotator/internal/course"
	"github.com/teebox/annotator/internal/geo"
	"github.com/teebox/annotator/internal/render"
	"github.com/teebox/annotator/internal/selection"
	"github.com/teebox/annotator/internal/shift"
	"github.com/teebox/annotator/internal/vertex"
	"github.com/teebox/annotator/pkg/core"
)

// Options configures a Controller.
type Options struct {
	StepMeters float64
	Mode       Mode
	Styles     *annot.Styles
}

// Controller is the annotation editing state machine.
type Controller struct {
	surface render.Surface
	styles  *annot.Styles
	step    float64
	log     *slog.Logger

	course    *course.Context
	drawables *cache.Drawables
	entries   map[string]annot.Entry
	order     []string
	sel       *selection.Manager

	mode         atomic.Int32
	session      *vertex.Session
	sessionAppID string
}

// New creates a controller drawing on surface.
func New(surface render.Surface, opts Options, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	if opts.StepMeters <= 0 {
		opts.StepMeters = geo.DefaultStepMeters
	}
	if opts.Styles == nil {
		opts.Styles = annot.DefaultStyles()
	}
	c := &Controller{
		surface:   surface,
		styles:    opts.Styles,
		step:      opts.StepMeters,
		log:       log,
		course:    course.NewContext(),
		drawables: cache.NewDrawables(),
		entries:   make(map[string]annot.Entry),
		sel:       selection.New(log),
	}
	c.mode.Store(int32(opts.Mode))
	return c
}

// Mode is the current input mode.
func (c *Controller) Mode() Mode { return Mode(c.mode.Load()) }

// Selection exposes the selection sets and their checkbox view.
func (c *Controller) Selection() *selection.Manager { return c.sel }

// Session is the open vertex edit session, or nil.
func (c *Controller) Session() *vertex.Session { return c.session }

// SessionAppID is the appId of the shape being edited, or "".
func (c *Controller) SessionAppID() string { return c.sessionAppID }

// Course is the loaded course, or a placeholder with ID 0.
func (c *Controller) Course() *core.CourseData { return c.course.GetCourse() }

// Surface is the surface the controller draws on.
func (c *Controller) Surface() render.Surface { return c.surface }

// Drawable returns the drawable of an appId.
func (c *Controller) Drawable(appID string) (render.ID, bool) {
	id, _, ok := c.drawables.Get(appID)
	return id, ok
}

// AppIDOf returns the appId of a drawable.
func (c *Controller) AppIDOf(id render.ID) (string, bool) {
	appID, _, ok := c.drawables.AppID(id)
	return appID, ok
}

// Entries returns the rendered annotations in build order.
func (c *Controller) Entries() []annot.Entry {
	out := make([]annot.Entry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.entries[id])
	}
	return out
}

// LogAttrs describes the controller state for log records. It only reads
// state that is safe to read from other goroutines.
func (c *Controller) LogAttrs() []slog.Attr {
	cd := c.course.GetCourse()
	attrs := []slog.Attr{slog.String("mode", c.Mode().String())}
	if cd.ID != 0 {
		attrs = append(attrs, slog.Int("courseId", cd.ID), slog.String("course", cd.Name))
	}
	return attrs
}

// BeginLoad starts a course fetch. Pass the returned sequence number to
// ApplyLoad when the fetch completes.
func (c *Controller) BeginLoad() uint64 {
	return c.course.NextLoad()
}

// ApplyLoad loads a fetched course unless a newer fetch has started since
// seq was issued.
func (c *Controller) ApplyLoad(seq uint64, cd *core.CourseData) bool {
	if !c.course.IsCurrent(seq) {
		c.log.Warn("discarding stale course fetch", "seq", seq, "courseId", cd.ID)
		return false
	}
	c.LoadCourse(cd)
	return true
}

// LoadCourse tears down the current course and renders cd.
func (c *Controller) LoadCourse(cd *core.CourseData) {
	c.Unload()

	annot.Decorate(cd)
	entries := annot.Build(c.surface, cd, c.styles, c.log)
	for _, e := range entries {
		c.drawables.Set(e.AppID, e.Kind, e.Drawable)
		c.entries[e.AppID] = e
		c.order = append(c.order, e.AppID)
	}

	holes := make([]int, 0, len(cd.Holes))
	for _, h := range cd.Holes {
		holes = append(holes, h.HoleNumber)
	}
	c.sel.Reset(annot.NewFolderIndex(holes, entries))
	c.course.SetCourse(cd)
	c.applyClickability()

	c.log.Info("course loaded", "courseId", cd.ID, "name", cd.Name, "drawables", len(entries), "holes", len(cd.Holes))
}

// Unload removes every drawable and resets all state.
func (c *Controller) Unload() {
	c.closeSession()
	removed := 0
	for _, id := range c.drawables.Reset() {
		if err := c.surface.Remove(id); err != nil {
			c.log.Warn("error removing drawable", "drawable", id, "error", err)
			continue
		}
		removed++
	}
	c.entries = make(map[string]annot.Entry)
	c.order = nil
	c.sel.Reset(annot.FolderIndex{})
	if c.course.Loaded() {
		c.log.Debug("course unloaded", "courseId", c.course.GetCourse().ID, "drawables", removed)
	}
	c.course.Clear()
}

// SetMode switches between shift and edit. Switching closes any session and
// clears the selection.
func (c *Controller) SetMode(m Mode) bool {
	if m == c.Mode() {
		return false
	}
	c.closeSession()
	c.restyle(c.sel.Clear())
	c.mode.Store(int32(m))
	c.syncSession()
	c.log.Info("mode changed", "mode", m.String())
	return true
}

// Shift moves the selection one step. It does nothing in edit mode.
func (c *Controller) Shift(d shift.Direction) shift.Result {
	if c.Mode() != ModeShift {
		c.log.Debug("ignoring shift in edit mode", "direction", d.String())
		return shift.Result{}
	}
	t := c.targets()
	if t.Len() == 0 {
		return shift.Result{}
	}
	dLat, dLng := shift.Delta(d, c.course.GetCourse().RefLat, c.step)
	res := shift.Apply(c.surface, t, dLat, dLng, c.log)
	c.log.Debug("selection shifted", "direction", d.String(), "moved", res.Moved, "failed", res.Failed)
	return res
}

func (c *Controller) targets() shift.Targets {
	ids := func(appIDs []string) []render.ID {
		out := make([]render.ID, 0, len(appIDs))
		for _, a := range appIDs {
			if id, ok := c.Drawable(a); ok {
				out = append(out, id)
			}
		}
		return out
	}
	return shift.Targets{
		Markers:   ids(c.sel.Markers()),
		Polygons:  ids(c.sel.Polygons()),
		Polylines: ids(c.sel.Polylines()),
	}
}

// Toggle flips the selection of one annotation.
func (c *Controller) Toggle(appID string) bool {
	on, ch := c.sel.ToggleOne(appID)
	c.afterChange(ch)
	return on
}

// SelectFolder selects or deselects a whole folder.
func (c *Controller) SelectFolder(f annot.Folder, selected bool) selection.Change {
	ch := c.sel.SelectFolder(f, selected)
	c.afterChange(ch)
	return ch
}

// SelectAll selects or deselects every annotation.
func (c *Controller) SelectAll(selected bool) selection.Change {
	return c.SelectFolder(annot.AllFolder, selected)
}

// Click handles a click on a drawable. A click on a vertex handle selects
// it; a click on an annotation toggles its selection. Clicks on drawables
// that are currently not clickable are dropped.
func (c *Controller) Click(id render.ID) bool {
	if c.session != nil && c.session.Owns(id) {
		return c.session.ClickHandle(id)
	}
	appID, ok := c.AppIDOf(id)
	if !ok {
		c.log.Debug("click on unknown drawable", "drawable", id)
		return false
	}
	if !c.surface.Clickable(id) {
		c.log.Debug("click on inert drawable", "appId", appID)
		return false
	}
	c.Toggle(appID)
	return true
}

// RightClick on a vertex handle or the edited shape deselects the vertex.
func (c *Controller) RightClick(id render.ID) bool {
	if c.session == nil {
		return false
	}
	if c.session.Owns(id) || id == c.session.Shape() {
		return c.session.Deselect()
	}
	return false
}

// MapClick moves the armed vertex, if any.
func (c *Controller) MapClick(pos core.LatLng) bool {
	if c.session == nil {
		return false
	}
	return c.session.MoveSelected(pos)
}

// KeyDown routes a key: arrows shift in shift mode, Insert and Delete edit
// vertices in edit mode, Escape deselects the vertex.
func (c *Controller) KeyDown(key string) bool {
	switch key {
	case KeyUp, KeyDown, KeyLeft, KeyRight:
		d := map[string]shift.Direction{KeyUp: shift.Up, KeyDown: shift.Down, KeyLeft: shift.Left, KeyRight: shift.Right}[key]
		return c.Shift(d).Moved > 0
	case KeyInsert:
		return c.session != nil && c.session.Insert()
	case KeyDelete:
		return c.session != nil && c.session.Delete()
	case KeyEscape:
		return c.session != nil && c.session.Deselect()
	}
	c.log.Debug("ignoring key", "key", key)
	return false
}

// HandleAt returns the handle of vertex index in the open session.
func (c *Controller) HandleAt(index int) (render.ID, bool) {
	if c.session == nil {
		return 0, false
	}
	hs := c.session.Handles()
	if index < 0 || index >= len(hs) {
		return 0, false
	}
	return hs[index], true
}

func (c *Controller) afterChange(ch selection.Change) {
	if ch.Empty() {
		return
	}
	c.restyle(ch)
	c.syncSession()
}

func (c *Controller) restyle(ch selection.Change) {
	touched := ch.Touched()
	sort.Strings(touched)
	for _, appID := range touched {
		e, ok := c.entries[appID]
		if !ok {
			continue
		}
		style := c.styles.For(e.StyleKey, c.sel.IsSelected(appID))
		if err := c.surface.SetStyle(e.Drawable, style); err != nil {
			c.log.Warn("error restyling drawable", "appId", appID, "error", err)
		}
	}
}

// syncSession keeps one session open exactly while edit mode has a single
// polygon or polyline selected.
func (c *Controller) syncSession() {
	id, kind, sole := c.sel.SoleShape()
	if c.Mode() != ModeEdit {
		sole = false
	}
	if c.session != nil && (!sole || id != c.sessionAppID) {
		c.closeSession()
	}
	if sole && c.session == nil {
		c.openSession(id, kind)
	}
	c.applyClickability()
}

func (c *Controller) openSession(appID string, kind core.GeometryKind) {
	shape, ok := c.Drawable(appID)
	if !ok {
		return
	}
	styles := vertex.HandleStyles{Normal: c.styles.Handle, Selected: c.styles.HandleSelected}
	sess, err := vertex.Open(c.surface, shape, kind, styles, c.log)
	if err != nil {
		c.log.Error("error opening edit session", "appId", appID, "error", err)
		return
	}
	c.session = sess
	c.sessionAppID = appID
}

func (c *Controller) closeSession() {
	if c.session == nil {
		return
	}
	c.session.Close()
	c.session = nil
	c.sessionAppID = ""
}

// applyClickability makes markers inert in edit mode and, while a session
// is open, every shape other than the edited one.
func (c *Controller) applyClickability() {
	edit := c.Mode() == ModeEdit
	set := func(p cache.Pair, clickable bool) {
		if err := c.surface.SetClickable(p.ID, clickable); err != nil {
			c.log.Warn("error setting clickability", "appId", p.AppID, "error", err)
		}
	}
	for _, p := range c.drawables.IDs(core.KindMarker) {
		set(p, !edit)
	}
	for _, kind := range []core.GeometryKind{core.KindPolygon, core.KindPolyline} {
		for _, p := range c.drawables.IDs(kind) {
			if c.session != nil && p.AppID == c.sessionAppID {
				// the session decides while a vertex is selected
				continue
			}
			set(p, c.session == nil)
		}
	}
}
