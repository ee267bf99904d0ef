package vertex

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/teebox/annotator/internal/geo"
	"github.com/teebox/annotator/internal/render"
	"github.com/teebox/annotator/pkg/core"
)

const (
	// MinPolygonVertices is the smallest polygon a delete may leave behind
	// plus one: a polygon with this many vertices refuses further deletes.
	MinPolygonVertices = 3

	// SinglePointOffsetDeg is how far north the synthesized second vertex
	// of a one-point polyline is placed.
	SinglePointOffsetDeg = 0.00001
)

var (
	ErrNotEditable = errors.New("shape is not editable")
	ErrEmptyPath   = errors.New("shape has no vertices")
)

// HandleStyles is the look of an unselected and a selected handle.
type HandleStyles struct {
	Normal   render.Style
	Selected render.Style
}

// Session edits the outer ring of one polygon or the path of one polyline.
//
// A session owns one handle per vertex. At most one handle is selected;
// selecting a handle arms the next map click to move it (the dragging
// state) and makes the shape itself non-clickable so the click reaches
// the map.
type Session struct {
	surface render.Surface
	shape   render.ID
	kind    core.GeometryKind
	styles  HandleStyles
	log     *slog.Logger

	ring     *Ring
	byHandle map[render.ID]*Node
	selected *Node
	dragging bool
}

// Open starts a session on shape, creating one handle per vertex.
// A polygon path whose last vertex repeats the first loses the duplicate.
func Open(surface render.Surface, shape render.ID, kind core.GeometryKind, styles HandleStyles, log *slog.Logger) (*Session, error) {
	if kind != core.KindPolygon && kind != core.KindPolyline {
		return nil, fmt.Errorf("%w: %s", ErrNotEditable, kind)
	}
	if log == nil {
		log = slog.Default()
	}

	path, err := surface.Path(shape, 0)
	if err != nil {
		return nil, fmt.Errorf("reading path: %w", err)
	}
	if kind == core.KindPolygon && len(path) > 1 && geo.SamePoint(path[0], path[len(path)-1]) {
		if err := surface.RemovePathAt(shape, 0, len(path)-1); err != nil {
			return nil, fmt.Errorf("removing closing vertex: %w", err)
		}
		path = path[:len(path)-1]
	}
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}

	handles := make([]render.ID, len(path))
	for i, p := range path {
		handles[i] = surface.AddHandle(p, styles.Normal)
	}

	s := &Session{
		surface:  surface,
		shape:    shape,
		kind:     kind,
		styles:   styles,
		log:      log,
		ring:     NewRing(kind == core.KindPolygon, handles),
		byHandle: make(map[render.ID]*Node, len(handles)),
	}
	for _, n := range s.ring.Nodes() {
		s.byHandle[n.Handle] = n
	}

	log.Debug("vertex session opened", "shape", shape, "kind", kind.String(), "vertices", len(handles))
	return s, nil
}

// Shape is the drawable being edited.
func (s *Session) Shape() render.ID { return s.shape }

// Kind is KindPolygon or KindPolyline.
func (s *Session) Kind() core.GeometryKind { return s.kind }

// Len is the number of vertices.
func (s *Session) Len() int { return s.ring.Len() }

// Dragging reports whether the next map click moves the selected handle.
func (s *Session) Dragging() bool { return s.dragging }

// Selected returns the selected handle and its vertex index.
func (s *Session) Selected() (render.ID, int, bool) {
	if s.selected == nil {
		return 0, 0, false
	}
	return s.selected.Handle, s.selected.Index, true
}

// Handles returns the handle IDs in vertex order.
func (s *Session) Handles() []render.ID {
	out := make([]render.ID, 0, s.ring.Len())
	s.ring.Each(func(n *Node) bool {
		out = append(out, n.Handle)
		return true
	})
	return out
}

// Owns reports whether id is one of this session's handles.
func (s *Session) Owns(id render.ID) bool {
	_, ok := s.byHandle[id]
	return ok
}

func (s *Session) selectNode(n *Node) {
	if s.selected != nil && s.selected != n {
		s.restyle(s.selected.Handle, s.styles.Normal)
	}
	s.selected = n
	s.restyle(n.Handle, s.styles.Selected)
	s.dragging = true
	if err := s.surface.SetClickable(s.shape, false); err != nil {
		s.log.Warn("error disabling shape clicks", "shape", s.shape, "error", err)
	}
}

func (s *Session) restyle(h render.ID, style render.Style) {
	if err := s.surface.SetStyle(h, style); err != nil {
		s.log.Warn("error styling handle", "handle", h, "error", err)
	}
}

// ClickHandle selects the clicked handle and arms it for a move.
// It returns false when id is not one of this session's handles.
func (s *Session) ClickHandle(id render.ID) bool {
	n, ok := s.byHandle[id]
	if !ok {
		return false
	}
	s.selectNode(n)
	return true
}

// MoveSelected moves the armed handle and its vertex to pos.
// The handle stays selected but is no longer armed.
func (s *Session) MoveSelected(pos core.LatLng) bool {
	if s.selected == nil || !s.dragging {
		return false
	}
	n := s.selected
	if err := s.surface.SetPathAt(s.shape, 0, n.Index, pos); err != nil {
		s.log.Error("error moving vertex", "shape", s.shape, "index", n.Index, "error", err)
		return false
	}
	if err := s.surface.SetPosition(n.Handle, pos); err != nil {
		s.log.Warn("error moving handle", "handle", n.Handle, "error", err)
	}
	s.dragging = false
	return true
}

// Deselect clears the handle selection and makes the shape clickable again.
func (s *Session) Deselect() bool {
	if s.selected == nil {
		return false
	}
	s.restyle(s.selected.Handle, s.styles.Normal)
	s.selected = nil
	s.dragging = false
	if err := s.surface.SetClickable(s.shape, true); err != nil {
		s.log.Warn("error enabling shape clicks", "shape", s.shape, "error", err)
	}
	return true
}

// Insert adds a vertex next to the selected one and selects it.
//
// The new vertex sits at the midpoint between the selected vertex and the
// next one. At the end of a polyline it goes between the selected vertex
// and the previous one instead. A polyline with a single vertex grows a
// second one SinglePointOffsetDeg north of it.
//
// The midpoint is the arithmetic mean of the coordinates, which is close
// enough to the geodesic midpoint at vertex spacing.
func (s *Session) Insert() bool {
	sel := s.selected
	if sel == nil {
		return false
	}
	path, err := s.surface.Path(s.shape, 0)
	if err != nil || sel.Index >= len(path) {
		s.log.Error("error reading path for insert", "shape", s.shape, "error", err)
		return false
	}

	var (
		pos    core.LatLng
		at     int
		before bool
	)
	switch {
	case !s.ring.Closed() && s.ring.Len() == 1:
		pos = path[sel.Index].Add(SinglePointOffsetDeg, 0)
		at = sel.Index + 1
	case !s.ring.Closed() && sel.next == nil:
		pos = geo.Midpoint(path[sel.prev.Index], path[sel.Index])
		at = sel.Index
		before = true
	default:
		pos = geo.Midpoint(path[sel.Index], path[sel.next.Index])
		at = sel.Index + 1
	}

	if err := s.surface.InsertPathAt(s.shape, 0, at, pos); err != nil {
		s.log.Error("error inserting vertex", "shape", s.shape, "index", at, "error", err)
		return false
	}
	h := s.surface.AddHandle(pos, s.styles.Normal)

	var n *Node
	if before {
		n = s.ring.InsertBefore(sel, h)
	} else {
		n = s.ring.InsertAfter(sel, h)
	}
	s.byHandle[h] = n

	dragging := s.dragging
	s.selectNode(n)
	s.dragging = dragging
	return true
}

// Delete removes the selected vertex and selects a neighbour.
// Polygons keep at least MinPolygonVertices vertices, polylines at least one.
func (s *Session) Delete() bool {
	sel := s.selected
	if sel == nil {
		return false
	}
	if s.ring.Closed() && s.ring.Len() <= MinPolygonVertices {
		s.log.Debug("refusing to delete polygon vertex", "shape", s.shape, "vertices", s.ring.Len())
		return false
	}
	if !s.ring.Closed() && s.ring.Len() <= 1 {
		s.log.Debug("refusing to delete last polyline vertex", "shape", s.shape)
		return false
	}

	if err := s.surface.RemovePathAt(s.shape, 0, sel.Index); err != nil {
		s.log.Error("error deleting vertex", "shape", s.shape, "index", sel.Index, "error", err)
		return false
	}

	neighbour := sel.prev
	if neighbour == nil {
		neighbour = sel.next
	}
	s.ring.Remove(sel)
	delete(s.byHandle, sel.Handle)
	if err := s.surface.Remove(sel.Handle); err != nil {
		s.log.Warn("error removing handle", "handle", sel.Handle, "error", err)
	}

	dragging := s.dragging
	s.selected = nil
	s.selectNode(neighbour)
	s.dragging = dragging
	return true
}

// Close removes every handle and returns the shape to normal clicking.
func (s *Session) Close() int {
	removed := 0
	for _, n := range s.ring.Nodes() {
		if err := s.surface.Remove(n.Handle); err != nil {
			s.log.Warn("error removing handle", "handle", n.Handle, "error", err)
			continue
		}
		removed++
	}
	s.ring = NewRing(s.ring.Closed(), nil)
	s.byHandle = map[render.ID]*Node{}
	s.selected = nil
	s.dragging = false
	// the shape may already be gone when the course is being torn down
	_ = s.surface.SetClickable(s.shape, true)

	s.log.Debug("vertex session closed", "shape", s.shape, "handles", removed)
	return removed
}

// Verify checks that every handle index matches its position in the ring
// and that the ring and the live path have the same length.
func (s *Session) Verify() error {
	path, err := s.surface.Path(s.shape, 0)
	if err != nil {
		return err
	}
	if len(path) != s.ring.Len() {
		return fmt.Errorf("path has %d vertices, ring has %d", len(path), s.ring.Len())
	}
	for i, n := range s.ring.Nodes() {
		if n.Index != i {
			return fmt.Errorf("handle %d at position %d has index %d", n.Handle, i, n.Index)
		}
		pos, err := s.surface.Position(n.Handle)
		if err != nil {
			return err
		}
		if !geo.SamePoint(pos, path[i]) {
			return fmt.Errorf("handle %d is at %v, vertex %d is at %v", n.Handle, pos, i, path[i])
		}
	}
	return nil
}
