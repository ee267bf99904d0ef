// Package memory is a Surface that keeps drawables in maps. It backs the
// headless CLI and the tests.
package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/teebox/annotator/internal/render"
	"github.com/teebox/annotator/pkg/core"
)

// Object is one drawable.
type Object struct {
	ID        render.ID
	Kind      render.Kind
	Position  core.LatLng     // markers and handles
	Rings     [][]core.LatLng // polygons (many) and polylines (one)
	Style     render.Style
	Clickable bool
}

// Surface stores drawables in memory
type Surface struct {
	mu      sync.RWMutex
	objects map[render.ID]*Object
	nextID  render.ID
}

var _ render.Surface = (*Surface)(nil)

// New creates an empty surface
func New() *Surface {
	return &Surface{
		objects: make(map[render.ID]*Object),
	}
}

func (s *Surface) add(o *Object) render.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	o.ID = s.nextID
	o.Clickable = true
	s.objects[o.ID] = o
	return o.ID
}

func copyPath(path []core.LatLng) []core.LatLng {
	out := make([]core.LatLng, len(path))
	copy(out, path)
	return out
}

// AddMarker adds a point marker
func (s *Surface) AddMarker(pos core.LatLng, style render.Style) render.ID {
	return s.add(&Object{Kind: render.KindMarker, Position: pos, Style: style})
}

// AddHandle adds a vertex handle
func (s *Surface) AddHandle(pos core.LatLng, style render.Style) render.ID {
	return s.add(&Object{Kind: render.KindHandle, Position: pos, Style: style})
}

// AddPolygon adds a polygon with the given open rings
func (s *Surface) AddPolygon(rings [][]core.LatLng, style render.Style) render.ID {
	cp := make([][]core.LatLng, len(rings))
	for i, r := range rings {
		cp[i] = copyPath(r)
	}
	return s.add(&Object{Kind: render.KindPolygon, Rings: cp, Style: style})
}

// AddPolyline adds a polyline
func (s *Surface) AddPolyline(path []core.LatLng, style render.Style) render.ID {
	return s.add(&Object{Kind: render.KindPolyline, Rings: [][]core.LatLng{copyPath(path)}, Style: style})
}

// Remove detaches a drawable from the surface
func (s *Surface) Remove(id render.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[id]; !ok {
		return fmt.Errorf("remove %d: %w", id, render.ErrUnknownDrawable)
	}
	delete(s.objects, id)
	return nil
}

func (s *Surface) get(id render.ID) (*Object, error) {
	o, ok := s.objects[id]
	if !ok {
		return nil, fmt.Errorf("drawable %d: %w", id, render.ErrUnknownDrawable)
	}
	return o, nil
}

func (s *Surface) point(id render.ID) (*Object, error) {
	o, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if o.Kind != render.KindMarker && o.Kind != render.KindHandle {
		return nil, fmt.Errorf("drawable %d is a %s, not a point", id, o.Kind)
	}
	return o, nil
}

func (s *Surface) ring(id render.ID, ring int) (*Object, error) {
	o, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if ring < 0 || ring >= len(o.Rings) {
		return nil, fmt.Errorf("drawable %d ring %d: %w", id, ring, render.ErrPathIndex)
	}
	return o, nil
}

// Position returns a marker or handle position
func (s *Surface) Position(id render.ID) (core.LatLng, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, err := s.point(id)
	if err != nil {
		return core.LatLng{}, err
	}
	return o.Position, nil
}

// SetPosition moves a marker or handle
func (s *Surface) SetPosition(id render.ID, pos core.LatLng) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.point(id)
	if err != nil {
		return err
	}
	o.Position = pos
	return nil
}

// Rings returns the number of rings of a polygon or polyline
func (s *Surface) Rings(id render.ID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, err := s.get(id)
	if err != nil {
		return 0, err
	}
	return len(o.Rings), nil
}

// Path returns a copy of one ring
func (s *Surface) Path(id render.ID, ring int) ([]core.LatLng, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, err := s.ring(id, ring)
	if err != nil {
		return nil, err
	}
	return copyPath(o.Rings[ring]), nil
}

// SetPathAt replaces one vertex
func (s *Surface) SetPathAt(id render.ID, ring, index int, pos core.LatLng) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.ring(id, ring)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(o.Rings[ring]) {
		return fmt.Errorf("drawable %d index %d: %w", id, index, render.ErrPathIndex)
	}
	o.Rings[ring][index] = pos
	return nil
}

// InsertPathAt inserts a vertex before index; index == len appends
func (s *Surface) InsertPathAt(id render.ID, ring, index int, pos core.LatLng) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.ring(id, ring)
	if err != nil {
		return err
	}
	path := o.Rings[ring]
	if index < 0 || index > len(path) {
		return fmt.Errorf("drawable %d index %d: %w", id, index, render.ErrPathIndex)
	}
	path = append(path, core.LatLng{})
	copy(path[index+1:], path[index:])
	path[index] = pos
	o.Rings[ring] = path
	return nil
}

// RemovePathAt removes one vertex
func (s *Surface) RemovePathAt(id render.ID, ring, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.ring(id, ring)
	if err != nil {
		return err
	}
	path := o.Rings[ring]
	if index < 0 || index >= len(path) {
		return fmt.Errorf("drawable %d index %d: %w", id, index, render.ErrPathIndex)
	}
	o.Rings[ring] = append(path[:index], path[index+1:]...)
	return nil
}

// SetStyle replaces the style of a drawable
func (s *Surface) SetStyle(id render.ID, style render.Style) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.get(id)
	if err != nil {
		return err
	}
	o.Style = style
	return nil
}

// SetClickable toggles whether the drawable receives clicks
func (s *Surface) SetClickable(id render.ID, clickable bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.get(id)
	if err != nil {
		return err
	}
	o.Clickable = clickable
	return nil
}

// Clickable reports whether the drawable exists and receives clicks
func (s *Surface) Clickable(id render.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[id]
	return ok && o.Clickable
}

// Object returns a copy of one drawable
func (s *Surface) Object(id render.ID) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[id]
	if !ok {
		return Object{}, false
	}
	cp := *o
	cp.Rings = make([][]core.LatLng, len(o.Rings))
	for i, r := range o.Rings {
		cp.Rings[i] = copyPath(r)
	}
	return cp, true
}

// Count returns the number of live drawables of a kind; zero counts all
func (s *Surface) Count(kind render.Kind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, o := range s.objects {
		if kind == 0 || o.Kind == kind {
			n++
		}
	}
	return n
}

// IDs returns the live drawable IDs of a kind in creation order
func (s *Surface) IDs(kind render.Kind) []render.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]render.ID, 0, len(s.objects))
	for id, o := range s.objects {
		if kind == 0 || o.Kind == kind {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
