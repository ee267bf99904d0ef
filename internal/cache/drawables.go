package cache

import (
	"sort"
	"sync"

	"github.com/teebox/annotator/internal/render"
	"github.com/teebox/annotator/pkg/core"
)

// Drawables holds the per-kind appId -> drawable maps of the loaded course
// and the reverse side table used to resolve a clicked drawable back to its
// annotation.
type Drawables struct {
	mu        sync.RWMutex
	markers   map[string]render.ID
	polygons  map[string]render.ID
	polylines map[string]render.ID
	appIDs    map[render.ID]string
	kinds     map[render.ID]core.GeometryKind
}

// NewDrawables creates an empty index
func NewDrawables() *Drawables {
	d := &Drawables{}
	d.init()
	return d
}

func (d *Drawables) init() {
	d.markers = make(map[string]render.ID)
	d.polygons = make(map[string]render.ID)
	d.polylines = make(map[string]render.ID)
	d.appIDs = make(map[render.ID]string)
	d.kinds = make(map[render.ID]core.GeometryKind)
}

func (d *Drawables) byKind(kind core.GeometryKind) map[string]render.ID {
	switch kind {
	case core.KindMarker:
		return d.markers
	case core.KindPolygon:
		return d.polygons
	case core.KindPolyline:
		return d.polylines
	}
	return nil
}

// Set registers a drawable under an appId. Unknown kinds are ignored.
func (d *Drawables) Set(appID string, kind core.GeometryKind, id render.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	m := d.byKind(kind)
	if m == nil {
		return
	}
	m[appID] = id
	d.appIDs[id] = appID
	d.kinds[id] = kind
}

// Get returns the drawable of an appId
func (d *Drawables) Get(appID string) (render.ID, core.GeometryKind, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, kind := range []core.GeometryKind{core.KindMarker, core.KindPolygon, core.KindPolyline} {
		if id, ok := d.byKind(kind)[appID]; ok {
			return id, kind, true
		}
	}
	return 0, core.KindUnknown, false
}

// AppID resolves a drawable to its appId
func (d *Drawables) AppID(id render.ID) (string, core.GeometryKind, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	appID, ok := d.appIDs[id]
	if !ok {
		return "", core.KindUnknown, false
	}
	return appID, d.kinds[id], true
}

// IDs returns the appId -> drawable pairs of one kind sorted by appId
func (d *Drawables) IDs(kind core.GeometryKind) []Pair {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m := d.byKind(kind)
	out := make([]Pair, 0, len(m))
	for appID, id := range m {
		out = append(out, Pair{AppID: appID, ID: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppID < out[j].AppID })
	return out
}

// Len is the number of registered drawables
func (d *Drawables) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.appIDs)
}

// Reset clears every map and returns the drawables that were registered,
// so the caller can remove them from the surface.
func (d *Drawables) Reset() []render.ID {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]render.ID, 0, len(d.appIDs))
	for id := range d.appIDs {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	d.init()
	return out
}

// Pair is one entry of a per-kind map.
type Pair struct {
	AppID string
	ID    render.ID
}
