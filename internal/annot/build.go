package annot

import (
	"log/slog"

	"github.com/teebox/annotator/internal/geo"
	"github.com/teebox/annotator/internal/render"
	"github.com/teebox/annotator/pkg/core"
)

// Entry is one rendered annotation.
type Entry struct {
	AppID      string
	Kind       core.GeometryKind
	StyleKey   string
	Folder     Folder
	Annotation core.Annotation
	Drawable   render.ID
}

// Build renders every annotation of a decorated course onto the surface.
// Records that cannot be drawn (unknown type, missing coordinates, a
// duplicate appId) are skipped and logged; Build never fails the batch.
func Build(surface render.Surface, course *core.CourseData, styles *Styles, log *slog.Logger) []Entry {
	if log == nil {
		log = slog.Default()
	}
	entries := make([]Entry, 0, course.TotalAnnotations())
	seen := make(map[string]struct{}, course.TotalAnnotations())

	add := func(a core.Annotation, folder Folder) {
		e, ok := buildOne(surface, a, folder, styles, log)
		if !ok {
			return
		}
		if _, dup := seen[e.AppID]; dup {
			log.Warn("duplicate appId, skipping", "appId", e.AppID)
			_ = surface.Remove(e.Drawable)
			return
		}
		seen[e.AppID] = struct{}{}
		entries = append(entries, e)
	}

	for _, a := range course.Annotations {
		add(a, GlobalFolder)
	}
	for _, h := range course.Holes {
		for _, a := range h.Annotations {
			add(a, HoleFolder(h.HoleNumber))
		}
	}

	log.Debug("built course drawables", "course", course.ID, "drawables", len(entries), "records", course.TotalAnnotations())
	return entries
}

func buildOne(surface render.Surface, a core.Annotation, folder Folder, styles *Styles, log *slog.Logger) (Entry, bool) {
	kind, ok := KindOf(a.AnnotType)
	if !ok {
		log.Warn("unknown annotation type, skipping", "id", a.ID, "annotType", a.AnnotType)
		return Entry{}, false
	}
	if a.AnnotType == core.AnnotTrees {
		// tree lines are expanded into points by Decorate
		log.Debug("tree line not rendered", "id", a.ID, "folder", folder.String())
		return Entry{}, false
	}
	if a.AppID == "" {
		a.AppID = AppID(a.ID, kind, folder.Scope == ScopeGlobal)
	}

	pts, err := geo.PairsFromFlat(a.RawCoords)
	if err != nil {
		log.Warn("bad coordinates, skipping", "appId", a.AppID, "error", err)
		return Entry{}, false
	}

	key := StyleKey(a.AnnotType)
	style := styles.For(key, false)
	var id render.ID

	switch kind {
	case core.KindMarker:
		if len(pts) == 0 {
			log.Warn("marker without coordinates, skipping", "appId", a.AppID)
			return Entry{}, false
		}
		id = surface.AddMarker(pts[0], style)
	case core.KindPolygon:
		ring := geo.OpenRing(pts)
		if len(ring) == 0 {
			log.Warn("empty polygon, skipping", "appId", a.AppID)
			return Entry{}, false
		}
		id = surface.AddPolygon([][]core.LatLng{ring}, style)
	case core.KindPolyline:
		if len(pts) == 0 {
			log.Warn("empty polyline, skipping", "appId", a.AppID)
			return Entry{}, false
		}
		id = surface.AddPolyline(pts, style)
	}

	return Entry{
		AppID:      a.AppID,
		Kind:       kind,
		StyleKey:   key,
		Folder:     folder,
		Annotation: a,
		Drawable:   id,
	}, true
}
