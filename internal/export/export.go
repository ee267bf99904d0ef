// Package export writes the live state of the editor as a GeoJSON
// FeatureCollection: every rendered annotation with the geometry it has on
// the surface right now, so shifted and edited shapes export as edited.
package export

import (
	"encoding/json"
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/teebox/annotator/internal/annot"
	"github.com/teebox/annotator/internal/editor"
	"github.com/teebox/annotator/internal/geo"
	"github.com/teebox/annotator/internal/render"
	"github.com/teebox/annotator/pkg/core"
)

// FeatureCollection is a GeoJSON FeatureCollection with a named CRS.
type FeatureCollection struct {
	Type     string    `json:"type"`
	CRS      CRS       `json:"crs"`
	Features []Feature `json:"features"`
}

// Feature is one annotation.
type Feature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Properties map[string]any `json:"properties"`
	Geometry   geom.Geometry  `json:"geometry"`
}

// CRS names the coordinate reference system.
type CRS struct {
	Type       string   `json:"type"`
	Properties CRSProps `json:"properties"`
}

// CRSProps holds the CRS name.
type CRSProps struct {
	Name string `json:"name"`
}

func projection(srid int) (geo.Projection, error) {
	switch srid {
	case 0, 4326:
		return geo.LonLat, nil
	case 3857:
		return geo.WebMercator, nil
	}
	return nil, fmt.Errorf("unsupported projection EPSG:%d", srid)
}

// Collect reads the geometry of every entry from the surface.
func Collect(c *editor.Controller, srid int) (FeatureCollection, error) {
	if srid == 0 {
		srid = 4326
	}
	proj, err := projection(srid)
	if err != nil {
		return FeatureCollection{}, err
	}

	fc := FeatureCollection{
		Type: "FeatureCollection",
		CRS: CRS{
			Type:       "name",
			Properties: CRSProps{Name: fmt.Sprintf("EPSG:%d", srid)},
		},
		Features: []Feature{},
	}

	surface := c.Surface()
	sel := c.Selection()
	for _, e := range c.Entries() {
		g, err := geometryOf(surface, e, proj)
		if err != nil {
			return FeatureCollection{}, fmt.Errorf("export %s: %w", e.AppID, err)
		}
		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			ID:   e.AppID,
			Properties: map[string]any{
				"annotId":   e.Annotation.ID,
				"annotType": string(e.Annotation.AnnotType),
				"folder":    e.Folder.String(),
				"selected":  sel.IsSelected(e.AppID),
				"editing":   e.AppID == c.SessionAppID(),
			},
			Geometry: g,
		})
	}
	return fc, nil
}

// Snapshot marshals Collect. The course id and name go in a top-level
// "course" member.
func Snapshot(c *editor.Controller, srid int) ([]byte, error) {
	fc, err := Collect(c, srid)
	if err != nil {
		return nil, err
	}
	cd := c.Course()
	out := struct {
		FeatureCollection
		Course core.CourseSummary `json:"course"`
	}{fc, core.CourseSummary{ID: cd.ID, Name: cd.Name}}
	return json.Marshal(out)
}

func geometryOf(s render.Surface, e annot.Entry, proj geo.Projection) (geom.Geometry, error) {
	switch e.Kind {
	case core.KindMarker:
		p, err := s.Position(e.Drawable)
		if err != nil {
			return geom.Geometry{}, err
		}
		return geo.PointGeometry(p, proj), nil
	case core.KindPolyline:
		path, err := s.Path(e.Drawable, 0)
		if err != nil {
			return geom.Geometry{}, err
		}
		return geo.LineGeometry(path, proj), nil
	case core.KindPolygon:
		n, err := s.Rings(e.Drawable)
		if err != nil {
			return geom.Geometry{}, err
		}
		rings := make([][]core.LatLng, 0, n)
		for i := 0; i < n; i++ {
			ring, err := s.Path(e.Drawable, i)
			if err != nil {
				return geom.Geometry{}, err
			}
			rings = append(rings, ring)
		}
		return geo.PolygonGeometry(rings, proj), nil
	}
	return geom.Geometry{}, fmt.Errorf("unexpected kind %s", e.Kind)
}
