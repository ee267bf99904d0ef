package annot

import "github.com/teebox/annotator/internal/render"

// StylePair is the unselected and selected look of one annotation type.
type StylePair struct {
	Normal   render.Style
	Selected render.Style
}

// Styles is the static style table.
type Styles struct {
	byKey          map[string]StylePair
	fallback       StylePair
	Handle         render.Style
	HandleSelected render.Style
}

func area(fill, stroke string, z int) StylePair {
	return StylePair{
		Normal:   render.Style{FillColor: fill, FillOpacity: 0.3, StrokeColor: stroke, StrokeWeight: 2, ZIndex: z},
		Selected: render.Style{FillColor: fill, FillOpacity: 0.5, StrokeColor: "#FFFFFF", StrokeWeight: 4, ZIndex: z},
	}
}

func line(stroke string, weight float64) StylePair {
	return StylePair{
		Normal:   render.Style{StrokeColor: stroke, StrokeWeight: weight},
		Selected: render.Style{StrokeColor: "#FFFFFF", StrokeWeight: weight + 2},
	}
}

func point(fill string, scale float64) StylePair {
	return StylePair{
		Normal:   render.Style{FillColor: fill, FillOpacity: 0.6, StrokeColor: "#FFFFFF", StrokeWeight: 2, Scale: scale},
		Selected: render.Style{FillColor: "#FFD700", FillOpacity: 0.9, StrokeColor: "#FFFFFF", StrokeWeight: 4, Scale: scale + 4},
	}
}

// DefaultStyles returns the built-in table.
func DefaultStyles() *Styles {
	return &Styles{
		byKey: map[string]StylePair{
			"fairway":      area("#3CB371", "#006400", 1),
			"teebox":       area("#7CFC00", "#228B22", 2),
			"green":        area("#00FF7F", "#006400", 3),
			"bunker":       area("#F5DEB3", "#D2B48C", 4),
			"water":        area("#1E90FF", "#00008B", 4),
			"asphalt":      area("#696969", "#2F4F4F", 1),
			CutoutStyleKey: area("#000000", "#FF00FF", 5),
			"ob":           line("#FFFFFF", 3),
			"trees":        line("#006400", 2),
			"tee":          point("#0000FF", 8),
			"cup":          point("#FF0000", 8),
			"drop":         point("#FFA500", 8),
			"tree":         point("#228B22", 6),
		},
		fallback:       area("#808080", "#000000", 0),
		Handle:         render.Style{FillColor: "#FFFFFF", FillOpacity: 1, StrokeColor: "#000000", StrokeWeight: 1, Scale: 4},
		HandleSelected: render.Style{FillColor: "#FF0000", FillOpacity: 1, StrokeColor: "#FFFFFF", StrokeWeight: 2, Scale: 6},
	}
}

// For returns the style of an annotation style key.
func (s *Styles) For(key string, selected bool) render.Style {
	p, ok := s.byKey[key]
	if !ok {
		p = s.fallback
	}
	if selected {
		return p.Selected
	}
	return p.Normal
}

// Set overrides one entry of the table.
func (s *Styles) Set(key string, pair StylePair) {
	s.byKey[key] = pair
}
