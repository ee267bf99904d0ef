package annot

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/teebox/annotator/pkg/core"
)

// ErrInvalidAppID is returned by ParseAppID for malformed identifiers
var ErrInvalidAppID = errors.New("invalid appId")

const globalPrefix = "g"

var appIDPattern = regexp.MustCompile(`^(g?)(\d+)-(Marker|Polygon|Polyline)(?:-(\d+))?$`)

// AppID builds "[g]<id>-<Kind>".
func AppID(id int, kind core.GeometryKind, global bool) string {
	prefix := ""
	if global {
		prefix = globalPrefix
	}
	return fmt.Sprintf("%s%d-%s", prefix, id, kind)
}

// TreeAppID names one point carved out of a global tree line. offset is the
// index of the point's longitude in the parent's RawCoords.
func TreeAppID(id, offset int) string {
	return fmt.Sprintf("%s-%d", AppID(id, core.KindPolyline, true), offset)
}

// Ref is a parsed appId.
type Ref struct {
	ID     int
	Kind   core.GeometryKind
	Global bool
	// Tree is set for decomposed tree points. Their id ends in
	// "-Polyline-<offset>" but they render and select as markers.
	Tree   bool
	Offset int
}

// ParseAppID reverses AppID and TreeAppID.
func ParseAppID(s string) (Ref, error) {
	m := appIDPattern.FindStringSubmatch(s)
	if m == nil {
		return Ref{}, fmt.Errorf("%w: %q", ErrInvalidAppID, s)
	}
	id, err := strconv.Atoi(m[2])
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %q", ErrInvalidAppID, s)
	}
	ref := Ref{ID: id, Global: m[1] == globalPrefix}
	switch m[3] {
	case "Marker":
		ref.Kind = core.KindMarker
	case "Polygon":
		ref.Kind = core.KindPolygon
	case "Polyline":
		ref.Kind = core.KindPolyline
	}
	if m[4] != "" {
		if ref.Kind != core.KindPolyline || !ref.Global {
			return Ref{}, fmt.Errorf("%w: offset only valid on global tree lines: %q", ErrInvalidAppID, s)
		}
		ref.Offset, _ = strconv.Atoi(m[4])
		ref.Tree = true
		ref.Kind = core.KindMarker
	}
	return ref, nil
}

// KindOfAppID derives the selection kind from the id suffix alone.
func KindOfAppID(s string) core.GeometryKind {
	switch {
	case strings.HasSuffix(s, "-Marker"):
		return core.KindMarker
	case strings.HasSuffix(s, "-Polygon"):
		return core.KindPolygon
	case strings.HasSuffix(s, "-Polyline"):
		return core.KindPolyline
	}
	if ref, err := ParseAppID(s); err == nil {
		return ref.Kind
	}
	return core.KindUnknown
}

// String rebuilds the appId.
func (r Ref) String() string {
	if r.Tree {
		return TreeAppID(r.ID, r.Offset)
	}
	return AppID(r.ID, r.Kind, r.Global)
}
