// Package selection tracks which annotations are selected, split into one
// set per geometry kind, and derives the checkbox tree state from them.
package selection

import (
	"log/slog"

	"github.com/teebox/annotator/internal/annot"
	"github.com/teebox/annotator/pkg/core"
)

// Change describes the outcome of one selection operation.
type Change struct {
	Added   []string
	Removed []string
}

// Empty reports whether the operation changed nothing.
func (c Change) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// Touched returns every appId whose membership flipped.
func (c Change) Touched() []string {
	out := make([]string, 0, len(c.Added)+len(c.Removed))
	out = append(out, c.Added...)
	return append(out, c.Removed...)
}

// Manager owns the three selection sets.
//
// Every operation is one state transition: it bumps Version at most once no
// matter how many ids it touched, so a view redraws once per user action.
type Manager struct {
	markers   Set
	polygons  Set
	polylines Set

	folders annot.FolderIndex
	version uint64
	log     *slog.Logger
}

// New creates a manager with nothing loaded.
func New(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		markers:   make(Set),
		polygons:  make(Set),
		polylines: make(Set),
		log:       log,
	}
}

// Reset installs the folder index of a freshly loaded course and clears
// every set.
func (m *Manager) Reset(folders annot.FolderIndex) {
	m.folders = folders
	m.markers = make(Set)
	m.polygons = make(Set)
	m.polylines = make(Set)
	m.version++
}

// Clear empties every set and returns what was removed.
func (m *Manager) Clear() Change {
	var ch Change
	for _, s := range []Set{m.markers, m.polygons, m.polylines} {
		ch.Removed = append(ch.Removed, s.Sorted()...)
	}
	if ch.Empty() {
		return ch
	}
	m.markers = make(Set)
	m.polygons = make(Set)
	m.polylines = make(Set)
	m.version++
	return ch
}

func (m *Manager) setFor(appID string) Set {
	switch annot.KindOfAppID(appID) {
	case core.KindMarker:
		return m.markers
	case core.KindPolygon:
		return m.polygons
	case core.KindPolyline:
		return m.polylines
	}
	return nil
}

func (m *Manager) known(appID string) bool {
	if !m.folders.Has(appID) {
		m.log.Warn("ignoring selection of unknown annotation", "appId", appID)
		return false
	}
	return true
}

// ToggleOne flips the membership of one appId and reports whether it is
// now selected.
func (m *Manager) ToggleOne(appID string) (bool, Change) {
	if !m.known(appID) {
		return false, Change{}
	}
	s := m.setFor(appID)
	if s == nil {
		return false, Change{}
	}
	m.version++
	if s.remove(appID) {
		return false, Change{Removed: []string{appID}}
	}
	s.add(appID)
	return true, Change{Added: []string{appID}}
}

// BatchSet selects or deselects every id. Tree point ids end in
// "-Polyline-<n>" but are routed to the marker set.
func (m *Manager) BatchSet(appIDs []string, selected bool) Change {
	var ch Change
	for _, id := range appIDs {
		if !m.known(id) {
			continue
		}
		s := m.setFor(id)
		if s == nil {
			continue
		}
		if selected {
			if s.add(id) {
				ch.Added = append(ch.Added, id)
			}
		} else if s.remove(id) {
			ch.Removed = append(ch.Removed, id)
		}
	}
	if !ch.Empty() {
		m.version++
	}
	return ch
}

// SelectFolder applies BatchSet to every annotation of a folder.
func (m *Manager) SelectFolder(f annot.Folder, selected bool) Change {
	return m.BatchSet(m.folders.IDs(f), selected)
}

// IsSelected reports whether an appId is in any set.
func (m *Manager) IsSelected(appID string) bool {
	return m.markers.Has(appID) || m.polygons.Has(appID) || m.polylines.Has(appID)
}

// Checked is the checkbox state of one leaf.
func (m *Manager) Checked(appID string) bool {
	return m.IsSelected(appID)
}

// FolderChecked is the checkbox state of a folder header: checked when the
// folder is non-empty and every leaf is selected.
func (m *Manager) FolderChecked(f annot.Folder) bool {
	ids := m.folders.IDs(f)
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !m.IsSelected(id) {
			return false
		}
	}
	return true
}

// Checkbox is one row of the annotation tree.
type Checkbox struct {
	Folder  annot.Folder
	AppID   string // empty for folder headers
	Checked bool
}

// Checkboxes renders the whole tree: the select-all header, then each
// folder header followed by its leaves.
func (m *Manager) Checkboxes() []Checkbox {
	out := []Checkbox{{Folder: annot.AllFolder, Checked: m.FolderChecked(annot.AllFolder)}}
	for _, f := range m.folders.Folders() {
		out = append(out, Checkbox{Folder: f, Checked: m.FolderChecked(f)})
		for _, id := range m.folders.IDs(f) {
			out = append(out, Checkbox{Folder: f, AppID: id, Checked: m.IsSelected(id)})
		}
	}
	return out
}

// Markers returns the selected marker ids.
func (m *Manager) Markers() []string { return m.markers.Sorted() }

// Polygons returns the selected polygon ids.
func (m *Manager) Polygons() []string { return m.polygons.Sorted() }

// Polylines returns the selected polyline ids.
func (m *Manager) Polylines() []string { return m.polylines.Sorted() }

// Snapshot copies the three sets.
func (m *Manager) Snapshot() (markers, polygons, polylines Set) {
	return m.markers.clone(), m.polygons.clone(), m.polylines.clone()
}

// Len is the total number of selected annotations.
func (m *Manager) Len() int {
	return len(m.markers) + len(m.polygons) + len(m.polylines)
}

// SoleShape returns the single selected polygon or polyline, if exactly one
// shape is selected across both sets.
func (m *Manager) SoleShape() (string, core.GeometryKind, bool) {
	if len(m.polygons)+len(m.polylines) != 1 {
		return "", core.KindUnknown, false
	}
	for id := range m.polygons {
		return id, core.KindPolygon, true
	}
	for id := range m.polylines {
		return id, core.KindPolyline, true
	}
	return "", core.KindUnknown, false
}

// Folders returns the folder index in use.
func (m *Manager) Folders() annot.FolderIndex {
	return m.folders
}

// Version increments once per effective state transition.
func (m *Manager) Version() uint64 {
	return m.version
}
