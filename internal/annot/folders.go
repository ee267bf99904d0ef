package annot

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Scope selects which annotations a folder covers.
type Scope int

const (
	ScopeAll Scope = iota
	ScopeGlobal
	ScopeHole
)

// Folder is one node of the annotation tree shown next to the map:
// the course-level folder, one folder per hole, or everything.
type Folder struct {
	Scope Scope
	Hole  int
}

var (
	AllFolder    = Folder{Scope: ScopeAll}
	GlobalFolder = Folder{Scope: ScopeGlobal}
)

// HoleFolder is the folder of one hole, by hole number.
func HoleFolder(number int) Folder {
	return Folder{Scope: ScopeHole, Hole: number}
}

func (f Folder) String() string {
	switch f.Scope {
	case ScopeGlobal:
		return "global"
	case ScopeHole:
		return strconv.Itoa(f.Hole)
	default:
		return "all"
	}
}

// ParseFolder accepts "all", "global" or a hole number.
func ParseFolder(s string) (Folder, error) {
	switch strings.ToLower(s) {
	case "all":
		return AllFolder, nil
	case "global", "course":
		return GlobalFolder, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return Folder{}, fmt.Errorf("invalid folder %q", s)
	}
	return HoleFolder(n), nil
}

// FolderIndex lists the appIds of each folder in tree order.
type FolderIndex struct {
	global []string
	holes  map[int][]string
	order  []int
	owner  map[string]Folder
}

// NewFolderIndex groups rendered entries by folder. Holes without any
// rendered annotation still get an empty folder.
func NewFolderIndex(holeNumbers []int, entries []Entry) FolderIndex {
	ix := FolderIndex{
		holes: make(map[int][]string),
		owner: make(map[string]Folder, len(entries)),
	}
	for _, n := range holeNumbers {
		if _, ok := ix.holes[n]; !ok {
			ix.holes[n] = nil
			ix.order = append(ix.order, n)
		}
	}
	for _, e := range entries {
		switch e.Folder.Scope {
		case ScopeGlobal:
			ix.global = append(ix.global, e.AppID)
		case ScopeHole:
			if _, ok := ix.holes[e.Folder.Hole]; !ok {
				ix.order = append(ix.order, e.Folder.Hole)
			}
			ix.holes[e.Folder.Hole] = append(ix.holes[e.Folder.Hole], e.AppID)
		}
		ix.owner[e.AppID] = e.Folder
	}
	sort.Ints(ix.order)
	return ix
}

// IDs returns the appIds of a folder. The all folder lists global ids
// first, then holes in ascending order.
func (ix FolderIndex) IDs(f Folder) []string {
	switch f.Scope {
	case ScopeGlobal:
		return append([]string(nil), ix.global...)
	case ScopeHole:
		return append([]string(nil), ix.holes[f.Hole]...)
	}
	out := append([]string(nil), ix.global...)
	for _, n := range ix.order {
		out = append(out, ix.holes[n]...)
	}
	return out
}

// Folders returns every folder header: global, then each hole.
func (ix FolderIndex) Folders() []Folder {
	out := make([]Folder, 0, len(ix.order)+1)
	out = append(out, GlobalFolder)
	for _, n := range ix.order {
		out = append(out, HoleFolder(n))
	}
	return out
}

// FolderOf returns the folder holding an appId.
func (ix FolderIndex) FolderOf(appID string) (Folder, bool) {
	f, ok := ix.owner[appID]
	return f, ok
}

// Has reports whether an appId is indexed.
func (ix FolderIndex) Has(appID string) bool {
	_, ok := ix.owner[appID]
	return ok
}

// Len is the number of indexed appIds.
func (ix FolderIndex) Len() int {
	return len(ix.owner)
}
