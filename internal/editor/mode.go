package editor

import (
	"fmt"
	"strings"
)

// Mode decides which engine receives input.
type Mode int32

const (
	// ModeShift moves whole selections with the arrow keys.
	ModeShift Mode = iota
	// ModeEdit edits the vertices of a single polygon or polyline.
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "shift"
}

// ParseMode accepts "shift" or "edit".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "shift":
		return ModeShift, nil
	case "edit":
		return ModeEdit, nil
	}
	return ModeShift, fmt.Errorf("invalid mode %q", s)
}

// Keys understood by KeyDown.
const (
	KeyUp     = "ArrowUp"
	KeyDown   = "ArrowDown"
	KeyLeft   = "ArrowLeft"
	KeyRight  = "ArrowRight"
	KeyInsert = "Insert"
	KeyDelete = "Delete"
	KeyEscape = "Escape"
)
