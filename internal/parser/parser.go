// Package parser turns script lines into dispatcher events. It provides
// pure string to value conversion and has no dependency on editor state.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/teebox/annotator/internal/annot"
	"github.com/teebox/annotator/internal/dispatcher"
	"github.com/teebox/annotator/internal/editor"
	"github.com/teebox/annotator/internal/shift"
	"github.com/teebox/annotator/pkg/core"
)

// Commands accepted in scripts.
const (
	CmdLoad             = "load"
	CmdUnload           = "unload"
	CmdMode             = "mode"
	CmdKey              = "key"
	CmdClick            = "click"
	CmdRightClick       = "rightclick"
	CmdHandle           = "handle"
	CmdRightClickHandle = "rightclick-handle"
	CmdMapClick         = "mapclick"
	CmdToggle           = "toggle"
	CmdFolder           = "folder"
	CmdSelectAll        = "selectall"
	CmdExport           = "export"
)

var (
	// ErrUnknownCommand is returned for a line whose first word is not a command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrArity is returned when a command has the wrong number of arguments.
	ErrArity = errors.New("wrong number of arguments")
)

type grammar struct {
	min, max int
	check    func(args []string) error
}

var commands = map[string]grammar{
	CmdLoad:             {1, 1, func(a []string) error { _, err := ParseCourseID(a[0]); return err }},
	CmdUnload:           {0, 0, nil},
	CmdMode:             {1, 1, func(a []string) error { _, err := editor.ParseMode(a[0]); return err }},
	CmdKey:              {1, 1, func(a []string) error { _, err := ParseKey(a[0]); return err }},
	CmdClick:            {1, 1, checkAppID},
	CmdRightClick:       {1, 1, checkAppID},
	CmdHandle:           {1, 1, func(a []string) error { _, err := ParseIndex(a[0]); return err }},
	CmdRightClickHandle: {1, 1, func(a []string) error { _, err := ParseIndex(a[0]); return err }},
	CmdMapClick:         {2, 2, func(a []string) error { _, err := ParseLatLng(a[0], a[1]); return err }},
	CmdToggle:           {1, 1, checkAppID},
	CmdFolder: {2, 2, func(a []string) error {
		if _, err := annot.ParseFolder(a[0]); err != nil {
			return err
		}
		_, err := ParseSwitch(a[1])
		return err
	}},
	CmdSelectAll: {1, 1, func(a []string) error { _, err := ParseSwitch(a[0]); return err }},
	CmdExport:    {0, 1, func(a []string) error { _, err := ParseProjection(a...); return err }},
}

func checkAppID(a []string) error {
	_, err := annot.ParseAppID(a[0])
	return err
}

// parseIntFromFloat parses a string that may be an integer ("32") or float ("32.00") into int64.
// Course ids exported from spreadsheets often arrive as floats.
func parseIntFromFloat(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("parseIntFromFloat: %q is not a valid int64", s)
	}
	return int64(f), nil
}

// ParseCourseID parses a positive course id.
func ParseCourseID(s string) (int, error) {
	v, err := parseIntFromFloat(s)
	if err != nil || v <= 0 || v > math.MaxInt32 {
		return 0, fmt.Errorf("invalid course id %q", s)
	}
	return int(v), nil
}

// ParseIndex parses a vertex index.
func ParseIndex(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid vertex index %q", s)
	}
	return v, nil
}

// ParseLatLng parses a latitude and a longitude in degrees.
func ParseLatLng(lat, lng string) (core.LatLng, error) {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil || math.IsNaN(la) || la < -90 || la > 90 {
		return core.LatLng{}, fmt.Errorf("invalid latitude %q", lat)
	}
	ln, err := strconv.ParseFloat(lng, 64)
	if err != nil || math.IsNaN(ln) || ln < -180 || ln > 180 {
		return core.LatLng{}, fmt.Errorf("invalid longitude %q", lng)
	}
	return core.LatLng{Lat: la, Lng: ln}, nil
}

// ParseSwitch accepts on/off and the usual boolean spellings.
func ParseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid switch %q, want on or off", s)
}

// ParseKey canonicalizes a key name. Arrow keys also accept the shift
// direction names.
func ParseKey(s string) (string, error) {
	for _, k := range []string{editor.KeyUp, editor.KeyDown, editor.KeyLeft, editor.KeyRight,
		editor.KeyInsert, editor.KeyDelete, editor.KeyEscape} {
		if strings.EqualFold(s, k) {
			return k, nil
		}
	}
	switch strings.ToLower(s) {
	case "del", "backspace":
		return editor.KeyDelete, nil
	case "ins":
		return editor.KeyInsert, nil
	case "esc":
		return editor.KeyEscape, nil
	}
	d, err := shift.ParseDirection(s)
	if err != nil {
		return "", fmt.Errorf("invalid key %q", s)
	}
	return map[shift.Direction]string{
		shift.Up:    editor.KeyUp,
		shift.Down:  editor.KeyDown,
		shift.Left:  editor.KeyLeft,
		shift.Right: editor.KeyRight,
	}[d], nil
}

// ParseProjection reads the optional export projection: 4326 (default) or 3857.
func ParseProjection(args ...string) (int, error) {
	if len(args) == 0 {
		return 4326, nil
	}
	switch strings.TrimPrefix(strings.ToUpper(args[0]), "EPSG:") {
	case "4326":
		return 4326, nil
	case "3857":
		return 3857, nil
	}
	return 0, fmt.Errorf("unsupported projection %q", args[0])
}

// Parser validates script lines.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// ParseLine turns one line into an event. ok is false for blank lines and
// # comments. Arguments are validated but kept as strings; key names are
// canonicalized.
func (p *Parser) ParseLine(line string) (ev dispatcher.Event, ok bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return ev, false, nil
	}

	cmd := strings.ToLower(fields[0])
	args := fields[1:]
	g, known := commands[cmd]
	if !known {
		return ev, false, fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}
	if len(args) < g.min || len(args) > g.max {
		if g.min == g.max {
			return ev, false, fmt.Errorf("%w: %s takes %d, got %d", ErrArity, cmd, g.min, len(args))
		}
		return ev, false, fmt.Errorf("%w: %s takes %d to %d, got %d", ErrArity, cmd, g.min, g.max, len(args))
	}
	if g.check != nil {
		if err := g.check(args); err != nil {
			return ev, false, fmt.Errorf("%s: %w", cmd, err)
		}
	}
	if cmd == CmdKey {
		args[0], _ = ParseKey(args[0])
	}

	return dispatcher.Event{Command: cmd, Args: args}, true, nil
}

// ParseScript parses every line of r. Errors carry the 1-based line number;
// parsing stops at the first one.
func (p *Parser) ParseScript(r io.Reader) ([]dispatcher.Event, error) {
	var events []dispatcher.Event
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		ev, ok, err := p.ParseLine(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if ok {
			events = append(events, ev)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	p.logger.Debug("parsed script", "lines", n, "events", len(events))
	return events, nil
}
