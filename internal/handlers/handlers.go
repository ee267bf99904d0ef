// Package handlers binds script and UI commands to the editor. Every
// handler runs on the goroutine draining the dispatcher; course fetches run
// in their own goroutine and post a completion event back.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/teebox/annotator/internal/annot"
	"github.com/teebox/annotator/internal/dispatcher"
	"github.com/teebox/annotator/internal/editor"
	"github.com/teebox/annotator/internal/export"
	"github.com/teebox/annotator/internal/parser"
	"github.com/teebox/annotator/internal/render"
	"github.com/teebox/annotator/internal/storage"
	"github.com/teebox/annotator/pkg/core"
)

// CmdLoaded is posted when a course fetch completes. It is not accepted in
// scripts.
const CmdLoaded = "loaded"

var (
	// ErrUnknownAnnotation is returned for an appId that is not rendered.
	ErrUnknownAnnotation = errors.New("annotation not rendered")
	// ErrNoHandle is returned when no session has a vertex at the index.
	ErrNoHandle = errors.New("no vertex handle at index")
	// ErrNoSource is returned by load when no course source is configured.
	ErrNoSource = errors.New("no course source configured")
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Controller *editor.Controller
	Source     storage.CourseSource
	Dispatcher *dispatcher.Dispatcher
	Logger     *slog.Logger
}

// LoadResult is the payload of a CmdLoaded event.
type LoadResult struct {
	Seq      uint64
	CourseID int
	Course   *core.CourseData
	Err      error
}

// Service provides handler methods for editor commands.
type Service struct {
	deps     Dependencies
	log      *slog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup
}

// NewService creates a new handler service
func NewService(deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{deps: deps, log: log, ctx: ctx, cancel: cancel}
}

// Register installs every command on the dispatcher.
func (s *Service) Register() {
	d := s.deps.Dispatcher
	d.Register(parser.CmdLoad, s.HandleLoad, dispatcher.Logged())
	d.Register(CmdLoaded, s.HandleLoaded, dispatcher.Logged())
	d.Register(parser.CmdUnload, s.HandleUnload, dispatcher.Logged())
	d.Register(parser.CmdMode, s.HandleMode, dispatcher.Logged())
	d.Register(parser.CmdKey, s.HandleKey)
	d.Register(parser.CmdClick, s.HandleClick)
	d.Register(parser.CmdRightClick, s.HandleRightClick)
	d.Register(parser.CmdHandle, s.HandleHandle)
	d.Register(parser.CmdRightClickHandle, s.HandleRightClickHandle)
	d.Register(parser.CmdMapClick, s.HandleMapClick)
	d.Register(parser.CmdToggle, s.HandleToggle)
	d.Register(parser.CmdFolder, s.HandleFolder, dispatcher.Logged())
	d.Register(parser.CmdSelectAll, s.HandleSelectAll, dispatcher.Logged())
	d.Register(parser.CmdExport, s.HandleExport, dispatcher.Logged())
}

// Settle waits for in-flight course fetches to post their completion.
func (s *Service) Settle() {
	s.inflight.Wait()
}

// Close cancels in-flight fetches and waits for them.
func (s *Service) Close() {
	s.cancel()
	s.inflight.Wait()
}

func arg(e dispatcher.Event, i int) (string, error) {
	if i >= len(e.Args) {
		return "", fmt.Errorf("%w: %s", parser.ErrArity, e.Command)
	}
	return e.Args[i], nil
}

// HandleLoad starts fetching a course and returns the load sequence number.
// The course is applied when the CmdLoaded event is drained, unless a newer
// load or an unload happened in between.
func (s *Service) HandleLoad(e dispatcher.Event) (any, error) {
	a, err := arg(e, 0)
	if err != nil {
		return nil, err
	}
	id, err := parser.ParseCourseID(a)
	if err != nil {
		return nil, err
	}
	if s.deps.Source == nil {
		return nil, ErrNoSource
	}

	seq := s.deps.Controller.BeginLoad()
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		cd, err := s.deps.Source.GetCourse(s.ctx, id)
		s.deps.Dispatcher.Post(dispatcher.Event{
			Command: CmdLoaded,
			Payload: LoadResult{Seq: seq, CourseID: id, Course: cd, Err: err},
		})
	}()
	return seq, nil
}

// HandleLoaded applies a fetched course. A failed fetch leaves the editor
// untouched.
func (s *Service) HandleLoaded(e dispatcher.Event) (any, error) {
	res, ok := e.Payload.(LoadResult)
	if !ok {
		return nil, fmt.Errorf("loaded: unexpected payload %T", e.Payload)
	}
	if res.Err != nil {
		s.log.Error("course fetch failed", "courseId", res.CourseID, "error", res.Err)
		return false, fmt.Errorf("load course %d: %w", res.CourseID, res.Err)
	}
	return s.deps.Controller.ApplyLoad(res.Seq, res.Course), nil
}

// HandleUnload clears the editor and invalidates pending fetches.
func (s *Service) HandleUnload(e dispatcher.Event) (any, error) {
	s.deps.Controller.BeginLoad()
	s.deps.Controller.Unload()
	return true, nil
}

// HandleMode switches between shift and edit.
func (s *Service) HandleMode(e dispatcher.Event) (any, error) {
	a, err := arg(e, 0)
	if err != nil {
		return nil, err
	}
	m, err := editor.ParseMode(a)
	if err != nil {
		return nil, err
	}
	return s.deps.Controller.SetMode(m), nil
}

// HandleKey routes a key press.
func (s *Service) HandleKey(e dispatcher.Event) (any, error) {
	a, err := arg(e, 0)
	if err != nil {
		return nil, err
	}
	key, err := parser.ParseKey(a)
	if err != nil {
		return nil, err
	}
	return s.deps.Controller.KeyDown(key), nil
}

func (s *Service) drawable(e dispatcher.Event) (render.ID, error) {
	a, err := arg(e, 0)
	if err != nil {
		return 0, err
	}
	if _, err := annot.ParseAppID(a); err != nil {
		return 0, err
	}
	id, ok := s.deps.Controller.Drawable(a)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownAnnotation, a)
	}
	return id, nil
}

func (s *Service) handle(e dispatcher.Event) (render.ID, error) {
	a, err := arg(e, 0)
	if err != nil {
		return 0, err
	}
	index, err := parser.ParseIndex(a)
	if err != nil {
		return 0, err
	}
	id, ok := s.deps.Controller.HandleAt(index)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrNoHandle, index)
	}
	return id, nil
}

// HandleClick clicks an annotation.
func (s *Service) HandleClick(e dispatcher.Event) (any, error) {
	id, err := s.drawable(e)
	if err != nil {
		return nil, err
	}
	return s.deps.Controller.Click(id), nil
}

// HandleRightClick right-clicks an annotation.
func (s *Service) HandleRightClick(e dispatcher.Event) (any, error) {
	id, err := s.drawable(e)
	if err != nil {
		return nil, err
	}
	return s.deps.Controller.RightClick(id), nil
}

// HandleHandle clicks the vertex handle at an index.
func (s *Service) HandleHandle(e dispatcher.Event) (any, error) {
	id, err := s.handle(e)
	if err != nil {
		return nil, err
	}
	return s.deps.Controller.Click(id), nil
}

// HandleRightClickHandle right-clicks the vertex handle at an index.
func (s *Service) HandleRightClickHandle(e dispatcher.Event) (any, error) {
	id, err := s.handle(e)
	if err != nil {
		return nil, err
	}
	return s.deps.Controller.RightClick(id), nil
}

// HandleMapClick clicks the bare map.
func (s *Service) HandleMapClick(e dispatcher.Event) (any, error) {
	if len(e.Args) != 2 {
		return nil, fmt.Errorf("%w: %s", parser.ErrArity, e.Command)
	}
	pos, err := parser.ParseLatLng(e.Args[0], e.Args[1])
	if err != nil {
		return nil, err
	}
	return s.deps.Controller.MapClick(pos), nil
}

// HandleToggle flips one checkbox.
func (s *Service) HandleToggle(e dispatcher.Event) (any, error) {
	a, err := arg(e, 0)
	if err != nil {
		return nil, err
	}
	if _, err := annot.ParseAppID(a); err != nil {
		return nil, err
	}
	return s.deps.Controller.Toggle(a), nil
}

// HandleFolder checks or unchecks a folder.
func (s *Service) HandleFolder(e dispatcher.Event) (any, error) {
	if len(e.Args) != 2 {
		return nil, fmt.Errorf("%w: %s", parser.ErrArity, e.Command)
	}
	f, err := annot.ParseFolder(e.Args[0])
	if err != nil {
		return nil, err
	}
	on, err := parser.ParseSwitch(e.Args[1])
	if err != nil {
		return nil, err
	}
	return s.deps.Controller.SelectFolder(f, on), nil
}

// HandleSelectAll checks or unchecks everything.
func (s *Service) HandleSelectAll(e dispatcher.Event) (any, error) {
	a, err := arg(e, 0)
	if err != nil {
		return nil, err
	}
	on, err := parser.ParseSwitch(a)
	if err != nil {
		return nil, err
	}
	return s.deps.Controller.SelectAll(on), nil
}

// HandleExport returns the GeoJSON snapshot as []byte.
func (s *Service) HandleExport(e dispatcher.Event) (any, error) {
	srid, err := parser.ParseProjection(e.Args...)
	if err != nil {
		return nil, err
	}
	buf, err := export.Snapshot(s.deps.Controller, srid)
	if err != nil {
		return nil, err
	}
	s.log.Debug("exported snapshot", "srid", srid, "bytes", len(buf))
	return buf, nil
}
