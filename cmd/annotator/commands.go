package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/teebox/annotator/internal/api"
	"github.com/teebox/annotator/internal/config"
	"github.com/teebox/annotator/internal/dispatcher"
	"github.com/teebox/annotator/internal/editor"
	"github.com/teebox/annotator/internal/export"
	"github.com/teebox/annotator/internal/handlers"
	"github.com/teebox/annotator/internal/logging"
	"github.com/teebox/annotator/internal/parser"
	"github.com/teebox/annotator/internal/render/memory"
	"github.com/teebox/annotator/pkg/core"
)

const requestTimeout = 30 * time.Second

func courseIDArg(args []string, n int, what string) (int, error) {
	if len(args) != n {
		return 0, fmt.Errorf("usage: annotator %s", what)
	}
	return parser.ParseCourseID(args[0])
}

func newController() (*editor.Controller, error) {
	ec := config.GetEditorConfig()
	mode, err := editor.ParseMode(ec.Mode)
	if err != nil {
		return nil, fmt.Errorf("editor.mode: %w", err)
	}
	return editor.New(memory.New(), editor.Options{StepMeters: ec.StepMeters, Mode: mode}, Logger), nil
}

func listCourses(ctx context.Context) error {
	src, closeSrc, err := openSource(ctx, config.GetSourceConfig())
	if err != nil {
		return err
	}
	defer closeSrc()

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	list, err := src.ListCourses(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME")
	for _, c := range list {
		fmt.Fprintf(w, "%d\t%s\n", c.ID, c.Name)
	}
	return w.Flush()
}

func showCourse(ctx context.Context, args []string) error {
	id, err := courseIDArg(args, 1, "show <courseId>")
	if err != nil {
		return err
	}
	src, closeSrc, err := openSource(ctx, config.GetSourceConfig())
	if err != nil {
		return err
	}
	defer closeSrc()

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	cd, err := src.GetCourse(ctx, id)
	if err != nil {
		return err
	}

	ctrl, err := newController()
	if err != nil {
		return err
	}
	ctrl.LoadCourse(cd)

	type counts struct{ markers, polygons, polylines int }
	byFolder := map[string]*counts{}
	var order []string
	for _, e := range ctrl.Entries() {
		key := e.Folder.String()
		c, ok := byFolder[key]
		if !ok {
			c = &counts{}
			byFolder[key] = c
			order = append(order, key)
		}
		switch e.Kind {
		case core.KindMarker:
			c.markers++
		case core.KindPolygon:
			c.polygons++
		case core.KindPolyline:
			c.polylines++
		}
	}

	fmt.Printf("%s (id %d): %d holes, %d annotations, %d drawables, ref lat %.6f\n",
		cd.Name, cd.ID, len(cd.Holes), cd.TotalAnnotations(), len(ctrl.Entries()), cd.RefLat)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FOLDER\tMARKERS\tPOLYGONS\tPOLYLINES")
	for _, key := range order {
		c := byFolder[key]
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", key, c.markers, c.polygons, c.polylines)
	}
	return w.Flush()
}

func openScript(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// replay loads a course, feeds the script through the dispatcher as if the
// commands came from the map widget and prints the final GeoJSON snapshot.
func replay(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: annotator replay <courseId> <script|->")
	}
	id, err := parser.ParseCourseID(args[0])
	if err != nil {
		return err
	}

	f, err := openScript(args[1])
	if err != nil {
		return err
	}
	events, err := parser.NewParser(Logger).ParseScript(f)
	f.Close()
	if err != nil {
		return err
	}

	src, closeSrc, err := openSource(ctx, config.GetSourceConfig())
	if err != nil {
		return err
	}
	defer closeSrc()

	// every record from here on carries the course and mode
	var ctrl *editor.Controller
	Logger = SlogManager.WithContext(func() []slog.Attr {
		if ctrl == nil {
			return nil
		}
		return ctrl.LogAttrs()
	})
	ctrl, err = newController()
	if err != nil {
		return err
	}

	d, err := dispatcher.New(logging.NewDispatcherLogger(ZLogger.With().Str("component", "dispatcher").Logger()))
	if err != nil {
		return err
	}
	svc := handlers.NewService(handlers.Dependencies{
		Controller: ctrl,
		Source:     src,
		Dispatcher: d,
		Logger:     Logger,
	})
	svc.Register()
	defer svc.Close()

	step := func(ev dispatcher.Event) (any, error) {
		res, err := d.Dispatch(ev)
		svc.Settle()
		if derr := d.Drain(); derr != nil {
			err = errors.Join(err, derr)
		}
		return res, err
	}

	if _, err := step(dispatcher.Event{Command: parser.CmdLoad, Args: []string{args[0]}}); err != nil {
		return err
	}
	if ctrl.Course().ID != id {
		return fmt.Errorf("course %d did not load", id)
	}

	var failed []error
	exported := false
	for i, ev := range events {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		res, err := step(ev)
		if err != nil {
			Logger.Warn("Command failed", "n", i+1, "command", ev.Command, "args", strings.Join(ev.Args, " "), "error", err)
			failed = append(failed, fmt.Errorf("%s %s: %w", ev.Command, strings.Join(ev.Args, " "), err))
			continue
		}
		if buf, ok := res.([]byte); ok && ev.Command == parser.CmdExport {
			os.Stdout.Write(append(buf, '\n'))
			exported = true
		}
	}

	if !exported {
		buf, err := export.Snapshot(ctrl, 4326)
		if err != nil {
			return err
		}
		os.Stdout.Write(append(buf, '\n'))
	}
	return errors.Join(failed...)
}

func importKML(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: annotator import <file.kml>")
	}
	client := api.New(config.GetSourceConfig().ServerURL)
	res, err := client.ImportKML(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s (%d holes, %d global annotations)\n", res.Message, res.CourseName, res.Holes, res.GlobalAnnotations)
	return nil
}

// mirror copies one course from the backend into the local store. The
// store is postgres when source.type says so and the sqlite file otherwise.
func mirror(ctx context.Context, args []string) error {
	id, err := courseIDArg(args, 1, "mirror <courseId>")
	if err != nil {
		return err
	}
	cfg := config.GetSourceConfig()

	fetchCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	cd, err := api.New(cfg.ServerURL).GetCourse(fetchCtx, id)
	if err != nil {
		return err
	}

	driver := "sqlite"
	if cfg.Type == "postgres" {
		driver = "postgres"
	}
	store, closeStore, err := openStore(ctx, driver, cfg.SqlitePath)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.SaveCourse(ctx, cd); err != nil {
		return err
	}
	fmt.Printf("mirrored %s (id %d): %d holes, %d annotations\n", cd.Name, cd.ID, len(cd.Holes), cd.TotalAnnotations())
	return nil
}

func health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	h, err := api.New(config.GetSourceConfig().ServerURL).Healthcheck(ctx)
	if h.Status != "" {
		fmt.Printf("status=%s database=%s timestamp=%s\n", h.Status, h.Database, h.Timestamp)
	}
	return err
}
