package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/teebox/annotator/internal/config"
	"github.com/teebox/annotator/internal/logging"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.0.1"
	BuildDate      string = "unknown"

	AppName string = "annotator"
)

// global variables
var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// ZLogger feeds the database manager and the dispatcher
	ZLogger zerolog.Logger

	LogFilePath string
	LogFile     *os.File

	SessionStartTime time.Time = time.Now()
)

const usage = `usage: annotator <command> [args]

commands:
  courses                  list the courses of the configured source
  show <courseId>          summarize the drawables of a course
  replay <courseId> <file> load a course, run a command script, print GeoJSON
                           (file "-" reads stdin)
  import <file.kml>        upload a KML file to the backend
  mirror <courseId>        copy a course from the backend into the local store
  health                   check the backend
  version                  print the version

environment:
  ANNOTATOR_CONFIG_DIR     directory of annotator.cfg.json and .env (default ".")
  ANNOTATOR_*              overrides any config key, e.g. ANNOTATOR_SOURCE_TYPE=sqlite
`

func configDir() string {
	if dir := os.Getenv("ANNOTATOR_CONFIG_DIR"); dir != "" {
		return dir
	}
	return "."
}

// setupLogging loads the config, then logs to a session file under logsDir
// and, when enabled, to Graylog.
func setupLogging() {
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(os.Stderr, "info")
	Logger = SlogManager.Logger()

	err := config.Load(configDir())
	if errors.Is(err, config.ErrNoConfigFile) {
		Logger.Debug("No config file, using defaults", "dir", configDir())
	} else if err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	}

	level := viper.GetString("logLevel")
	var sink io.Writer = os.Stderr
	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		Logger.Warn("Failed to create logs dir", "error", err, "path", logsDir)
	} else {
		LogFilePath = logging.LogFilePath(logsDir, AppName, SessionStartTime)
		LogFile, err = os.OpenFile(LogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			Logger.Error("Failed to create/open log file!", "error", err, "path", LogFilePath)
		} else {
			sink = LogFile
		}
	}

	gl := config.GetGraylogConfig()
	if gl.Enabled {
		if err := SlogManager.SetupGraylog(sink, level, gl.Address); err != nil {
			SlogManager.Logger().Warn("Failed to set up Graylog, continuing without", "error", err)
		}
	} else {
		SlogManager.Setup(sink, level)
	}
	Logger = SlogManager.Logger()

	zlvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || zlvl == zerolog.NoLevel {
		zlvl = zerolog.InfoLevel
	}
	ZLogger = zerolog.New(sink).Level(zlvl).With().Timestamp().Str("app", AppName).Logger()
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errors.New("no command given")
	}

	switch strings.ToLower(args[0]) {
	case "courses":
		return listCourses(ctx)
	case "show":
		return showCourse(ctx, args[1:])
	case "replay":
		return replay(ctx, args[1:])
	case "import":
		return importKML(ctx, args[1:])
	case "mirror":
		return mirror(ctx, args[1:])
	case "health":
		return health(ctx)
	case "version":
		fmt.Printf("%s %s (built %s)\n", AppName, CurrentVersion, BuildDate)
		return nil
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	}
	fmt.Fprint(os.Stderr, usage)
	return fmt.Errorf("unknown command %q", args[0])
}

func main() {
	setupLogging()
	Logger.Debug("Starting up...", "version", CurrentVersion, "args", os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:])
	stop()

	if cerr := SlogManager.Close(); cerr != nil {
		Logger.Warn("Failed to close Graylog writer", "error", cerr)
	}
	if LogFile != nil {
		LogFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
