package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"golang.org/x/sync/errgroup"

	"github.com/gt7setup/tuner/internal/config"
	"github.com/gt7setup/tuner/internal/database"
	"github.com/gt7setup/tuner/internal/dispatcher"
	"github.com/gt7setup/tuner/internal/handlers"
	"github.com/gt7setup/tuner/internal/influx"
	"github.com/gt7setup/tuner/internal/logging"
	intOtel "github.com/gt7setup/tuner/internal/otel"
	"github.com/gt7setup/tuner/internal/parser"
	"github.com/gt7setup/tuner/internal/setup"
	"github.com/gt7setup/tuner/internal/storage"
	"github.com/gt7setup/tuner/internal/worker"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.1.0"
	BuildDate      string = "unknown"

	AppName string = "gt7setup"
)

// file paths
var (
	// ConfigDir holds gt7setup.cfg.json. GT7SETUP_CONFIG_DIR overrides the
	// working directory.
	ConfigDir string

	LogFilePath string
	LogFile     *os.File

	// InfluxBackupPath receives gzipped line protocol when InfluxDB is down.
	InfluxBackupPath string
)

// global variables
var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	// GraylogWriter ships JSON records to Graylog when enabled
	GraylogWriter *gelf.Writer

	// ActiveVehicle is added to every log record
	ActiveVehicle = &logging.ActiveVehicle{}

	SessionStartTime time.Time = time.Now()

	// Services
	handlerService  *handlers.Service
	workerManager   *worker.Manager
	eventDispatcher *dispatcher.Dispatcher
	influxManager   *influx.Manager
	dbManager       *database.Manager

	// Storage backend
	storageBackend storage.Backend
)

// initLogging loads the config and sets up slog with the optional OTel and
// Graylog sinks.
func initLogging() error {
	ConfigDir = os.Getenv("GT7SETUP_CONFIG_DIR")
	if ConfigDir == "" {
		ConfigDir = "."
	}

	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(logging.Options{Level: "warn", File: os.Stderr})
	Logger = SlogManager.Logger()

	if err := config.Load(ConfigDir); err != nil {
		config.SetDefaults()
		Logger.Debug("No config file, using defaults", "dir", ConfigDir, "error", err)
	}

	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("create logs dir: %w", err)
	}
	LogFilePath = logging.LogFilePath(logsDir, AppName, SessionStartTime)
	InfluxBackupPath = filepath.Join(logsDir, fmt.Sprintf("%s_influx_%s.log.gz", AppName, SessionStartTime.Format("20060102_150405")))

	var err error
	LogFile, err = os.OpenFile(LogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    LogFile,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
			OTelProvider = nil
		}
	}

	if viper.GetBool("graylog.enabled") {
		GraylogWriter, err = logging.NewGraylogWriter(viper.GetString("graylog.address"), AppName)
		if err != nil {
			Logger.Error("Failed to connect to Graylog", "error", err)
			GraylogWriter = nil
		}
	}

	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}
	SlogManager.Setup(logging.Options{
		File:         LogFile,
		Level:        viper.GetString("logLevel"),
		Provider:     otelLogProvider,
		Graylog:      graylogSink(),
		GraylogLevel: viper.GetString("graylog.level"),
		Context:      ActiveVehicle.Attrs,
	})
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", LogFilePath, "version", CurrentVersion)
	return nil
}

// graylogSink avoids handing a typed nil writer to the log handlers.
func graylogSink() io.Writer {
	if GraylogWriter == nil {
		return nil
	}
	return GraylogWriter
}

// componentLogger builds the zerolog logger for a manager.
func componentLogger(component string) zerolog.Logger {
	var out io.Writer = os.Stderr
	if LogFile != nil {
		out = LogFile
	}
	return logging.NewComponentLogger(out, graylogSink(), viper.GetString("logLevel"), component)
}

// initServices wires the dispatcher, metrics sink, storage backend and
// command handlers.
func initServices(ctx context.Context) error {
	var err error
	eventDispatcher, err = dispatcher.New(logging.NewDispatcherLogger(componentLogger("dispatcher")))
	if err != nil {
		return fmt.Errorf("create dispatcher: %w", err)
	}
	registerLifecycleHandlers(eventDispatcher)

	var metrics handlers.PointWriter
	influxManager = influx.NewManager(componentLogger("influx"), config.GetInfluxConfig(), InfluxBackupPath)
	switch err := influxManager.Connect(ctx); {
	case err == nil:
		metrics = influxManager
	case errors.Is(err, influx.ErrDisabled):
		Logger.Debug("InfluxDB disabled")
	default:
		Logger.Warn("Calculation metrics unavailable", "error", err)
	}

	if err := initStorage(); err != nil {
		return err
	}

	calcCfg := config.GetCalculatorConfig()
	handlerService = handlers.NewService(handlers.Dependencies{
		Calculator: setup.New(Logger, setup.Options{
			DefaultWeight:     calcCfg.DefaultWeight,
			TorqueCurvePoints: calcCfg.TorqueCurvePoints,
		}),
		Parser:     parser.NewParser(Logger),
		Backend:    storageBackend,
		LogManager: SlogManager,
		Metrics:    metrics,
		Active:     ActiveVehicle,
	})

	workerManager = worker.NewManager(worker.Dependencies{
		Service:    handlerService,
		LogManager: SlogManager,
	}, storageBackend)
	workerManager.RegisterHandlers(eventDispatcher)
	Logger.Debug("Command handlers registered", "commands", len(eventDispatcher.Commands()))
	return nil
}

// registerLifecycleHandlers registers system command handlers with the dispatcher
func registerLifecycleHandlers(d *dispatcher.Dispatcher) {
	d.Register(":VERSION:", func(e dispatcher.Event) (any, error) {
		return []string{CurrentVersion, BuildDate}, nil
	})

	d.Register(":GETDIR:LOG:", func(e dispatcher.Event) (any, error) {
		return LogFilePath, nil
	})

	d.Register(":STORAGE:TYPE:", func(e dispatcher.Event) (any, error) {
		return config.GetStorageConfig().Type, nil
	})

	d.Register(":COMMANDS:", func(e dispatcher.Event) (any, error) {
		return d.Commands(), nil
	})

	// Database maintenance, sqlite and postgres storage only
	d.Register(":DB:SETUP:", func(e dispatcher.Event) (any, error) {
		if dbManager == nil {
			return nil, errNoDatabase
		}
		if err := dbManager.Setup(); err != nil {
			return nil, err
		}
		return "ok", nil
	}, dispatcher.Logged())

	d.Register(":DB:DUMP:", func(e dispatcher.Event) (any, error) {
		if dbManager == nil || !dbManager.IsLocal {
			return nil, errNoDatabase
		}
		path := snapshotPath(config.GetStorageConfig().SQLite.BackupDir, SessionStartTime)
		if len(e.Args) > 0 && e.Args[0] != "" {
			path = e.Args[0]
		}
		if flusher, ok := storageBackend.(interface{ Flush() }); ok {
			flusher.Flush()
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		if err := dbManager.DumpToDisk(path); err != nil {
			return nil, err
		}
		return path, nil
	}, dispatcher.Logged())

	d.Register(":DB:BACKUPS:", func(e dispatcher.Event) (any, error) {
		dir := config.GetStorageConfig().SQLite.BackupDir
		if len(e.Args) > 0 && e.Args[0] != "" {
			dir = e.Args[0]
		}
		paths, err := database.BackupDBPaths(dir)
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return paths, err
	})
}

// errNoDatabase is returned by database commands when storage is not
// database backed.
var errNoDatabase = errors.New("storage is not backed by a local database")

// snapshotPath names a database snapshot taken during the session.
func snapshotPath(dir string, sessionStart time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.db", AppName, sessionStart.Format("20060102_150405")))
}

// shutdown drains the dispatcher, then closes storage and metrics, then the
// database and telemetry.
func shutdown(ctx context.Context) error {
	var errs []error

	if eventDispatcher != nil {
		if err := eventDispatcher.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("dispatcher: %w", err))
		}
	}

	var g errgroup.Group
	if storageBackend != nil {
		g.Go(func() error {
			if err := storageBackend.Close(); err != nil {
				return fmt.Errorf("storage: %w", err)
			}
			exp, ok := storageBackend.(storage.Exportable)
			if !ok || exp.ExportedFilePath() == "" {
				return nil
			}
			Logger.Info("Calculations exported", "path", exp.ExportedFilePath())
			if err := uploadExport(exp.ExportedFilePath()); err != nil {
				Logger.Warn("Session upload failed", "error", err)
			}
			return nil
		})
	}
	if influxManager != nil {
		g.Go(func() error {
			if err := influxManager.Close(); err != nil {
				return fmt.Errorf("influx: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		errs = append(errs, err)
	}

	if dbManager != nil {
		if err := dbManager.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}

	if OTelProvider != nil {
		if err := OTelProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("otel: %w", err))
		}
	}
	if GraylogWriter != nil {
		if err := GraylogWriter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("graylog: %w", err))
		}
	}
	if LogFile != nil {
		LogFile.Close()
	}
	return errors.Join(errs...)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	if len(args) == 0 || isHelp(args[0]) {
		printUsage(stdout)
		return 2
	}

	if err := initLogging(); err != nil {
		fmt.Fprintln(os.Stderr, "gt7setup:", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	status := 0
	if err := initServices(ctx); err != nil {
		Logger.Error("Startup failed", "error", err)
		fmt.Fprintln(os.Stderr, "gt7setup:", err)
		status = 1
	} else if err := runCommand(args, stdin, stdout); err != nil {
		Logger.Error("Command failed", "command", args[0], "error", err)
		fmt.Fprintln(os.Stderr, "gt7setup:", err)
		status = 1
	}

	if err := shutdown(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "gt7setup: shutdown:", err)
		if status == 0 {
			status = 1
		}
	}
	return status
}
