package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/observer/internal/config"
	obserrors "github.com/vango-dev/observer/internal/errors"
	"github.com/vango-dev/observer/pkg/subject"
	"github.com/vango-dev/observer/pkg/telemetry"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌┐ ┌─┐┌─┐┬─┐┬  ┬┌─┐┬─┐
  │ │├┴┐└─┐├┤ ├┬┘└┐┌┘├┤ ├┬┘
  └─┘└─┘└─┘└─┘┴└─ └┘ └─┘┴└─
`

// Global flags.
var (
	configPath string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "observer",
		Short: "Reactive subjects, observers and widget bindings",
		Long: `Observer is a reactive value engine for widget toolkits.

Subjects hold typed values and notify their observers on change.
Bindings keep widgets and subjects in sync, and detach themselves
when a widget is deleted. This tool runs a thermostat demo screen:

  • demo      replay the demo interactions
  • serve     expose the screen over HTTP and websocket
  • repl      drive the screen interactively
  • snapshot  save and restore subject values`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file or directory (default: nearest observer.json/observer.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(
		initCmd(),
		demoCmd(),
		serveCmd(),
		replCmd(),
		snapshotCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		var oe *obserrors.ObserverError
		if errors.As(err, &oe) {
			obserrors.PrintError(os.Stderr, err)
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// loadConfig reads the configuration named by --config, or the nearest
// one above the working directory. Without any file the defaults apply.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case configPath == "":
		cfg, err = config.LoadFromWorkingDir()
		if errors.Is(err, obserrors.New(obserrors.CodeConfigNotFound)) {
			cfg, err = config.New(), nil
		}
	default:
		if st, statErr := os.Stat(configPath); statErr == nil && st.IsDir() {
			cfg, err = config.Load(configPath)
		} else {
			cfg, err = config.LoadFile(configPath)
		}
	}
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// engine is the configured subject engine shared by every command.
type engine struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *telemetry.Metrics
}

// setupEngine loads the configuration and installs the logger and
// recorders the subject engine reports to.
func setupEngine(logOut io.Writer) (*engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	e := &engine{cfg: cfg, logger: cfg.NewLogger(logOut)}

	var recorders []subject.Recorder
	if cfg.Metrics.Enabled {
		e.registry = prometheus.NewRegistry()
		e.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		e.metrics = telemetry.NewMetrics(
			telemetry.WithRegistry(e.registry),
			telemetry.WithNamespace(cfg.Metrics.Namespace),
			telemetry.WithSubsystem(cfg.Metrics.Subsystem),
		)
		recorders = append(recorders, e.metrics)
	}
	if cfg.Tracing.Enabled {
		recorders = append(recorders, telemetry.NewTracing(telemetry.WithTracerName(cfg.Tracing.TracerName)))
	}

	opts := subject.Options{Logger: e.logger, MaxNotifyDepth: cfg.Engine.MaxNotifyDepth}
	if len(recorders) > 0 {
		opts.Recorder = subject.MultiRecorder(recorders...)
	}
	subject.Configure(opts)

	e.logger.Debug("engine configured",
		"config", cfg.Path(),
		"metrics", cfg.Metrics.Enabled,
		"tracing", cfg.Tracing.Enabled,
		"max_notify_depth", cfg.Engine.MaxNotifyDepth)
	return e, nil
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
