package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/observer/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "observer.json"

	// YAMLConfigFileName is the name of the YAML configuration file. It is
	// used when no observer.json exists.
	YAMLConfigFileName = "observer.yaml"

	// DefaultInspectorAddr is the default inspector listen address.
	DefaultInspectorAddr = "localhost:7070"

	// DefaultSnapshotDir is the default snapshot directory.
	DefaultSnapshotDir = "snapshots"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "observer"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "github.com/vango-dev/observer"
)

// Config represents the complete observer configuration.
type Config struct {
	// Name is the application name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Log configures the slog handler.
	Log LogConfig `json:"log" yaml:"log"`

	// Engine configures the notify engine.
	Engine EngineConfig `json:"engine" yaml:"engine"`

	// Metrics configures the Prometheus recorder.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Tracing configures the OpenTelemetry recorder.
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`

	// Inspector configures the HTTP inspector.
	Inspector InspectorConfig `json:"inspector" yaml:"inspector"`

	// Snapshot configures where snapshots are kept.
	Snapshot SnapshotConfig `json:"snapshot" yaml:"snapshot"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// EngineConfig contains notify engine settings.
type EngineConfig struct {
	// MaxNotifyDepth bounds nested notifications of one subject.
	// 0 uses the engine default, a negative value disables the guard.
	MaxNotifyDepth int `json:"maxNotifyDepth,omitempty" yaml:"maxNotifyDepth,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Subsystem string `json:"subsystem,omitempty" yaml:"subsystem,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// InspectorConfig contains inspector server settings.
type InspectorConfig struct {
	// Addr is the listen address (host:port).
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// StreamBuffer is the per-client websocket queue length.
	StreamBuffer int `json:"streamBuffer,omitempty" yaml:"streamBuffer,omitempty"`

	// CallTimeout bounds how long a request waits for the loop (e.g., "2s").
	CallTimeout string `json:"callTimeout,omitempty" yaml:"callTimeout,omitempty"`

	// AllowedOrigins lists browser origins allowed to open the websocket
	// stream (e.g., "http://localhost:3000"). Empty means same-origin only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`
}

// SnapshotConfig contains snapshot storage settings. When Bucket is set
// snapshots go to S3, otherwise to Dir.
type SnapshotConfig struct {
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// Format is "json" or "cbor".
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
		Inspector: InspectorConfig{
			Addr:        DefaultInspectorAddr,
			CallTimeout: "2s",
		},
		Snapshot: SnapshotConfig{
			Dir:    DefaultSnapshotDir,
			Format: "json",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for observer.json, then observer.yaml.
func Load(dir string) (*Config, error) {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New(errors.CodeConfigNotFound).
		WithDetail("No " + ConfigFileName + " or " + YAMLConfigFileName + " found in " + dir).
		WithSuggestion("Run 'observer init' to write a default configuration")
}

// LoadFile reads configuration from the specified file path. Files ending
// in .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No configuration file at " + path)
		}
		return nil, errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New(errors.CodeConfigInvalid).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check the file syntax")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path, as YAML or JSON depending on
// the extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	d := New()
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = d.Metrics.Namespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = d.Tracing.TracerName
	}
	if c.Inspector.Addr == "" {
		c.Inspector.Addr = d.Inspector.Addr
	}
	if c.Inspector.CallTimeout == "" {
		c.Inspector.CallTimeout = d.Inspector.CallTimeout
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = d.Snapshot.Dir
	}
	if c.Snapshot.Format == "" {
		c.Snapshot.Format = d.Snapshot.Format
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	invalid := func(detail, suggestion string) error {
		return errors.New(errors.CodeConfigInvalid).
			WithOp("config.Validate").
			WithDetail(detail).
			WithSuggestion(suggestion)
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		return invalid(err.Error(), "Use debug, info, warn or error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid(fmt.Sprintf("unknown log format %q", c.Log.Format), "Use text or json")
	}
	if _, _, err := net.SplitHostPort(c.Inspector.Addr); err != nil {
		return invalid(fmt.Sprintf("inspector address %q: %v", c.Inspector.Addr, err), "Use host:port, e.g. localhost:7070")
	}
	if c.Inspector.StreamBuffer < 0 {
		return invalid("inspector streamBuffer must not be negative", "")
	}
	if d, err := time.ParseDuration(c.Inspector.CallTimeout); err != nil || d <= 0 {
		return invalid(fmt.Sprintf("inspector callTimeout %q is not a positive duration", c.Inspector.CallTimeout), "Use a Go duration such as 2s")
	}
	for _, o := range c.Inspector.AllowedOrigins {
		if u, err := url.Parse(o); err != nil || u.Scheme == "" || u.Host == "" {
			return invalid(fmt.Sprintf("inspector allowed origin %q is not scheme://host[:port]", o), "Use an origin such as http://localhost:3000")
		}
	}
	switch strings.ToLower(c.Snapshot.Format) {
	case "json", "cbor":
	default:
		return invalid(fmt.Sprintf("unknown snapshot format %q", c.Snapshot.Format), "Use json or cbor")
	}
	if c.Snapshot.Bucket == "" && (c.Snapshot.Prefix != "" || c.Snapshot.Region != "") {
		return invalid("snapshot prefix and region need a bucket", "Set snapshot.bucket or remove prefix and region")
	}
	return nil
}

// LogLevel returns the configured slog level. Unknown levels map to info.
func (c *Config) LogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewLogger builds a text or JSON slog logger writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// CallTimeout returns the inspector call timeout, or 2s if unset or invalid.
func (c *Config) CallTimeout() time.Duration {
	d, err := time.ParseDuration(c.Inspector.CallTimeout)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

// SnapshotPath returns the absolute path to the snapshot directory.
func (c *Config) SnapshotPath() string {
	path := c.Snapshot.Dir
	if path == "" {
		path = DefaultSnapshotDir
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the directory holding a
// configuration file.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.CodeConfigNotFound).
				WithDetail("No configuration found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'observer init' to write a default configuration")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working
// directory or its nearest parent holding one.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
