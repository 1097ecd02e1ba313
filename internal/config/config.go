package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/dynbind/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "dynbind.json"

	// DefaultAddress is the default debug server address.
	DefaultAddress = "localhost:7070"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "dynbind"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "dynbind"

	// DefaultRegion is the default S3 region.
	DefaultRegion = "us-east-1"
)

// Environment overrides.
const (
	EnvLogLevel = "DYNBIND_LOG_LEVEL"
	EnvAddress  = "DYNBIND_ADDR"
)

// Config represents the complete dynbind.json configuration.
type Config struct {
	// Log configures the slog handler.
	Log LogConfig `json:"log,omitempty"`

	// Server configures the debug server.
	Server ServerConfig `json:"server,omitempty"`

	// Metrics configures the Prometheus collectors.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing configures OpenTelemetry spans.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// S3 configures the scenario source for s3:// locations.
	S3 S3Config `json:"s3,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// ServerConfig configures the debug server.
type ServerConfig struct {
	// Address is the listen address.
	Address string `json:"address,omitempty"`

	// ReadHeaderTimeout is a duration string (e.g., "5s").
	ReadHeaderTimeout string `json:"readHeaderTimeout,omitempty"`
}

// MetricsConfig configures metrics.
type MetricsConfig struct {
	Enabled   *bool  `json:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig configures tracing.
type TracingConfig struct {
	TracerName string `json:"tracerName,omitempty"`
}

// S3Config configures the S3 scenario source.
type S3Config struct {
	Region       string `json:"region,omitempty"`
	Endpoint     string `json:"endpoint,omitempty"`
	UsePathStyle bool   `json:"usePathStyle,omitempty"`
}

// New returns a configuration with every default applied.
func New() *Config {
	enabled := true
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Address:           DefaultAddress,
			ReadHeaderTimeout: "5s",
		},
		Metrics: MetricsConfig{
			Enabled:   &enabled,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
		S3: S3Config{
			Region: DefaultRegion,
		},
	}
}

// Load reads dynbind.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("C001").
				WithDetail("No " + ConfigFileName + " found at " + path)
		}
		return nil, errors.New("C001").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("C001").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path if it is set and otherwise dynbind.json from the
// working directory when present. With neither, it returns the defaults.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	if Exists(".") {
		return Load(".")
	}
	cfg := New()
	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

// Exists reports whether dir contains dynbind.json.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	defaults := New()

	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}
	if c.Server.Address == "" {
		c.Server.Address = defaults.Server.Address
	}
	if c.Server.ReadHeaderTimeout == "" {
		c.Server.ReadHeaderTimeout = defaults.Server.ReadHeaderTimeout
	}
	if c.Metrics.Enabled == nil {
		c.Metrics.Enabled = defaults.Metrics.Enabled
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = defaults.Metrics.Namespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = defaults.Tracing.TracerName
	}
	if c.S3.Region == "" {
		c.S3.Region = defaults.S3.Region
	}
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvAddress); v != "" {
		c.Server.Address = v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("C002").
			WithDetailf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("C002").
			WithDetailf("log.format %q is not text or json", c.Log.Format)
	}
	if _, err := time.ParseDuration(c.Server.ReadHeaderTimeout); err != nil {
		return errors.New("C002").
			WithDetailf("server.readHeaderTimeout %q is not a duration", c.Server.ReadHeaderTimeout)
	}
	return nil
}

// MetricsEnabled reports whether metrics are enabled.
func (c *Config) MetricsEnabled() bool {
	return c.Metrics.Enabled == nil || *c.Metrics.Enabled
}

// HeaderTimeout returns server.readHeaderTimeout as a duration.
func (c *Config) HeaderTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ReadHeaderTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// Level returns log.level as a slog level.
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

// Logger builds a slog logger writing to w in the configured format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
