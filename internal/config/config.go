package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/vango-dev/safecontext/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "safecontext.json"

	// DefaultAddr is the default demo server address.
	DefaultAddr = "localhost:8080"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "safecontext"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "safecontext"
)

// Config represents the complete safecontext.json configuration.
type Config struct {
	// Server contains demo server configuration.
	Server ServerConfig `json:"server"`

	// Render contains HTML rendering configuration.
	Render RenderConfig `json:"render"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing"`

	// Scenarios contains the values supplied to the demo contexts.
	Scenarios ScenarioConfig `json:"scenarios"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains demo server settings.
type ServerConfig struct {
	// Addr is the host:port to listen on.
	Addr string `json:"addr,omitempty"`
}

// RenderConfig contains rendering settings.
type RenderConfig struct {
	// Pretty indents rendered HTML.
	Pretty bool `json:"pretty,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes /metrics and records observer events.
	Enabled bool `json:"enabled"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// TracerName is the name of the tracer.
	TracerName string `json:"tracerName,omitempty"`
}

// ScenarioConfig contains the values the demo providers supply.
type ScenarioConfig struct {
	// Version is supplied to the raw version context.
	Version string `json:"version,omitempty"`

	// URL is supplied to the URL context.
	URL string `json:"url,omitempty"`

	// Location is supplied to the location context as [latitude, longitude].
	Location []float64 `json:"location,omitempty"`

	// MaxWaitTime is the server config's max response time.
	MaxWaitTime int `json:"maxWaitTime,omitempty"`

	// Title is passed as the menu title prop.
	Title string `json:"title,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{
		Metrics: MetricsConfig{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified directory.
// It looks for safecontext.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigRead).
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or run without one to use the defaults")
		}
		return nil, errors.New(errors.CodeConfigRead).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigParse).
			WithDetail("Failed to parse " + path + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}

	s := &c.Scenarios
	if s.Version == "" {
		s.Version = "1.0"
	}
	if s.URL == "" {
		s.URL = "http://localhost:8080"
	}
	if s.Location == nil {
		s.Location = []float64{37.0902, 95.7129}
	}
	if s.MaxWaitTime == 0 {
		s.MaxWaitTime = 1000
	}
	if s.Title == "" {
		s.Title = "x"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, port, err := net.SplitHostPort(c.Server.Addr); err != nil || port == "" {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail(fmt.Sprintf("server.addr %q is not a host:port address", c.Server.Addr)).
			WithExample(`"server": {"addr": "localhost:8080"}`)
	}
	if len(c.Scenarios.Location) != 2 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail(fmt.Sprintf("scenarios.location must have 2 elements, got %d", len(c.Scenarios.Location))).
			WithExample(`"location": [37.0902, 95.7129]`)
	}
	lat, lon := c.Scenarios.Location[0], c.Scenarios.Location[1]
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail(fmt.Sprintf("scenarios.location [%v, %v] is out of range", lat, lon))
	}
	if c.Scenarios.MaxWaitTime < 0 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("scenarios.maxWaitTime must not be negative")
	}
	return nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the directory containing
// safecontext.json.
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
			return "", errors.New(errors.CodeConfigRead).
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or its nearest ancestor holding safecontext.json. Without one, it returns
// the defaults.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return New(), nil
	}

	return Load(root)
}
