package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vango-dev/componenttree/internal/errors"
	"github.com/vango-dev/componenttree/pkg/build"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "componenttree.json"

	// DefaultPort is the default inspector port.
	DefaultPort = 7070

	// DefaultHost is the default inspector host.
	DefaultHost = "localhost"

	// DefaultHistory is the number of generations the inspector keeps.
	DefaultHistory = 32

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "componenttree"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "COMPONENTTREE_"
)

// Config represents the complete componenttree.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Descriptor is the path to the JSON descriptor tree built by the CLI
	// and the inspector.
	Descriptor string `json:"descriptor,omitempty"`

	// Build holds the build pass flags.
	Build build.Config `json:"build"`

	// Inspector contains inspector server configuration.
	Inspector InspectorConfig `json:"inspector,omitempty"`

	// Snapshot contains snapshot export configuration.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// InspectorConfig contains inspector server settings.
type InspectorConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// History is the number of generations kept in memory.
	History int `json:"history,omitempty"`
}

// SnapshotConfig contains snapshot export settings.
type SnapshotConfig struct {
	// Target is a directory or an s3://bucket/prefix URL. Empty disables
	// snapshots.
	Target string `json:"target,omitempty"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Build: build.DefaultConfig(),
		Inspector: InspectorConfig{
			Host:    DefaultHost,
			Port:    DefaultPort,
			History: DefaultHistory,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for componenttree.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("C002").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Run 'componenttree config init' to create one")
		}
		return nil, errors.New("C001").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("C001").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("C001").Wrap(err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("C001").Wrap(err)
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
	if c.Inspector.Host == "" {
		c.Inspector.Host = DefaultHost
	}
	if c.Inspector.Port == 0 {
		c.Inspector.Port = DefaultPort
	}
	if c.Inspector.History == 0 {
		c.Inspector.History = DefaultHistory
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// ApplyEnv overrides configuration values from the environment. lookup is
// usually os.LookupEnv. Recognized variables (all prefixed with
// COMPONENTTREE_):
//
//	DEBUG, ALWAYS_BUILD, UNIFY, USE_VECTOR, LAYOUT_CACHE  booleans
//	INSPECTOR_HOST, SNAPSHOT_TARGET, METRICS_NAMESPACE, LOG_LEVEL, DESCRIPTOR
//	INSPECTOR_PORT, INSPECTOR_HISTORY  integers
//
// Malformed values are reported as C003 errors.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	bools := map[string]*bool{
		"DEBUG":        &c.Build.Debug,
		"ALWAYS_BUILD": &c.Build.AlwaysBuildRenderTree,
		"UNIFY":        &c.Build.Unify.Enable,
		"USE_VECTOR":   &c.Build.Unify.UseVector,
		"LAYOUT_CACHE": &c.Build.EnableLayoutCacheInRender,
	}
	for name, dst := range bools {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return errors.New("C003").
				WithDetail(EnvPrefix + name + "=" + v + " is not a boolean").
				Wrap(err)
		}
		*dst = b
	}

	strs := map[string]*string{
		"INSPECTOR_HOST":    &c.Inspector.Host,
		"SNAPSHOT_TARGET":   &c.Snapshot.Target,
		"METRICS_NAMESPACE": &c.Metrics.Namespace,
		"LOG_LEVEL":         &c.Log.Level,
		"DESCRIPTOR":        &c.Descriptor,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	ints := map[string]*int{
		"INSPECTOR_PORT":    &c.Inspector.Port,
		"INSPECTOR_HISTORY": &c.Inspector.History,
	}
	for name, dst := range ints {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.New("C003").
				WithDetail(EnvPrefix + name + "=" + v + " is not an integer").
				Wrap(err)
		}
		*dst = n
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Inspector.Port < 0 || c.Inspector.Port > 65535 {
		return errors.New("C003").
			WithDetail("inspector.port must be between 0 and 65535")
	}
	if c.Inspector.History < 1 {
		return errors.New("C003").
			WithDetail("inspector.history must be at least 1")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// BuildConfig returns the build pass configuration.
func (c *Config) BuildConfig() build.Config {
	return c.Build
}

// InspectorAddress returns the listen address of the inspector.
func (c *Config) InspectorAddress() string {
	return c.Inspector.Host + ":" + strconv.Itoa(c.Inspector.Port)
}

// DescriptorPath returns the absolute path to the descriptor file, or ""
// when none is configured.
func (c *Config) DescriptorPath() string {
	if c.Descriptor == "" || filepath.IsAbs(c.Descriptor) {
		return c.Descriptor
	}
	return filepath.Join(c.Dir(), c.Descriptor)
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.New("C003").
		WithDetail("log.level " + strconv.Quote(c.Log.Level) + " is not one of debug, info, warn, error")
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing componenttree.json, or an error if not
// found.
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
			return "", errors.New("C002").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'componenttree config init' to create one")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or one of its parents, then applies environment overrides. When no file
// exists the defaults are used.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	cfg := New()
	if root, err := FindProjectRoot(wd); err == nil {
		if cfg, err = Load(root); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}
