package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the unitspec configuration
type Config struct {
	FailFast   *bool       `yaml:"failFast,omitempty"`
	Output     string      `yaml:"output,omitempty"`     // console, json, junit, tap or html
	OutputFile string      `yaml:"outputFile,omitempty"` // empty writes to stdout
	Verbose    *bool       `yaml:"verbose,omitempty"`
	NoColor    *bool       `yaml:"noColor,omitempty"`
	Root       string      `yaml:"root,omitempty"`    // directory diagnostic paths are relative to
	History    string      `yaml:"history,omitempty"` // SQLite database recording each run
	Metrics    string      `yaml:"metrics,omitempty"` // Prometheus text file written after each run
	Suites     []string    `yaml:"suites,omitempty"`  // suites run when none are named
	Watch      WatchConfig `yaml:"watch,omitempty"`
}

// WatchConfig controls re-running on file changes.
type WatchConfig struct {
	Paths    []string      `yaml:"paths,omitempty"`
	Debounce time.Duration `yaml:"debounce,omitempty"`
	Rate     float64       `yaml:"rate,omitempty"` // re-runs per second
	Burst    int           `yaml:"burst,omitempty"`
}

var ErrInvalidConfig = errors.New("invalid config")

// boolPtr returns a pointer to a bool value
func boolPtr(b bool) *bool {
	return &b
}

// BoolPtr is exported version of boolPtr for external use
func BoolPtr(b bool) *bool {
	return boolPtr(b)
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFailFast returns the fail-fast setting, defaulting to false
func (c *Config) GetFailFast() bool {
	return getBool(c.FailFast, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".unitspec.yaml",
	".unitspec.yml",
	"unitspec.yaml",
	"unitspec.yml",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	config := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values that YAML decoding alone cannot.
func (c *Config) Validate() error {
	switch c.Output {
	case "", "console", "json", "junit", "tap", "html":
	default:
		return fmt.Errorf("%w: unknown output %q", ErrInvalidConfig, c.Output)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("%w: watch.debounce must not be negative", ErrInvalidConfig)
	}
	if c.Watch.Rate < 0 {
		return fmt.Errorf("%w: watch.rate must not be negative", ErrInvalidConfig)
	}
	if c.Watch.Burst < 0 {
		return fmt.Errorf("%w: watch.burst must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Output != "" {
		result.Output = other.Output
	}
	if other.OutputFile != "" {
		result.OutputFile = other.OutputFile
	}
	if other.Root != "" {
		result.Root = other.Root
	}
	if other.History != "" {
		result.History = other.History
	}
	if other.Metrics != "" {
		result.Metrics = other.Metrics
	}

	// Boolean flags - only override if explicitly set in other config
	if other.FailFast != nil {
		result.FailFast = other.FailFast
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(other.Suites) > 0 {
		result.Suites = other.Suites
	}

	if len(other.Watch.Paths) > 0 {
		result.Watch.Paths = other.Watch.Paths
	}
	if other.Watch.Debounce > 0 {
		result.Watch.Debounce = other.Watch.Debounce
	}
	if other.Watch.Rate > 0 {
		result.Watch.Rate = other.Watch.Rate
	}
	if other.Watch.Burst > 0 {
		result.Watch.Burst = other.Watch.Burst
	}

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
