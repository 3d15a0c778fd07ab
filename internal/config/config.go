// Package config provides configuration types and defaults for swipe.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/swipe/internal/log"
)

// Config holds all configuration options for swipe.
type Config struct {
	// Threshold is the minimum displacement for a slide, in surface units.
	Threshold float64       `mapstructure:"threshold"`
	Debug     bool          `mapstructure:"debug"`
	Pad       PadConfig     `mapstructure:"pad"`
	History   HistoryConfig `mapstructure:"history"`
	UI        UIConfig      `mapstructure:"ui"`
	Theme     ThemeConfig   `mapstructure:"theme"`
	Tracing   TracingConfig `mapstructure:"tracing"`
}

// PadConfig maps terminal cells to surface units.
type PadConfig struct {
	CellWidth  float64 `mapstructure:"cell_width"`  // units per column (default 10)
	CellAspect float64 `mapstructure:"cell_aspect"` // cell height / width (default 2)
}

// HistoryConfig controls the recent gesture list.
type HistoryConfig struct {
	TTL   time.Duration `mapstructure:"ttl"`
	Limit int           `mapstructure:"limit"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowHistory bool `mapstructure:"show_history"`
	ShowState   bool `mapstructure:"show_state"`
}

// ThemeConfig holds the touchpad colors as hex strings.
type ThemeConfig struct {
	Highlight string `mapstructure:"highlight"`
	Subtle    string `mapstructure:"subtle"`
	Error     string `mapstructure:"error"`
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/swipe/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0].
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/swipe/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "swipe", "traces", "traces.jsonl")
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Threshold: 50,
		Pad: PadConfig{
			CellWidth:  10,
			CellAspect: 2,
		},
		History: HistoryConfig{
			TTL:   10 * time.Minute,
			Limit: 20,
		},
		UI: UIConfig{
			ShowHistory: true,
			ShowState:   true,
		},
		Theme: ThemeConfig{
			Highlight: "#7D56F4",
			Subtle:    "#626262",
			Error:     "#FF5F87",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from home dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if c.Threshold <= 0 {
		return fmt.Errorf("threshold must be positive, got %v", c.Threshold)
	}
	if c.Pad.CellWidth < 0 || c.Pad.CellAspect < 0 {
		return fmt.Errorf("pad.cell_width and pad.cell_aspect must not be negative")
	}
	if c.History.TTL <= 0 {
		return fmt.Errorf("history.ttl must be positive, got %v", c.History.TTL)
	}
	if c.History.Limit <= 0 {
		return fmt.Errorf("history.limit must be positive, got %d", c.History.Limit)
	}
	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate endpoint requirements when tracing is enabled
	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# swipe configuration

# Minimum displacement for a slide, in pad units (one column = pad.cell_width units)
threshold: 50

# Terminal cell to pad unit mapping
pad:
  cell_width: 10    # units per column
  cell_aspect: 2    # cell height / cell width

# Recent gesture list
history:
  ttl: 10m          # how long a gesture stays in the list
  limit: 20         # how many gestures to show

# UI settings
ui:
  show_history: true
  show_state: true

# Colors
theme:
  highlight: "#7D56F4"
  subtle: "#626262"
  error: "#FF5F87"

# Distributed tracing for gesture classification
tracing:
  enabled: false
  exporter: file          # none, file, stdout, otlp
  # file_path: ~/.config/swipe/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
`
}

// WriteDefaultConfig writes the default config template to configPath.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
