package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// SetDefaults registers Defaults() on v so missing keys fall back to them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("threshold", d.Threshold)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("pad.cell_width", d.Pad.CellWidth)
	v.SetDefault("pad.cell_aspect", d.Pad.CellAspect)
	v.SetDefault("history.ttl", d.History.TTL)
	v.SetDefault("history.limit", d.History.Limit)
	v.SetDefault("ui.show_history", d.UI.ShowHistory)
	v.SetDefault("ui.show_state", d.UI.ShowState)
	v.SetDefault("theme.highlight", d.Theme.Highlight)
	v.SetDefault("theme.subtle", d.Theme.Subtle)
	v.SetDefault("theme.error", d.Theme.Error)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
}

// Load reads and validates the config file at path on a fresh viper instance.
func Load(path string) (Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
