// Package config loads catalook's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/catalook/catalook/core"
	"github.com/catalook/catalook/search"
)

// Config holds the settings for a catalook instance.
type Config struct {
	// CatalogPath points at the CSV catalog to load.
	CatalogPath string `toml:"catalog_path"`
	// KeyDimension names the column used to derive record keys.
	// Empty selects the first column.
	KeyDimension string `toml:"key_dimension,omitempty"`
	// CacheDir enables the persistent dataset cache when non-empty.
	CacheDir string `toml:"cache_dir,omitempty"`
	// HistoryCapacity bounds the search history log.
	HistoryCapacity int `toml:"history_capacity"`
	// WatchDebounce coalesces bursts of file change events.
	WatchDebounce Duration `toml:"watch_debounce,omitempty"`

	Related RelatedConfig `toml:"related"`
}

// RelatedConfig configures alternative and opposite part lookup.
type RelatedConfig struct {
	SharedDimensions  []string          `toml:"shared_dimensions,omitempty"`
	VaryingDimensions []string          `toml:"varying_dimensions,omitempty"`
	InvertDimension   string            `toml:"invert_dimension,omitempty"`
	InvertPairs       map[string]string `toml:"invert_pairs,omitempty"`
	HoldDimensions    []string          `toml:"hold_dimensions,omitempty"`
}

// Duration is a time.Duration that marshals as a string like "250ms".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// GetDefaultConfig returns the configuration used when no file exists.
func GetDefaultConfig() *Config {
	return &Config{
		HistoryCapacity: search.DefaultHistoryCapacity,
		WatchDebounce:   Duration{250 * time.Millisecond},
	}
}

// LoadConfig reads the configuration at configPath. A missing file yields
// the defaults; a present file has zero-valued fields filled in.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.HistoryCapacity <= 0 {
		config.HistoryCapacity = search.DefaultHistoryCapacity
	}
	if config.WatchDebounce.Duration == 0 {
		config.WatchDebounce = Duration{250 * time.Millisecond}
	}

	return &config, nil
}

// SaveConfig writes the configuration to configPath, creating the parent
// directory if needed.
func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// AlternativePolicy builds the configured alternative part policy.
// Returns ok=false when the section is absent.
func (c *Config) AlternativePolicy() (search.AlternativePolicy, bool) {
	if len(c.Related.SharedDimensions) == 0 {
		return search.AlternativePolicy{}, false
	}
	return search.AlternativePolicy{
		Shared:  toDimensions(c.Related.SharedDimensions),
		Varying: toDimensions(c.Related.VaryingDimensions),
	}, true
}

// OppositePolicy builds the configured opposite part policy.
// Returns ok=false when the section is absent.
func (c *Config) OppositePolicy() (search.OppositePolicy, bool) {
	if c.Related.InvertDimension == "" {
		return search.OppositePolicy{}, false
	}
	return search.OppositePolicy{
		Invert: core.Dimension(c.Related.InvertDimension),
		Pairs:  c.Related.InvertPairs,
		Hold:   toDimensions(c.Related.HoldDimensions),
	}, true
}

func toDimensions(names []string) []core.Dimension {
	if len(names) == 0 {
		return nil
	}
	dims := make([]core.Dimension, len(names))
	for i, name := range names {
		dims[i] = core.Dimension(name)
	}
	return dims
}
