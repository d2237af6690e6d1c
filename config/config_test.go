package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalook/catalook/core"
	"github.com/catalook/catalook/search"
)

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, search.DefaultHistoryCapacity, config.HistoryCapacity)
	assert.Equal(t, 250*time.Millisecond, config.WatchDebounce.Duration)
	assert.Empty(t, config.CatalogPath)
}

func TestLoadConfig_ParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalook.toml")
	body := `
catalog_path = "/var/lib/catalook/catalog.csv"
key_dimension = "part_number"
cache_dir = "/var/lib/catalook/cache"
history_capacity = 10
watch_debounce = "1s"

[related]
shared_dimensions = ["family", "shell_size"]
varying_dimensions = ["material"]
invert_dimension = "socket_type"
hold_dimensions = ["family"]

[related.invert_pairs]
plug = "receptacle"
receptacle = "plug"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/catalook/catalog.csv", config.CatalogPath)
	assert.Equal(t, "part_number", config.KeyDimension)
	assert.Equal(t, 10, config.HistoryCapacity)
	assert.Equal(t, time.Second, config.WatchDebounce.Duration)

	alternatives, ok := config.AlternativePolicy()
	require.True(t, ok)
	assert.Equal(t, []core.Dimension{core.DimFamily, core.DimShellSize}, alternatives.Shared)
	assert.Equal(t, []core.Dimension{core.DimMaterial}, alternatives.Varying)

	opposites, ok := config.OppositePolicy()
	require.True(t, ok)
	assert.Equal(t, core.DimSocketType, opposites.Invert)
	assert.Equal(t, "receptacle", opposites.Pairs["plug"])
	assert.Equal(t, []core.Dimension{core.DimFamily}, opposites.Hold)
}

func TestLoadConfig_FillsZeroValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalook.toml")
	require.NoError(t, os.WriteFile(path, []byte(`catalog_path = "x.csv"`), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, search.DefaultHistoryCapacity, config.HistoryCapacity)
	assert.Equal(t, 250*time.Millisecond, config.WatchDebounce.Duration)
}

func TestConfig_PoliciesAbsent(t *testing.T) {
	config := GetDefaultConfig()
	_, ok := config.AlternativePolicy()
	assert.False(t, ok)
	_, ok = config.OppositePolicy()
	assert.False(t, ok)
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalook.toml")
	config := GetDefaultConfig()
	config.CatalogPath = "catalog.csv"
	require.NoError(t, config.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.CatalogPath, loaded.CatalogPath)
	assert.Equal(t, config.WatchDebounce.Duration, loaded.WatchDebounce.Duration)
}
