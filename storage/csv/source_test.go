package csv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/catalook/catalook/core"
	"github.com/catalook/catalook/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFetch(t *testing.T) {
	path := writeCatalog(t, "part_number,family,material\n"+
		"D38999/26WA35PN,D38999,Aluminum\n"+
		"VG95234A10SL3PN,VG,Brass\n")

	src := NewSource(path)
	schema, records, err := src.Fetch(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []core.Dimension{"part_number", "family", "material"}, schema.Dimensions)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"D38999/26WA35PN", "D38999", "Aluminum"}, records[0].Values)
	assert.Equal(t, core.IDFromKey("D38999/26WA35PN"), records[0].Key)
}

func TestFetch_KeyDimensionOption(t *testing.T) {
	path := writeCatalog(t, "family,part_number\nD38999,D38999/26WA35PN\n")

	src := NewSource(path, WithKeyDimension("part_number"))
	_, records, err := src.Fetch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, core.IDFromKey("D38999/26WA35PN"), records[0].Key)
}

func TestFetch_ReportsStages(t *testing.T) {
	path := writeCatalog(t, "part_number\nX\n")

	var stages []string
	mon := storage.MonitorFunc(func(stage string, _ int) {
		stages = append(stages, stage)
	})
	_, _, err := NewSource(path).Fetch(context.Background(), mon)
	require.NoError(t, err)
	assert.Equal(t, []string{storage.StageConnect, storage.StageFetch, storage.StageValidate}, stages)
}

func TestFetch_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, _, err := NewSource(filepath.Join(t.TempDir(), "nope.csv")).Fetch(context.Background(), nil)
		assert.ErrorIs(t, err, storage.ErrSourceUnavailable)
	})

	t.Run("missing header", func(t *testing.T) {
		path := writeCatalog(t, "")
		_, _, err := NewSource(path).Fetch(context.Background(), nil)
		assert.ErrorIs(t, err, storage.ErrSourceInvalid)
	})

	t.Run("ragged row", func(t *testing.T) {
		path := writeCatalog(t, "part_number,family\nX\n")
		_, _, err := NewSource(path).Fetch(context.Background(), nil)
		assert.ErrorIs(t, err, storage.ErrSourceInvalid)
	})

	t.Run("no records", func(t *testing.T) {
		path := writeCatalog(t, "part_number,family\n")
		_, _, err := NewSource(path).Fetch(context.Background(), nil)
		assert.ErrorIs(t, err, storage.ErrEmptyCatalog)
	})

	t.Run("unknown key dimension", func(t *testing.T) {
		path := writeCatalog(t, "part_number\nX\n")
		_, _, err := NewSource(path, WithKeyDimension("nope")).Fetch(context.Background(), nil)
		assert.ErrorIs(t, err, storage.ErrSourceInvalid)
	})

	t.Run("duplicate header column", func(t *testing.T) {
		path := writeCatalog(t, "part_number,part_number\nX,Y\n")
		_, _, err := NewSource(path).Fetch(context.Background(), nil)
		assert.ErrorIs(t, err, storage.ErrSourceInvalid)
	})
}
