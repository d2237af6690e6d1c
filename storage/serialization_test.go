package storage

import (
	"testing"

	"github.com/catalook/catalook/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRoundTrip(t *testing.T) {
	rec := core.Record{
		Key:    core.IDFromKey("D38999/26WA35PN"),
		Values: []string{"D38999/26WA35PN", "D38999", "Aluminum", "", "Plug"},
	}

	data := MarshalRecord(rec)
	got, err := UnmarshalRecord(data)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestMetaRoundTrip(t *testing.T) {
	meta := CatalogMeta{
		Dimensions:  []core.Dimension{core.DimPartNumber, core.DimFamily, core.DimMaterial},
		Version:     7,
		RecordCount: 1234,
	}

	data := MarshalMeta(meta)
	got, err := UnmarshalMeta(data)
	require.NoError(t, err)
	assert.Equal(t, meta, got)
}

func TestUnmarshalRecord_Truncated(t *testing.T) {
	rec := core.Record{Key: 1, Values: []string{"a", "b"}}
	data := MarshalRecord(rec)

	_, err := UnmarshalRecord(data[:len(data)-1])
	assert.Error(t, err)
}
