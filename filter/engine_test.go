package filter

import (
	"testing"

	"github.com/catalook/catalook/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSnapshot(t *testing.T) *core.Snapshot {
	t.Helper()
	schema, err := core.NewSchema([]core.Dimension{core.DimFamily, core.DimMaterial, core.DimShellSize})
	require.NoError(t, err)
	records := []core.Record{
		{Values: []string{"D38999", "Aluminum", "11"}},
		{Values: []string{"D38999", "Composite", "13"}},
		{Values: []string{"VG", "Brass", "11"}},
		{Values: []string{"MIL-DTL-26482", "Aluminum", "13"}},
	}
	snap, err := core.NewSnapshot(schema, records, 1)
	require.NoError(t, err)
	return snap
}

func TestMatches(t *testing.T) {
	snap := newTestSnapshot(t)
	rec := snap.Records[0] // D38999 / Aluminum / 11

	t.Run("empty selection matches", func(t *testing.T) {
		assert.True(t, Matches(snap.Schema, rec, nil))
		assert.True(t, Matches(snap.Schema, rec, core.FilterSelection{}))
	})

	t.Run("OR within a dimension", func(t *testing.T) {
		sel := core.FilterSelection{core.DimFamily: {"VG", "D38999"}}
		assert.True(t, Matches(snap.Schema, rec, sel))
	})

	t.Run("AND across dimensions", func(t *testing.T) {
		sel := core.FilterSelection{
			core.DimFamily:   {"D38999"},
			core.DimMaterial: {"Brass"},
		}
		assert.False(t, Matches(snap.Schema, rec, sel))
	})

	t.Run("unknown dimension is unsatisfiable", func(t *testing.T) {
		sel := core.FilterSelection{core.DimKeying: {"N"}}
		assert.False(t, Matches(snap.Schema, rec, sel))
	})
}

func TestOptions_NoConstraints(t *testing.T) {
	snap := newTestSnapshot(t)

	opts := Options(snap, nil)
	assert.Equal(t, []string{"D38999", "MIL-DTL-26482", "VG"}, opts.Values[core.DimFamily])
	assert.Equal(t, []string{"Aluminum", "Brass", "Composite"}, opts.Values[core.DimMaterial])
	assert.Equal(t, []string{"11", "13"}, opts.Values[core.DimShellSize])
	assert.True(t, opts.Invalid.IsEmpty())
}

func TestOptions_DependentNarrowing(t *testing.T) {
	snap := newTestSnapshot(t)

	sel := core.FilterSelection{core.DimFamily: {"D38999"}}
	opts := Options(snap, sel)

	assert.Equal(t, []string{"Aluminum", "Composite"}, opts.Values[core.DimMaterial])
	assert.Equal(t, []string{"11", "13"}, opts.Values[core.DimShellSize])
	assert.True(t, opts.Invalid.IsEmpty())
}

func TestOptions_TwoRecordScenario(t *testing.T) {
	schema, err := core.NewSchema([]core.Dimension{core.DimFamily, core.DimMaterial})
	require.NoError(t, err)
	snap, err := core.NewSnapshot(schema, []core.Record{
		{Values: []string{"D38999", "Aluminum"}},
		{Values: []string{"VG", "Brass"}},
	}, 1)
	require.NoError(t, err)

	opts := Options(snap, core.FilterSelection{core.DimFamily: {"D38999"}})
	assert.Equal(t, []string{"Aluminum"}, opts.Values[core.DimMaterial])
}

func TestOptions_UnionAcrossSelectedValues(t *testing.T) {
	snap := newTestSnapshot(t)

	sel := core.FilterSelection{core.DimFamily: {"D38999", "VG"}}
	opts := Options(snap, sel)

	// Union of reachable materials across both selected families.
	assert.Equal(t, []string{"Aluminum", "Brass", "Composite"}, opts.Values[core.DimMaterial])
}

func TestUnreachable_AfterUpstreamNarrowing(t *testing.T) {
	snap := newTestSnapshot(t)

	// Brass was selected while VG was in play; narrowing family to D38999
	// makes Brass unreachable.
	prior := core.FilterSelection{core.DimMaterial: {"Brass"}}
	opts := Options(snap, core.FilterSelection{core.DimFamily: {"D38999"}})

	invalid := Unreachable(opts, prior)
	require.NotNil(t, invalid)
	assert.Equal(t, []string{"Brass"}, invalid[core.DimMaterial])
}

func TestUnreachable_AllValidIsNil(t *testing.T) {
	snap := newTestSnapshot(t)

	opts := Options(snap, core.FilterSelection{core.DimFamily: {"D38999"}})
	invalid := Unreachable(opts, core.FilterSelection{core.DimMaterial: {"Composite"}})
	assert.True(t, invalid.IsEmpty())
}

func TestOptions_NeverReportsUnreachableValues(t *testing.T) {
	snap := newTestSnapshot(t)

	sel := core.FilterSelection{core.DimShellSize: {"11"}}
	opts := Options(snap, sel)

	for dim, values := range opts.Values {
		for _, v := range values {
			found := false
			for _, rec := range snap.Records {
				got, ok := snap.Schema.Value(rec, dim)
				if ok && got == v && Matches(snap.Schema, rec, sel) {
					found = true
					break
				}
			}
			assert.True(t, found, "option %s=%s has no matching record", dim, v)
		}
	}
}

func TestNarrow(t *testing.T) {
	snap := newTestSnapshot(t)

	sel := core.FilterSelection{
		core.DimFamily:   {"D38999"},
		core.DimMaterial: {"Aluminum", "Brass"},
	}
	opts := Options(snap, core.FilterSelection{core.DimFamily: {"D38999"}})
	narrowed := Narrow(sel, Unreachable(opts, sel))

	assert.Equal(t, []string{"Aluminum"}, narrowed[core.DimMaterial])
	assert.Equal(t, []string{"D38999"}, narrowed[core.DimFamily])

	// Valid selections come back verbatim, not reset.
	assert.Equal(t, []string{"D38999"}, sel[core.DimFamily])
}
