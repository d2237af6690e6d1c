package badger

import (
	"context"
	"testing"

	"github.com/catalook/catalook/core"
	"github.com/catalook/catalook/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) (core.Schema, []core.Record) {
	t.Helper()
	schema, err := core.NewSchema([]core.Dimension{core.DimPartNumber, core.DimFamily, core.DimMaterial})
	require.NoError(t, err)
	records := []core.Record{
		{Key: core.IDFromKey("A1"), Values: []string{"A1", "D38999", "Aluminum"}},
		{Key: core.IDFromKey("B2"), Values: []string{"B2", "VG", "Brass"}},
		{Key: core.IDFromKey("C3"), Values: []string{"C3", "D38999", "Composite"}},
	}
	return schema, records
}

func TestCache_RoundTrip(t *testing.T) {
	cache, err := NewMemoryCache()
	require.NoError(t, err)
	defer cache.Close()

	schema, records := testCatalog(t)
	ctx := context.Background()

	require.NoError(t, cache.Store(ctx, schema, records, 3))

	gotSchema, gotRecords, err := cache.Fetch(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, schema.Dimensions, gotSchema.Dimensions)
	assert.Equal(t, records, gotRecords)

	meta, err := cache.Meta(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), meta.Version)
	assert.Equal(t, 3, meta.RecordCount)
}

func TestCache_StoreReplaces(t *testing.T) {
	cache, err := NewMemoryCache()
	require.NoError(t, err)
	defer cache.Close()

	schema, records := testCatalog(t)
	ctx := context.Background()

	require.NoError(t, cache.Store(ctx, schema, records, 1))

	// Replacement is smaller; leftover records must not survive.
	require.NoError(t, cache.Store(ctx, schema, records[:1], 2))

	_, gotRecords, err := cache.Fetch(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, records[:1], gotRecords)
}

func TestCache_EmptyFetch(t *testing.T) {
	cache, err := NewMemoryCache()
	require.NoError(t, err)
	defer cache.Close()

	_, _, err = cache.Fetch(context.Background(), nil)
	assert.ErrorIs(t, err, storage.ErrCacheEmpty)

	_, err = cache.Meta(context.Background())
	assert.ErrorIs(t, err, storage.ErrCacheEmpty)
}

func TestCache_ManyRecords(t *testing.T) {
	cache, err := NewMemoryCache()
	require.NoError(t, err)
	defer cache.Close()

	schema, err := core.NewSchema([]core.Dimension{core.DimPartNumber})
	require.NoError(t, err)

	// More than one write batch to exercise batching and key ordering.
	records := make([]core.Record, writeBatchSize*2+17)
	for i := range records {
		records[i] = core.Record{Key: core.ID(i + 1), Values: []string{partNumber(i)}}
	}

	ctx := context.Background()
	require.NoError(t, cache.Store(ctx, schema, records, 1))

	_, gotRecords, err := cache.Fetch(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, records, gotRecords)
}

func partNumber(i int) string {
	const letters = "ABCDEFGHIJ"
	return "PN-" + string(letters[i%len(letters)]) + "-" + string(rune('0'+i%10))
}
