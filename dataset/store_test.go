package dataset

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalook/catalook/core"
	"github.com/catalook/catalook/storage"
)

type fakeSource struct {
	name  string
	fetch func(ctx context.Context, monitor storage.FetchMonitor) (core.Schema, []core.Record, error)
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context, monitor storage.FetchMonitor) (core.Schema, []core.Record, error) {
	return f.fetch(ctx, monitor)
}

func catalogOf(t *testing.T, families ...string) (core.Schema, []core.Record) {
	t.Helper()
	schema, err := core.NewSchema([]core.Dimension{core.DimFamily})
	require.NoError(t, err)
	records := make([]core.Record, len(families))
	for i, fam := range families {
		records[i] = core.Record{Key: core.ID(i + 1), Values: []string{fam}}
	}
	return schema, records
}

func staticSource(t *testing.T, families ...string) *fakeSource {
	schema, records := catalogOf(t, families...)
	return &fakeSource{
		name: "static",
		fetch: func(ctx context.Context, monitor storage.FetchMonitor) (core.Schema, []core.Record, error) {
			return schema, records, nil
		},
	}
}

func TestStore_NotReadyBeforeFirstLoad(t *testing.T) {
	store, err := NewStore()
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.Current()
	assert.False(t, ok)
}

func TestStore_LoadInstallsSnapshot(t *testing.T) {
	store, err := NewStore()
	require.NoError(t, err)
	defer store.Close()

	handle := store.Load(context.Background(), staticSource(t, "D38999", "VG"), nil)
	snap, err := handle.Wait(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(1), snap.Version)
	assert.Len(t, snap.Records, 2)

	current, ok := store.Current()
	require.True(t, ok)
	assert.Same(t, snap, current)
}

func TestStore_FailureKeepsPreviousSnapshot(t *testing.T) {
	store, err := NewStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	_, err = store.Load(ctx, staticSource(t, "D38999"), nil).Wait(ctx)
	require.NoError(t, err)

	broken := &fakeSource{
		name: "broken",
		fetch: func(ctx context.Context, monitor storage.FetchMonitor) (core.Schema, []core.Record, error) {
			return core.Schema{}, nil, storage.ErrSourceUnavailable
		},
	}
	_, err = store.Load(ctx, broken, nil).Wait(ctx)
	assert.ErrorIs(t, err, storage.ErrSourceUnavailable)

	current, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, uint64(1), current.Version)
}

func TestStore_FirstLoadFailureStaysNotReady(t *testing.T) {
	store, err := NewStore()
	require.NoError(t, err)
	defer store.Close()

	broken := &fakeSource{
		name: "broken",
		fetch: func(ctx context.Context, monitor storage.FetchMonitor) (core.Schema, []core.Record, error) {
			return core.Schema{}, nil, storage.ErrSourceUnavailable
		},
	}
	_, err = store.Load(context.Background(), broken, nil).Wait(context.Background())
	require.Error(t, err)

	_, ok := store.Current()
	assert.False(t, ok)
}

func TestStore_SlowerEarlierLoadIsDiscarded(t *testing.T) {
	pool, err := ants.NewPool(2)
	require.NoError(t, err)
	defer pool.Release()

	store, err := NewStore(WithPool(pool))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	release := make(chan struct{})

	slowSchema, slowRecords := catalogOf(t, "SLOW")
	slow := &fakeSource{
		name: "slow",
		fetch: func(ctx context.Context, monitor storage.FetchMonitor) (core.Schema, []core.Record, error) {
			<-release
			return slowSchema, slowRecords, nil
		},
	}

	slowHandle := store.Load(ctx, slow, nil)
	fastHandle := store.Load(ctx, staticSource(t, "FAST"), nil)

	fastSnap, err := fastHandle.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "FAST", fastSnap.Records[0].Values[0])

	close(release)
	_, err = slowHandle.Wait(ctx)
	assert.ErrorIs(t, err, ErrLoadSuperseded)

	current, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, "FAST", current.Records[0].Values[0])
	assert.Equal(t, uint64(1), current.Version)
}

func TestStore_MonitorMilestones(t *testing.T) {
	store, err := NewStore()
	require.NoError(t, err)
	defer store.Close()

	src := &fakeSource{
		name: "staged",
		fetch: func(ctx context.Context, monitor storage.FetchMonitor) (core.Schema, []core.Record, error) {
			monitor.Stage(storage.StageConnect, 0)
			monitor.Stage(storage.StageFetch, 10)
			monitor.Stage(storage.StageValidate, 80)
			schema, records := catalogOf(t, "D38999")
			return schema, records, nil
		},
	}

	ch := make(chan Progress, 16)
	handle := store.Load(context.Background(), src, NewChannelMonitor(ch))
	_, err = handle.Wait(context.Background())
	require.NoError(t, err)

	var stages []string
	for len(ch) > 0 {
		stages = append(stages, (<-ch).Stage)
	}
	assert.Equal(t, []string{storage.StageConnect, storage.StageFetch, storage.StageValidate, StageReady}, stages)
}

func TestStore_FailedLoadReportsMonitor(t *testing.T) {
	store, err := NewStore()
	require.NoError(t, err)
	defer store.Close()

	wantErr := errors.New("boom")
	broken := &fakeSource{
		name: "broken",
		fetch: func(ctx context.Context, monitor storage.FetchMonitor) (core.Schema, []core.Record, error) {
			return core.Schema{}, nil, wantErr
		},
	}

	ch := make(chan Progress, 16)
	_, err = store.Load(context.Background(), broken, NewChannelMonitor(ch)).Wait(context.Background())
	require.ErrorIs(t, err, wantErr)

	select {
	case p := <-ch:
		assert.Equal(t, "failed", p.Stage)
		assert.ErrorIs(t, p.Err, wantErr)
	case <-time.After(time.Second):
		t.Fatal("no failure milestone reported")
	}
}

func TestLoadHandle_WaitHonorsContext(t *testing.T) {
	store, err := NewStore()
	require.NoError(t, err)
	defer store.Close()

	release := make(chan struct{})
	defer close(release)
	slow := &fakeSource{
		name: "slow",
		fetch: func(ctx context.Context, monitor storage.FetchMonitor) (core.Schema, []core.Record, error) {
			<-release
			schema, records := catalogOf(t, "D38999")
			return schema, records, nil
		},
	}

	handle := store.Load(context.Background(), slow, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = handle.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
