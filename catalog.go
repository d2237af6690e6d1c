// Copyright 2025 Catalook Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package catalook is a concurrent search and filter core for electrical
// connector part catalogs. It keeps immutable dataset snapshots, evaluates
// free-text and dependent-filter queries under a last-submitted-wins
// policy, and remembers committed searches in a bounded history log.
package catalook

import (
	"context"
	"log/slog"

	"github.com/catalook/catalook/core"
	"github.com/catalook/catalook/dataset"
	"github.com/catalook/catalook/filter"
	"github.com/catalook/catalook/search"
	"github.com/catalook/catalook/storage"
	badgerstore "github.com/catalook/catalook/storage/badger"
)

// Catalog is the top-level entry point. It owns the dataset store, the
// search coordinator, the history log and, optionally, a persistent cache
// of the last successfully loaded dataset.
type Catalog struct {
	cache        *badgerstore.Cache
	store        *dataset.Store
	history      *search.History
	coordinator  *search.Coordinator
	alternatives search.AlternativePolicy
	opposites    search.OppositePolicy
	logger       *slog.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*catalogOptions)

type catalogOptions struct {
	logger          *slog.Logger
	cacheDir        string
	historyCapacity int
	monitor         search.ResultMonitor
	alternatives    search.AlternativePolicy
	opposites       search.OppositePolicy
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) CatalogOption {
	return func(o *catalogOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCacheDir persists every successfully loaded dataset to a local cache
// at the given path, so the catalog can come back up without its source.
func WithCacheDir(dir string) CatalogOption {
	return func(o *catalogOptions) {
		o.cacheDir = dir
	}
}

// WithHistoryCapacity bounds the search history log.
// Default is search.DefaultHistoryCapacity.
func WithHistoryCapacity(capacity int) CatalogOption {
	return func(o *catalogOptions) {
		o.historyCapacity = capacity
	}
}

// WithResultMonitor observes search submissions, commits and discards.
func WithResultMonitor(monitor search.ResultMonitor) CatalogOption {
	return func(o *catalogOptions) {
		o.monitor = monitor
	}
}

// WithAlternativePolicy overrides how alternative parts are selected.
func WithAlternativePolicy(policy search.AlternativePolicy) CatalogOption {
	return func(o *catalogOptions) {
		o.alternatives = policy
	}
}

// WithOppositePolicy overrides how a part's counterpart is selected.
func WithOppositePolicy(policy search.OppositePolicy) CatalogOption {
	return func(o *catalogOptions) {
		o.opposites = policy
	}
}

// DefaultAlternativePolicy matches parts within the same family and shell
// size, preferring those that also keep the material and insert arrangement.
func DefaultAlternativePolicy() search.AlternativePolicy {
	return search.AlternativePolicy{
		Shared:  []core.Dimension{core.DimFamily, core.DimShellSize},
		Varying: []core.Dimension{core.DimMaterial, core.DimInsertArrangement},
	}
}

// DefaultOppositePolicy finds the mating connector: same family, shell size
// and insert arrangement with the socket type inverted.
func DefaultOppositePolicy() search.OppositePolicy {
	return search.OppositePolicy{
		Invert: core.DimSocketType,
		Pairs:  map[string]string{"plug": "receptacle", "receptacle": "plug"},
		Hold:   []core.Dimension{core.DimFamily, core.DimShellSize, core.DimInsertArrangement},
	}
}

// New creates a Catalog.
func New(opts ...CatalogOption) (*Catalog, error) {
	// Apply options
	options := &catalogOptions{
		logger:       slog.Default(),
		alternatives: DefaultAlternativePolicy(),
		opposites:    DefaultOppositePolicy(),
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open the persistent cache when configured
	var cache *badgerstore.Cache
	if options.cacheDir != "" {
		var err error
		cache, err = badgerstore.OpenCache(options.cacheDir, badgerstore.WithLogger(options.logger))
		if err != nil {
			return nil, err
		}
	}

	// Create dataset store
	store, err := dataset.NewStore(dataset.WithLogger(options.logger))
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		return nil, err
	}

	// Create history log and coordinator
	history := search.NewHistory(options.historyCapacity)
	coordinatorOpts := []search.Option{
		search.WithLogger(options.logger),
		search.WithHistory(history),
	}
	if options.monitor != nil {
		coordinatorOpts = append(coordinatorOpts, search.WithResultMonitor(options.monitor))
	}
	coordinator, err := search.NewCoordinator(store, coordinatorOpts...)
	if err != nil {
		store.Close()
		if cache != nil {
			cache.Close()
		}
		return nil, err
	}

	return &Catalog{
		cache:        cache,
		store:        store,
		history:      history,
		coordinator:  coordinator,
		alternatives: options.alternatives,
		opposites:    options.opposites,
		logger:       options.logger,
	}, nil
}

func (c *Catalog) Close() error {
	// Close the coordinator first so no search observes a closed store
	if err := c.coordinator.Close(); err != nil {
		c.logger.Error("error closing search coordinator", "err", err)
	}
	c.store.Close()
	if c.cache != nil {
		if err := c.cache.Close(); err != nil {
			c.logger.Error("error closing dataset cache", "err", err)
			return err
		}
	}
	return nil
}

// Load replaces the current dataset from the given source. The returned
// handle resolves once the load commits or fails; ongoing searches keep
// running against the previous snapshot until then. When a cache is
// configured the new dataset is written through to it.
func (c *Catalog) Load(ctx context.Context, src storage.Source, monitor dataset.LoadMonitor) *dataset.LoadHandle {
	if c.cache != nil {
		monitor = c.writeThrough(ctx, monitor)
	}
	return c.store.Load(ctx, src, monitor)
}

// LoadCached restores the last successfully loaded dataset from the cache.
// Returns storage.ErrCacheEmpty through the handle when nothing was cached.
func (c *Catalog) LoadCached(ctx context.Context, monitor dataset.LoadMonitor) (*dataset.LoadHandle, error) {
	if c.cache == nil {
		return nil, storage.ErrCacheEmpty
	}
	return c.store.Load(ctx, c.cache, monitor), nil
}

// Watch reloads from src whenever the file at path changes. The monitor
// observes every triggered reload and may be nil.
func (c *Catalog) Watch(src storage.Source, path string, monitor dataset.LoadMonitor, opts ...dataset.WatchOption) (*dataset.Watcher, error) {
	if c.cache != nil {
		monitor = c.writeThrough(context.Background(), monitor)
	}
	if monitor != nil {
		opts = append(opts, dataset.WithLoadMonitor(monitor))
	}
	return dataset.WatchFile(c.store, src, path, opts...)
}

// Current returns the installed snapshot, if any.
func (c *Catalog) Current() (*core.Snapshot, bool) {
	return c.store.Current()
}

// Search submits a query under the last-submitted-wins policy.
func (c *Catalog) Search(ctx context.Context, q core.SearchQuery) *search.Handle {
	return c.coordinator.Submit(ctx, q)
}

// LatestResult returns the most recently committed search result, if any.
func (c *Catalog) LatestResult() (*core.SearchResult, bool) {
	return c.coordinator.Latest()
}

// FilterOptions computes the selectable filter values under the given
// selection. Before the first load it returns dataset.ErrNotReady.
func (c *Catalog) FilterOptions(selection core.FilterSelection) (filter.OptionSet, error) {
	snapshot, ok := c.store.Current()
	if !ok {
		return filter.OptionSet{}, dataset.ErrNotReady
	}
	return filter.Options(snapshot, selection), nil
}

// History returns the committed search log, newest first.
func (c *Catalog) History() []search.Entry {
	return c.history.List()
}

// Replay resubmits the history entry at the given position as a fresh
// search, carrying its full query rather than just the label.
func (c *Catalog) Replay(ctx context.Context, index int) (*search.Handle, error) {
	q, err := c.history.Restore(index)
	if err != nil {
		return nil, err
	}
	return c.coordinator.Submit(ctx, q), nil
}

// Alternatives returns ranked alternative parts for the record with the
// given key under the configured policy.
func (c *Catalog) Alternatives(key core.ID, limit int) ([]core.Record, error) {
	snapshot, ok := c.store.Current()
	if !ok {
		return nil, dataset.ErrNotReady
	}
	ref, ok := snapshot.FindByKey(key)
	if !ok {
		return nil, core.ErrUnknownRecord
	}
	return c.alternatives.Alternatives(snapshot, ref, limit), nil
}

// Opposite returns the counterpart of the record with the given key under
// the configured policy, if one exists.
func (c *Catalog) Opposite(key core.ID) (core.Record, bool, error) {
	snapshot, ok := c.store.Current()
	if !ok {
		return core.Record{}, false, dataset.ErrNotReady
	}
	ref, ok := snapshot.FindByKey(key)
	if !ok {
		return core.Record{}, false, core.ErrUnknownRecord
	}
	opposite, found := c.opposites.Opposite(snapshot, ref)
	return opposite, found, nil
}

// writeThrough wraps a load monitor so every installed snapshot is also
// persisted to the cache. Cache failures are logged, never fatal: the
// in-memory dataset is already live at that point.
func (c *Catalog) writeThrough(ctx context.Context, monitor dataset.LoadMonitor) dataset.LoadMonitor {
	return &cachingMonitor{ctx: ctx, cache: c.cache, logger: c.logger, next: monitor}
}

type cachingMonitor struct {
	ctx    context.Context
	cache  *badgerstore.Cache
	logger *slog.Logger
	next   dataset.LoadMonitor
}

func (m *cachingMonitor) Stage(stage string, percent int) {
	if m.next != nil {
		m.next.Stage(stage, percent)
	}
}

func (m *cachingMonitor) Ready(snapshot *core.Snapshot) {
	if err := m.cache.Store(m.ctx, snapshot.Schema, snapshot.Records, snapshot.Version); err != nil {
		m.logger.Error("error persisting dataset to cache", "version", snapshot.Version, "err", err)
	}
	if m.next != nil {
		m.next.Ready(snapshot)
	}
}

func (m *cachingMonitor) Failed(err error) {
	if m.next != nil {
		m.next.Failed(err)
	}
}
