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


package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"github.com/catalook/catalook/core"
	"github.com/catalook/catalook/storage"
)

// Store owns the current catalog snapshot and runs loads in the background.
type Store struct {
	pool    *ants.Pool
	ownPool bool
	logger  *slog.Logger

	current atomic.Pointer[core.Snapshot]

	// mu guards the load bookkeeping only; the fetch and snapshot
	// construction run outside it.
	mu         sync.Mutex
	generation uint64 // load submissions
	installed  uint64 // generation of the load that produced the current snapshot
	version    uint64 // successful installs, becomes Snapshot.Version
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithPool uses an externally owned worker pool instead of creating one.
// The caller keeps responsibility for releasing it.
func WithPool(pool *ants.Pool) Option {
	return func(s *Store) error {
		if s.ownPool && s.pool != nil {
			s.pool.Release()
		}
		s.pool = pool
		s.ownPool = false
		return nil
	}
}

// NewStore creates a dataset store with a single-worker load pool.
// Loads are serialized by the pool; overlapping submissions are resolved
// by load generation regardless.
func NewStore(opts ...Option) (*Store, error) {
	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}
	s := &Store{
		pool:    pool,
		ownPool: true,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			s.Close()
			return nil, optErr
		}
	}
	return s, nil
}

// Close releases the store's worker pool if it owns one.
func (s *Store) Close() {
	if s.ownPool && s.pool != nil {
		s.pool.Release()
	}
}

// Current returns the latest installed snapshot, or false before the
// first successful load.
func (s *Store) Current() (*core.Snapshot, bool) {
	snap := s.current.Load()
	return snap, snap != nil
}

// LoadHandle is the future of one load operation.
type LoadHandle struct {
	done chan struct{}
	snap *core.Snapshot
	err  error
}

// Done returns a channel closed when the load has finished.
func (h *LoadHandle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the load finishes or the context is cancelled.
// On success it returns the installed snapshot. A load whose result was
// discarded in favor of a newer one returns ErrLoadSuperseded.
func (h *LoadHandle) Wait(ctx context.Context) (*core.Snapshot, error) {
	select {
	case <-h.done:
		return h.snap, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *LoadHandle) resolve(snap *core.Snapshot, err error) {
	h.snap = snap
	h.err = err
	close(h.done)
}

// Load fetches the catalog from the source on the background pool and
// installs it atomically. The call returns immediately; completion is
// observed through the handle and the monitor. On failure the previously
// installed snapshot, if any, remains authoritative.
func (s *Store) Load(ctx context.Context, src storage.Source, monitor LoadMonitor) *LoadHandle {
	if monitor == nil {
		monitor = noopLoadMonitor{}
	}
	handle := &LoadHandle{done: make(chan struct{})}

	s.mu.Lock()
	s.generation++
	token := s.generation
	s.mu.Unlock()

	err := s.pool.Submit(func() {
		schema, records, err := src.Fetch(ctx, storage.MonitorFunc(monitor.Stage))
		if err != nil {
			err = fmt.Errorf("loading catalog from %s: %w", src.Name(), err)
			s.logger.Error("catalog load failed", "source", src.Name(), "err", err)
			monitor.Failed(err)
			handle.resolve(nil, err)
			return
		}

		// Distinct-value precomputation happens here, outside the lock.
		snap, err := core.NewSnapshot(schema, records, 0)
		if err != nil {
			err = fmt.Errorf("loading catalog from %s: %w", src.Name(), err)
			monitor.Failed(err)
			handle.resolve(nil, err)
			return
		}

		s.mu.Lock()
		if token <= s.installed {
			s.mu.Unlock()
			s.logger.Debug("catalog load superseded", "source", src.Name())
			handle.resolve(nil, ErrLoadSuperseded)
			return
		}
		s.version++
		installed := *snap
		installed.Version = s.version
		s.current.Store(&installed)
		s.installed = token
		s.mu.Unlock()

		s.logger.Info("catalog installed",
			"source", src.Name(), "records", len(records), "version", installed.Version)
		monitor.Ready(&installed)
		handle.resolve(&installed, nil)
	})
	if err != nil {
		handle.resolve(nil, fmt.Errorf("%w: %w", ErrStoreClosed, err))
	}
	return handle
}
