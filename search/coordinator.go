package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/catalook/catalook/core"
	"github.com/catalook/catalook/dataset"
	"github.com/catalook/catalook/filter"
	"github.com/catalook/catalook/query"
)

// checkEvery bounds how many records are scanned between cancellation checks.
const checkEvery = 1024

// Coordinator serializes catalog queries under a last-submitted-wins policy.
//
// Each submission captures the current snapshot and receives a generation
// token; a finished scan may commit only while its token still equals the
// current generation, so any query with a newer submission behind it is
// discarded no matter which finishes first. Record scanning happens outside
// the coordinator lock; only the token comparison and the result commit
// happen inside it, so a slow scan never blocks newer submissions.
type Coordinator struct {
	store   *dataset.Store
	history *History
	monitor ResultMonitor
	logger  *slog.Logger

	pool    *ants.Pool
	ownPool bool

	mu         sync.Mutex
	generation uint64
	latest     *core.SearchResult
	closed     bool
}

// Option configures a Coordinator.
type Option func(*Coordinator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithPool runs query evaluation on a shared worker pool instead of the
// coordinator's own. The caller remains responsible for releasing it.
func WithPool(pool *ants.Pool) Option {
	return func(c *Coordinator) error {
		if pool == nil {
			return nil
		}
		if c.ownPool {
			c.pool.Release()
			c.ownPool = false
		}
		c.pool = pool
		return nil
	}
}

// WithHistory records committed searches into the given history log.
func WithHistory(history *History) Option {
	return func(c *Coordinator) error {
		c.history = history
		return nil
	}
}

// WithResultMonitor sets a monitor notified on submission, commit and discard.
func WithResultMonitor(monitor ResultMonitor) Option {
	return func(c *Coordinator) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		c.monitor = monitor
		return nil
	}
}

// NewCoordinator creates a coordinator over the given dataset store.
func NewCoordinator(store *dataset.Store, opts ...Option) (*Coordinator, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, fmt.Errorf("creating search pool: %w", err)
	}

	c := &Coordinator{
		store:   store,
		monitor: &noopMonitor{},
		logger:  slog.Default(),
		pool:    pool,
		ownPool: true,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(c); err != nil {
			if c.ownPool {
				c.pool.Release()
			}
			return nil, err
		}
	}

	return c, nil
}

// Close releases the coordinator's worker pool if it owns one.
// Pending handles resolve before Close returns only if the pool drains them;
// callers should wait on handles they care about first.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if c.ownPool {
		c.pool.Release()
	}
	return nil
}

// Handle tracks an in-flight query submission.
type Handle struct {
	generation uint64
	done       chan struct{}
	result     *core.SearchResult
	err        error
}

// Generation returns the token assigned to this submission.
func (h *Handle) Generation() uint64 { return h.generation }

// Done returns a channel closed once the submission has resolved.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the submission resolves or ctx is cancelled.
// A submission overtaken by a later query resolves with ErrSuperseded.
func (h *Handle) Wait(ctx context.Context) (*core.SearchResult, error) {
	select {
	case <-h.done:
		return h.result, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Handle) resolve(result *core.SearchResult, err error) {
	h.result = result
	h.err = err
	close(h.done)
}

// Submit schedules a query for evaluation against the current snapshot.
//
// The snapshot is captured at submission time, so a dataset swap during the
// scan does not affect the running query. An empty query matches the whole
// catalog. Before the first dataset load Submit resolves immediately with
// dataset.ErrNotReady.
func (c *Coordinator) Submit(ctx context.Context, q core.SearchQuery) *Handle {
	handle := &Handle{done: make(chan struct{})}

	snapshot, ok := c.store.Current()
	if !ok {
		handle.resolve(nil, dataset.ErrNotReady)
		return handle
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		handle.resolve(nil, ErrCoordinatorClosed)
		return handle
	}
	c.generation++
	token := c.generation
	c.mu.Unlock()

	handle.generation = token
	c.monitor.Submitted(token, q)

	err := c.pool.Submit(func() {
		result, err := c.evaluate(ctx, snapshot, q)
		if err != nil {
			c.logger.Debug("search aborted", "generation", token, "err", err)
			c.monitor.Failed(token, err)
			handle.resolve(nil, err)
			return
		}

		c.mu.Lock()
		if token != c.generation {
			c.mu.Unlock()
			c.monitor.Discarded(token)
			handle.resolve(nil, ErrSuperseded)
			return
		}
		c.latest = result
		c.mu.Unlock()

		if c.history != nil {
			c.history.Record(q, result.MatchedCount)
		}
		c.monitor.Committed(token, result)
		handle.resolve(result, nil)
	})
	if err != nil {
		c.logger.Error("error scheduling search", "generation", token, "err", err)
		handle.resolve(nil, fmt.Errorf("%w: %w", ErrCoordinatorClosed, err))
	}
	return handle
}

// Latest returns the most recently committed result, if any.
func (c *Coordinator) Latest() (*core.SearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latest == nil {
		return nil, false
	}
	return c.latest, true
}

// evaluate scans the snapshot without holding the coordinator lock.
func (c *Coordinator) evaluate(ctx context.Context, snapshot *core.Snapshot, q core.SearchQuery) (*core.SearchResult, error) {
	terms := query.Parse(q.Text)

	matched := make([]core.Record, 0, len(snapshot.Records))
	for i, record := range snapshot.Records {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if !filter.Matches(snapshot.Schema, record, q.Filters) {
			continue
		}
		if !query.MatchRecord(record, terms) {
			continue
		}
		matched = append(matched, record)
	}

	return &core.SearchResult{
		Records:      matched,
		MatchedCount: len(matched),
		TotalCount:   len(snapshot.Records),
		Version:      snapshot.Version,
	}, nil
}
