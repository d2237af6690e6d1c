package dataset

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/catalook/catalook/storage"
)

// defaultDebounce coalesces the event bursts editors and atomic-save
// tools produce for a single logical file change.
const defaultDebounce = 250 * time.Millisecond

// Watcher reloads the store whenever the watched catalog file changes.
type Watcher struct {
	store    *Store
	src      storage.Source
	path     string
	debounce time.Duration
	monitor  LoadMonitor
	logger   *slog.Logger

	fs     *fsnotify.Watcher
	cancel context.CancelFunc
	done   chan struct{}
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the quiet period required after the last file event
// before a reload is triggered.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLoadMonitor forwards each triggered reload's milestones to monitor.
func WithLoadMonitor(monitor LoadMonitor) WatchOption {
	return func(w *Watcher) {
		w.monitor = monitor
	}
}

// WithWatchLogger sets a custom logger.
// Default is slog.Default().
func WithWatchLogger(logger *slog.Logger) WatchOption {
	return func(w *Watcher) {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
	}
}

// WatchFile watches the catalog file at path and triggers a background
// reload from src after each change. The parent directory is watched, not
// the file itself, so atomic replace-by-rename is picked up too.
func WatchFile(store *Store, src storage.Source, path string, opts ...WatchOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		store:    store,
		src:      src,
		path:     filepath.Clean(path),
		debounce: defaultDebounce,
		logger:   slog.Default(),
		fs:       fsw,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	go w.run(ctx)
	return w, nil
}

// Close stops watching. Reloads already submitted keep running.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.fs.Close()
	<-w.done
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watch error", "err", err)
		case <-pending:
			pending = nil
			w.logger.Info("catalog changed, reloading", "path", w.path)
			w.store.Load(ctx, w.src, w.monitor)
		}
	}
}
