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


// Package badger provides a BadgerDB-backed catalog cache. It holds the
// last fetched catalog verbatim (schema, record order, values) and serves
// it back as a storage.Source, so lookups keep working when the upstream
// catalog file is unavailable.
package badger

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/catalook/catalook/core"
	"github.com/catalook/catalook/storage"
)

// writeBatchSize bounds how many records go into one transaction, keeping
// well under badger's transaction size limit.
const writeBatchSize = 512

// Cache is a BadgerDB-backed copy of the last stored catalog.
type Cache struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.Source = (*Cache)(nil)

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// OpenCache opens (or creates) a catalog cache at the given directory.
func OpenCache(path string, opts ...Option) (*Cache, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newCache(backend, opts...), nil
}

func newCache(backend *Backend, opts ...Option) *Cache {
	c := &Cache{backend: backend, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.backend.Close()
}

// Name identifies the cache when used as a Source.
func (c *Cache) Name() string {
	return "badger-cache"
}

// Store replaces the cached catalog with the given one. Records are
// written in dataset order; the metadata entry is written last and acts
// as the read path's commit point.
func (c *Cache) Store(ctx context.Context, schema core.Schema, records []core.Record, version uint64) error {
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	if err := c.deleteRecords(ctx); err != nil {
		return fmt.Errorf("clearing cached catalog: %w", err)
	}

	for start := 0; start < len(records); start += writeBatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+writeBatchSize, len(records))
		err := c.backend.WithTx(func(tx *badger.Txn) error {
			for i := start; i < end; i++ {
				if err := tx.Set(makeRecordKey(uint64(i)), storage.MarshalRecord(records[i])); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return fmt.Errorf("writing cached records: %w", err)
		}
	}

	meta := storage.CatalogMeta{
		Dimensions:  schema.Dimensions,
		Version:     version,
		RecordCount: len(records),
	}
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeMetaKey(), storage.MarshalMeta(meta)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("writing catalog meta: %w", err)
	}

	c.logger.Info("catalog cached", "records", len(records), "version", version)
	return nil
}

// Meta returns the cached catalog's metadata.
// Returns storage.ErrCacheEmpty if nothing has been stored yet.
func (c *Cache) Meta(ctx context.Context) (storage.CatalogMeta, error) {
	var meta storage.CatalogMeta
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeMetaKey())
		if err == badger.ErrKeyNotFound {
			return storage.ErrCacheEmpty
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			meta, err = storage.UnmarshalMeta(val)
			return err
		})
	}, false)
	return meta, err
}

// Fetch implements storage.Source by reading the cached catalog back in
// stored order.
func (c *Cache) Fetch(ctx context.Context, monitor storage.FetchMonitor) (core.Schema, []core.Record, error) {
	if monitor == nil {
		monitor = storage.NoopMonitor{}
	}
	if c.backend.IsClosed() {
		return core.Schema{}, nil, storage.ErrStorageClosed
	}

	monitor.Stage(storage.StageConnect, 0)
	meta, err := c.Meta(ctx)
	if err != nil {
		return core.Schema{}, nil, err
	}

	schema, err := core.NewSchema(meta.Dimensions)
	if err != nil {
		return core.Schema{}, nil, fmt.Errorf("%w: %w", storage.ErrSourceInvalid, err)
	}

	monitor.Stage(storage.StageFetch, 10)
	records := make([]core.Record, 0, meta.RecordCount)
	err = c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := recordKeyPrefix()
		for iter.Seek(prefix); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}
			if len(records)%writeBatchSize == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			var rec core.Record
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				rec, err = storage.UnmarshalRecord(val)
				return err
			}); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	}, false)
	if err != nil {
		return core.Schema{}, nil, err
	}

	monitor.Stage(storage.StageValidate, 80)
	if len(records) != meta.RecordCount {
		return core.Schema{}, nil, fmt.Errorf("%w: meta says %d records, found %d",
			storage.ErrTruncatedData, meta.RecordCount, len(records))
	}

	return schema, records, nil
}

// deleteRecords removes all cached record entries in batches.
func (c *Cache) deleteRecords(ctx context.Context) error {
	prefix := recordKeyPrefix()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var keys [][]byte
		err := c.backend.WithTx(func(tx *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.PrefetchValues = false
			iter := tx.NewIterator(opts)
			defer iter.Close()
			for iter.Seek(prefix); iter.Valid() && len(keys) < writeBatchSize; iter.Next() {
				key := iter.Item().Key()
				if !bytes.HasPrefix(key, prefix) {
					break
				}
				keys = append(keys, iter.Item().KeyCopy(nil))
			}
			return nil
		}, false)
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		err = c.backend.WithTx(func(tx *badger.Txn) error {
			for _, key := range keys {
				if err := tx.Delete(key); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return err
		}
	}
}
