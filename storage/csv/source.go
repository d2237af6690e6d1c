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


// Package csv reads a catalog from a CSV file. The header row defines the
// catalog's dimensions in display order; every following row is one record.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/catalook/catalook/core"
	"github.com/catalook/catalook/storage"
)

// checkEvery bounds how many rows are read between context checks.
const checkEvery = 1024

// Source reads a catalog from a CSV file on each fetch.
type Source struct {
	path   string
	keyDim core.Dimension
}

var _ storage.Source = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithKeyDimension sets the dimension whose value identifies a record.
// Default is the first header column.
func WithKeyDimension(dim core.Dimension) Option {
	return func(s *Source) {
		s.keyDim = dim
	}
}

// NewSource creates a CSV catalog source for the given file path.
func NewSource(path string, opts ...Option) *Source {
	s := &Source{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name identifies the source in logs and progress reporting.
func (s *Source) Name() string {
	return "csv:" + filepath.Base(s.path)
}

// Path returns the file path the source reads from.
func (s *Source) Path() string {
	return s.path
}

// Fetch reads the whole file. The header row becomes the schema; rows with
// a value count differing from the header are a structural error, not a
// skipped line.
func (s *Source) Fetch(ctx context.Context, monitor storage.FetchMonitor) (core.Schema, []core.Record, error) {
	if monitor == nil {
		monitor = storage.NoopMonitor{}
	}

	monitor.Stage(storage.StageConnect, 0)
	f, err := os.Open(s.path)
	if err != nil {
		return core.Schema{}, nil, fmt.Errorf("%w: %s: %w", storage.ErrSourceUnavailable, s.path, err)
	}
	defer f.Close()

	monitor.Stage(storage.StageFetch, 10)
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows reported by us, not the csv package

	header, err := reader.Read()
	if err == io.EOF {
		return core.Schema{}, nil, fmt.Errorf("%w: %s: missing header", storage.ErrSourceInvalid, s.path)
	}
	if err != nil {
		return core.Schema{}, nil, fmt.Errorf("%w: %s: %w", storage.ErrSourceInvalid, s.path, err)
	}

	dims := make([]core.Dimension, len(header))
	for i, name := range header {
		dims[i] = core.Dimension(strings.TrimSpace(name))
	}
	schema, err := core.NewSchema(dims)
	if err != nil {
		return core.Schema{}, nil, fmt.Errorf("%w: %s: %w", storage.ErrSourceInvalid, s.path, err)
	}

	keyDim := s.keyDim
	if keyDim == "" {
		keyDim = dims[0]
	}
	if !schema.Has(keyDim) {
		return core.Schema{}, nil, fmt.Errorf("%w: %s: key dimension %q not in header",
			storage.ErrSourceInvalid, s.path, keyDim)
	}

	var records []core.Record
	for row := 1; ; row++ {
		if row%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return core.Schema{}, nil, err
			}
		}

		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return core.Schema{}, nil, fmt.Errorf("%w: %s row %d: %w", storage.ErrSourceInvalid, s.path, row, err)
		}
		if len(fields) != len(dims) {
			return core.Schema{}, nil, fmt.Errorf("%w: %s row %d: got %d fields, header has %d",
				storage.ErrSourceInvalid, s.path, row, len(fields), len(dims))
		}

		values := make([]string, len(fields))
		for i, v := range fields {
			values[i] = strings.TrimSpace(v)
		}
		rec := core.Record{Values: values}
		if keyValue, ok := schema.Value(rec, keyDim); ok && keyValue != "" {
			rec.Key = core.IDFromKey(keyValue)
		}
		records = append(records, rec)
	}

	monitor.Stage(storage.StageValidate, 80)
	if len(records) == 0 {
		return core.Schema{}, nil, fmt.Errorf("%w: %s", storage.ErrEmptyCatalog, s.path)
	}

	return schema, records, nil
}
