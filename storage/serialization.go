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


package storage

import (
	"github.com/catalook/catalook/core"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// CatalogMeta describes a cached catalog: its ordered dimensions, the
// version it was stored under, and how many records it holds.
type CatalogMeta struct {
	Dimensions  []core.Dimension
	Version     uint64
	RecordCount int
}

var stringSliceSer = ord.NewSliceSer[string](ord.String)

// RecordMUS is the MUS serializer for core.Record.
var RecordMUS = recordMUS{}

type recordMUS struct{}

func (recordMUS) Marshal(r core.Record, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(r.Key), bs)
	return n + stringSliceSer.Marshal(r.Values, bs[n:])
}

func (recordMUS) Unmarshal(bs []byte) (r core.Record, n int, err error) {
	key, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	r.Key = core.ID(key)
	var n1 int
	r.Values, n1, err = stringSliceSer.Unmarshal(bs[n:])
	n += n1
	return
}

func (recordMUS) Size(r core.Record) (size int) {
	return varint.Uint64.Size(uint64(r.Key)) + stringSliceSer.Size(r.Values)
}

func (recordMUS) Skip(bs []byte) (n int, err error) {
	n, err = varint.Uint64.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = stringSliceSer.Skip(bs[n:])
	n += n1
	return
}

// CatalogMetaMUS is the MUS serializer for CatalogMeta.
var CatalogMetaMUS = catalogMetaMUS{}

type catalogMetaMUS struct{}

func (catalogMetaMUS) Marshal(m CatalogMeta, bs []byte) (n int) {
	n = stringSliceSer.Marshal(dimensionsToStrings(m.Dimensions), bs)
	n += varint.Uint64.Marshal(m.Version, bs[n:])
	return n + varint.Int.Marshal(m.RecordCount, bs[n:])
}

func (catalogMetaMUS) Unmarshal(bs []byte) (m CatalogMeta, n int, err error) {
	dims, n, err := stringSliceSer.Unmarshal(bs)
	if err != nil {
		return
	}
	m.Dimensions = stringsToDimensions(dims)
	var n1 int
	m.Version, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.RecordCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	return
}

func (catalogMetaMUS) Size(m CatalogMeta) (size int) {
	return stringSliceSer.Size(dimensionsToStrings(m.Dimensions)) +
		varint.Uint64.Size(m.Version) +
		varint.Int.Size(m.RecordCount)
}

func (catalogMetaMUS) Skip(bs []byte) (n int, err error) {
	n, err = stringSliceSer.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Uint64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	return
}

// MarshalRecord serializes a Record to bytes.
func MarshalRecord(r core.Record) []byte {
	buf := make([]byte, RecordMUS.Size(r))
	RecordMUS.Marshal(r, buf)
	return buf
}

// UnmarshalRecord deserializes a Record from bytes.
func UnmarshalRecord(data []byte) (core.Record, error) {
	r, _, err := RecordMUS.Unmarshal(data)
	return r, err
}

// MarshalMeta serializes a CatalogMeta to bytes.
func MarshalMeta(m CatalogMeta) []byte {
	buf := make([]byte, CatalogMetaMUS.Size(m))
	CatalogMetaMUS.Marshal(m, buf)
	return buf
}

// UnmarshalMeta deserializes a CatalogMeta from bytes.
func UnmarshalMeta(data []byte) (CatalogMeta, error) {
	m, _, err := CatalogMetaMUS.Unmarshal(data)
	return m, err
}

func dimensionsToStrings(dims []core.Dimension) []string {
	out := make([]string, len(dims))
	for i, d := range dims {
		out[i] = string(d)
	}
	return out
}

func stringsToDimensions(values []string) []core.Dimension {
	out := make([]core.Dimension, len(values))
	for i, v := range values {
		out[i] = core.Dimension(v)
	}
	return out
}
