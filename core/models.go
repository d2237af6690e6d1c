package core

import (
	"encoding/binary"
	"slices"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for catalog records.
// It is generated by content-based hashing of the record's key field.
type ID uint64

// IDFromKey generates a deterministic ID from a record's key value using
// BLAKE2b hashing. Identical key values produce identical IDs.
func IDFromKey(key string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(key))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Dimension is a named categorical attribute of a Record usable as a
// filter axis (e.g. family, material, shell type).
type Dimension string

// Default dimensions of a connector catalog, in display order.
const (
	DimPartNumber        Dimension = "part_number"
	DimPartCode          Dimension = "part_code"
	DimPartCodeMin       Dimension = "part_code_min"
	DimFamily            Dimension = "family"
	DimMaterial          Dimension = "material"
	DimStatus            Dimension = "status"
	DimShellType         Dimension = "shell_type"
	DimShellSize         Dimension = "shell_size"
	DimInsertArrangement Dimension = "insert_arrangement"
	DimSocketType        Dimension = "socket_type"
	DimKeying            Dimension = "keying"
)

// DefaultDimensions returns the connector catalog dimensions in display order.
func DefaultDimensions() []Dimension {
	return []Dimension{
		DimPartNumber, DimPartCode, DimPartCodeMin, DimFamily, DimMaterial,
		DimStatus, DimShellType, DimShellSize, DimInsertArrangement,
		DimSocketType, DimKeying,
	}
}

// Record is one catalog entry: an ordered list of values positionally
// aligned with a Schema's dimensions. Records are opaque beyond their
// fields; the core does not validate domain semantics.
type Record struct {
	Key    ID
	Values []string
}

// Schema describes the ordered dimensions of a catalog and provides
// positional lookup of a record's value for a dimension.
type Schema struct {
	Dimensions []Dimension
	index      map[Dimension]int
}

// NewSchema builds a Schema from an ordered dimension list.
func NewSchema(dims []Dimension) (Schema, error) {
	if err := ValidateDimensions(dims); err != nil {
		return Schema{}, err
	}
	index := make(map[Dimension]int, len(dims))
	for i, d := range dims {
		index[d] = i
	}
	return Schema{Dimensions: slices.Clone(dims), index: index}, nil
}

// Value returns the record's value for the given dimension.
// Returns ("", false) if the dimension is not part of the schema.
func (s Schema) Value(r Record, dim Dimension) (string, bool) {
	i, ok := s.index[dim]
	if !ok || i >= len(r.Values) {
		return "", false
	}
	return r.Values[i], true
}

// Has reports whether the schema contains the given dimension.
func (s Schema) Has(dim Dimension) bool {
	_, ok := s.index[dim]
	return ok
}

// Snapshot is one atomically-installed, immutable catalog version.
// It is never mutated after construction; reloads install a fresh Snapshot.
type Snapshot struct {
	Schema   Schema
	Records  []Record
	Version  uint64
	LoadedAt time.Time

	distinct map[Dimension][]string
}

// NewSnapshot builds an immutable snapshot from a schema and records,
// precomputing the sorted distinct value set of every dimension.
// Records must be rectangular with respect to the schema.
func NewSnapshot(schema Schema, records []Record, version uint64) (*Snapshot, error) {
	for i := range records {
		if err := ValidateRecord(schema, records[i]); err != nil {
			return nil, err
		}
	}
	distinct := make(map[Dimension][]string, len(schema.Dimensions))
	for di, dim := range schema.Dimensions {
		seen := make(map[string]struct{})
		for i := range records {
			seen[records[i].Values[di]] = struct{}{}
		}
		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		slices.Sort(values)
		distinct[dim] = values
	}
	return &Snapshot{
		Schema:   schema,
		Records:  records,
		Version:  version,
		LoadedAt: time.Now(),
		distinct: distinct,
	}, nil
}

// DistinctValues returns the sorted distinct values of a dimension across
// the whole snapshot, precomputed at load time.
func (s *Snapshot) DistinctValues(dim Dimension) []string {
	return s.distinct[dim]
}

// AllDistinctValues returns the precomputed distinct value sets of every
// dimension. The returned map and slices must not be mutated.
func (s *Snapshot) AllDistinctValues() map[Dimension][]string {
	return s.distinct
}

// FindByKey returns the first record whose key ID matches, in dataset order.
func (s *Snapshot) FindByKey(key ID) (Record, bool) {
	for i := range s.Records {
		if s.Records[i].Key == key {
			return s.Records[i], true
		}
	}
	return Record{}, false
}

// FilterSelection maps dimensions to their selected values. Values within
// one dimension are OR-combined; dimensions are AND-combined. A missing or
// empty entry means no constraint on that dimension.
type FilterSelection map[Dimension][]string

// IsEmpty reports whether the selection carries no constraint at all.
func (fs FilterSelection) IsEmpty() bool {
	for _, values := range fs {
		if len(values) > 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the selection.
func (fs FilterSelection) Clone() FilterSelection {
	if fs == nil {
		return nil
	}
	out := make(FilterSelection, len(fs))
	for dim, values := range fs {
		out[dim] = slices.Clone(values)
	}
	return out
}

// Add selects a value within a dimension. Duplicate values are ignored.
func (fs FilterSelection) Add(dim Dimension, value string) {
	if slices.Contains(fs[dim], value) {
		return
	}
	fs[dim] = append(fs[dim], value)
}

// Remove drops a value from a dimension, deleting the dimension entirely
// when its last value is removed.
func (fs FilterSelection) Remove(dim Dimension, value string) {
	values := fs[dim]
	i := slices.Index(values, value)
	if i < 0 {
		return
	}
	values = slices.Delete(values, i, i+1)
	if len(values) == 0 {
		delete(fs, dim)
		return
	}
	fs[dim] = values
}

// Contains reports whether the value is selected within the dimension.
func (fs FilterSelection) Contains(dim Dimension, value string) bool {
	return slices.Contains(fs[dim], value)
}

// SearchQuery is a free-text query (comma-separated OR terms, possibly
// empty) combined with a filter selection. Text and filters are
// AND-combined as a whole.
type SearchQuery struct {
	Text    string
	Filters FilterSelection
}

// IsEmpty reports whether the query carries neither text nor filters.
// Whitespace-only text counts as no text.
func (q SearchQuery) IsEmpty() bool {
	return strings.TrimSpace(q.Text) == "" && q.Filters.IsEmpty()
}

// Clone returns a deep copy of the query.
func (q SearchQuery) Clone() SearchQuery {
	return SearchQuery{Text: q.Text, Filters: q.Filters.Clone()}
}

// SearchResult is the ordered subsequence of a snapshot's records
// satisfying a SearchQuery, along with counts for "showing X of Y"
// reporting and the snapshot version the search ran against.
type SearchResult struct {
	Records      []Record
	MatchedCount int
	TotalCount   int
	Version      uint64
}
