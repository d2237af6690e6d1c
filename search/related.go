package search

import (
	"sort"
	"strings"

	"github.com/catalook/catalook/core"
)

// AlternativePolicy describes which parts count as alternatives to a
// reference part. A candidate qualifies when it agrees with the reference
// on every Shared dimension and differs in at least one Varying dimension;
// candidates are then ranked by how many of the Varying dimensions they
// still agree on, most similar first. Ties keep dataset order.
type AlternativePolicy struct {
	Shared  []core.Dimension
	Varying []core.Dimension
}

// Alternatives returns ranked alternative parts for the reference record.
// The reference itself is excluded. A limit of zero or less returns all
// qualifying candidates.
func (p AlternativePolicy) Alternatives(snapshot *core.Snapshot, ref core.Record, limit int) []core.Record {
	if snapshot == nil || len(p.Shared) == 0 {
		return nil
	}

	type ranked struct {
		record core.Record
		score  int
		pos    int
	}

	var candidates []ranked
scan:
	for i, record := range snapshot.Records {
		if record.Key == ref.Key {
			continue
		}
		for _, dim := range p.Shared {
			if !sameValue(snapshot.Schema, record, ref, dim) {
				continue scan
			}
		}
		score := 0
		for _, dim := range p.Varying {
			if sameValue(snapshot.Schema, record, ref, dim) {
				score++
			}
		}
		// A part identical in every varying dimension is the same part in
		// another listing, not an alternative.
		if len(p.Varying) > 0 && score == len(p.Varying) {
			continue
		}
		candidates = append(candidates, ranked{record: record, score: score, pos: i})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].pos < candidates[j].pos
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]core.Record, len(candidates))
	for i, c := range candidates {
		out[i] = c.record
	}
	return out
}

// OppositePolicy describes how to find a part's counterpart, such as the
// mating connector for a plug. The Invert dimension's value is mapped
// through Pairs while every Hold dimension must match exactly. Pair lookup
// is case-insensitive.
type OppositePolicy struct {
	Invert core.Dimension
	Pairs  map[string]string
	Hold   []core.Dimension
}

// Opposite returns the counterpart of the reference record, if one exists.
// The first qualifying record in dataset order wins. There is no partial
// match: a missing pair mapping or no exact candidate returns false.
func (p OppositePolicy) Opposite(snapshot *core.Snapshot, ref core.Record) (core.Record, bool) {
	if snapshot == nil {
		return core.Record{}, false
	}
	refValue, ok := snapshot.Schema.Value(ref, p.Invert)
	if !ok {
		return core.Record{}, false
	}
	want, ok := p.lookupPair(refValue)
	if !ok {
		return core.Record{}, false
	}

scan:
	for _, record := range snapshot.Records {
		if record.Key == ref.Key {
			continue
		}
		value, ok := snapshot.Schema.Value(record, p.Invert)
		if !ok || !strings.EqualFold(value, want) {
			continue
		}
		for _, dim := range p.Hold {
			if !sameValue(snapshot.Schema, record, ref, dim) {
				continue scan
			}
		}
		return record, true
	}
	return core.Record{}, false
}

func (p OppositePolicy) lookupPair(value string) (string, bool) {
	for from, to := range p.Pairs {
		if strings.EqualFold(from, value) {
			return to, true
		}
	}
	return "", false
}

// sameValue reports whether two records carry the same value for a
// dimension, comparing case-insensitively.
func sameValue(schema core.Schema, a, b core.Record, dim core.Dimension) bool {
	av, aok := schema.Value(a, dim)
	bv, bok := schema.Value(b, dim)
	return aok && bok && strings.EqualFold(av, bv)
}
