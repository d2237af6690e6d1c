package filter

import (
	"slices"

	"github.com/catalook/catalook/core"
)

// OptionSet is the outcome of a dependent-filter computation: the sorted
// values still reachable per dimension, and the previously selected values
// that are no longer reachable under the current constraints.
type OptionSet struct {
	Values  map[core.Dimension][]string
	Invalid core.FilterSelection
}

// Matches reports whether a record satisfies a filter selection.
//
// Values within one dimension are OR-combined, dimensions AND-combined.
// An empty value list is no constraint. A selection on a dimension the
// schema does not contain is unsatisfiable.
func Matches(schema core.Schema, record core.Record, sel core.FilterSelection) bool {
	for dim, values := range sel {
		if len(values) == 0 {
			continue
		}
		value, ok := schema.Value(record, dim)
		if !ok {
			return false
		}
		if !slices.Contains(values, value) {
			return false
		}
	}
	return true
}

// Options computes the valid values of every dimension under the given
// selection.
//
// With no constraints it returns the snapshot's precomputed dataset-wide
// distinct sets. Otherwise it scans the snapshot once, keeping only
// records satisfying the selection, and recomputes distinct values per
// dimension from that filtered subset, so a dimension's menu reflects only
// values reachable under the current constraints. Selecting several values
// within one dimension unions their reachable sets, since any record
// matching either value survives the scan.
//
// Selected values absent from the recomputed sets are reported in Invalid;
// still-valid values are left untouched for the caller to preserve.
func Options(snap *core.Snapshot, sel core.FilterSelection) OptionSet {
	if sel.IsEmpty() {
		values := make(map[core.Dimension][]string, len(snap.Schema.Dimensions))
		for dim, distinct := range snap.AllDistinctValues() {
			values[dim] = distinct
		}
		opts := OptionSet{Values: values}
		opts.Invalid = Unreachable(opts, sel)
		return opts
	}

	seen := make([]map[string]struct{}, len(snap.Schema.Dimensions))
	for i := range seen {
		seen[i] = make(map[string]struct{})
	}
	for i := range snap.Records {
		if !Matches(snap.Schema, snap.Records[i], sel) {
			continue
		}
		for di, value := range snap.Records[i].Values {
			seen[di][value] = struct{}{}
		}
	}

	values := make(map[core.Dimension][]string, len(snap.Schema.Dimensions))
	for di, dim := range snap.Schema.Dimensions {
		sorted := make([]string, 0, len(seen[di]))
		for v := range seen[di] {
			sorted = append(sorted, v)
		}
		slices.Sort(sorted)
		values[dim] = sorted
	}
	opts := OptionSet{Values: values}
	opts.Invalid = Unreachable(opts, sel)
	return opts
}

// Unreachable collects selected values that do not occur in the computed
// option sets, including whole selections on dimensions the options do not
// carry. Callers sequencing a change to one dimension validate the other
// dimensions' prior selections against the options computed from the
// changed constraint alone.
func Unreachable(opts OptionSet, sel core.FilterSelection) core.FilterSelection {
	var invalid core.FilterSelection
	for dim, selected := range sel {
		available, known := opts.Values[dim]
		for _, v := range selected {
			if known && slices.Contains(available, v) {
				continue
			}
			if invalid == nil {
				invalid = core.FilterSelection{}
			}
			invalid.Add(dim, v)
		}
	}
	return invalid
}

// Narrow returns a copy of the selection with the given invalidated values
// silently dropped. Valid values keep their order; dimensions emptied out
// entirely are removed.
func Narrow(sel core.FilterSelection, invalid core.FilterSelection) core.FilterSelection {
	narrowed := sel.Clone()
	for dim, values := range invalid {
		for _, v := range values {
			narrowed.Remove(dim, v)
		}
	}
	return narrowed
}
