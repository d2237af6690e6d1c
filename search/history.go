package search

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/catalook/catalook/core"
)

// DefaultHistoryCapacity bounds the history log unless overridden.
const DefaultHistoryCapacity = 35

// Entry is one committed search in the history log.
type Entry struct {
	Label   string
	Query   core.SearchQuery
	Results int
	At      time.Time
}

// History is a bounded, deduplicated log of committed searches.
// Entries are ordered newest first; recording an entry whose label already
// exists moves it to the front instead of duplicating it. When the log is
// full the oldest entry is evicted.
type History struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry
}

// NewHistory creates a history log. A capacity of zero or less selects
// DefaultHistoryCapacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{capacity: capacity}
}

// Label renders the history label for a query and its result count.
// Queries with active filters label as an advanced search; plain text
// queries label with the input itself. An empty query has no label.
func Label(q core.SearchQuery, results int) (string, bool) {
	if !q.Filters.IsEmpty() {
		return fmt.Sprintf("Advanced Search (%d results)", results), true
	}
	if text := strings.TrimSpace(q.Text); text != "" {
		return fmt.Sprintf("Input: %s (%d results)", text, results), true
	}
	return "", false
}

// Record adds a committed search to the log. Empty queries are not recorded.
func (h *History) Record(q core.SearchQuery, results int) {
	label, ok := Label(q, results)
	if !ok {
		return
	}

	entry := Entry{
		Label:   label,
		Query:   q.Clone(),
		Results: results,
		At:      time.Now(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for i, existing := range h.entries {
		if existing.Label == label {
			copy(h.entries[1:i+1], h.entries[:i])
			h.entries[0] = entry
			return
		}
	}

	if len(h.entries) >= h.capacity {
		h.entries = h.entries[:h.capacity-1]
	}
	h.entries = append([]Entry{entry}, h.entries...)
}

// List returns a copy of the log, newest first.
func (h *History) List() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries in the log.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Restore returns the full query of the entry at the given position,
// 0 being the most recent. The returned query carries everything needed
// to replay the search, not just its label.
func (h *History) Restore(index int) (core.SearchQuery, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if index < 0 || index >= len(h.entries) {
		return core.SearchQuery{}, fmt.Errorf("%w: %d", ErrHistoryIndexOutOfRange, index)
	}
	return h.entries[index].Query.Clone(), nil
}
