package search

import "github.com/catalook/catalook/core"

// ResultMonitor provides hooks to observe the lifecycle of submitted queries.
// Implement this interface to track submissions, commits and discards.
type ResultMonitor interface {
	Submitted(generation uint64, query core.SearchQuery)
	Committed(generation uint64, result *core.SearchResult)
	Discarded(generation uint64)
	Failed(generation uint64, err error)
}

// noopMonitor is a no-op implementation of ResultMonitor
type noopMonitor struct{}

var _ ResultMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Submitted(_ uint64, _ core.SearchQuery)   {}
func (n *noopMonitor) Committed(_ uint64, _ *core.SearchResult) {}
func (n *noopMonitor) Discarded(_ uint64)                       {}
func (n *noopMonitor) Failed(_ uint64, _ error)                 {}
