package search

import "github.com/poiesic/scholarit/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterExpansion(original, expanded string)
	AfterLexicalSearch(candidates []core.ChannelResult)
	AfterSemanticSearch(candidates []core.ChannelResult)
	AfterFusion(results []core.ScoredResult)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                             {}
func (n *noopMonitor) AfterExpansion(_, _ string)                 {}
func (n *noopMonitor) AfterLexicalSearch(_ []core.ChannelResult)  {}
func (n *noopMonitor) AfterSemanticSearch(_ []core.ChannelResult) {}
func (n *noopMonitor) AfterFusion(_ []core.ScoredResult)          {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)              {}
