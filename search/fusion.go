package search

import (
	"sort"

	"github.com/poiesic/scholarit/core"
)

// Fuse merges two channel result sets into one ranked list. The candidate set
// is the union of both channels: a paper strong in only one channel must still
// be retrievable. Each channel's raw scores are min-max normalized
// independently; ids missing from a channel get 0 for that channel. The fused
// score is alpha*semantic + (1-alpha)*lexical, sorted descending with ties
// broken by arXiv id.
func Fuse(lexical, semantic []core.ChannelResult, alpha float64) []core.ScoredResult {
	lexicalNorm := normalizeChannel(lexical)
	semanticNorm := normalizeChannel(semantic)

	ids := make(map[string]bool, len(lexicalNorm)+len(semanticNorm))
	for id := range lexicalNorm {
		ids[id] = true
	}
	for id := range semanticNorm {
		ids[id] = true
	}

	results := make([]core.ScoredResult, 0, len(ids))
	for id := range ids {
		lex := lexicalNorm[id]
		sem := semanticNorm[id]
		results = append(results, core.ScoredResult{
			ArxivID:       id,
			LexicalScore:  lex,
			SemanticScore: sem,
			Score:         alpha*sem + (1-alpha)*lex,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ArxivID < results[j].ArxivID
	})

	return results
}

// normalizeChannel min-max scales a channel's raw scores into [0,1]. When the
// channel has a single candidate, or all raw scores are equal, every member
// normalizes to 1.0: an uncontested result is maximally relevant within its
// own channel. This rule also keeps the scaling free of divide-by-zero.
func normalizeChannel(results []core.ChannelResult) map[string]float64 {
	normalized := make(map[string]float64, len(results))
	if len(results) == 0 {
		return normalized
	}

	minScore, maxScore := results[0].Score, results[0].Score
	for _, r := range results[1:] {
		if r.Score < minScore {
			minScore = r.Score
		}
		if r.Score > maxScore {
			maxScore = r.Score
		}
	}

	if maxScore == minScore {
		for _, r := range results {
			normalized[r.ArxivID] = 1.0
		}
		return normalized
	}

	for _, r := range results {
		normalized[r.ArxivID] = (r.Score - minScore) / (maxScore - minScore)
	}
	return normalized
}

// Filter keeps only results whose paper matches every supplied facet:
// category membership by case-insensitive substring, date range inclusive on
// both ends. It runs on the fused, sorted list before truncation, so a
// filtered request may legitimately return fewer than topK results. Results
// whose paper is missing from the snapshot are dropped.
func Filter(results []core.ScoredResult, snapshot *core.Snapshot, category string, dates *core.DateRange) []core.ScoredResult {
	if category == "" && dates == nil {
		return results
	}

	kept := make([]core.ScoredResult, 0, len(results))
	for _, r := range results {
		paper := snapshot.Get(r.ArxivID)
		if paper == nil {
			continue
		}
		if category != "" && !paper.InCategory(category) {
			continue
		}
		if dates != nil && !dates.Contains(paper.Published) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
