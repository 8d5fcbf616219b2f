package search

import (
	"math"
	"sort"

	"github.com/poiesic/scholarit/core"
)

// BM25 parameters: k1 controls term-frequency saturation, b controls
// document-length normalization.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

type posting struct {
	docIdx int
	count  int
}

// Index is an immutable BM25 index over one corpus snapshot. Build it once,
// then share it read-only across concurrent searches.
type Index struct {
	version    uint64
	arxivIDs   []string
	docLengths []int
	avgDocLen  float64
	inverted   map[string][]posting
	docCount   int
}

// BuildIndex tokenizes the combined title and abstract of every paper in the
// snapshot and computes the corpus statistics BM25 scoring needs. Building
// twice from the same snapshot yields identical statistics. An empty snapshot
// produces an index that scores every query as an empty candidate list.
func BuildIndex(snapshot *core.Snapshot) *Index {
	papers := snapshot.Papers()

	idx := &Index{
		version:    snapshot.Version(),
		arxivIDs:   make([]string, len(papers)),
		docLengths: make([]int, len(papers)),
		inverted:   make(map[string][]posting),
		docCount:   len(papers),
	}

	var totalLength int64
	for i, paper := range papers {
		tokens := tokenize(paper.CombinedText())

		idx.arxivIDs[i] = paper.ArxivID
		idx.docLengths[i] = len(tokens)
		totalLength += int64(len(tokens))

		tf := make(map[string]int)
		for _, t := range tokens {
			tf[t]++
		}
		for t, count := range tf {
			idx.inverted[t] = append(idx.inverted[t], posting{docIdx: i, count: count})
		}
	}

	if idx.docCount > 0 {
		idx.avgDocLen = float64(totalLength) / float64(idx.docCount)
	}

	return idx
}

// Version returns the snapshot version the index was built from.
func (idx *Index) Version() uint64 {
	return idx.version
}

// Score ranks every paper with at least one query-term overlap by its summed
// BM25 score. Papers with no overlap are omitted. Candidates are ordered by
// score descending, ties broken by arXiv id.
func (idx *Index) Score(queryTokens []string) []core.ChannelResult {
	if idx.docCount == 0 || len(queryTokens) == 0 {
		return nil
	}

	scores := make(map[int]float64)
	for _, t := range queryTokens {
		postings, ok := idx.inverted[t]
		if !ok {
			continue
		}

		idf := idx.computeIDF(len(postings))

		for _, p := range postings {
			tf := float64(p.count)
			docLen := float64(idx.docLengths[p.docIdx])

			num := tf * (bm25K1 + 1)
			denom := tf + bm25K1*(1-bm25B+bm25B*(docLen/idx.avgDocLen))
			scores[p.docIdx] += idf * (num / denom)
		}
	}

	results := make([]core.ChannelResult, 0, len(scores))
	for docIdx, score := range scores {
		results = append(results, core.ChannelResult{
			ArxivID: idx.arxivIDs[docIdx],
			Score:   score,
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

// computeIDF uses the standard smoothed form: log(1 + (N - n + 0.5) / (n + 0.5)).
func (idx *Index) computeIDF(df int) float64 {
	N := float64(idx.docCount)
	n := float64(df)
	return math.Log(1 + (N-n+0.5)/(n+0.5))
}
