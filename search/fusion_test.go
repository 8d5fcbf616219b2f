package search

import (
	"testing"
	"time"

	"github.com/poiesic/scholarit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func channel(pairs ...any) []core.ChannelResult {
	results := make([]core.ChannelResult, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		results = append(results, core.ChannelResult{
			ArxivID: pairs[i].(string),
			Score:   pairs[i+1].(float64),
		})
	}
	return results
}

func TestFuse_ScoresStayInUnitInterval(t *testing.T) {
	lexical := channel("a", 12.5, "b", 3.0, "c", 0.1)
	semantic := channel("b", 0.9, "d", 0.4)

	for _, alpha := range []float64{0, 0.25, 0.5, 0.75, 1} {
		for _, r := range Fuse(lexical, semantic, alpha) {
			assert.GreaterOrEqual(t, r.Score, 0.0, "alpha=%v id=%s", alpha, r.ArxivID)
			assert.LessOrEqual(t, r.Score, 1.0, "alpha=%v id=%s", alpha, r.ArxivID)
		}
	}
}

func TestFuse_AlphaOneMatchesSemanticOrder(t *testing.T) {
	lexical := channel("a", 1.0, "b", 9.0, "c", 5.0)
	semantic := channel("a", 0.9, "c", 0.7, "b", 0.2)

	fused := Fuse(lexical, semantic, 1.0)
	require.Len(t, fused, 3)
	assert.Equal(t, "a", fused[0].ArxivID)
	assert.Equal(t, "c", fused[1].ArxivID)
	assert.Equal(t, "b", fused[2].ArxivID)
}

func TestFuse_AlphaZeroMatchesLexicalOrder(t *testing.T) {
	lexical := channel("a", 1.0, "b", 9.0, "c", 5.0)
	semantic := channel("a", 0.9, "c", 0.7, "b", 0.2)

	fused := Fuse(lexical, semantic, 0.0)
	require.Len(t, fused, 3)
	assert.Equal(t, "b", fused[0].ArxivID)
	assert.Equal(t, "c", fused[1].ArxivID)
	assert.Equal(t, "a", fused[2].ArxivID)
}

func TestFuse_UnionNotIntersection(t *testing.T) {
	// A paper present only in the lexical channel must still be fused in,
	// with semantic component zero.
	lexical := channel("lex-only", 4.0, "both", 2.0)
	semantic := channel("both", 0.8, "sem-only", 0.6)

	fused := Fuse(lexical, semantic, 0.5)
	require.Len(t, fused, 3)

	byID := make(map[string]core.ScoredResult, len(fused))
	for _, r := range fused {
		byID[r.ArxivID] = r
	}

	assert.Equal(t, 0.0, byID["lex-only"].SemanticScore)
	assert.Greater(t, byID["lex-only"].Score, 0.0)
	assert.Equal(t, 0.0, byID["sem-only"].LexicalScore)
}

func TestFuse_SingleCandidateNormalizesToOne(t *testing.T) {
	fused := Fuse(channel("a", 0.001), nil, 0.0)
	require.Len(t, fused, 1)
	assert.Equal(t, 1.0, fused[0].LexicalScore)
	assert.Equal(t, 1.0, fused[0].Score)
}

func TestFuse_EqualRawScoresNormalizeToOne(t *testing.T) {
	fused := Fuse(channel("a", 2.0, "b", 2.0, "c", 2.0), nil, 0.0)
	require.Len(t, fused, 3)
	for _, r := range fused {
		assert.Equal(t, 1.0, r.LexicalScore)
	}
}

func TestFuse_TiesBrokenByArxivID(t *testing.T) {
	fused := Fuse(channel("b", 1.0, "a", 1.0), nil, 0.0)
	require.Len(t, fused, 2)
	assert.Equal(t, "a", fused[0].ArxivID)
	assert.Equal(t, "b", fused[1].ArxivID)
}

func TestFuse_ThreePaperScenario(t *testing.T) {
	// A is strong in both channels, B leads on lexical overlap only, C is
	// semantically close to the query only. At alpha=0.5 C's semantic
	// closeness outweighs B's lexical advantage.
	lexical := channel("A", 5.0, "B", 3.0, "C", 1.0)
	semantic := channel("A", 0.9, "C", 0.8, "B", 0.1)

	fused := Fuse(lexical, semantic, 0.5)
	require.Len(t, fused, 3)

	assert.Equal(t, "A", fused[0].ArxivID)
	assert.InDelta(t, 1.0, fused[0].Score, 1e-9)

	assert.Equal(t, "C", fused[1].ArxivID)
	assert.InDelta(t, 0.4375, fused[1].Score, 1e-9) // 0.5*0.875 + 0.5*0

	assert.Equal(t, "B", fused[2].ArxivID)
	assert.InDelta(t, 0.25, fused[2].Score, 1e-9) // 0.5*0 + 0.5*0.5
}

func TestFilter(t *testing.T) {
	published := func(y int) time.Time {
		return time.Date(y, 3, 15, 0, 0, 0, 0, time.UTC)
	}
	snapshot := core.NewSnapshot(1, []*core.Paper{
		{ArxivID: "a", Title: "A", Categories: []string{"cs.CV"}, Published: published(2020)},
		{ArxivID: "b", Title: "B", Categories: []string{"cs.LG"}, Published: published(2021)},
		{ArxivID: "c", Title: "C", Categories: []string{"cs.CV", "cs.LG"}, Published: published(2022)},
	})
	fused := Fuse(channel("a", 3.0, "b", 2.0, "c", 1.0), nil, 0.0)

	t.Run("no filters keeps everything", func(t *testing.T) {
		assert.Len(t, Filter(fused, snapshot, "", nil), 3)
	})

	t.Run("category", func(t *testing.T) {
		kept := Filter(fused, snapshot, "cs.CV", nil)
		require.Len(t, kept, 2)
		assert.Equal(t, "a", kept[0].ArxivID)
		assert.Equal(t, "c", kept[1].ArxivID)
	})

	t.Run("date range inclusive on both ends", func(t *testing.T) {
		dates := &core.DateRange{From: published(2020), To: published(2021)}
		kept := Filter(fused, snapshot, "", dates)
		require.Len(t, kept, 2)
		assert.Equal(t, "a", kept[0].ArxivID)
		assert.Equal(t, "b", kept[1].ArxivID)
	})

	t.Run("filters combine conjunctively", func(t *testing.T) {
		dates := &core.DateRange{From: published(2021)}
		kept := Filter(fused, snapshot, "cs.CV", dates)
		require.Len(t, kept, 1)
		assert.Equal(t, "c", kept[0].ArxivID)
	})

	t.Run("unknown id dropped", func(t *testing.T) {
		stale := Fuse(channel("ghost", 1.0), nil, 0.0)
		assert.Empty(t, Filter(stale, snapshot, "cs.CV", nil))
	})
}
