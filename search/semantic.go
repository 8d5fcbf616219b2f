package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/scholarit/ai"
	"github.com/poiesic/scholarit/core"
	"github.com/poiesic/scholarit/storage"
)

// semanticChannel ranks papers by embedding-space similarity to the query.
type semanticChannel struct {
	repository  storage.PaperRepository
	embedder    ai.Embedder
	callTimeout time.Duration
	logger      *slog.Logger
}

// Score embeds the query and returns up to n candidates ordered by similarity
// descending. The repository reports cosine distance in [0,2]; similarity is
// max(0, 1-d). Embedding or lookup failures return an empty candidate list so
// the caller degrades to lexical-only ranking. The embedding call is bounded
// by the channel's timeout even when the request context has no deadline.
func (c *semanticChannel) Score(ctx context.Context, queryText string, n int) []core.ChannelResult {
	embedCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	vector, err := c.embedder.EmbedText(embedCtx, queryText)
	if err != nil {
		c.logger.Warn("query embedding failed, semantic channel degraded", "err", err)
		return nil
	}

	matches, err := c.repository.VectorQuery(ctx, vector, n)
	if err != nil {
		c.logger.Warn("vector query failed, semantic channel degraded", "err", err)
		return nil
	}

	results := make([]core.ChannelResult, 0, len(matches))
	for _, match := range matches {
		similarity := 1 - float64(match.Distance)
		if similarity < 0 {
			similarity = 0
		}
		results = append(results, core.ChannelResult{
			ArxivID: match.ArxivID,
			Score:   similarity,
		})
	}

	return results
}
