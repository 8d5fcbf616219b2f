package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/scholarit/ai"
)

const (
	expansionMaxTokens   = 64
	expansionTemperature = 0.3

	// Expansions longer than this are discarded as runaway generations.
	expansionMaxLength = 200
)

const expansionPromptTemplate = `Rewrite this scientific literature search query to improve retrieval.
Add relevant synonyms and closely related technical terms.
Original query: %s

Expanded query (one line only):`

// expander enriches short queries with related terms using a generative
// model. It fails open: any provider error or unusable generation returns the
// original query unchanged.
type expander struct {
	generator ai.TextGenerator
	logger    *slog.Logger
}

// Expand returns the expanded query, or the original when expansion fails or
// the generation is rejected. The expansion is accepted only if it is strictly
// longer than the original and under a fixed length bound.
func (e *expander) Expand(ctx context.Context, query string) string {
	prompt := fmt.Sprintf(expansionPromptTemplate, query)

	generated, err := e.generator.Generate(ctx, prompt, expansionMaxTokens, expansionTemperature)
	if err != nil {
		e.logger.Warn("query expansion failed, using original query", "err", err)
		return query
	}

	expanded := cleanExpansion(generated)
	if len(expanded) <= len(query) || len(expanded) >= expansionMaxLength {
		e.logger.Debug("rejected query expansion", "query", query, "expanded", expanded)
		return query
	}

	return expanded
}

// cleanExpansion strips markdown artifacts and surrounding quotes, and
// collapses the generation to a single line.
func cleanExpansion(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "`", "")
	text = strings.ReplaceAll(text, "*", "")
	text = strings.TrimSpace(text)
	text = strings.Trim(text, `"'`)
	return strings.Join(strings.Fields(text), " ")
}
