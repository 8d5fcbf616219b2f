package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/scholarit/ai"
	"github.com/poiesic/scholarit/core"
	"github.com/poiesic/scholarit/storage"
)

const (
	// summaryUnavailable is returned whenever summarization cannot produce
	// usable text. Summarization never propagates an error.
	summaryUnavailable = "summary unavailable"

	summaryMaxTokens   = 256
	summaryTemperature = 0.3

	// summaryContextPapers bounds how many results feed the summary prompt,
	// summarySnippetLength how much of each abstract is included.
	summaryContextPapers = 5
	summarySnippetLength = 300

	// minSemanticCandidates keeps the semantic channel from starving fusion
	// when topK is small.
	minSemanticCandidates = 30

	// defaultEmbedTimeout bounds the query embedding call so a dead
	// embedding service degrades the search to lexical-only instead of
	// hanging it.
	defaultEmbedTimeout = 15 * time.Second
)

// indexedSnapshot pairs a corpus snapshot with the BM25 index built from it.
// The pair is published atomically so every request scores lexical, semantic,
// and filter stages against one consistent corpus view.
type indexedSnapshot struct {
	snapshot *core.Snapshot
	index    *Index
}

// Engine is the hybrid search orchestrator. It expands the query, scores the
// lexical and semantic channels concurrently, fuses and filters the results,
// and resolves paper metadata from the snapshot.
//
// An Engine is safe for concurrent use. Refresh may run at any time; in-flight
// searches keep the snapshot they started with.
type Engine struct {
	repository   storage.PaperRepository
	expander     *expander
	semantic     *semanticChannel
	generator    ai.TextGenerator
	embedTimeout time.Duration
	logger       *slog.Logger

	current atomic.Pointer[indexedSnapshot]
	version atomic.Uint64
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithEmbedTimeout bounds each query embedding call.
// Default is 15 seconds.
func WithEmbedTimeout(timeout time.Duration) Option {
	return func(e *Engine) error {
		if timeout <= 0 {
			return fmt.Errorf("embed timeout must be positive, got %v", timeout)
		}
		e.embedTimeout = timeout
		return nil
	}
}

// NewEngine creates a new hybrid search engine. Call Refresh before searching,
// or rely on the lazy refresh the first search performs.
func NewEngine(
	repository storage.PaperRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Engine, error) {
	if repository == nil {
		return nil, ErrPaperRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	e := &Engine{
		repository:   repository,
		generator:    provider.TextGenerator(),
		embedTimeout: defaultEmbedTimeout,
		logger:       slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	e.expander = &expander{generator: e.generator, logger: e.logger}
	e.semantic = &semanticChannel{
		repository:  repository,
		embedder:    provider.Embedder(),
		callTimeout: e.embedTimeout,
		logger:      e.logger,
	}

	return e, nil
}

// Refresh builds a new snapshot and BM25 index from the current corpus and
// publishes the pair atomically. In-flight searches are unaffected; new
// searches pick up the published pair.
func (e *Engine) Refresh(ctx context.Context) error {
	papers, err := e.repository.GetAllPapers(ctx)
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}

	snapshot := core.NewSnapshot(e.version.Add(1), papers)
	state := &indexedSnapshot{
		snapshot: snapshot,
		index:    BuildIndex(snapshot),
	}
	e.current.Store(state)

	e.logger.Debug("published corpus snapshot",
		"version", snapshot.Version(), "papers", snapshot.Len())
	return nil
}

// Search runs the full hybrid pipeline and returns up to query.TopK results
// ranked by fused score. Provider failures degrade the affected channel; the
// only errors Search returns are query validation and corpus load failures.
func (e *Engine) Search(ctx context.Context, query *core.Query) ([]*core.SearchResult, error) {
	return e.SearchWithMonitor(ctx, query, nil)
}

// SearchWithMonitor is Search with per-stage monitoring callbacks.
func (e *Engine) SearchWithMonitor(ctx context.Context, query *core.Query, monitor SearchMonitor) ([]*core.SearchResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}

	monitor.Start(query.Text)

	state := e.current.Load()
	if state == nil {
		if err := e.Refresh(ctx); err != nil {
			return nil, err
		}
		state = e.current.Load()
	}

	searchText := query.Text
	if query.Expand {
		searchText = e.expander.Expand(ctx, query.Text)
	}
	monitor.AfterExpansion(query.Text, searchText)

	// The channels are independent: score them concurrently. Neither can
	// fail the search, they degrade to empty candidate lists instead.
	var lexical, semantic []core.ChannelResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lexical = state.index.Score(tokenize(searchText))
		return nil
	})
	g.Go(func() error {
		semantic = e.semantic.Score(gctx, searchText, semanticCandidateCount(query.TopK))
		return nil
	})
	_ = g.Wait()

	monitor.AfterLexicalSearch(lexical)
	monitor.AfterSemanticSearch(semantic)

	fused := Fuse(lexical, semantic, query.SemanticWeight)
	monitor.AfterFusion(fused)

	filtered := Filter(fused, state.snapshot, query.Category, query.Dates)

	// Resolve metadata before truncating: a semantic hit for a paper not in
	// this snapshot must not consume a result slot, and ranks stay contiguous.
	results := make([]*core.SearchResult, 0, query.TopK)
	for _, scored := range filtered {
		paper := state.snapshot.Get(scored.ArxivID)
		if paper == nil {
			continue
		}
		scored.Rank = len(results) + 1
		results = append(results, &core.SearchResult{
			Paper:        paper,
			ScoredResult: scored,
		})
		if len(results) == query.TopK {
			break
		}
	}

	monitor.Finish(results)
	return results, nil
}

// Summarize asks the generative model for a short synthesis of the top
// results. It never fails: provider errors and empty generations produce a
// fixed fallback message.
func (e *Engine) Summarize(ctx context.Context, results []*core.SearchResult, query string) string {
	if len(results) == 0 {
		return summaryUnavailable
	}

	var contextText strings.Builder
	for i, result := range results {
		if i >= summaryContextPapers {
			break
		}
		snippet := truncateOnRune(result.Paper.Abstract, summarySnippetLength)
		fmt.Fprintf(&contextText, "Title: %s\nContent: %s\n\n", result.Paper.Title, snippet)
	}

	prompt := fmt.Sprintf(`Based on the following research papers related to the query %q,
provide a concise summary of the main findings and themes (max 200 words):

%s
Summary:`, query, contextText.String())

	summary, err := e.generator.Generate(ctx, prompt, summaryMaxTokens, summaryTemperature)
	if err != nil {
		e.logger.Warn("result summarization failed", "err", err)
		return summaryUnavailable
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return summaryUnavailable
	}
	return summary
}

func semanticCandidateCount(topK int) int {
	n := topK * 3
	if n < minSemanticCandidates {
		n = minSemanticCandidates
	}
	return n
}
