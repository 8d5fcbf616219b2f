package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/scholarit/ai"
	"github.com/poiesic/scholarit/core"
	"github.com/poiesic/scholarit/storage"
)

// embeddingProcessor generates embeddings for stored papers.
type embeddingProcessor struct {
	paperRepository storage.PaperRepository
	embedder        ai.Embedder
	logger          *slog.Logger
}

var _ processor = (*embeddingProcessor)(nil)

// newEmbeddingProcessor creates a new embedding processor.
func newEmbeddingProcessor(paperRepository storage.PaperRepository, embedder ai.Embedder, logger *slog.Logger) (processor, error) {
	if paperRepository == nil {
		return nil, ErrPaperRepositoryRequired
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		paperRepository: paperRepository,
		embedder:        embedder,
		logger:          logger.With("processor", "embeddings"),
	}, nil
}

// process generates embeddings for the specified papers from their combined
// title and abstract text.
func (ep *embeddingProcessor) process(ctx context.Context, arxivIDs ...string) error {
	ep.logger.Info("processing papers for embeddings", "papers", len(arxivIDs))

	slices.Sort(arxivIDs)

	papers, err := ep.paperRepository.GetPapers(ctx, arxivIDs...)
	if err != nil {
		ep.logger.Error("error retrieving papers", "err", err)
		return err
	}
	if len(papers) == 0 {
		return nil
	}

	texts := make([]string, len(papers))
	for i, paper := range papers {
		texts[i] = paper.CombinedText()
	}

	ep.logger.Debug("generating embeddings for papers", "papers", len(texts))
	embeddings, err := ep.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		ep.logger.Error("error generating embeddings", "err", err)
		return err
	}

	if len(embeddings) != len(papers) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(papers), len(embeddings))
	}

	for i := range embeddings {
		papers[i].Vector = core.NormalizeVector(embeddings[i])
	}

	_, err = ep.paperRepository.UpdatePapers(ctx, papers...)
	return err
}
