package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/scholarit/ai"
	"github.com/poiesic/scholarit/core"
	"github.com/poiesic/scholarit/storage"
)

// BatchProcessor handles embedding generation for batches of papers.
type BatchProcessor struct {
	repo           storage.PaperRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.PaperRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process generates embeddings for a batch of papers and updates them in the database.
// Embedding input is the combined title and abstract. Vectors are normalized
// after embedding to ensure compatibility with cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, papers []*core.Paper) error {
	if len(papers) == 0 {
		return nil
	}

	texts := make([]string, len(papers))
	for i, paper := range papers {
		texts[i] = paper.CombinedText()
	}

	// Generate embeddings with retry
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(papers) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(papers), len(embeddings))
	}

	for i := range papers {
		papers[i].Vector = core.NormalizeVector(embeddings[i])
	}

	_, err = bp.repo.UpdatePapers(ctx, papers...)
	if err != nil {
		return fmt.Errorf("failed to update papers: %w", err)
	}

	return nil
}
