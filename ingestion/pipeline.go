package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/scholarit/ai"
	"github.com/poiesic/scholarit/core"
	"github.com/poiesic/scholarit/storage"
)

// Pipeline orchestrates the ingestion and enrichment of paper records.
// Papers are stored synchronously; embedding generation runs asynchronously
// on a worker pool.
type Pipeline struct {
	paperRepository storage.PaperRepository
	embeddingPool   *ants.Pool
	embeddingProc   processor
	pending         sync.WaitGroup
	logger          *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		embeddingPool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.embeddingPool = embeddingPool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	paperRepository storage.PaperRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if paperRepository == nil {
		return nil, ErrPaperRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	embeddingPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		paperRepository: paperRepository,
		embeddingPool:   embeddingPool,
		logger:          slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	embeddingProc, err := newEmbeddingProcessor(paperRepository, provider.Embedder(), p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.embeddingProc = embeddingProc

	return p, nil
}

// Ingest stores the papers and schedules asynchronous embedding generation.
// Papers whose arXiv id already exists replace the stored record. Errors
// during async processing are logged but do not fail the ingestion.
// Returns the number of papers stored.
func (p *Pipeline) Ingest(ctx context.Context, papers ...*core.Paper) (int, error) {
	if len(papers) == 0 {
		return 0, nil
	}

	added, err := p.paperRepository.AddPapers(ctx, papers...)
	if err != nil {
		return 0, err
	}
	if len(added) == 0 {
		return 0, nil
	}

	arxivIDs := make([]string, len(added))
	for i, paper := range added {
		arxivIDs[i] = paper.ArxivID
	}

	p.pending.Add(1)
	submitErr := p.embeddingPool.Submit(func() {
		defer p.pending.Done()
		if err := p.embeddingProc.process(context.Background(), arxivIDs...); err != nil {
			p.logger.Error("error processing embeddings", "err", err)
		}
	})
	if submitErr != nil {
		p.pending.Done()
		p.logger.Error("error submitting embedding work", "err", submitErr)
	}

	return len(added), nil
}

// Wait blocks until all scheduled embedding work has completed.
func (p *Pipeline) Wait() {
	p.pending.Wait()
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}
