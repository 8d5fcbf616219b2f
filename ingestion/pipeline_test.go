package ingestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/scholarit/ai/mock"
	"github.com/poiesic/scholarit/core"
	"github.com/poiesic/scholarit/storage"
	"github.com/poiesic/scholarit/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepository(t *testing.T) storage.PaperRepository {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func ingestablePaper(arxivID, title string) *core.Paper {
	return &core.Paper{
		ArxivID:   arxivID,
		Title:     title,
		Abstract:  "Abstract for " + title + ".",
		Published: time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewPipeline_Validation(t *testing.T) {
	repo := setupTestRepository(t)

	_, err := NewPipeline(nil, mock.NewMockProvider())
	assert.ErrorIs(t, err, ErrPaperRepositoryRequired)

	_, err = NewPipeline(repo, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)
}

func TestPipeline_IngestStoresAndEmbeds(t *testing.T) {
	repo := setupTestRepository(t)

	pipeline, err := NewPipeline(repo, mock.NewMockProvider(), WithPoolSize(2))
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()
	count, err := pipeline.Ingest(ctx,
		ingestablePaper("2105.00001", "Contrastive Representation Learning"),
		ingestablePaper("2105.00002", "Diffusion Models"),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	pipeline.Wait()

	papers, err := repo.GetAllPapers(ctx)
	require.NoError(t, err)
	require.Len(t, papers, 2)
	for _, paper := range papers {
		assert.NotEmpty(t, paper.Vector, "paper %s should have an embedding", paper.ArxivID)
	}
}

func TestPipeline_IngestEmptyBatch(t *testing.T) {
	repo := setupTestRepository(t)

	pipeline, err := NewPipeline(repo, mock.NewMockProvider())
	require.NoError(t, err)
	defer pipeline.Release()

	count, err := pipeline.Ingest(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPipeline_IngestValidatesPapers(t *testing.T) {
	repo := setupTestRepository(t)

	pipeline, err := NewPipeline(repo, mock.NewMockProvider())
	require.NoError(t, err)
	defer pipeline.Release()

	_, err = pipeline.Ingest(context.Background(), &core.Paper{Title: "missing id"})
	assert.ErrorIs(t, err, core.ErrInvalidPaper)
}

func TestPipeline_EmbeddingFailureDoesNotFailIngest(t *testing.T) {
	repo := setupTestRepository(t)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(_ context.Context, _ []string) ([][]float32, error) {
		return nil, errors.New("embedding service down")
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockTextGenerator())

	pipeline, err := NewPipeline(repo, provider)
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()
	count, err := pipeline.Ingest(ctx, ingestablePaper("2105.00001", "Contrastive Learning"))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	pipeline.Wait()

	// The paper is stored even though embedding failed.
	paper, err := repo.GetPaper(ctx, "2105.00001")
	require.NoError(t, err)
	assert.Empty(t, paper.Vector)
}

func TestPipeline_ReingestReplacesRecord(t *testing.T) {
	repo := setupTestRepository(t)

	pipeline, err := NewPipeline(repo, mock.NewMockProvider())
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()
	_, err = pipeline.Ingest(ctx, ingestablePaper("2105.00001", "Old Title"))
	require.NoError(t, err)
	pipeline.Wait()

	_, err = pipeline.Ingest(ctx, ingestablePaper("2105.00001", "New Title"))
	require.NoError(t, err)
	pipeline.Wait()

	n, err := repo.CountPapers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	paper, err := repo.GetPaper(ctx, "2105.00001")
	require.NoError(t, err)
	assert.Equal(t, "New Title", paper.Title)
}
