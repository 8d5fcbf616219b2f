package scholarit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/scholarit/ai/mock"
	"github.com/poiesic/scholarit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir, WithAIProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		// Verify components are initialized
		assert.NotNil(t, db.PaperRepository())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to create a database at a file path instead of directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := NewDatabase(tmpFile, WithAIProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(t.TempDir(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	require.NotNil(t, db)

	err = db.Close()
	assert.NoError(t, err)
}

func TestDatabase_FactoryMethods(t *testing.T) {
	db, err := NewDatabase(t.TempDir(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	require.NotNil(t, db)
	defer db.Close()

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		pipeline, err := db.NewIngestionPipeline()
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("can create search engine", func(t *testing.T) {
		engine, err := db.NewSearchEngine()
		require.NoError(t, err)
		require.NotNil(t, engine)
	})
}

func TestDatabase_IngestThenSearch(t *testing.T) {
	db, err := NewDatabase(t.TempDir(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()
	count, err := pipeline.Ingest(ctx, &core.Paper{
		ArxivID:   "2101.00001",
		Title:     "Neural Network Pruning",
		Abstract:  "Pruning deep networks for sparsity.",
		Published: time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, 1, count)
	pipeline.Wait()

	engine, err := db.NewSearchEngine()
	require.NoError(t, err)
	require.NoError(t, engine.Refresh(ctx))

	results, err := engine.Search(ctx, &core.Query{
		Text:           "neural network pruning",
		TopK:           5,
		SemanticWeight: 0.5,
	})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "2101.00001", results[0].ArxivID)
}
