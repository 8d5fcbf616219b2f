package storage

import (
	"context"

	"github.com/poiesic/scholarit/core"
)

// PaperRepository provides operations for managing paper records.
// Implementations must be thread-safe and support concurrent access.
type PaperRepository interface {
	// AddPapers inserts papers into storage. IDs are derived from the
	// paper's ArxivID, so adding a paper whose id already exists replaces
	// the whole record instead of creating a duplicate. The original
	// InsertedAt timestamp of a replaced record is preserved.
	// Returns the papers with IDs and timestamps populated.
	AddPapers(ctx context.Context, papers ...*core.Paper) ([]*core.Paper, error)

	// UpdatePapers updates existing papers.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any paper doesn't exist.
	UpdatePapers(ctx context.Context, papers ...*core.Paper) ([]*core.Paper, error)

	// DeletePapers removes papers by their ArxivIDs.
	// Returns ErrNotFound if any paper doesn't exist.
	DeletePapers(ctx context.Context, arxivIDs ...string) error

	// GetPaper retrieves a single paper by ArxivID.
	// Returns ErrNotFound if the paper doesn't exist.
	GetPaper(ctx context.Context, arxivID string) (*core.Paper, error)

	// GetPapers retrieves multiple papers by their ArxivIDs.
	// Returns only the papers that exist (no error for missing papers).
	GetPapers(ctx context.Context, arxivIDs ...string) ([]*core.Paper, error)

	// GetAllPapers retrieves every paper in the corpus, ordered by ArxivID.
	// Used to build corpus snapshots and lexical indexes.
	GetAllPapers(ctx context.Context) ([]*core.Paper, error)

	// CountPapers returns the number of papers in the corpus.
	CountPapers(ctx context.Context) (int, error)

	// VectorQuery finds the n papers nearest to the given vector.
	// Matches carry cosine distances in [0,2] (0 = identical) and are
	// ordered by distance ascending, ties broken by ArxivID.
	// Papers without embeddings are skipped.
	VectorQuery(ctx context.Context, vector []float32, n int) ([]core.VectorMatch, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}
