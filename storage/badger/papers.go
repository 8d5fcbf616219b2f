package badger

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/scholarit/core"
	"github.com/poiesic/scholarit/storage"
)

// PaperRepository implements storage.PaperRepository for BadgerDB.
type PaperRepository struct {
	backend *Backend
}

var _ storage.PaperRepository = (*PaperRepository)(nil)

// NewPaperRepository creates a new PaperRepository.
func NewPaperRepository(backend *Backend) (*PaperRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &PaperRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *PaperRepository) Close() error {
	return nil
}

// VectorQuery delegates to the backend.
func (r *PaperRepository) VectorQuery(ctx context.Context, vector []float32, n int) ([]core.VectorMatch, error) {
	return r.backend.VectorQuery(ctx, vector, n)
}

// WithTransaction delegates to the backend.
func (r *PaperRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddPapers inserts papers into storage. A paper whose ArxivID is already
// present replaces the stored record wholesale; its InsertedAt timestamp
// is preserved so re-ingestion does not look like a new arrival.
func (r *PaperRepository) AddPapers(ctx context.Context, papers ...*core.Paper) ([]*core.Paper, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, paper := range papers {
			if err := core.ValidatePaper(paper); err != nil {
				return err
			}

			paper.Id = core.IDFromContent(paper.ArxivID)
			slices.Sort(paper.Categories)
			paper.Categories = slices.Compact(paper.Categories)

			key := makePaperKey(paper.Id)

			paper.InsertedAt = now
			if old, err := r.readPaper(tx, key); err != nil {
				return err
			} else if old != nil {
				paper.InsertedAt = old.InsertedAt
			}
			paper.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalPaper(paper)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return papers, err
}

// UpdatePapers updates existing papers.
func (r *PaperRepository) UpdatePapers(ctx context.Context, papers ...*core.Paper) ([]*core.Paper, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, paper := range papers {
			if paper.Id == 0 {
				paper.Id = core.IDFromContent(paper.ArxivID)
			}
			key := makePaperKey(paper.Id)

			old, err := r.readPaper(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			paper.InsertedAt = old.InsertedAt
			paper.UpdatedAt = time.Now().UTC()

			if err := tx.Set(key, storage.MarshalPaper(paper)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return papers, err
}

// DeletePapers removes papers by their ArxivIDs.
func (r *PaperRepository) DeletePapers(ctx context.Context, arxivIDs ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, arxivID := range arxivIDs {
			key := makePaperKey(core.IDFromContent(arxivID))

			paper, err := r.readPaper(tx, key)
			if err != nil {
				return err
			}
			if paper == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetPaper retrieves a single paper by ArxivID.
func (r *PaperRepository) GetPaper(ctx context.Context, arxivID string) (*core.Paper, error) {
	var result *core.Paper
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readPaper(tx, makePaperKey(core.IDFromContent(arxivID)))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetPapers retrieves multiple papers by their ArxivIDs.
func (r *PaperRepository) GetPapers(ctx context.Context, arxivIDs ...string) ([]*core.Paper, error) {
	var result []*core.Paper
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, arxivID := range arxivIDs {
			paper, err := r.readPaper(tx, makePaperKey(core.IDFromContent(arxivID)))
			if err != nil {
				return err
			}
			if paper != nil {
				result = append(result, paper)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetAllPapers retrieves every paper in the corpus, ordered by ArxivID.
func (r *PaperRepository) GetAllPapers(ctx context.Context) ([]*core.Paper, error) {
	var result []*core.Paper
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(paperPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var paper *core.Paper
			err := iter.Item().Value(func(val []byte) error {
				var err error
				paper, err = storage.UnmarshalPaper(val)
				return err
			})
			if err != nil {
				return err
			}
			if paper != nil {
				result = append(result, paper)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(result, func(a, b *core.Paper) int {
		return strings.Compare(a.ArxivID, b.ArxivID)
	})
	return result, nil
}

// CountPapers returns the number of papers in the corpus.
func (r *PaperRepository) CountPapers(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(paperPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// readPaper reads a paper by key within a transaction.
// Returns nil (no error) if the key does not exist.
func (r *PaperRepository) readPaper(tx *badger.Txn, key []byte) (*core.Paper, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var paper *core.Paper
	err = item.Value(func(val []byte) error {
		var err error
		paper, err = storage.UnmarshalPaper(val)
		return err
	})
	return paper, err
}
