package core

import (
	"encoding/binary"
	"slices"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is derived from content so that identical papers map to identical IDs.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Paper represents a single scientific-paper record in the corpus.
// It may be enriched with an embedding vector after ingestion.
type Paper struct {
	Id         ID
	ArxivID    string // Public identifier, e.g. "2101.00001v1"
	Title      string
	Authors    []string // Ordered as published
	Abstract   string
	Categories []string // Kept sorted; set semantics
	Published  time.Time
	SourceURL  string
	Vector     []float32 // Embedding vector for semantic search (populated by processors)
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// CombinedText returns the text used for both lexical indexing and embedding.
func (p *Paper) CombinedText() string {
	return p.Title + " " + p.Abstract
}

// InCategory reports whether the paper matches the given category filter.
// A filter matches on exact category or substring, case-insensitively.
func (p *Paper) InCategory(filter string) bool {
	filter = strings.ToLower(filter)
	for _, c := range p.Categories {
		if strings.Contains(strings.ToLower(c), filter) {
			return true
		}
	}
	return false
}

// Snapshot is an immutable, versioned view of the corpus at a point in time.
// A single search request uses exactly one snapshot throughout lexical
// scoring, semantic scoring, and filtering.
type Snapshot struct {
	version uint64
	papers  []*Paper
	byID    map[string]*Paper
}

// NewSnapshot builds a snapshot from the given papers. Papers sharing an
// ArxivID collapse to a single entry (last one wins) and the result is
// ordered by ArxivID for deterministic iteration.
func NewSnapshot(version uint64, papers []*Paper) *Snapshot {
	byID := make(map[string]*Paper, len(papers))
	for _, p := range papers {
		if p == nil || p.ArxivID == "" {
			continue
		}
		byID[p.ArxivID] = p
	}

	unique := make([]*Paper, 0, len(byID))
	for _, p := range byID {
		unique = append(unique, p)
	}
	slices.SortFunc(unique, func(a, b *Paper) int {
		return strings.Compare(a.ArxivID, b.ArxivID)
	})

	return &Snapshot{
		version: version,
		papers:  unique,
		byID:    byID,
	}
}

// Version returns the snapshot's version number.
func (s *Snapshot) Version() uint64 { return s.version }

// Len returns the number of papers in the snapshot.
func (s *Snapshot) Len() int { return len(s.papers) }

// Papers returns the snapshot's papers ordered by ArxivID.
// Callers must not mutate the returned slice.
func (s *Snapshot) Papers() []*Paper { return s.papers }

// Get returns the paper with the given ArxivID, or nil if absent.
func (s *Snapshot) Get(arxivID string) *Paper { return s.byID[arxivID] }

// DateRange is an inclusive publication-date window. A zero From or To
// leaves that end of the window open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t lies within the range, inclusive on both ends.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// Query describes a single search request. Queries are request-scoped and
// validated at the engine boundary before any channel runs.
type Query struct {
	Text           string
	TopK           int
	SemanticWeight float64    // Blend coefficient: 0 = pure lexical, 1 = pure semantic
	Category       string     // Optional category filter
	Dates          *DateRange // Optional publication-date filter
	Expand         bool       // Rewrite the query via the text generator before scoring
}

// ChannelResult is a single channel's raw-scored candidate. The score is
// channel-specific: unbounded for BM25, a similarity in [0,1] for the
// semantic channel.
type ChannelResult struct {
	ArxivID string
	Score   float64
}

// ScoredResult is a fused, normalized ranking entry.
type ScoredResult struct {
	ArxivID       string
	LexicalScore  float64 // Min-max normalized within the lexical channel
	SemanticScore float64 // Min-max normalized within the semantic channel
	Score         float64 // SemanticWeight*semantic + (1-SemanticWeight)*lexical
	Rank          int
}

// SearchResult pairs a ranking entry with the full paper record.
type SearchResult struct {
	Paper *Paper
	ScoredResult
}

// VectorMatch is a raw hit from the store's vector query: a paper id with
// its cosine distance to the query vector (0 = identical, 2 = opposite).
type VectorMatch struct {
	ArxivID  string
	Distance float32
}
