package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaperMUSRoundTrip(t *testing.T) {
	published := time.Date(2021, 1, 4, 12, 30, 0, 0, time.UTC)
	now := time.Now().UTC().Truncate(time.Microsecond)

	paper := Paper{
		Id:         IDFromContent("2101.00001v1"),
		ArxivID:    "2101.00001v1",
		Title:      "Neural Network Pruning",
		Authors:    []string{"A. Author", "B. Author"},
		Abstract:   "We prune networks.",
		Categories: []string{"cs.CV", "cs.LG"},
		Published:  published,
		SourceURL:  "https://arxiv.org/abs/2101.00001v1",
		Vector:     []float32{0.1, -0.5, 0.25},
		InsertedAt: now,
		UpdatedAt:  now,
	}

	buf := make([]byte, PaperMUS.Size(paper))
	n := PaperMUS.Marshal(paper, buf)
	require.Equal(t, len(buf), n, "marshal must fill the sized buffer exactly")

	decoded, m, err := PaperMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, n, m)
	assert.Equal(t, paper, decoded)
}

func TestPaperMUSMinimalRecord(t *testing.T) {
	// Records straight from ingestion have no vector yet.
	paper := Paper{ArxivID: "2101.00002", Title: "Sparse Transformers"}

	buf := make([]byte, PaperMUS.Size(paper))
	PaperMUS.Marshal(paper, buf)

	decoded, _, err := PaperMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, paper.ArxivID, decoded.ArxivID)
	assert.Nil(t, decoded.Vector)
	assert.Nil(t, decoded.Authors)
}

func TestPaperMUSTruncatedInput(t *testing.T) {
	paper := Paper{ArxivID: "2101.00003", Title: "Graph Neural Networks"}
	buf := make([]byte, PaperMUS.Size(paper))
	PaperMUS.Marshal(paper, buf)

	_, _, err := PaperMUS.Unmarshal(buf[:3])
	assert.Error(t, err)
}

func TestIDMUSRoundTrip(t *testing.T) {
	id := IDFromContent("2101.00001v1")
	buf := make([]byte, IDMUS.Size(id))
	IDMUS.Marshal(id, buf)

	decoded, _, err := IDMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, id, decoded)
}
