// Package ingestion provides pipeline orchestration for adding papers to the corpus.
//
// The Pipeline type manages the ingestion workflow for paper records, including:
//   - Fetching paper metadata from the arXiv Atom API
//   - Adding records to storage
//   - Generating embeddings asynchronously
//
// Embedding is performed concurrently using a worker pool to maximize throughput.
// Errors during async processing are logged but do not fail the ingestion operation.
package ingestion
