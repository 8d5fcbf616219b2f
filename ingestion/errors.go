package ingestion

import "errors"

var (
	// ErrPaperRepositoryRequired is returned when a paper repository is not provided.
	ErrPaperRepositoryRequired = errors.New("paper repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")
)
