// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package scholarit

import (
	"log/slog"

	"github.com/poiesic/scholarit/ai"
	"github.com/poiesic/scholarit/ai/openai"
	"github.com/poiesic/scholarit/ingestion"
	"github.com/poiesic/scholarit/search"
	"github.com/poiesic/scholarit/storage"
	"github.com/poiesic/scholarit/storage/badger"
)

// Database bundles the storage backend, the paper repository, and the AI
// provider behind one handle. It is the entry point embedding applications
// and the CLI use.
type Database struct {
	backend   *badger.Backend
	paperRepo storage.PaperRepository
	provider  ai.AIProvider
	logger    *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
}

// WithAIConfig sets the AI provider configuration used when no explicit
// provider is supplied.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithAIProvider supplies an AI provider directly, bypassing the default
// network-backed provider. Useful for tests and offline tooling.
func WithAIProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// NewDatabase opens (or creates) a paper database at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	paperRepo, err := badger.NewPaperRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			paperRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:   backend,
		paperRepo: paperRepo,
		provider:  provider,
		logger:    slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	// Close AI provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.paperRepo.Close(); err != nil {
		db.logger.Error("error closing paper repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) PaperRepository() storage.PaperRepository {
	return db.paperRepo
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.paperRepo, db.provider, opts...)
}

func (db *Database) NewSearchEngine(opts ...search.Option) (*search.Engine, error) {
	return search.NewEngine(db.paperRepo, db.provider, opts...)
}
