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


package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/scholarit"
	"github.com/poiesic/scholarit/ai"
	"github.com/poiesic/scholarit/ai/openai"
	"github.com/poiesic/scholarit/core"
	"github.com/poiesic/scholarit/ingestion"
	"github.com/poiesic/scholarit/reembed"
	"github.com/poiesic/scholarit/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "scholarit",
		Usage: "Hybrid lexical and semantic search over arXiv paper metadata",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Fetch paper metadata from arXiv and add it to the corpus",
				ArgsUsage: "<query>",
				Action:    ingestCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Restrict the arXiv query to one category, e.g. cs.LG",
					},
					&cli.IntFlag{
						Name:  "max-results",
						Usage: "Number of papers to fetch per page",
						Value: 25,
					},
					&cli.IntFlag{
						Name:  "pages",
						Usage: "Number of result pages to fetch",
						Value: 1,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search the corpus with fused lexical and semantic ranking",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.IntFlag{
						Name:    "topk",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
					&cli.Float64Flag{
						Name:    "weight",
						Aliases: []string{"w"},
						Usage:   "Semantic channel weight, 0 = lexical only, 1 = semantic only",
						Value:   0.5,
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Keep only papers in this category",
					},
					&cli.TimestampFlag{
						Name:   "from",
						Usage:  "Keep only papers published on or after this date (YYYY-MM-DD)",
						Layout: "2006-01-02",
					},
					&cli.TimestampFlag{
						Name:   "to",
						Usage:  "Keep only papers published on or before this date (YYYY-MM-DD)",
						Layout: "2006-01-02",
					},
					&cli.BoolFlag{
						Name:  "expand",
						Usage: "Expand the query with a generative model before scoring",
					},
					&cli.BoolFlag{
						Name:  "summarize",
						Usage: "Generate a short synthesis of the top results",
					},
				),
			},
			{
				Name:   "stats",
				Usage:  "Show corpus statistics",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all papers with new embeddings",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of papers to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N papers",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// aiFlags returns the provider flags shared by commands that talk to the
// embedding or generation services.
func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
		&cli.StringFlag{
			Name:  "generator-host",
			Usage: "Text generation service host URL",
		},
		&cli.StringFlag{
			Name:  "generator-model",
			Usage: "Text generation model name",
		},
	}
}

func openDatabase(c *cli.Context) (*scholarit.Database, error) {
	config, err := loadConfigIfSet(c)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(c, config)
	if err != nil {
		return nil, err
	}

	aiConfig := resolveAIConfig(c, config)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	return scholarit.NewDatabase(dbPath, scholarit.WithAIConfig(aiConfig))
}

func ingestCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("ingest query is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	client := ingestion.NewArxivClient()
	ctx := context.Background()

	maxResults := c.Int("max-results")
	total := 0
	for page := 0; page < c.Int("pages"); page++ {
		papers, err := client.Search(ctx, ingestion.ArxivRequest{
			Query:      query,
			Category:   c.String("category"),
			Start:      page * maxResults,
			MaxResults: maxResults,
		})
		if err != nil {
			return fmt.Errorf("fetching from arxiv: %w", err)
		}
		if len(papers) == 0 {
			break
		}

		count, err := pipeline.Ingest(ctx, papers...)
		if err != nil {
			return fmt.Errorf("storing papers: %w", err)
		}
		total += count
	}

	pipeline.Wait()
	fmt.Printf("Ingested %d papers\n", total)
	return nil
}

func searchCommand(c *cli.Context) error {
	queryText := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if queryText == "" {
		return fmt.Errorf("search query is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := db.NewSearchEngine()
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := engine.Refresh(ctx); err != nil {
		return err
	}

	query := &core.Query{
		Text:           queryText,
		TopK:           c.Int("topk"),
		SemanticWeight: c.Float64("weight"),
		Category:       c.String("category"),
		Expand:         c.Bool("expand"),
	}
	if from, to := c.Timestamp("from"), c.Timestamp("to"); from != nil || to != nil {
		dates := &core.DateRange{}
		if from != nil {
			dates.From = *from
		}
		if to != nil {
			dates.To = *to
		}
		query.Dates = dates
	}

	results, err := engine.Search(ctx, query)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d results\n", len(results))
	for _, hit := range results {
		printResult(os.Stdout, hit)
	}

	if c.Bool("summarize") && len(results) > 0 {
		fmt.Printf("\nSummary:\n%s\n", engine.Summarize(ctx, results, queryText))
	}

	return nil
}

// printResult writes one search hit as two lines: the ranked headline and
// the per-channel score breakdown.
func printResult(w io.Writer, hit *core.SearchResult) {
	fmt.Fprintf(w, "%2d. [%.3f] %s: %s (%s)\n",
		hit.Rank, hit.Score, hit.ArxivID, hit.Paper.Title,
		hit.Paper.Published.Format("2006-01-02"))
	fmt.Fprintf(w, "    lexical %.3f, semantic %.3f, %s\n",
		hit.LexicalScore, hit.SemanticScore, strings.Join(hit.Paper.Categories, ", "))
}

func statsCommand(c *cli.Context) error {
	config, err := loadConfigIfSet(c)
	if err != nil {
		return err
	}

	dbPath, err := resolveDBPath(c, config)
	if err != nil {
		return err
	}

	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewPaperRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	ctx := context.Background()
	papers, err := repo.GetAllPapers(ctx)
	if err != nil {
		return err
	}

	embedded := 0
	categories := make(map[string]int)
	var oldest, newest time.Time
	for _, paper := range papers {
		if len(paper.Vector) > 0 {
			embedded++
		}
		for _, category := range paper.Categories {
			categories[category]++
		}
		if oldest.IsZero() || paper.Published.Before(oldest) {
			oldest = paper.Published
		}
		if paper.Published.After(newest) {
			newest = paper.Published
		}
	}

	fmt.Printf("Papers:     %d\n", len(papers))
	fmt.Printf("Embedded:   %d\n", embedded)
	fmt.Printf("Categories: %d\n", len(categories))
	if len(papers) > 0 {
		fmt.Printf("Published:  %s to %s\n",
			oldest.Format("2006-01-02"), newest.Format("2006-01-02"))
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	dbPath := c.String("db")
	if dbPath == "" {
		return fmt.Errorf("database path is required")
	}

	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewPaperRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)

	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := reembed.NewReembedder(repo, embedder, reembedConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
