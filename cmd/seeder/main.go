package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/poiesic/scholarit"
	"github.com/poiesic/scholarit/core"
	"github.com/poiesic/scholarit/ingestion"
)

// samplePapers is a small offline corpus for demos and local development,
// loosely modeled on real arXiv metadata.
var samplePapers = []*core.Paper{
	paper("2101.00010", "Neural Network Pruning at Initialization", "We study pruning deep neural networks before training, identifying sparse subnetworks whose connectivity alone predicts trainability.", "2021-01-04", "cs.LG", "stat.ML"),
	paper("2101.00231", "Graph Neural Networks for Molecular Property Prediction", "Message passing networks over molecular graphs achieve strong accuracy on quantum chemistry benchmarks with far less feature engineering.", "2021-01-06", "cs.LG", "physics.chem-ph"),
	paper("2102.04010", "Sparse Transformers with Adaptive Attention Spans", "We reduce the quadratic cost of self-attention by learning per-head attention spans, matching dense quality on language modeling.", "2021-02-08", "cs.CL", "cs.LG"),
	paper("2103.01120", "Contrastive Learning of Sentence Embeddings", "A simple contrastive objective over entailment pairs produces sentence embeddings that transfer across retrieval and similarity tasks.", "2021-03-01", "cs.CL"),
	paper("2104.08821", "Dense Passage Retrieval for Open-Domain Question Answering", "Dual-encoder retrieval trained on question-passage pairs outperforms BM25 on open-domain QA benchmarks.", "2021-04-18", "cs.CL", "cs.IR"),
	paper("2105.12163", "Hybrid Ranking with Lexical and Dense Signals", "Combining BM25 with learned dense retrieval through score interpolation consistently beats either channel alone across domains.", "2021-05-25", "cs.IR"),
	paper("2106.09685", "Low-Rank Adaptation of Large Language Models", "Freezing pretrained weights and injecting trainable low-rank matrices reduces fine-tuning memory without quality loss.", "2021-06-17", "cs.CL", "cs.LG"),
	paper("2107.03374", "Evaluating Large Language Models Trained on Code", "We measure functional correctness of code generated from docstrings and release a benchmark of hand-written programming problems.", "2021-07-07", "cs.LG", "cs.SE"),
	paper("2108.07258", "On the Opportunities and Risks of Foundation Models", "A broad survey of capabilities, applications, and societal impact of models trained at scale and adapted to downstream tasks.", "2021-08-16", "cs.LG", "cs.AI"),
	paper("2109.10282", "Lottery Tickets in Reinforcement Learning", "Winning tickets found by iterative magnitude pruning transfer across related control tasks, suggesting task-general sparse structure.", "2021-09-21", "cs.LG"),
	paper("2110.01234", "Efficient Nearest Neighbor Search for Dense Retrieval", "We benchmark graph-based and quantization-based indexes for approximate search over learned embeddings at web scale.", "2021-10-04", "cs.IR", "cs.DS"),
	paper("2111.05193", "Self-Supervised Vision Transformers for Medical Imaging", "Pretraining vision transformers on unlabeled scans improves downstream segmentation with a fraction of the labels.", "2021-11-09", "cs.CV", "eess.IV"),
	paper("2112.10752", "High-Resolution Image Synthesis with Latent Diffusion Models", "Running the diffusion process in a learned latent space cuts the cost of high-resolution synthesis by an order of magnitude.", "2021-12-20", "cs.CV", "cs.LG"),
	paper("2201.08239", "Language Models for Dialog Applications", "Dialog-specific fine-tuning and retrieval grounding improve safety and factuality of conversational language models.", "2022-01-20", "cs.CL", "cs.AI"),
	paper("2203.02155", "Training Language Models to Follow Instructions", "Human feedback fine-tuning aligns model outputs with user intent, outperforming much larger unaligned models in evaluations.", "2022-03-04", "cs.CL", "cs.LG"),
}

func paper(arxivID, title, abstract, published string, categories ...string) *core.Paper {
	date, err := time.Parse("2006-01-02", published)
	if err != nil {
		panic(err)
	}
	return &core.Paper{
		ArxivID:    arxivID,
		Title:      title,
		Abstract:   abstract,
		Categories: categories,
		Published:  date.UTC(),
		SourceURL:  "https://arxiv.org/abs/" + arxivID,
	}
}

var seedFileName = flag.String("src", "", "JSON-lines file of paper records to seed")

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// papersFromFile reads one JSON-encoded paper per line.
func papersFromFile(filename string) ([]*core.Paper, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var papers []*core.Paper
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var p core.Paper
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("parsing seed line: %w", err)
		}
		papers = append(papers, &p)
	}
	return papers, scanner.Err()
}

// ingestBatched adds papers to the pipeline in small batches.
func ingestBatched(ctx context.Context, pipeline *ingestion.Pipeline, papers []*core.Paper, batchSize int) error {
	for i := 0; i < len(papers); i += batchSize {
		end := i + batchSize
		if end > len(papers) {
			end = len(papers)
		}
		if _, err := pipeline.Ingest(ctx, papers[i:end]...); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	db, err := scholarit.NewDatabase("./papers_db")
	if err != nil {
		panic(err)
	}
	defer db.Close()

	ingester, err := db.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer ingester.Release()

	ctx := context.Background()

	papers := samplePapers
	if seedFileName != nil && *seedFileName != "" {
		papers, err = papersFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	}

	if err := ingestBatched(ctx, ingester, papers, 5); err != nil {
		panic(err)
	}
	ingester.Wait()

	fmt.Printf("Seeded %d papers\n", len(papers))
}
