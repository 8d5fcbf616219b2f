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
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/scholarit"
	"github.com/poiesic/scholarit/core"
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

func main() {
	db, err := scholarit.NewDatabase("./papers_db")
	if err != nil {
		panic(err)
	}
	defer db.Close()
	engine, err := db.NewSearchEngine()
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	if err := engine.Refresh(ctx); err != nil {
		panic(err)
	}

	text := "sparse neural networks"
	if len(os.Args) > 1 {
		text = strings.Join(os.Args[1:], " ")
	}

	results, err := engine.Search(ctx, &core.Query{
		Text:           text,
		TopK:           5,
		SemanticWeight: 0.5,
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Found %d hits\n", len(results))
	for _, hit := range results {
		fmt.Printf("%d: '%s' (%s)[%0.3f]\n", hit.Rank, hit.Paper.Title, hit.ArxivID, hit.Score)
	}
}
