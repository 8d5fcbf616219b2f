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


// Package search provides hybrid lexical and semantic retrieval over paper records.
//
// The Engine type combines two independent relevance channels:
//   - Lexical ranking via a BM25 index built over a corpus snapshot
//   - Semantic ranking via vector embeddings and nearest-neighbor lookup
//
// Channel scores are min-max normalized and blended with a configurable
// fusion weight. Queries may optionally be expanded through a generative
// model before scoring; expansion and embedding failures degrade the
// affected channel instead of failing the search.
package search
