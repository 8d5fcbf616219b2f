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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidQuery indicates a Query failed validation.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidPaper indicates a Paper failed validation.
	ErrInvalidPaper = errors.New("invalid paper")

	// ErrEmptyQueryText indicates the query Text field is blank.
	ErrEmptyQueryText = errors.New("query text cannot be empty")

	// ErrInvalidTopK indicates a non-positive TopK value.
	ErrInvalidTopK = errors.New("topK must be positive")

	// ErrInvalidWeight indicates a SemanticWeight outside [0,1].
	ErrInvalidWeight = errors.New("semantic weight must be in [0,1]")

	// ErrEmptyArxivID indicates the ArxivID field is empty.
	ErrEmptyArxivID = errors.New("arxiv id cannot be empty")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")
)
