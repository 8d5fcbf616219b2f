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

import (
	"fmt"
	"strings"
)

// ValidateQuery validates a Query according to domain rules.
//
// Validation rules:
//   - Text must not be blank
//   - TopK must be positive
//   - SemanticWeight must lie in [0,1]
//
// NOT validated:
//   - Category and Dates (empty means no filter)
//   - Expand (any value is valid)
func ValidateQuery(query *Query) error {
	if query == nil {
		return fmt.Errorf("%w: query is nil", ErrInvalidQuery)
	}

	if strings.TrimSpace(query.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, ErrEmptyQueryText)
	}

	if query.TopK <= 0 {
		return fmt.Errorf("%w: %w (got %d)", ErrInvalidQuery, ErrInvalidTopK, query.TopK)
	}

	if query.SemanticWeight < 0 || query.SemanticWeight > 1 {
		return fmt.Errorf("%w: %w (got %g)", ErrInvalidQuery, ErrInvalidWeight, query.SemanticWeight)
	}

	return nil
}

// ValidatePaper validates a Paper according to domain rules.
//
// Validation rules:
//   - ArxivID must not be empty
//   - Title must not be empty
//
// NOT validated (populated by processors):
//   - Vector (can be empty until the embedding processor runs)
//   - Id (derived from ArxivID on ingestion)
func ValidatePaper(paper *Paper) error {
	if paper == nil {
		return fmt.Errorf("%w: paper is nil", ErrInvalidPaper)
	}

	if paper.ArxivID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPaper, ErrEmptyArxivID)
	}

	if paper.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPaper, ErrEmptyTitle)
	}

	return nil
}
