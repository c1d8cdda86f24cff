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

// DefaultTopK is the number of passages retrieved when the caller does not say.
const DefaultTopK = 8

// ValidateQuery checks that a query has content after trimming whitespace.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: query is empty", ErrInvalidQuery)
	}
	return nil
}

// ValidateTopK checks a requested result count.
// Zero is accepted and means "use the default".
func ValidateTopK(topK int) error {
	if topK < 0 {
		return fmt.Errorf("%w: topK must be positive, got %d", ErrInvalidQuery, topK)
	}
	return nil
}

// ValidatePassage validates a Passage according to domain rules.
//
// Validation rules:
//   - Passage must not be nil
//   - Text must not be empty
//
// NOT validated (populated by the loader):
//   - Vector (a passage without one is skipped by similarity search)
//   - ID (assigned from content on insert)
func ValidatePassage(p *Passage) error {
	if p == nil {
		return fmt.Errorf("%w: passage is nil", ErrInvalidPassage)
	}
	if strings.TrimSpace(p.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPassage, ErrEmptyContent)
	}
	return nil
}
