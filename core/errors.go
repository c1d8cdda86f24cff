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
	"context"
	"errors"
	"fmt"
)

// Query failure kinds. These are the only errors callers of the query
// pipeline observe; underlying causes are wrapped beneath them.
var (
	// ErrInvalidQuery indicates an empty query or an out-of-range result count.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrIndexUnavailable indicates the vector index could not be reached,
	// was not initialized, or failed during lookup.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrCompletionService indicates the completion backend failed.
	ErrCompletionService = errors.New("completion service error")

	// ErrTimeout marks an index or completion failure caused by an expired deadline.
	ErrTimeout = errors.New("timed out")
)

// Domain validation errors
var (
	// ErrInvalidPassage indicates a Passage failed validation.
	ErrInvalidPassage = errors.New("invalid passage")

	// ErrEmptyContent indicates the Text field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")
)

// Classify wraps err beneath kind. When the failure came from an expired
// deadline, either reported by err or by ctx, ErrTimeout is joined as well.
func Classify(ctx context.Context, kind, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w: %w", kind, ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", kind, err)
}
