package pipeline

import "errors"

var (
	// ErrRetrieverRequired is returned when a retriever is not provided.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrSynthesizerRequired is returned when a synthesizer is not provided.
	ErrSynthesizerRequired = errors.New("synthesizer required")
)
