package synthesis

import "errors"

var (
	// ErrCompleterRequired is returned when a completer is not provided.
	ErrCompleterRequired = errors.New("completer required")

	// ErrTemplateRequired is returned when a prompt template is not provided.
	ErrTemplateRequired = errors.New("prompt template required")

	// ErrUnknownMode is returned when a synthesis mode name is not recognized.
	ErrUnknownMode = errors.New("unknown synthesis mode")
)
