package prompt

import "errors"

var (
	// ErrTemplateNotFound is returned when a named template is not registered.
	ErrTemplateNotFound = errors.New("prompt template not found")

	// ErrEmptyTemplate is returned when template text is empty.
	ErrEmptyTemplate = errors.New("prompt template is empty")

	// ErrMissingVariable is returned when a template does not reference a required variable.
	ErrMissingVariable = errors.New("prompt template missing required variable")

	// ErrInvalidTemplate is returned when template text cannot be rendered.
	ErrInvalidTemplate = errors.New("invalid prompt template")
)
