package prompt

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Store holds named templates. It always contains DefaultTemplateName.
// Store is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewStore returns a store holding the built-in template.
func NewStore() *Store {
	def, err := New(DefaultTemplateName, DefaultTemplateText)
	if err != nil {
		panic(fmt.Sprintf("built-in prompt template is invalid: %v", err))
	}
	return &Store{
		templates: map[string]*Template{DefaultTemplateName: def},
	}
}

// Register validates text and stores it under name, replacing any template
// already registered under that name, including the built-in one.
func (s *Store) Register(name, text string) error {
	if name == "" {
		return fmt.Errorf("%w: template name is empty", ErrInvalidTemplate)
	}
	t, err := New(name, text)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[name] = t
	return nil
}

// Get returns the template registered under name.
func (s *Store) Get(name string) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return t, nil
}

// Names returns the registered template names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.templates))
}

// Default returns the template registered under DefaultTemplateName.
func (s *Store) Default() *Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.templates[DefaultTemplateName]
}
