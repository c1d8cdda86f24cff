package synthesis

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/poiesic/colloquy/ai"
	"github.com/poiesic/colloquy/core"
	"github.com/poiesic/colloquy/prompt"
)

// Defaults for a Synthesizer.
const (
	DefaultRefineBatchSize = 2
	DefaultSeparator       = "\n\n"
)

// Completion is the raw output of one Synthesize call.
type Completion struct {
	// Text is the unparsed reply of the final completer call.
	Text string
	// Passages are the passages the reply was produced from, in rank order.
	Passages []*core.ScoredPassage
	// Calls is the number of completer calls made.
	Calls int
}

// Synthesizer renders prompts and invokes the completion service.
// It holds no per-call state and is safe for concurrent use.
type Synthesizer struct {
	completer       ai.Completer
	template        *prompt.Template
	mode            Mode
	batchSize       int
	maxOutputTokens int
	timeout         time.Duration
	separator       string
	logger          *slog.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer) error

// WithMode selects compact or refine synthesis. Default is ModeCompact.
func WithMode(mode Mode) Option {
	return func(s *Synthesizer) error {
		if mode != ModeCompact && mode != ModeRefine {
			return fmt.Errorf("%w: %s", ErrUnknownMode, mode)
		}
		s.mode = mode
		return nil
	}
}

// WithRefineBatchSize sets how many passages each refine call sees.
// Default is DefaultRefineBatchSize.
func WithRefineBatchSize(n int) Option {
	return func(s *Synthesizer) error {
		if n <= 0 {
			return fmt.Errorf("refine batch size must be positive, got %d", n)
		}
		s.batchSize = n
		return nil
	}
}

// WithMaxOutputTokens bounds each completion. Default is ai.DefaultMaxOutputTokens.
func WithMaxOutputTokens(n int) Option {
	return func(s *Synthesizer) error {
		if n <= 0 {
			return fmt.Errorf("max output tokens must be positive, got %d", n)
		}
		s.maxOutputTokens = n
		return nil
	}
}

// WithTimeout bounds a whole Synthesize call, including every refine pass.
// Zero means no bound beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(s *Synthesizer) error {
		if d < 0 {
			return fmt.Errorf("synthesizer timeout must not be negative, got %s", d)
		}
		s.timeout = d
		return nil
	}
}

// WithSeparator sets the text placed between passages in the prompt.
// Default is DefaultSeparator.
func WithSeparator(sep string) Option {
	return func(s *Synthesizer) error {
		s.separator = sep
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synthesizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSynthesizer creates a synthesizer that renders tmpl and sends it to completer.
func NewSynthesizer(completer ai.Completer, tmpl *prompt.Template, opts ...Option) (*Synthesizer, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if tmpl == nil {
		return nil, ErrTemplateRequired
	}

	s := &Synthesizer{
		completer:       completer,
		template:        tmpl,
		mode:            ModeCompact,
		batchSize:       DefaultRefineBatchSize,
		maxOutputTokens: ai.DefaultMaxOutputTokens,
		separator:       DefaultSeparator,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "synthesizer", "mode", s.mode.String(), "template", tmpl.Name())

	return s, nil
}

// Mode returns the configured synthesis mode.
func (s *Synthesizer) Mode() Mode {
	return s.mode
}

// Synthesize asks the completion service to answer query from passages.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, passages []*core.ScoredPassage) (*Completion, error) {
	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	batches := s.batches(passages)
	s.logger.Debug("synthesizing answer", "passages", len(passages), "calls", len(batches))

	var existing string
	for i, batch := range batches {
		text, err := s.template.Format(query, strings.Join(core.PassageTexts(batch), s.separator), existing)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrCompletionService, err)
		}

		reply, err := s.completer.Complete(ctx, text, s.maxOutputTokens)
		if err != nil {
			err = core.Classify(ctx, core.ErrCompletionService, err)
			s.logger.Error("completion failed", "call", i+1, "elapsed", time.Since(start), "err", err)
			return nil, err
		}
		existing = reply
	}

	s.logger.Debug("synthesis complete", "length", len(existing), "elapsed", time.Since(start))
	return &Completion{
		Text:     existing,
		Passages: passages,
		Calls:    len(batches),
	}, nil
}

// batches groups passages into per-call slices. There is always at least
// one batch so an empty retrieval still reaches the completer.
func (s *Synthesizer) batches(passages []*core.ScoredPassage) [][]*core.ScoredPassage {
	if len(passages) == 0 {
		return [][]*core.ScoredPassage{nil}
	}
	if s.mode == ModeCompact {
		return [][]*core.ScoredPassage{passages}
	}
	return slices.Collect(slices.Chunk(passages, s.batchSize))
}
