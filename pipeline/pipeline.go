package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/colloquy/core"
	"github.com/poiesic/colloquy/response"
	"github.com/poiesic/colloquy/synthesis"
)

// Retriever selects passages for a query. Implemented by retrieval.Retriever.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]*core.ScoredPassage, error)
}

// Synthesizer produces a raw completion from a query and its passages.
// Implemented by synthesis.Synthesizer.
type Synthesizer interface {
	Synthesize(ctx context.Context, query string, passages []*core.ScoredPassage) (*synthesis.Completion, error)
}

// Pipeline answers questions over a transcript index.
// It holds no per-call state and is safe for concurrent use when its
// collaborators are.
type Pipeline struct {
	retriever   Retriever
	synthesizer Synthesizer
	parser      *response.Parser
	defaultTopK int
	monitor     Monitor
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithParser sets the response parser. Default uses the standard tags.
func WithParser(parser *response.Parser) Option {
	return func(p *Pipeline) error {
		if parser == nil {
			parser = response.NewParser()
		}
		p.parser = parser
		return nil
	}
}

// WithDefaultTopK sets the passage count used by Answer and by calls
// passing zero. Default is core.DefaultTopK.
func WithDefaultTopK(n int) Option {
	return func(p *Pipeline) error {
		if n <= 0 {
			return fmt.Errorf("default topK must be positive, got %d", n)
		}
		p.defaultTopK = n
		return nil
	}
}

// WithMonitor sets the monitor used when a call does not supply its own.
func WithMonitor(monitor Monitor) Option {
	return func(p *Pipeline) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		p.monitor = monitor
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a pipeline from a retriever and a synthesizer.
func NewPipeline(retriever Retriever, synthesizer Synthesizer, opts ...Option) (*Pipeline, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if synthesizer == nil {
		return nil, ErrSynthesizerRequired
	}

	p := &Pipeline{
		retriever:   retriever,
		synthesizer: synthesizer,
		parser:      response.NewParser(),
		defaultTopK: core.DefaultTopK,
		monitor:     &noopMonitor{},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.logger = p.logger.With("component", "pipeline")

	return p, nil
}

// Answer answers query from the default number of passages.
func (p *Pipeline) Answer(ctx context.Context, query string) (*core.StructuredAnswer, error) {
	return p.AnswerWithMonitor(ctx, query, 0, nil)
}

// AnswerTopK answers query from at most topK passages.
// Zero selects the default.
func (p *Pipeline) AnswerTopK(ctx context.Context, query string, topK int) (*core.StructuredAnswer, error) {
	return p.AnswerWithMonitor(ctx, query, topK, nil)
}

// AnswerWithMonitor answers query from at most topK passages, reporting
// each stage to monitor. A nil monitor uses the pipeline's monitor.
func (p *Pipeline) AnswerWithMonitor(ctx context.Context, query string, topK int, monitor Monitor) (*core.StructuredAnswer, error) {
	if monitor == nil {
		monitor = p.monitor
	}
	requestID := uuid.NewString()
	logger := p.logger.With("request_id", requestID)
	start := time.Now()

	if topK == 0 {
		topK = p.defaultTopK
	}
	monitor.Start(requestID, query, topK)

	fail := func(err error) (*core.StructuredAnswer, error) {
		monitor.Failed(requestID, err)
		logger.Warn("query failed", "elapsed", time.Since(start), "err", err)
		return nil, err
	}

	// Reject bad input before touching the index or the model
	if err := core.ValidateQuery(query); err != nil {
		return fail(err)
	}
	if err := core.ValidateTopK(topK); err != nil {
		return fail(err)
	}
	logger.Debug("answering query", "query", query, "top_k", topK)

	passages, err := p.retriever.Retrieve(ctx, query, topK)
	if err != nil {
		return fail(ensureKind(err, core.ErrIndexUnavailable))
	}
	monitor.AfterRetrieval(requestID, passages)

	completion, err := p.synthesizer.Synthesize(ctx, query, passages)
	if err != nil {
		return fail(ensureKind(err, core.ErrCompletionService))
	}
	monitor.AfterSynthesis(requestID, completion)

	answer := p.parser.Parse(completion.Text, passages)
	monitor.Finish(requestID, answer)

	logger.Info("query answered",
		"passages", len(passages),
		"calls", completion.Calls,
		"found", answer.Found(),
		"elapsed", time.Since(start))
	return answer, nil
}

// ensureKind leaves errors of a caller-visible kind untouched and wraps
// anything else beneath fallback.
func ensureKind(err, fallback error) error {
	for _, kind := range []error{core.ErrInvalidQuery, core.ErrIndexUnavailable, core.ErrCompletionService} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", fallback, err)
}
