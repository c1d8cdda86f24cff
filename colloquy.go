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


// Package colloquy answers questions about a library of transcripts.
//
// An Assistant opens a passage index, connects to the embedding and
// completion services, and builds a query pipeline once. The same
// Assistant then serves any number of questions, concurrently if needed:
//
//	assistant, err := colloquy.NewAssistant("colloquy.db",
//	    colloquy.WithCollection("founders"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer assistant.Close()
//
//	answer, err := assistant.Answer(ctx, "What advice would you give a startup founder?")
//
// Transcripts are loaded with a Loader from the same Assistant.
package colloquy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/colloquy/ai"
	"github.com/poiesic/colloquy/ai/anthropic"
	"github.com/poiesic/colloquy/ai/openai"
	"github.com/poiesic/colloquy/core"
	"github.com/poiesic/colloquy/ingestion"
	"github.com/poiesic/colloquy/pipeline"
	"github.com/poiesic/colloquy/prompt"
	"github.com/poiesic/colloquy/response"
	"github.com/poiesic/colloquy/retrieval"
	"github.com/poiesic/colloquy/storage"
	"github.com/poiesic/colloquy/storage/badger"
	"github.com/poiesic/colloquy/synthesis"
)

// DefaultCollection is the collection used when none is configured.
const DefaultCollection = "transcripts"

// ErrTemplateMarkers is returned when the selected prompt template does not
// ask for the tags the response parser extracts.
var ErrTemplateMarkers = errors.New("prompt template does not contain the parser's tags")

// Assistant owns the index, AI services and query pipeline.
type Assistant struct {
	backend      *badger.Backend
	passages     storage.PassageRepository
	provider     ai.AIProvider
	ownsProvider bool
	pipeline     *pipeline.Pipeline
	logger       *slog.Logger
}

// Option configures an Assistant.
type Option func(*options)

type options struct {
	aiConfig           *ai.Config
	provider           ai.AIProvider
	inMemory           bool
	collection         string
	prompts            *prompt.Store
	templateName       string
	parser             *response.Parser
	retrieverOptions   []retrieval.Option
	synthesizerOptions []synthesis.Option
	pipelineOptions    []pipeline.Option
}

// WithAIConfig sets the embedding and completion service configuration.
// Its MaxOutputTokens bounds every synthesizer call.
// Default is ai.DefaultConfig().
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *options) {
		o.aiConfig = cfg
	}
}

// WithProvider supplies a ready AI provider, bypassing WithAIConfig.
// The caller keeps ownership; Close does not close it.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithInMemory keeps the index in memory. The path is ignored.
func WithInMemory() Option {
	return func(o *options) {
		o.inMemory = true
	}
}

// WithCollection selects the passage collection. Default is DefaultCollection.
func WithCollection(name string) Option {
	return func(o *options) {
		o.collection = name
	}
}

// WithPromptStore sets the templates to choose from. Default is prompt.NewStore().
func WithPromptStore(store *prompt.Store) Option {
	return func(o *options) {
		o.prompts = store
	}
}

// WithTemplateName selects the prompt template. Default is prompt.DefaultTemplateName.
func WithTemplateName(name string) Option {
	return func(o *options) {
		o.templateName = name
	}
}

// WithParser sets the response parser. The selected template must contain
// the parser's tags.
func WithParser(parser *response.Parser) Option {
	return func(o *options) {
		o.parser = parser
	}
}

// WithRetrieverOptions passes options to the retriever.
func WithRetrieverOptions(opts ...retrieval.Option) Option {
	return func(o *options) {
		o.retrieverOptions = append(o.retrieverOptions, opts...)
	}
}

// WithSynthesizerOptions passes options to the synthesizer.
func WithSynthesizerOptions(opts ...synthesis.Option) Option {
	return func(o *options) {
		o.synthesizerOptions = append(o.synthesizerOptions, opts...)
	}
}

// WithPipelineOptions passes options to the pipeline.
func WithPipelineOptions(opts ...pipeline.Option) Option {
	return func(o *options) {
		o.pipelineOptions = append(o.pipelineOptions, opts...)
	}
}

// NewAssistant opens the index at dbPath and builds the query pipeline.
func NewAssistant(dbPath string, opts ...Option) (*Assistant, error) {
	// Apply options
	o := &options{
		aiConfig:     ai.DefaultConfig(), // Default if not provided
		collection:   DefaultCollection,
		templateName: prompt.DefaultTemplateName,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.prompts == nil {
		o.prompts = prompt.NewStore()
	}
	if o.parser == nil {
		o.parser = response.NewParser()
	}

	tmpl, err := o.prompts.Get(o.templateName)
	if err != nil {
		return nil, err
	}
	reasoning, answer := o.parser.Tags()
	if !tmpl.HasMarkers(reasoning, answer) {
		return nil, fmt.Errorf("%w: %s needs <%s> and <%s>", ErrTemplateMarkers, tmpl.Name(), reasoning, answer)
	}

	// Open backend
	backend, err := badger.OpenBackend(dbPath, o.inMemory)
	if err != nil {
		return nil, err
	}

	passages, err := badger.NewPassageRepository(backend, o.collection)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create AI provider with configured settings
	provider, ownsProvider := o.provider, false
	if provider == nil {
		provider, err = NewProvider(o.aiConfig)
		if err != nil {
			passages.Close()
			backend.Close()
			return nil, err
		}
		ownsProvider = true

		// The configured bound applies unless a synthesizer option overrides it
		o.synthesizerOptions = append([]synthesis.Option{
			synthesis.WithMaxOutputTokens(o.aiConfig.MaxOutputTokens),
		}, o.synthesizerOptions...)
	}

	a := &Assistant{
		backend:      backend,
		passages:     passages,
		provider:     provider,
		ownsProvider: ownsProvider,
		logger:       slog.Default().With("component", "assistant", "collection", o.collection),
	}

	if a.pipeline, err = a.buildPipeline(tmpl, o); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *Assistant) buildPipeline(tmpl *prompt.Template, o *options) (*pipeline.Pipeline, error) {
	index, err := retrieval.NewEmbeddingIndex(a.passages, a.provider.Embedder())
	if err != nil {
		return nil, err
	}
	retriever, err := retrieval.NewRetriever(index, o.retrieverOptions...)
	if err != nil {
		return nil, err
	}
	synthesizer, err := synthesis.NewSynthesizer(a.provider.Completer(), tmpl, o.synthesizerOptions...)
	if err != nil {
		return nil, err
	}

	pipelineOpts := append([]pipeline.Option{
		pipeline.WithParser(o.parser),
		pipeline.WithDefaultTopK(retriever.DefaultTopK()),
	}, o.pipelineOptions...)
	return pipeline.NewPipeline(retriever, synthesizer, pipelineOpts...)
}

// NewProvider builds the AI provider described by cfg. Embeddings always
// use an OpenAI-compatible service; completions use cfg.CompletionBackend.
func NewProvider(cfg *ai.Config) (ai.AIProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.CompletionBackend == ai.BackendAnthropic {
		completer, err := anthropic.NewCompleter(cfg)
		if err != nil {
			return nil, err
		}
		return openai.NewProvider(cfg, openai.WithCompleter(completer))
	}
	return openai.NewProvider(cfg)
}

// Answer answers query from the default number of passages.
func (a *Assistant) Answer(ctx context.Context, query string) (*core.StructuredAnswer, error) {
	return a.pipeline.Answer(ctx, query)
}

// AnswerTopK answers query from at most topK passages.
func (a *Assistant) AnswerTopK(ctx context.Context, query string, topK int) (*core.StructuredAnswer, error) {
	return a.pipeline.AnswerTopK(ctx, query, topK)
}

// Pipeline returns the query pipeline.
func (a *Assistant) Pipeline() *pipeline.Pipeline {
	return a.pipeline
}

// Passages returns the passage repository for the configured collection.
func (a *Assistant) Passages() storage.PassageRepository {
	return a.passages
}

// NewLoader creates a transcript loader for the configured collection.
// The caller must Release it.
func (a *Assistant) NewLoader(opts ...ingestion.Option) (*ingestion.Loader, error) {
	return ingestion.NewLoader(a.passages, a.provider.Embedder(), opts...)
}

// Stats summarizes the configured collection.
func (a *Assistant) Stats(ctx context.Context) (*ingestion.CorpusStats, error) {
	return ingestion.CollectStats(ctx, a.passages)
}

// Drop deletes every passage in the configured collection.
func (a *Assistant) Drop(ctx context.Context) error {
	return a.passages.Drop(ctx)
}

// Close releases the AI provider, if owned, and the index.
func (a *Assistant) Close() error {
	// Close AI provider first
	if a.ownsProvider {
		if err := a.provider.Close(); err != nil {
			a.logger.Error("error closing AI provider", "err", err)
		}
	}

	if err := a.passages.Close(); err != nil {
		a.logger.Error("error closing passage repository", "err", err)
		return err
	}

	// Close backend
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
