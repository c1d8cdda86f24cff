package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/poiesic/colloquy/ai"
	"github.com/poiesic/colloquy/core"
	"github.com/poiesic/colloquy/ingestion"
	"github.com/poiesic/colloquy/prompt"
	"github.com/poiesic/colloquy/retrieval"
	"github.com/poiesic/colloquy/synthesis"
)

// Defaults for the [index] table.
const (
	DefaultPath       = "colloquy.db"
	DefaultCollection = "transcripts"
)

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// File is the parsed settings file.
type File struct {
	Index     Index             `toml:"index"`
	AI        AI                `toml:"ai"`
	Retrieval Retrieval         `toml:"retrieval"`
	Synthesis Synthesis         `toml:"synthesis"`
	Ingestion Ingestion         `toml:"ingestion"`
	Prompts   map[string]string `toml:"prompts"`
}

// Index locates the passage database.
type Index struct {
	Path       string `toml:"path"`
	Collection string `toml:"collection"`
}

// AI mirrors ai.Config.
type AI struct {
	EmbeddingHost     string `toml:"embedding_host"`
	EmbeddingModel    string `toml:"embedding_model"`
	EmbeddingToken    string `toml:"embedding_token"`
	CompletionBackend string `toml:"completion_backend"`
	CompletionHost    string `toml:"completion_host"`
	CompletionModel   string `toml:"completion_model"`
	CompletionToken   string `toml:"completion_token"`
	MaxOutputTokens   int    `toml:"max_output_tokens"`
}

// Retrieval configures the retriever.
type Retrieval struct {
	TopK    int      `toml:"top_k"`
	Timeout Duration `toml:"timeout"`
}

// Synthesis configures the synthesizer.
type Synthesis struct {
	Mode            string   `toml:"mode"`
	RefineBatchSize int      `toml:"refine_batch_size"`
	Template        string   `toml:"template"`
	Timeout         Duration `toml:"timeout"`
}

// Ingestion configures the transcript loader.
type Ingestion struct {
	ChunkSize    int      `toml:"chunk_size"`
	ChunkOverlap int      `toml:"chunk_overlap"`
	BatchSize    int      `toml:"batch_size"`
	PoolSize     int      `toml:"pool_size"`
	MaxAttempts  int      `toml:"max_attempts"`
	RetryDelay   Duration `toml:"retry_delay"`
}

// Default returns the settings used when no file is given.
func Default() *File {
	aiDefaults := ai.DefaultConfig()
	return &File{
		Index: Index{
			Path:       DefaultPath,
			Collection: DefaultCollection,
		},
		AI: AI{
			EmbeddingHost:     aiDefaults.EmbeddingHost,
			EmbeddingModel:    aiDefaults.EmbeddingModel,
			CompletionBackend: aiDefaults.CompletionBackend,
			CompletionHost:    aiDefaults.CompletionHost,
			CompletionModel:   aiDefaults.CompletionModel,
			MaxOutputTokens:   aiDefaults.MaxOutputTokens,
		},
		Retrieval: Retrieval{
			TopK: core.DefaultTopK,
		},
		Synthesis: Synthesis{
			Mode:            synthesis.ModeCompact.String(),
			RefineBatchSize: synthesis.DefaultRefineBatchSize,
			Template:        prompt.DefaultTemplateName,
		},
		Ingestion: Ingestion{
			ChunkSize:    ingestion.DefaultChunkSize,
			ChunkOverlap: ingestion.DefaultChunkOverlap,
			BatchSize:    ingestion.DefaultBatchSize,
			MaxAttempts:  ingestion.DefaultRetryPolicy.MaxAttempts,
			RetryDelay:   Duration{ingestion.DefaultRetryPolicy.Delay},
		},
		Prompts: map[string]string{},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*File, error) {
	f := Default()
	md, err := toml.DecodeFile(path, f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Validate checks every table. All problems are reported together.
func (f *File) Validate() error {
	var errs []error

	if f.Index.Path == "" {
		errs = append(errs, errors.New("index.path is required"))
	}
	if f.Index.Collection == "" {
		errs = append(errs, errors.New("index.collection is required"))
	}
	// Tokens usually arrive from the environment, so only the shape of
	// [ai] is checked here; ai.Config.Validate runs when the provider is built
	aiConfig := f.AIConfig()
	if err := aiConfig.ValidateEmbedding(); err != nil {
		errs = append(errs, err)
	}
	if aiConfig.CompletionBackend != ai.BackendOpenAI && aiConfig.CompletionBackend != ai.BackendAnthropic {
		errs = append(errs, fmt.Errorf("ai.completion_backend must be %q or %q, got %q",
			ai.BackendOpenAI, ai.BackendAnthropic, f.AI.CompletionBackend))
	}
	if aiConfig.CompletionModel == "" {
		errs = append(errs, errors.New("ai.completion_model is required"))
	}
	if f.Retrieval.TopK < 0 {
		errs = append(errs, fmt.Errorf("retrieval.top_k must not be negative, got %d", f.Retrieval.TopK))
	}
	if _, err := synthesis.ParseMode(f.Synthesis.Mode); err != nil {
		errs = append(errs, err)
	}
	if f.Synthesis.RefineBatchSize <= 0 {
		errs = append(errs, fmt.Errorf("synthesis.refine_batch_size must be positive, got %d", f.Synthesis.RefineBatchSize))
	}
	if f.Retrieval.Timeout.Duration < 0 || f.Synthesis.Timeout.Duration < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}

	store, err := f.PromptStore()
	if err != nil {
		errs = append(errs, err)
	} else if _, err := store.Get(f.templateName()); err != nil {
		errs = append(errs, err)
	}

	if _, err := ingestion.NewChunker(f.Ingestion.ChunkSize, f.Ingestion.ChunkOverlap); err != nil {
		errs = append(errs, err)
	}
	if f.Ingestion.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("ingestion.batch_size must be positive, got %d", f.Ingestion.BatchSize))
	}
	if f.Ingestion.MaxAttempts <= 0 {
		errs = append(errs, ingestion.ErrInvalidMaxAttempts)
	}

	return errors.Join(errs...)
}

// AIConfig converts the [ai] table to a normalized ai.Config.
func (f *File) AIConfig() *ai.Config {
	cfg := ai.NewConfig(
		ai.WithEmbeddingHost(f.AI.EmbeddingHost),
		ai.WithEmbeddingModel(f.AI.EmbeddingModel),
		ai.WithEmbeddingToken(f.AI.EmbeddingToken),
		ai.WithCompletionBackend(f.AI.CompletionBackend),
		ai.WithCompletionHost(f.AI.CompletionHost),
		ai.WithCompletionModel(f.AI.CompletionModel),
		ai.WithCompletionToken(f.AI.CompletionToken),
		ai.WithMaxOutputTokens(f.AI.MaxOutputTokens),
	)
	cfg.Normalize()
	return cfg
}

// PromptStore returns the built-in templates plus those in [prompts].
// An entry named after a built-in template replaces it.
func (f *File) PromptStore() (*prompt.Store, error) {
	store := prompt.NewStore()
	names := make([]string, 0, len(f.Prompts))
	for name := range f.Prompts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := store.Register(name, f.Prompts[name]); err != nil {
			return nil, fmt.Errorf("prompts.%s: %w", name, err)
		}
	}
	return store, nil
}

// TemplateName returns the template the synthesizer should use.
func (f *File) TemplateName() string {
	return f.templateName()
}

func (f *File) templateName() string {
	if f.Synthesis.Template == "" {
		return prompt.DefaultTemplateName
	}
	return f.Synthesis.Template
}

// RetrieverOptions converts the [retrieval] table to retriever options.
func (f *File) RetrieverOptions() []retrieval.Option {
	opts := []retrieval.Option{retrieval.WithTimeout(f.Retrieval.Timeout.Duration)}
	if f.Retrieval.TopK > 0 {
		opts = append(opts, retrieval.WithDefaultTopK(f.Retrieval.TopK))
	}
	return opts
}

// SynthesizerOptions converts the [synthesis] and [ai] tables to synthesizer options.
func (f *File) SynthesizerOptions() ([]synthesis.Option, error) {
	mode, err := synthesis.ParseMode(f.Synthesis.Mode)
	if err != nil {
		return nil, err
	}
	opts := []synthesis.Option{
		synthesis.WithMode(mode),
		synthesis.WithRefineBatchSize(f.Synthesis.RefineBatchSize),
		synthesis.WithTimeout(f.Synthesis.Timeout.Duration),
	}
	if f.AI.MaxOutputTokens > 0 {
		opts = append(opts, synthesis.WithMaxOutputTokens(f.AI.MaxOutputTokens))
	}
	return opts, nil
}

// LoaderOptions converts the [ingestion] table to loader options.
func (f *File) LoaderOptions() ([]ingestion.Option, error) {
	chunker, err := ingestion.NewChunker(f.Ingestion.ChunkSize, f.Ingestion.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	opts := []ingestion.Option{
		ingestion.WithChunker(chunker),
		ingestion.WithBatchSize(f.Ingestion.BatchSize),
		ingestion.WithRetryPolicy(ingestion.RetryPolicy{
			MaxAttempts: f.Ingestion.MaxAttempts,
			Delay:       f.Ingestion.RetryDelay.Duration,
			Exponential: true,
		}),
	}
	if f.Ingestion.PoolSize > 0 {
		opts = append(opts, ingestion.WithPoolSize(f.Ingestion.PoolSize))
	}
	return opts, nil
}
