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


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/poiesic/colloquy"
	"github.com/poiesic/colloquy/ai"
	"github.com/poiesic/colloquy/config"
	"github.com/poiesic/colloquy/core"
	"github.com/poiesic/colloquy/ingestion"
	"github.com/poiesic/colloquy/pipeline"
	"github.com/urfave/cli/v2"
)

func main() {
	// Variables from .env feed the flags' EnvVars
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "colloquy",
		Usage: "Answer questions about a library of transcripts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML settings file",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				Value:   config.DefaultPath,
			},
			&cli.StringFlag{
				Name:  "collection",
				Usage: "Passage collection to query",
				Value: config.DefaultCollection,
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL",
				Value: ai.DefaultHost,
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
			},
			&cli.StringFlag{
				Name:  "completion-backend",
				Usage: "Completion API (openai, anthropic)",
				Value: ai.BackendOpenAI,
			},
			&cli.StringFlag{
				Name:  "completion-host",
				Usage: "Completion service host URL",
			},
			&cli.StringFlag{
				Name:  "completion-model",
				Usage: "Completion model name",
			},
			&cli.StringFlag{
				Name:    "openai-api-key",
				Usage:   "Token for OpenAI-compatible services",
				EnvVars: []string{"OPENAI_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "anthropic-api-key",
				Usage:   "Token for the Anthropic API",
				EnvVars: []string{"ANTHROPIC_API_KEY"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "Answer a question from the indexed transcripts",
				ArgsUsage: "QUESTION",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of passages to retrieve (0 uses the configured default)",
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Synthesis mode (compact, refine)",
					},
					&cli.StringFlag{
						Name:  "template",
						Usage: "Prompt template name",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format (json, text)",
						Value: "json",
					},
					&cli.BoolFlag{
						Name:  "trace",
						Usage: "Log each pipeline stage to stderr, regardless of --log-level",
					},
				},
			},
			{
				Name:      "load",
				Usage:     "Chunk, embed and index transcripts from CSV files",
				ArgsUsage: "FILE.csv [FILE.csv ...]",
				Action:    loadCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent embedding workers",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of passages to embed per call",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Summarize the indexed collection",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "csv",
						Usage: "Also count words in these transcript CSV files",
					},
				},
			},
			{
				Name:   "drop",
				Usage:  "Delete every passage in the collection",
				Action: dropCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Confirm the deletion",
					},
				},
			},
			{
				Name:   "prompts",
				Usage:  "List prompt templates",
				Action: promptsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "show",
						Usage: "Print the text of the named template",
					},
				},
			},
		},
	}
}

// loadSettings reads the settings file, if any, and applies flag overrides.
func loadSettings(c *cli.Context) (*config.File, error) {
	settings := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		settings = loaded
	}

	override := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	override("db", &settings.Index.Path)
	override("collection", &settings.Index.Collection)
	override("embedding-host", &settings.AI.EmbeddingHost)
	override("embedding-model", &settings.AI.EmbeddingModel)
	override("completion-backend", &settings.AI.CompletionBackend)
	override("completion-host", &settings.AI.CompletionHost)
	override("completion-model", &settings.AI.CompletionModel)
	override("mode", &settings.Synthesis.Mode)
	override("template", &settings.Synthesis.Template)
	if c.IsSet("pool-size") {
		settings.Ingestion.PoolSize = c.Int("pool-size")
	}
	if c.IsSet("batch-size") {
		settings.Ingestion.BatchSize = c.Int("batch-size")
	}

	// Tokens in the settings file win over the environment
	backend := strings.ToLower(settings.AI.CompletionBackend)
	if key := c.String("openai-api-key"); key != "" {
		if settings.AI.EmbeddingToken == "" {
			settings.AI.EmbeddingToken = key
		}
		if backend == ai.BackendOpenAI && settings.AI.CompletionToken == "" {
			settings.AI.CompletionToken = key
		}
	}
	if key := c.String("anthropic-api-key"); key != "" && backend == ai.BackendAnthropic && settings.AI.CompletionToken == "" {
		settings.AI.CompletionToken = key
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

func openAssistant(settings *config.File) (*colloquy.Assistant, error) {
	store, err := settings.PromptStore()
	if err != nil {
		return nil, err
	}
	synthesizerOpts, err := settings.SynthesizerOptions()
	if err != nil {
		return nil, err
	}

	assistant, err := colloquy.NewAssistant(settings.Index.Path,
		colloquy.WithAIConfig(settings.AIConfig()),
		colloquy.WithCollection(settings.Index.Collection),
		colloquy.WithPromptStore(store),
		colloquy.WithTemplateName(settings.TemplateName()),
		colloquy.WithRetrieverOptions(settings.RetrieverOptions()...),
		colloquy.WithSynthesizerOptions(synthesizerOpts...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open assistant: %w", err)
	}
	return assistant, nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}
	format := strings.ToLower(c.String("format"))
	if format != "json" && format != "text" {
		return fmt.Errorf("invalid format %q: must be json or text", format)
	}

	settings, err := loadSettings(c)
	if err != nil {
		return err
	}
	assistant, err := openAssistant(settings)
	if err != nil {
		return err
	}
	defer assistant.Close()

	var answer *core.StructuredAnswer
	if c.Bool("trace") {
		answer, err = assistant.Pipeline().AnswerWithMonitor(c.Context, question, c.Int("top-k"),
			pipeline.NewLogMonitor(traceLogger(c.App.ErrWriter)))
	} else {
		answer, err = assistant.AnswerTopK(c.Context, question, c.Int("top-k"))
	}
	if err != nil {
		return err
	}

	if format == "text" {
		printAnswer(c.App.Writer, answer)
		return nil
	}
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(answer)
}

// traceLogger logs at debug level to w, independent of the default logger.
func traceLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func printAnswer(w io.Writer, answer *core.StructuredAnswer) {
	heading := color.New(color.FgCyan, color.Bold)
	faint := color.New(color.Faint)

	heading.Fprintln(w, "Answer")
	fmt.Fprintln(w, answer.AnswerText)
	if answer.ReasoningTrace != "" {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Reasoning")
		fmt.Fprintln(w, answer.ReasoningTrace)
	}
	fmt.Fprintln(w)
	heading.Fprintf(w, "Evidence (%d)\n", len(answer.Evidence))
	for i, text := range answer.Evidence {
		faint.Fprintf(w, "[%d] ", i+1)
		fmt.Fprintln(w, text)
	}
}

func loadCommand(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("at least one CSV file is required")
	}

	settings, err := loadSettings(c)
	if err != nil {
		return err
	}
	transcripts, err := readTranscripts(paths)
	if err != nil {
		return err
	}
	loaderOpts, err := settings.LoaderOptions()
	if err != nil {
		return err
	}

	assistant, err := openAssistant(settings)
	if err != nil {
		return err
	}
	defer assistant.Close()

	loader, err := assistant.NewLoader(loaderOpts...)
	if err != nil {
		return fmt.Errorf("failed to create loader: %w", err)
	}
	defer loader.Release()

	w := c.App.ErrWriter
	fmt.Fprintf(w, "Database: %s\n", settings.Index.Path)
	fmt.Fprintf(w, "Collection: %s\n", settings.Index.Collection)
	fmt.Fprintf(w, "Embedding host: %s\n", settings.AI.EmbeddingHost)
	fmt.Fprintf(w, "Embedding model: %s\n", settings.AI.EmbeddingModel)
	fmt.Fprintln(w)

	stats, err := loader.Load(c.Context, transcripts)
	if stats != nil {
		fmt.Fprintf(w, "Transcripts: %d\n", stats.Transcripts)
		fmt.Fprintf(w, "Chunks: %d (%d already indexed)\n", stats.Chunks, stats.Existing)
		fmt.Fprintf(w, "Added: %d\n", stats.Added)
		fmt.Fprintf(w, "Failed: %d\n", stats.Failed)
		fmt.Fprintf(w, "Elapsed: %s\n", stats.Elapsed.Round(time.Millisecond))
	}
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}
	return nil
}

func readTranscripts(paths []string) ([]ingestion.Transcript, error) {
	var all []ingestion.Transcript
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		transcripts, err := ingestion.ReadTranscriptsCSV(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		all = append(all, transcripts...)
	}
	return all, nil
}

func statsCommand(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return err
	}
	assistant, err := openAssistant(settings)
	if err != nil {
		return err
	}
	defer assistant.Close()

	stats, err := assistant.Stats(c.Context)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Collection: %s\n", stats.Collection)
	fmt.Fprintf(w, "Passages: %d\n", stats.Passages)
	fmt.Fprintf(w, "Sources: %d\n", stats.Sources)
	fmt.Fprintf(w, "Words: %d\n", stats.Words)
	if stats.Unindexed > 0 {
		color.New(color.FgYellow).Fprintf(w, "Unindexed: %d\n", stats.Unindexed)
	}

	if paths := c.StringSlice("csv"); len(paths) > 0 {
		transcripts, err := readTranscripts(paths)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Transcript words: %d in %d transcripts\n", ingestion.CountWords(transcripts), len(transcripts))
	}
	return nil
}

func dropCommand(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return err
	}
	if !c.Bool("yes") {
		return fmt.Errorf("refusing to drop collection %q without --yes", settings.Index.Collection)
	}

	assistant, err := openAssistant(settings)
	if err != nil {
		return err
	}
	defer assistant.Close()

	if err := assistant.Drop(c.Context); err != nil {
		return fmt.Errorf("drop failed: %w", err)
	}
	fmt.Fprintf(c.App.ErrWriter, "Dropped collection %s\n", settings.Index.Collection)
	return nil
}

func promptsCommand(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return err
	}
	store, err := settings.PromptStore()
	if err != nil {
		return err
	}

	if name := c.String("show"); name != "" {
		tmpl, err := store.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, tmpl.Text())
		return nil
	}

	selected := settings.TemplateName()
	for _, name := range store.Names() {
		if name == selected {
			fmt.Fprintf(c.App.Writer, "* %s\n", name)
			continue
		}
		fmt.Fprintf(c.App.Writer, "  %s\n", name)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
