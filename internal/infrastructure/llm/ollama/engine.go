package ollama

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/paperlab/paper-summarizer/internal/core/domain"
	"github.com/paperlab/paper-summarizer/internal/infrastructure/resilience"
)

const (
	DefaultQuickModel = "qwen2.5:3b-instruct"
	DefaultDeepModel  = "llama3.1:8b-instruct"
)

type EngineConfig struct {
	QuickModel    string
	QuickMinWords int
	QuickMaxWords int

	DeepModel    string
	DeepMinWords int
	DeepMaxWords int
}

type backendSpec struct {
	label    string
	model    string
	minWords int
	maxWords int
}

// Engine implements ports.SummaryEngine over two models on one Ollama
// server. Both backends are fixed at construction and shared read-only by
// every pipeline run; each model gets its own circuit breaker through the
// executor's per-operation keying.
type Engine struct {
	client   *Client
	executor *resilience.Executor
	logger   *slog.Logger

	quick backendSpec
	deep  backendSpec
}

func NewEngine(client *Client, executor *resilience.Executor, cfg EngineConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		client:   client,
		executor: executor,
		logger:   logger,
		quick: backendSpec{
			label:    "quick",
			model:    stringOr(cfg.QuickModel, DefaultQuickModel),
			minWords: intOr(cfg.QuickMinWords, 30),
			maxWords: intOr(cfg.QuickMaxWords, 100),
		},
		deep: backendSpec{
			label:    "deep",
			model:    stringOr(cfg.DeepModel, DefaultDeepModel),
			minWords: intOr(cfg.DeepMinWords, 200),
			maxWords: intOr(cfg.DeepMaxWords, 400),
		},
	}
}

func (e *Engine) SummarizeQuick(ctx context.Context, chunks []domain.Chunk) (string, error) {
	return e.summarize(ctx, e.quick, chunks)
}

func (e *Engine) SummarizeDeep(ctx context.Context, chunks []domain.Chunk) (string, error) {
	return e.summarize(ctx, e.deep, chunks)
}

// summarize map-reduces the chunks into one bounded summary. A single chunk
// is summarized directly; otherwise each chunk yields a partial note and one
// reduce call merges them. Any backend error fails this backend only; the
// caller records the diagnostic and degrades the record.
func (e *Engine) summarize(ctx context.Context, backend backendSpec, chunks []domain.Chunk) (string, error) {
	op := backend.label + " summary"
	if len(chunks) == 0 {
		return "", domain.WrapError(domain.ErrEmptyInput, op, errors.New("no chunks to summarize"))
	}

	if len(chunks) == 1 {
		out, err := e.generate(ctx, backend, directPrompt(backend.minWords, backend.maxWords, chunks[0].Text))
		if err != nil {
			return "", domain.WrapError(domain.ErrSummarization, op, err)
		}
		return clampWords(out, backend.maxWords), nil
	}

	partials := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		out, err := e.generate(ctx, backend, chunkPrompt(chunk.Section, chunk.Text))
		if err != nil {
			return "", domain.WrapError(domain.ErrSummarization,
				fmt.Sprintf("%s chunk %d/%d", op, i+1, len(chunks)), err)
		}
		if out != "" {
			partials = append(partials, out)
		}
	}
	if len(partials) == 0 {
		return "", domain.WrapError(domain.ErrSummarization, op, errors.New("model produced no text"))
	}

	e.logger.Debug("reducing partial summaries",
		"backend", backend.label, "model", backend.model, "partials", len(partials))
	out, err := e.generate(ctx, backend, reducePrompt(backend.minWords, backend.maxWords, partials))
	if err != nil {
		return "", domain.WrapError(domain.ErrSummarization, op+" reduce", err)
	}
	return clampWords(out, backend.maxWords), nil
}

func (e *Engine) generate(ctx context.Context, backend backendSpec, prompt string) (string, error) {
	// Token budget: roughly 1.5 tokens per English word, doubled for slack.
	maxTokens := backend.maxWords * 3

	var out string
	fn := func(callCtx context.Context) error {
		text, err := e.client.Generate(callCtx, backend.model, prompt, maxTokens)
		if err != nil {
			return err
		}
		out = text
		return nil
	}

	var err error
	if e.executor != nil {
		err = e.executor.Execute(ctx, "ollama.generate."+backend.model, fn, classifyOllamaError)
	} else {
		err = fn(ctx)
	}
	if err != nil {
		return "", wrapTemporaryIfNeeded("ollama generate", err)
	}
	return out, nil
}

// clampWords trims text that overruns the word target, preferring the last
// complete sentence inside the budget.
func clampWords(text string, maxWords int) string {
	words := strings.Fields(text)
	if maxWords <= 0 || len(words) <= maxWords {
		return text
	}
	truncated := strings.Join(words[:maxWords], " ")
	if idx := strings.LastIndexAny(truncated, ".!?"); idx > 0 {
		return truncated[:idx+1]
	}
	return truncated
}

func stringOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func intOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
