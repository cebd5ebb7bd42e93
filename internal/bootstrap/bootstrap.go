package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/paperlab/paper-summarizer/internal/config"
	"github.com/paperlab/paper-summarizer/internal/core/ports"
	"github.com/paperlab/paper-summarizer/internal/core/usecase"
	"github.com/paperlab/paper-summarizer/internal/infrastructure/chunking"
	"github.com/paperlab/paper-summarizer/internal/infrastructure/extractor/grobid"
	"github.com/paperlab/paper-summarizer/internal/infrastructure/extractor/rawpdf"
	"github.com/paperlab/paper-summarizer/internal/infrastructure/llm/ollama"
	"github.com/paperlab/paper-summarizer/internal/infrastructure/queue/nats"
	"github.com/paperlab/paper-summarizer/internal/infrastructure/records/jsonfs"
	"github.com/paperlab/paper-summarizer/internal/infrastructure/repository/postgres"
	"github.com/paperlab/paper-summarizer/internal/infrastructure/resilience"
	"github.com/paperlab/paper-summarizer/internal/infrastructure/storage/localfs"
	"github.com/paperlab/paper-summarizer/internal/observability/metrics"
)

// Pipeline wires the extraction, chunking and summarization core over the
// given document storage. Metrics may be nil for metrics-off callers.
func Pipeline(cfg config.Config, storage ports.ObjectStorage, pipelineMetrics ports.PipelineMetrics, logger *slog.Logger) *usecase.HybridPipelineUseCase {
	grobidClient := grobid.NewClient(grobid.Config{
		BaseURL:           cfg.GrobidURL,
		BaseTimeout:       time.Duration(cfg.GrobidTimeoutSeconds) * time.Second,
		SizeStep:          time.Duration(cfg.GrobidSizeStepSeconds) * time.Second,
		MaxTimeout:        time.Duration(cfg.GrobidMaxTimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.GrobidRequestsPerSec,
	})
	structured := grobid.NewExtractor(grobidClient, storage)
	raw := rawpdf.NewExtractor(storage)
	chunker := chunking.NewChunker(cfg.QuickWindowWords, cfg.DeepWindowWords)

	ollamaClient := ollama.NewClient(cfg.OllamaURL, time.Duration(cfg.OllamaTimeoutSeconds)*time.Second)
	engine := ollama.NewEngine(ollamaClient, resilience.NewExecutor(resilience.InferenceDefaults()), ollama.EngineConfig{
		QuickModel:    cfg.OllamaQuickModel,
		QuickMinWords: cfg.QuickSummaryMinWords,
		QuickMaxWords: cfg.QuickSummaryMaxWords,
		DeepModel:     cfg.OllamaDeepModel,
		DeepMinWords:  cfg.DeepSummaryMinWords,
		DeepMaxWords:  cfg.DeepSummaryMaxWords,
	}, logger)

	return usecase.NewHybridPipelineUseCase(structured, raw, chunker, engine, pipelineMetrics, logger)
}

// WorkerApp is the queue-consuming service assembly.
type WorkerApp struct {
	Config    config.Config
	Queue     ports.MessageQueue
	Metrics   *metrics.PipelineMetrics
	ProcessUC ports.DocumentProcessor

	closeFn func()
}

func NewWorker(ctx context.Context, cfg config.Config, logger *slog.Logger) (*WorkerApp, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.PublishDefaults()),
		Logger:             logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	archive, err := jsonfs.New(cfg.RecordsDir)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("init record archive: %w", err)
	}

	pipelineMetrics := metrics.NewPipelineMetrics("worker")
	pipeline := Pipeline(cfg, storage, pipelineMetrics, logger)
	processUC := usecase.NewProcessDocumentUseCase(repo, pipeline, archive, pipelineMetrics, logger)

	return &WorkerApp{
		Config:    cfg,
		Queue:     queue,
		Metrics:   pipelineMetrics,
		ProcessUC: processUC,
		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *WorkerApp) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// SubmitApp is the CLI-side assembly for pushing documents into the service
// deployment.
type SubmitApp struct {
	SubmitUC ports.DocumentSubmitter

	closeFn func()
}

func NewSubmitter(ctx context.Context, cfg config.Config, logger *slog.Logger) (*SubmitApp, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	// One-shot process: fail fast instead of reconnect-looping.
	retryOnFailedConnect := false
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		RetryOnFailedConnect: &retryOnFailedConnect,
		ResilienceExecutor:   resilience.NewExecutor(resilience.PublishDefaults()),
		Logger:               logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	return &SubmitApp{
		SubmitUC: usecase.NewSubmitDocumentUseCase(repo, storage, queue, logger),
		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *SubmitApp) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// LocalApp runs the pipeline against local files with no Postgres, NATS or
// metrics endpoint: the JSON archive is the only sink.
type LocalApp struct {
	Pipeline ports.Summarizer
	Archive  *jsonfs.Archive
}

func NewLocal(cfg config.Config, logger *slog.Logger, sourceDir, recordsDir string) (*LocalApp, error) {
	storage, err := localfs.New(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("open source dir: %w", err)
	}
	archive, err := jsonfs.New(recordsDir)
	if err != nil {
		return nil, fmt.Errorf("init record archive: %w", err)
	}
	return &LocalApp{
		Pipeline: Pipeline(cfg, storage, nil, logger),
		Archive:  archive,
	}, nil
}
