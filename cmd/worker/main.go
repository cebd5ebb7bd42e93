package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paperlab/paper-summarizer/internal/bootstrap"
	"github.com/paperlab/paper-summarizer/internal/config"
	"github.com/paperlab/paper-summarizer/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("worker", cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewWorker(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	mux := http.NewServeMux()
	mux.Handle("/metrics", app.Metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	metricsServer := &http.Server{
		Addr:         ":" + cfg.WorkerMetricsPort,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("metrics listening", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	processTimeout := time.Duration(cfg.ProcessTimeoutSeconds) * time.Second
	logger.Info("worker subscribed", "subject", cfg.NATSSubject, "process_timeout", processTimeout.String())

	err = app.Queue.SubscribeDocumentSubmitted(ctx, func(handlerCtx context.Context, documentID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, processTimeout)
		defer cancel()

		start := time.Now()
		rec, err := app.ProcessUC.ProcessByID(processCtx, documentID)
		if err != nil {
			logger.Error("document processing failed",
				"document_id", documentID, "elapsed", time.Since(start).String(), "error", err)
			return err
		}
		logger.Info("document summarized",
			"document_id", documentID,
			"extraction_method", string(rec.ExtractionMethod),
			"ai_enhanced", rec.AIEnhanced,
			"elapsed", time.Since(start).String())
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("subscription ended", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics shutdown error", "error", err)
	}
}
