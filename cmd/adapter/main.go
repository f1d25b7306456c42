package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/nupi-ai/insightslog"
	"github.com/nupi-ai/insightslog/internal/adapterinfo"
	"github.com/nupi-ai/insightslog/internal/config"
	"github.com/nupi-ai/insightslog/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Loader{}.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)

	meta, err := adapterinfo.Load()
	if err != nil {
		logger.Warn("adapter manifest unavailable, using build info", "error", err)
		meta = adapterinfo.Fallback()
	}
	instanceID := uuid.NewString()

	logger.Info("starting adapter",
		"adapter", meta.Name,
		"adapter_version", meta.Version,
		"instance_id", instanceID,
		"level", cfg.Level,
		"errors_as_exceptions", cfg.TreatErrorsAsExceptions,
		"exception_policy", cfg.ExceptionPolicy,
		"stub_client", cfg.UseStubClient,
	)

	recorder := telemetry.NewRecorder(logger)
	stopDiagnostics := recorder.ListenDiagnostics()
	defer stopDiagnostics()

	var (
		client   insightslog.Client
		insights *insightslog.InsightsClient
	)
	if cfg.UseStubClient {
		client = insightslog.NewStubClient(logger)
		logger.Info("using STUB client, submissions are kept in memory and NOT sent to Application Insights")
	} else {
		insights, err = insightslog.NewClientFromConfig(insightslog.ClientConfig{
			InstrumentationKey: cfg.InstrumentationKey,
			Endpoint:           cfg.Endpoint,
			MaxBatchSize:       cfg.MaxBatchSize,
			MaxBatchInterval:   cfg.MaxBatchInterval,
		})
		if err != nil {
			logger.Error("failed to create Application Insights client", "error", err)
			os.Exit(1)
		}
		client = insights
		logger.Info("Application Insights client initialized")
	}

	policy, err := insightslog.ParseExceptionPolicy(cfg.ExceptionPolicy)
	if err != nil {
		logger.Error("invalid exception policy", "error", err)
		os.Exit(1)
	}

	tags := meta.Properties()
	tags["adapter_instance"] = instanceID
	translator, err := insightslog.New(insightslog.Options{
		Client:                  client,
		Level:                   cfg.Level,
		TreatErrorsAsExceptions: cfg.TreatErrorsAsExceptions,
		ExceptionPolicy:         policy,
		Formatter:               insightslog.WithProperties(tags),
		Logger:                  logger,
	})
	if err != nil {
		logger.Error("failed to create translator", "error", err)
		os.Exit(1)
	}

	// Scanner reads block, so stdin is drained in the background and a signal
	// does not wait for the next line.
	done := make(chan error, 1)
	go func() {
		done <- forward(ctx, os.Stdin, translator, logger)
	}()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("forwarding stopped", "error", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown requested")
	}

	traces, exceptions := translator.Stats()
	logger.Info("input drained", "traces", traces, "exceptions", exceptions)

	if insights != nil {
		// The signal context may already be done; give the channel its own budget.
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := insights.Close(closeCtx, cfg.ShutdownTimeout); err != nil {
			logger.Warn("telemetry channel did not close in time", "error", err)
		}
	}

	logger.Info("adapter stopped")
}

func newLogger(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler)
}

func parseLevel(value string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
