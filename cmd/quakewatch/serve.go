package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/couchcryptid/quakewatch/internal/adapter/gemini"
	httpadapter "github.com/couchcryptid/quakewatch/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quakewatch/internal/adapter/kafka"
	"github.com/couchcryptid/quakewatch/internal/adapter/usgs"
	"github.com/couchcryptid/quakewatch/internal/config"
	"github.com/couchcryptid/quakewatch/internal/insight"
	"github.com/couchcryptid/quakewatch/internal/observability"
	"github.com/couchcryptid/quakewatch/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service and the periodic feed refresher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	feed := usgs.NewClient(cfg.FeedURL, cfg.FeedTimeout, metrics, logger)

	// Snapshot publishing is feature-flagged via KAFKA_ENABLED.
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	store := pipeline.NewStore()
	p := pipeline.New(feed, publisher, store, clock, logger, metrics, cfg.FeedMaxAttempts)

	generator, err := newGenerator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	orch := insight.New(generator, clock, cfg.GeminiTimeout, logger, metrics)

	api := httpadapter.NewAPI(store, p, orch, clock, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, api, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return p.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()

	// Let in-flight model calls land before exiting; each is bounded by GEMINI_TIMEOUT.
	orch.Wait()

	if writer != nil {
		if cerr := writer.Close(); cerr != nil {
			logger.Error("kafka writer close error", "error", cerr)
		}
	}

	if err != nil {
		logger.Error("service stopped with error", "error", err)
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

// newGenerator returns the Gemini generator, or nil when no API key is set so
// the orchestrator answers with the missing-credential message.
func newGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (insight.Generator, error) {
	if !cfg.InsightsEnabled() {
		logger.Warn("GEMINI_API_KEY not set, insights disabled")
		return nil, nil
	}
	client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("gemini insights enabled", "model", cfg.GeminiModel, "timeout", cfg.GeminiTimeout)
	return client, nil
}
