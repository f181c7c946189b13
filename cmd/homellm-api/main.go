// Package main provides the HomeLLM API server entrypoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spherical/homellm/internal/analysis"
	"github.com/spherical/homellm/internal/cache"
	"github.com/spherical/homellm/internal/config"
	"github.com/spherical/homellm/internal/dataset"
	"github.com/spherical/homellm/internal/domain"
	"github.com/spherical/homellm/internal/ingest"
	"github.com/spherical/homellm/internal/observability"
	"github.com/spherical/homellm/internal/readings"
	"github.com/spherical/homellm/internal/session"
)

func main() {
	// Load configuration
	cfgPath := os.Getenv("CONFIG_PATH")
	if len(os.Args) > 2 && os.Args[1] == "--config" {
		cfgPath = os.Args[2]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogConfig("homellm-api"))

	endpoint := cfg.AnalysisEndpoint()
	logger.Info().
		Str("addr", cfg.Addr()).
		Str("cache", cfg.Cache.Backend).
		Bool("remote_analysis", endpoint != "").
		Msg("Starting HomeLLM API")

	ctx := context.Background()

	responseCache, err := newCache(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize cache")
		os.Exit(1)
	}
	defer responseCache.Close()

	parser := readings.NewParser(readings.ParserConfig{})

	client := analysis.NewClient(analysis.ClientConfig{
		Endpoint: endpoint,
		APIKey:   cfg.Analysis.APIKey,
		Model:    cfg.Analysis.Model,
		Parser:   parser,
		Cache:    responseCache,
		CacheTTL: cfg.Analysis.CacheTTL,
		Logger:   logger,
	})

	// Without a server key, sessions may still supply their own.
	var remote domain.RemoteAnalyzer
	switch {
	case client.Configured():
		remote = client
	case client.HasEndpoint():
		remote = client
		logger.Warn().Msg("No server API key; PDF uploads need a session API key")
	default:
		logger.Warn().Msg("Remote analysis not configured; PDF uploads will be rejected")
	}

	examples, err := dataset.Load()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load training dataset")
		os.Exit(1)
	}

	svc := &Services{
		Parser:   parser,
		Analyzer: ingest.NewService(parser, remote, logger),
		Store:    session.NewStore(),
		Examples: examples,
	}

	appCfg := &AppConfig{
		RequestTimeout: cfg.Server.WriteTimeout,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}

	router := NewRouter(logger, svc, appCfg)

	addr := cfg.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt or error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error().Err(err).Msg("Server error")
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	logger.Info().Msg("Server stopped")
}

func newCache(ctx context.Context, cfg *config.Config) (cache.Client, error) {
	if cfg.Cache.Backend == "redis" {
		return cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
	}
	return cache.NewMemoryClient(cfg.Cache.MaxEntries), nil
}
