package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/beacon/backend/internal/ai"
	"github.com/beacon/backend/internal/config"
	"github.com/beacon/backend/internal/db"
	"github.com/beacon/backend/internal/geocode"
	httpapi "github.com/beacon/backend/internal/http"
	"github.com/beacon/backend/internal/memstore"
	"github.com/beacon/backend/internal/metrics"
	"github.com/beacon/backend/internal/observability"
	"github.com/beacon/backend/internal/pipeline"
	"github.com/beacon/backend/internal/store"
)

// @title Beacon Backend
// @version 1.0
// @description Case intake, helper assignment and guidance pipeline for emergency response
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := log.Level(level).With().Str("service", "beacon-backend").Logger()

	ctx := context.Background()
	shutdownOTel := observability.InitOTel(ctx, logger, observability.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		Environment: cfg.Env,
		Endpoint:    cfg.OtelEndpoint,
		Insecure:    cfg.OtelInsecure,
	})

	var st store.Store
	if cfg.DatabaseURL == "" {
		st = memstore.New()
		logger.Warn().Msg("DATABASE_URL not set, using in-memory store")
	} else {
		pg, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect db")
		}
		defer pg.Close()
		if cfg.MigrateOnStart {
			if err := pg.Migrate(logger); err != nil {
				logger.Fatal().Err(err).Msg("failed to migrate db")
			}
		}
		st = pg
	}

	completer, searcher := providers(cfg, logger)
	m := metrics.NewCollector()

	opts := pipeline.Options{
		ProviderTimeout: cfg.ProviderTimeout,
		Metrics:         m,
	}
	if cfg.GeocodeURL != "" {
		opts.Geocoder = geocode.NewNominatim(cfg.GeocodeURL, cfg.GeocodeUserAgent, time.Second)
		logger.Info().Str("url", cfg.GeocodeURL).Msg("reverse geocoding enabled")
	}
	orch := pipeline.NewOrchestrator(st, completer, searcher, logger, opts)
	queue := pipeline.NewQueue(cfg.PipelineWorkers, cfg.PipelineQueueSize, orch, logger, m)

	router := httpapi.Router(cfg, st, queue, m, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.DrainTimeout)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	if err := queue.Shutdown(ctxShutdown); err != nil {
		logger.Warn().Err(err).Int("pending", queue.Depth()).Msg("pipeline drain incomplete")
	}
	if err := shutdownOTel(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("otel shutdown")
	}
	logger.Info().Msg("server stopped")
}

// providers builds the completion and search capabilities. Missing URLs fall
// back to the deterministic mocks so the service runs without credentials.
func providers(cfg config.Config, logger zerolog.Logger) (ai.Completer, ai.Searcher) {
	var completer ai.Completer = ai.MockCompleter{}
	if cfg.AIURL == "" {
		logger.Info().Msg("using mock completion provider")
	} else {
		c, err := ai.NewOpenAICompletion(cfg.AIURL, cfg.AIModel, cfg.AIAPIKey, cfg.AIMaxTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid completion provider config")
		}
		completer = c
	}

	var searcher ai.Searcher = ai.MockSearcher{}
	if cfg.SearchURL == "" {
		logger.Info().Msg("using mock search provider")
	} else {
		s, err := ai.NewDeepSearch(cfg.SearchURL, cfg.SearchAPIKey)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid search provider config")
		}
		searcher = s
	}

	if cfg.RedisURL != "" {
		rdb, err := ai.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		searcher = ai.NewCachedSearcher(searcher, rdb, cfg.SearchCacheTTL, logger)
		logger.Info().Dur("ttl", cfg.SearchCacheTTL).Msg("search cache enabled")
	}

	limiter := ai.NewLimiter(cfg.ProviderRPS, cfg.ProviderBurst)
	return ai.LimitCompleter(completer, limiter), ai.LimitSearcher(searcher, limiter)
}
