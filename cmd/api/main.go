package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/emilythestrangee/stackit/backend/internal/auth"
	"github.com/emilythestrangee/stackit/backend/internal/cache"
	"github.com/emilythestrangee/stackit/backend/internal/config"
	"github.com/emilythestrangee/stackit/backend/internal/database"
	"github.com/emilythestrangee/stackit/backend/internal/handlers"
	"github.com/emilythestrangee/stackit/backend/internal/logger"
	"github.com/emilythestrangee/stackit/backend/internal/middleware"
	"github.com/emilythestrangee/stackit/backend/internal/observability"
	"github.com/emilythestrangee/stackit/backend/internal/repo/memory"
	"github.com/emilythestrangee/stackit/backend/internal/repo/postgres"
	"github.com/emilythestrangee/stackit/backend/internal/server"
	"github.com/emilythestrangee/stackit/backend/internal/services"
)

type store interface {
	services.Store
	handlers.Pinger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(cfg.Env)
	ctx := context.Background()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	shutdownTracer := func(context.Context) error { return nil }
	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err = observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName: "stackit-api",
			Environment: cfg.Env,
			Endpoint:    cfg.OTLPEndpoint,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("init tracer")
		}
	}

	var (
		st    store
		dbSvc database.Service
	)
	switch cfg.StorageBackend {
	case config.BackendMemory:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		st = memory.NewStore()
	default:
		dbSvc, err = database.New(cfg.DB, log)
		if err != nil {
			log.Fatal().Err(err).Msg("open database")
		}
		st = postgres.NewStore(dbSvc.GetDB(), prom)
	}

	tagCache, rdb := newTagCache(ctx, cfg, prom, log)

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTAccessTTL)
	questions := services.NewQuestionService(st, log, services.WithTagCache(tagCache, cfg.TrendingCacheTTL))
	users := services.NewUserService(st, questions, tokens, log)

	deps := handlers.Deps{
		Questions: questions,
		Users:     users,
		Store:     st,
		Prom:      prom,
		Log:       log,
		Timeout:   cfg.RequestTimeout,
	}
	if dbSvc != nil {
		deps.DB = dbSvc
	}
	handler := handlers.NewHandler(deps)

	srv := server.New(cfg, handler, middleware.NewAuthMiddleware(tokens), prom, reg, log).HTTPServer()

	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Str("storage", cfg.StorageBackend).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info().Msg("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown failed")
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}
	if dbSvc != nil {
		if err := dbSvc.Close(); err != nil {
			log.Error().Err(err).Msg("database close failed")
		}
	}

	log.Info().Msg("shutdown complete")
}

// newTagCache prefers Redis when configured and reachable, else an in-process cache.
func newTagCache(ctx context.Context, cfg config.Config, prom *observability.Prom, log zerolog.Logger) (services.TagCache, *redis.Client) {
	if !cfg.Redis.Enabled() {
		return cache.NewMemoryTagCache(cfg.TrendingCacheTTL, prom), nil
	}

	rdb := cache.NewRedisClient(cfg.Redis)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := cache.PingRedis(pingCtx, rdb); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, using in-memory tag cache")
		_ = rdb.Close()
		return cache.NewMemoryTagCache(cfg.TrendingCacheTTL, prom), nil
	}

	log.Info().Str("addr", cfg.Redis.Addr).Msg("trending tags cached in redis")
	return cache.NewRedisTagCache(rdb, prom), rdb
}
