// @title           Workboard API
// @version         1.0
// @description     Backend-for-frontend for the freelance marketplace project dashboard.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey  CookieAuth
// @in                          cookie
// @name                        wb_session
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

	"github.com/freelancehub/workboard/internal/api"
	"github.com/freelancehub/workboard/internal/api/handler"
	"github.com/freelancehub/workboard/internal/api/middleware"
	"github.com/freelancehub/workboard/internal/infrastructure/backend"
	mongodb "github.com/freelancehub/workboard/internal/infrastructure/db/mongo"
	redisdb "github.com/freelancehub/workboard/internal/infrastructure/db/redis"
	"github.com/freelancehub/workboard/internal/infrastructure/queue"
	"github.com/freelancehub/workboard/internal/infrastructure/workspace"
	"github.com/freelancehub/workboard/internal/pkg/config"
	"github.com/freelancehub/workboard/pkg/logger"
)

const (
	workspaceIdle  = 30 * time.Minute
	evictInterval  = 5 * time.Minute
	shutdownWindow = 10 * time.Second
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "workboard",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis unavailable")
	}
	defer rdb.Close()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo unavailable")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create journal indexes")
	}

	journal := mongodb.NewTransitionJournal(db)
	dispatcher := queue.NewDispatcher(cfg.Journal.Workers, journal, log)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	b, err := backend.New(backend.Config{
		BaseURL:        cfg.Backend.URL,
		Timeout:        cfg.Backend.Timeout,
		ExplicitIntent: cfg.Backend.ExplicitIntent,
		Breaker: backend.BreakerConfig{
			MaxRequests:  cfg.Backend.Breaker.MaxRequests,
			Interval:     cfg.Backend.Breaker.Interval,
			Timeout:      cfg.Backend.Breaker.Timeout,
			MinRequests:  cfg.Backend.Breaker.MinRequests,
			FailureRatio: cfg.Backend.Breaker.FailureRatio,
		},
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid backend configuration")
	}

	registry := workspace.NewRegistry(
		b,
		redisdb.NewSessionStore(rdb, cfg.Session.TTL),
		dispatcher,
		redisdb.NewSubmissionGuard(rdb, 0),
		log,
	)
	go evictIdle(ctx, registry, log)

	cookie := middleware.NewSessionCookie(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.Secure)
	e := api.NewRouter(api.Dependencies{
		Workspaces: registry,
		Cookie:     cookie,
		Journal:    journal,
		Log:        logger.Component("http"),
		Checks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return mongodb.Ping(ctx, mongoClient) },
			"redis":   func(ctx context.Context) error { return redisdb.Ping(ctx, rdb, 0) },
			"backend": func(context.Context) error { return b.Ready() },
		},
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.Backend.URL).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWindow)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func evictIdle(ctx context.Context, registry *workspace.Registry, log zerolog.Logger) {
	ticker := time.NewTicker(evictInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := registry.Evict(workspaceIdle); n > 0 {
				log.Debug().Int("evicted", n).Int("open", registry.Len()).Msg("evicted idle workspaces")
			}
		}
	}
}
