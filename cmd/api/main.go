package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	surrealdb "github.com/surrealdb/surrealdb.go"

	"technotes/api/internal/cache"
	"technotes/api/internal/config"
	"technotes/api/internal/database"
	"technotes/api/internal/handlers"
	"technotes/api/internal/jobs"
	"technotes/api/internal/log"
	"technotes/api/internal/repository"
	"technotes/api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	db, err := database.NewSurrealDB(ctx, cfg.Surreal)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect surrealdb")
	}
	if err := database.DefineSchema(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("failed to define schema")
	}

	// The limiter fails open without Redis, so a missing cache degrades the
	// service instead of blocking startup.
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, login rate limiting disabled")
		redisClient = nil
	}

	handlerSet := handlers.NewHandlerSet(logger, db, redisClient, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(
		repository.NewUserRepository(db),
		repository.NewNoteRepository(db),
		cfg.Jobs.StatsInterval,
		logger,
	)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, db, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *surrealdb.DB, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop()

	if err := db.Close(context.Background()); err != nil {
		logger.Error().Err(err).Msg("surrealdb close error")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
