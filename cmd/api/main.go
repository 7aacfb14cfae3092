// Package main is the entry point for the campus events API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/convergex/campus-events/internal/api"
	"github.com/convergex/campus-events/internal/core/service"
	"github.com/convergex/campus-events/internal/infrastructure/config"
	mongodb "github.com/convergex/campus-events/internal/infrastructure/db/mongo"
	redisdb "github.com/convergex/campus-events/internal/infrastructure/db/redis"
	"github.com/convergex/campus-events/internal/infrastructure/queue"
	"github.com/convergex/campus-events/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title Campus Events API
// @version 1.0
// @description Event management backend for campus clubs: institutional signup, admin requests, clubs, events and follower notifications.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	if err := mongodb.Bootstrap(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongo bootstrap failed")
	}

	rdb, err := redisdb.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	fanout := service.NewNotificationFanout(
		mongodb.NewFollowRepository(db),
		mongodb.NewNotificationRepository(db),
		log,
	)
	dispatcher := queue.NewDispatcher(cfg.NotifyWorkers, fanout, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(cfg, db, rdb, dispatcher, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting campus events API")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
