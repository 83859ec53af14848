package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labops/server-loans/internal/api"
	"github.com/labops/server-loans/internal/core/service"
	"github.com/labops/server-loans/internal/infrastructure/config"
	"github.com/labops/server-loans/internal/infrastructure/db/postgres"
	"github.com/labops/server-loans/internal/infrastructure/db/redis"
	"github.com/labops/server-loans/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fallback := logger.Init(logger.Options{})
		fallback.Fatal().Err(err).Msg("loading configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	db, err := postgres.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to postgres")
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to redis")
	}
	defer rdb.Close()

	// A fresh deployment has no accounts; seed the first admin so the login
	// page is usable at all.
	if cfg.Auth.BootstrapPassword != "" {
		auth := service.NewAuthService(postgres.NewAuthRepository(db), cfg.Auth.BcryptCost, log)
		if _, err := auth.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapUsername, cfg.Auth.BootstrapPassword); err != nil {
			log.Fatal().Err(err).Msg("seeding bootstrap admin")
		}
	}

	e, err := api.NewRouter(db, rdb, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("building router")
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
