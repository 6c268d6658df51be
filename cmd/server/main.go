// Identity service entry point.
//
// @title        Identity Service API
// @version      1.0
// @description  Multi-tenant authentication, company selection and authorization.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bizsuite/identity-service/internal/api"
	"github.com/bizsuite/identity-service/internal/infrastructure/config"
	mongodb "github.com/bizsuite/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/bizsuite/identity-service/internal/infrastructure/db/redis"
	"github.com/bizsuite/identity-service/internal/infrastructure/queue"
	"github.com/bizsuite/identity-service/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.Production(),
		Service: "identity-service",
	})

	if err := cfg.Validate(log); err != nil {
		return err
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:    cfg.Redis.Addr,
		DB:      cfg.Redis.DB,
		Timeout: cfg.Redis.Timeout,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	dispatcher := queue.NewAuditDispatcher(cfg.AuditWorkers, mongodb.NewAuditStore(db), log)
	dispatcher.Start(ctx)

	e := api.NewRouter(cfg, client, db, rdb, dispatcher, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()
	log.Info().
		Str("port", cfg.Port).
		Str("mode", cfg.AppMode).
		Str("session_strategy", cfg.SessionStrategy).
		Msg("identity service started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
