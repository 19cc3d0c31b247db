package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tuanvumaihuynh/brewery-api/internal/config"
	"github.com/tuanvumaihuynh/brewery-api/internal/http"
	"github.com/tuanvumaihuynh/brewery-api/internal/log"
	"github.com/tuanvumaihuynh/brewery-api/internal/repository"
	"github.com/tuanvumaihuynh/brewery-api/internal/service"
	"github.com/tuanvumaihuynh/brewery-api/internal/storage/db"
	"github.com/tuanvumaihuynh/brewery-api/internal/telemetry"
	"github.com/tuanvumaihuynh/brewery-api/pkg/cmdutil"
	"github.com/tuanvumaihuynh/brewery-api/pkg/validator"
)

// brewery-api serves the HTTP API only. Change events stay in the outbox
// table until brewery-relay publishes them.
func main() {
	if err := run(); err != nil {
		fmt.Printf("error running api application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		HTTP     config.HTTP
		Otel     config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	reqValidator, err := validator.NewDefaultValidator()
	if err != nil {
		return fmt.Errorf("error creating validator: %w", err)
	}

	outboxMsgRepository := repository.NewOutboxMsgRepository(dbClient)
	customerService := service.NewCustomerService(dbClient, repository.NewCustomerRepository(dbClient), outboxMsgRepository)
	beerService := service.NewBeerService(dbClient, repository.NewBeerRepository(dbClient), outboxMsgRepository)

	interruptChan := cmdutil.InterruptChan()

	svc := http.New(cfg.HTTP, logger, reqValidator, customerService, beerService, dbClient)
	cleanup, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("error running http service: %w", err)
	}
	logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

	<-interruptChan

	logger.InfoContext(ctx, "http service is shutting down")
	if err := cleanup(ctx); err != nil {
		logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
	}

	logger.InfoContext(ctx, "http service is stopped")

	return nil
}
