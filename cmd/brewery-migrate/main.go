package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tuanvumaihuynh/brewery-api/internal/config"
	"github.com/tuanvumaihuynh/brewery-api/internal/log"
	"github.com/tuanvumaihuynh/brewery-api/internal/repository"
	"github.com/tuanvumaihuynh/brewery-api/internal/seed"
	"github.com/tuanvumaihuynh/brewery-api/internal/service"
	"github.com/tuanvumaihuynh/brewery-api/internal/storage/db"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running migrate application: %v\n", err)
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
		Migrate  config.Migrate
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	logger.InfoContext(ctx, "starting database migration")

	if err := db.Migrate(pgxPool); err != nil {
		return fmt.Errorf("error migrating database: %w", err)
	}

	logger.InfoContext(ctx, "database migration completed successfully")

	if !cfg.Migrate.Seed {
		return nil
	}

	dbClient := db.NewClient(pgxPool)
	outboxMsgRepository := repository.NewOutboxMsgRepository(dbClient)
	customerService := service.NewCustomerService(dbClient, repository.NewCustomerRepository(dbClient), outboxMsgRepository)
	beerService := service.NewBeerService(dbClient, repository.NewBeerRepository(dbClient), outboxMsgRepository)

	if err := seed.Run(ctx, logger, customerService, beerService); err != nil {
		return fmt.Errorf("error seeding database: %w", err)
	}

	return nil
}
