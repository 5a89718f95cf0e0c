package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/order-orchestrator/internal/app/api"
	orderspostgres "github.com/Apurer/order-orchestrator/internal/domains/orders/adapters/persistence/postgres"
	platformobservability "github.com/Apurer/order-orchestrator/internal/platform/observability"
	platformpostgres "github.com/Apurer/order-orchestrator/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := slog.New(platformobservability.NewContextHandler(slog.NewTextHandler(os.Stdout, nil)))
	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge step log")
	}

	cutoff := time.Now().UTC().Add(-cfg.StepLogRetention)
	removed, err := orderspostgres.NewStepLog(db).PurgeOlderThan(ctx, cutoff)
	if err != nil {
		log.Fatalf("failed to purge step log: %v", err)
	}
	logger.Info("step log purge completed", slog.Time("cutoff", cutoff), slog.Int64("removed", removed))
}
