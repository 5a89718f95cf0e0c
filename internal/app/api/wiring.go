package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	identityclient "github.com/Apurer/order-orchestrator/internal/clients/http/identity"
	inventoryclient "github.com/Apurer/order-orchestrator/internal/clients/http/inventory"
	identityadapter "github.com/Apurer/order-orchestrator/internal/domains/orders/adapters/external/identity"
	inventoryadapter "github.com/Apurer/order-orchestrator/internal/domains/orders/adapters/external/inventory"
	ordersmemory "github.com/Apurer/order-orchestrator/internal/domains/orders/adapters/memory"
	ordersmessaging "github.com/Apurer/order-orchestrator/internal/domains/orders/adapters/messaging"
	ordersobs "github.com/Apurer/order-orchestrator/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/order-orchestrator/internal/domains/orders/adapters/persistence/postgres"
	ordersredis "github.com/Apurer/order-orchestrator/internal/domains/orders/adapters/redis"
	ordersapp "github.com/Apurer/order-orchestrator/internal/domains/orders/application"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
	platformkafka "github.com/Apurer/order-orchestrator/internal/platform/kafka"
	"github.com/Apurer/order-orchestrator/internal/platform/migrations"
	platformobservability "github.com/Apurer/order-orchestrator/internal/platform/observability"
	platformpostgres "github.com/Apurer/order-orchestrator/internal/platform/postgres"
	platformredis "github.com/Apurer/order-orchestrator/internal/platform/redis"
)

const (
	storeMemory   = "memory"
	storePostgres = "postgres"
)

// Components is the order service graph shared by the API and the worker.
type Components struct {
	Service       ports.Service
	Authenticator ports.Authenticator
	Publisher     ports.PublisherStatus
	StepLog       ports.StepLog
	StoreKind     string

	cleanups []func()
}

// Close releases connections in reverse order of acquisition.
func (c *Components) Close() {
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}
	c.cleanups = nil
}

func (c *Components) onClose(fn func()) {
	c.cleanups = append(c.cleanups, fn)
}

// BuildOrderComponents connects storage, the broker and upstream clients and assembles the order service.
// Storage falls back to memory when Postgres is absent; the broker connection is retried in the background.
func BuildOrderComponents(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Components, error) {
	logger := instruments.Logger
	components := &Components{StoreKind: storeMemory}

	var (
		repo        ports.Repository       = ordersmemory.NewRepository()
		stepLog     ports.StepLog          = ordersmemory.NewStepLog()
		idempotency ports.IdempotencyStore = ordersmemory.NewIdempotencyStore()
	)
	db, cleanupDB := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	components.onClose(cleanupDB)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			components.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		repo = orderspostgres.NewRepository(db)
		stepLog = orderspostgres.NewStepLog(db)
		idempotency = orderspostgres.NewIdempotencyStore(db)
		components.StoreKind = storePostgres
		logger.Info("order store configured with postgres")
	}
	if redisClient, cleanupRedis := platformredis.ConnectOptional(ctx, cfg.RedisAddr, logger); redisClient != nil {
		components.onClose(cleanupRedis)
		idempotency = ordersredis.NewIdempotencyStore(redisClient, cfg.IdempotencyTTL)
		logger.Info("idempotency keys stored in redis", slog.Duration("ttl", cfg.IdempotencyTTL))
	}
	components.StepLog = stepLog

	manager := platformkafka.NewManager(cfg.KafkaBrokers,
		platformkafka.WithBackoff(cfg.PublisherReconnect),
		platformkafka.WithLogger(logger),
	)
	if len(cfg.KafkaBrokers) > 0 {
		manager.Start(ctx)
		components.onClose(func() { _ = manager.Close() })
	} else {
		logger.Warn("KAFKA_BROKERS not set, order events will not be published")
	}
	components.Publisher = managerStatus{manager: manager}
	publisher := ordersmessaging.NewPublisher(manager, ordersmessaging.Topics{
		OrderLifecycle: cfg.OrderEventsTopic,
		Notification:   cfg.NotificationEventsTopic,
	}, logger)

	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	inventoryClient, err := inventoryclient.NewClient(cfg.InventoryServiceURL, httpClient)
	if err != nil {
		components.Close()
		return nil, err
	}
	identityClient, err := identityclient.NewClient(cfg.IdentityServiceURL, httpClient)
	if err != nil {
		components.Close()
		return nil, err
	}
	components.Authenticator = identityadapter.NewAuthenticator(identityClient)

	core := ordersapp.NewService(repo, inventoryadapter.NewInventory(inventoryClient), publisher,
		ordersapp.WithIdempotencyStore(idempotency),
		ordersapp.WithStepLog(stepLog),
		ordersapp.WithLogger(logger),
	)
	components.Service = ordersobs.New(core,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return components, nil
}

type managerStatus struct {
	manager *platformkafka.Manager
}

func (s managerStatus) State() string {
	return s.manager.State().String()
}
