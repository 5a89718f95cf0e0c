package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	orderserver "github.com/Apurer/order-orchestrator/go"
	ordersworkflows "github.com/Apurer/order-orchestrator/internal/domains/orders/adapters/workflows"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/order-orchestrator/internal/platform/observability"
)

const (
	serviceName     = "order-orchestrator-api"
	shutdownTimeout = 10 * time.Second
)

// Run boots the order HTTP API and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	components, err := BuildOrderComponents(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer components.Close()

	var orderWorkflows ports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(components.Service)
	if temporalClient, err := DialTemporal(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, running order creation inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := orderserver.ApiHandleFunctions{
		OrderAPI:      orderserver.NewOrderAPI(components.Service, orderWorkflows),
		HealthAPI:     orderserver.NewHealthAPI(components.Publisher, components.StoreKind),
		Authenticator: components.Authenticator,
	}
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), otelgin.Middleware(serviceName))
	router := orderserver.NewRouterWithGinEngine(engine, handlers)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("order API listening", slog.String("addr", server.Addr))
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("order API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down order API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
