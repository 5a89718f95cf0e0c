package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	platformkafka "github.com/Apurer/order-orchestrator/internal/platform/kafka"
)

const (
	defaultInventoryURL = "http://product-service:3002"
	defaultIdentityURL  = "http://user-service:3001"
)

// Config carries environment-driven settings for the API, worker and purger processes.
type Config struct {
	Port        string
	PostgresDSN string
	RedisAddr   string

	KafkaBrokers            []string
	OrderEventsTopic        string
	NotificationEventsTopic string
	PublisherReconnect      time.Duration

	InventoryServiceURL string
	IdentityServiceURL  string
	UpstreamTimeout     time.Duration

	IdempotencyTTL   time.Duration
	StepLogRetention time.Duration

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:                    envDefault("PORT", "8080"),
		PostgresDSN:             strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:               strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		KafkaBrokers:            platformkafka.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		OrderEventsTopic:        envDefault("ORDER_EVENTS_TOPIC", "order_events"),
		NotificationEventsTopic: envDefault("NOTIFICATION_EVENTS_TOPIC", "notification_events"),
		InventoryServiceURL:     envDefault("INVENTORY_SERVICE_URL", defaultInventoryURL),
		IdentityServiceURL:      envDefault("IDENTITY_SERVICE_URL", defaultIdentityURL),
		TemporalAddress:         envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:       envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:        isTruthy(os.Getenv("TEMPORAL_DISABLED")),
	}

	var err error
	if cfg.PublisherReconnect, err = positiveDuration("PUBLISHER_RECONNECT_SECONDS", 5, time.Second); err != nil {
		return Config{}, err
	}
	if cfg.UpstreamTimeout, err = positiveDuration("UPSTREAM_TIMEOUT_SECONDS", 5, time.Second); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = positiveDuration("IDEMPOTENCY_TTL_HOURS", 24, time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.StepLogRetention, err = positiveDuration("STEP_LOG_RETENTION_DAYS", 30, 24*time.Hour); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func positiveDuration(key string, fallback int, unit time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return time.Duration(fallback) * unit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return time.Duration(n) * unit, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
