package ports

import (
	"context"
	"errors"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/domain"
)

// ErrPublisherUnavailable reports a soft publish failure: the broker is not connected right now.
var ErrPublisherUnavailable = errors.New("event publisher unavailable")

// Channel is a logical destination for order events.
type Channel string

const (
	ChannelOrderLifecycle Channel = "order-lifecycle"
	ChannelNotification   Channel = "notification-trigger"
)

// EventPublisher delivers events at least once. Implementations must not block on a missing broker.
type EventPublisher interface {
	Publish(ctx context.Context, channel Channel, event domain.Event) error
}

// PublisherStatus exposes the connection state for health reporting.
type PublisherStatus interface {
	State() string
}
