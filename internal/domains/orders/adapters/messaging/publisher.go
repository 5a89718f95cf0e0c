package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/domain"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
	platformkafka "github.com/Apurer/order-orchestrator/internal/platform/kafka"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// MessageWriter is satisfied by the platform kafka connection manager.
type MessageWriter interface {
	Write(ctx context.Context, msgs ...kafkago.Message) error
}

// Topics maps the logical channels to broker topics.
type Topics struct {
	OrderLifecycle string
	Notification   string
}

// Publisher writes order events to Kafka, one message per event keyed by order id.
type Publisher struct {
	writer MessageWriter
	topics map[ports.Channel]string
	logger *slog.Logger
}

// NewPublisher wires the publisher to a connection-managed writer.
func NewPublisher(writer MessageWriter, topics Topics, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Publisher{
		writer: writer,
		topics: map[ports.Channel]string{
			ports.ChannelOrderLifecycle: topics.OrderLifecycle,
			ports.ChannelNotification:   topics.Notification,
		},
		logger: logger,
	}
}

// EventMessage is the JSON wire shape shared with downstream consumers.
type EventMessage struct {
	Type        string      `json:"type"`
	OrderID     string      `json:"orderId"`
	UserID      string      `json:"userId"`
	UserEmail   string      `json:"userEmail"`
	TotalAmount json.Number `json:"totalAmount,omitempty"`
	NewStatus   string      `json:"newStatus,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}

// ToMessage converts a domain event to its wire shape.
func ToMessage(event domain.Event) EventMessage {
	msg := EventMessage{
		Type:      string(event.Type),
		OrderID:   event.OrderID,
		UserID:    event.Owner.ID,
		UserEmail: event.Owner.Contact,
		NewStatus: string(event.NewStatus),
		Timestamp: event.Timestamp.UTC(),
	}
	if event.TotalAmount != nil {
		msg.TotalAmount = json.Number(event.TotalAmount.StringFixed(2))
	}
	return msg
}

// Publish sends the event synchronously so events of one run keep their order on a topic.
func (p *Publisher) Publish(ctx context.Context, channel ports.Channel, event domain.Event) error {
	topic, ok := p.topics[channel]
	if !ok || topic == "" {
		return fmt.Errorf("no topic configured for channel %q", channel)
	}
	payload, err := json.Marshal(ToMessage(event))
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}
	msg := kafkago.Message{
		Topic:   topic,
		Key:     []byte(event.OrderID),
		Value:   payload,
		Headers: injectTraceHeaders(ctx, []kafkago.Header{{Key: "event_type", Value: []byte(event.Type)}}),
	}
	if err := p.writer.Write(ctx, msg); err != nil {
		if errors.Is(err, platformkafka.ErrNotConnected) {
			p.logger.LogAttrs(ctx, slog.LevelWarn, "broker not connected, event dropped",
				slog.String("event.type", string(event.Type)),
				slog.String("order.id", event.OrderID),
				slog.String("topic", topic))
			return fmt.Errorf("%w: %w", ports.ErrPublisherUnavailable, err)
		}
		return fmt.Errorf("publish %s to %s: %w", event.Type, topic, err)
	}
	p.logger.LogAttrs(ctx, slog.LevelDebug, "event published",
		slog.String("event.type", string(event.Type)),
		slog.String("order.id", event.OrderID),
		slog.String("topic", topic))
	return nil
}

func injectTraceHeaders(ctx context.Context, headers []kafkago.Header) []kafkago.Header {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		headers = append(headers, kafkago.Header{Key: k, Value: []byte(v)})
	}
	return headers
}
