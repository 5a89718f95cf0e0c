package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/domain"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
	platformkafka "github.com/Apurer/order-orchestrator/internal/platform/kafka"
)

type recordingWriter struct {
	messages []kafkago.Message
	err      error
}

func (w *recordingWriter) Write(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

var testTopics = Topics{OrderLifecycle: "order_events", Notification: "notification_events"}

func sampleOrder(t *testing.T) *domain.Order {
	t.Helper()
	item, err := domain.NewLineItem(1, "Laptop", 2, decimal.RequireFromString("799.99"))
	require.NoError(t, err)
	order, err := domain.NewOrder("order-1", domain.Owner{ID: "user-1", Contact: "alice@example.com"}, []domain.LineItem{item},
		domain.Address{Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62701", Country: "US"},
		time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return order
}

func header(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublish_CreatedEventWireShape(t *testing.T) {
	writer := &recordingWriter{}
	publisher := NewPublisher(writer, testTopics, nil)
	order := sampleOrder(t)
	at := time.Date(2024, 6, 1, 9, 0, 1, 0, time.UTC)

	require.NoError(t, publisher.Publish(context.Background(), ports.ChannelOrderLifecycle, domain.NewOrderCreatedEvent(order, at)))
	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	require.Equal(t, "order_events", msg.Topic)
	require.Equal(t, "order-1", string(msg.Key))
	require.Equal(t, "ORDER_CREATED", header(msg, "event_type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	require.Equal(t, "ORDER_CREATED", body["type"])
	require.Equal(t, "order-1", body["orderId"])
	require.Equal(t, "user-1", body["userId"])
	require.Equal(t, "alice@example.com", body["userEmail"])
	require.Equal(t, 1599.98, body["totalAmount"])
	require.Equal(t, "2024-06-01T09:00:01Z", body["timestamp"])
	require.NotContains(t, body, "newStatus")
}

func TestPublish_StatusEventGoesToNotificationTopic(t *testing.T) {
	writer := &recordingWriter{}
	publisher := NewPublisher(writer, testTopics, nil)
	order := sampleOrder(t)
	require.NoError(t, order.UpdateStatus(domain.StatusShipped, time.Now()))

	require.NoError(t, publisher.Publish(context.Background(), ports.ChannelNotification, domain.NewOrderStatusUpdatedEvent(order, time.Now())))
	msg := writer.messages[0]
	require.Equal(t, "notification_events", msg.Topic)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	require.Equal(t, "ORDER_STATUS_UPDATED", body["type"])
	require.Equal(t, "shipped", body["newStatus"])
	require.NotContains(t, body, "totalAmount")
}

func TestPublish_NotConnectedIsSoftFailure(t *testing.T) {
	writer := &recordingWriter{err: platformkafka.ErrNotConnected}
	publisher := NewPublisher(writer, testTopics, nil)

	err := publisher.Publish(context.Background(), ports.ChannelOrderLifecycle, domain.NewOrderCreatedEvent(sampleOrder(t), time.Now()))
	require.ErrorIs(t, err, ports.ErrPublisherUnavailable)
}

func TestPublish_WriteErrorIsReturned(t *testing.T) {
	writer := &recordingWriter{err: errors.New("leader not available")}
	publisher := NewPublisher(writer, testTopics, nil)

	err := publisher.Publish(context.Background(), ports.ChannelOrderLifecycle, domain.NewOrderCreatedEvent(sampleOrder(t), time.Now()))
	require.Error(t, err)
	require.NotErrorIs(t, err, ports.ErrPublisherUnavailable)
}

func TestPublish_UnknownChannel(t *testing.T) {
	publisher := NewPublisher(&recordingWriter{}, Topics{OrderLifecycle: "order_events"}, nil)
	err := publisher.Publish(context.Background(), ports.ChannelNotification, domain.NewOrderConfirmationEvent(sampleOrder(t), time.Now()))
	require.Error(t, err)
}

func TestPublish_PropagatesTraceContext(t *testing.T) {
	previous := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(previous) })

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	writer := &recordingWriter{}
	publisher := NewPublisher(writer, testTopics, nil)
	require.NoError(t, publisher.Publish(ctx, ports.ChannelOrderLifecycle, domain.NewOrderCreatedEvent(sampleOrder(t), time.Now())))

	msg := writer.messages[0]
	require.Equal(t, "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", header(msg, "traceparent"))
}
