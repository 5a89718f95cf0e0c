package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/application"
	types "github.com/Apurer/order-orchestrator/internal/domains/orders/application/types"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/domain"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/order-orchestrator/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*types.CreateOrderResult, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder", trace.WithAttributes(
		attribute.String("owner.id", input.Owner.ID),
		attribute.Int("order.line_count", len(input.Items)),
		attribute.Bool("order.idempotent", input.IdempotencyKey != ""),
	))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.String("owner.id", input.Owner.ID), slog.Int("order.line_count", len(input.Items)))
	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		s.metrics.recordRejection(ctx, err)
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.String("owner.id", input.Owner.ID))
	}
	failed := result.FailedSteps()
	span.SetAttributes(
		attribute.String("order.id", result.Order.ID),
		attribute.String("order.total", result.Order.TotalAmount.StringFixed(2)),
		attribute.Bool("order.replayed", result.Replayed),
		attribute.Int("order.failed_steps", len(failed)),
	)
	s.metrics.recordCreated(ctx, result.Replayed)
	level := slog.LevelInfo
	if len(failed) > 0 {
		level = slog.LevelWarn
	}
	s.log(ctx, level, "order created",
		slog.String("order.id", result.Order.ID),
		slog.String("order.total", result.Order.TotalAmount.StringFixed(2)),
		slog.Bool("order.replayed", result.Replayed),
		slog.Int("order.failed_steps", len(failed)))
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, input types.ListOrdersInput) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders", trace.WithAttributes(attribute.String("owner.id", input.Owner.ID)))
	defer span.End()

	result, err := s.inner.ListOrders(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.String("owner.id", input.Owner.ID))
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, input types.OrderIdentifier) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.String("order.id", input.OrderID)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", input.OrderID))
	}
	return result, nil
}

func (s *Service) UpdateStatus(ctx context.Context, input types.UpdateStatusInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateStatus", trace.WithAttributes(
		attribute.String("order.id", input.OrderID),
		attribute.String("order.status", input.Status),
	))
	defer span.End()

	s.logInfo(ctx, "updating order status", slog.String("order.id", input.OrderID), slog.String("status", input.Status))
	result, err := s.inner.UpdateStatus(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.String("order.id", input.OrderID))
	}
	s.metrics.recordStatusUpdate(ctx, result.Status)
	s.logInfo(ctx, "order status updated", slog.String("order.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.log(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	code, _ := application.ClassifyError(err)
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("error.code", code))
	}
	attrs = append(attrs, slog.String("error", err.Error()), slog.String("error.code", code))
	level := slog.LevelWarn
	if code == application.CodeInternal || code == application.CodeUpstreamUnavailable {
		level = slog.LevelError
	}
	s.log(ctx, level, msg, attrs...)
	return err
}

type serviceMetrics struct {
	ordersCreated metric.Int64Counter
	statusUpdates metric.Int64Counter
	rejections    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.service.orders_created", metric.WithDescription("Number of orders created"))
	statusUpdates, _ := m.Int64Counter("orders.service.status_updates", metric.WithDescription("Number of order status updates"))
	rejections, _ := m.Int64Counter("orders.service.rejections", metric.WithDescription("Number of rejected create requests"))
	return serviceMetrics{ordersCreated: ordersCreated, statusUpdates: statusUpdates, rejections: rejections}
}

func (m serviceMetrics) recordCreated(ctx context.Context, replayed bool) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1, metric.WithAttributes(attribute.Bool("order.replayed", replayed)))
	}
}

func (m serviceMetrics) recordStatusUpdate(ctx context.Context, status domain.Status) {
	if m.statusUpdates != nil {
		m.statusUpdates.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordRejection(ctx context.Context, err error) {
	if m.rejections != nil {
		code, _ := application.ClassifyError(err)
		m.rejections.Add(ctx, 1, metric.WithAttributes(attribute.String("error.code", code)))
	}
}

var _ ports.Service = (*Service)(nil)
