package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	types "github.com/Apurer/order-orchestrator/internal/domains/orders/application/types"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/domain"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

// Service orchestrates the orders bounded context use cases.
type Service struct {
	repo        ports.Repository
	inventory   ports.Inventory
	publisher   ports.EventPublisher
	idempotency ports.IdempotencyStore
	stepLog     ports.StepLog
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
}

// Option configures optional collaborators of the Service.
type Option func(*Service)

// WithIdempotencyStore enables Idempotency-Key replays on create.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithStepLog records every create run in the given step log.
func WithStepLog(log ports.StepLog) Option {
	return func(s *Service) {
		s.stepLog = log
	}
}

// WithLogger sets the logger used for step failures and replays. Nil keeps the discarding default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how order ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository, inventory ports.Inventory, publisher ports.EventPublisher, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		inventory: inventory,
		publisher: publisher,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateOrder validates, prices and persists an order, then consumes stock and announces it.
// Once the order is persisted the call succeeds even if stock adjustments or publishes fail.
func (s *Service) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*types.CreateOrderResult, error) {
	if strings.TrimSpace(input.Owner.ID) == "" {
		return nil, mapError(domain.ErrMissingOwner)
	}
	address, err := validateCreateInput(input)
	if err != nil {
		return nil, mapError(err)
	}

	key := strings.TrimSpace(input.IdempotencyKey)
	if key != "" && s.idempotency != nil {
		requestHash, err := FingerprintCreateOrder(input)
		if err != nil {
			return nil, err
		}
		replayed, err := s.reserve(ctx, input.Owner, key, requestHash)
		if err != nil || replayed != nil {
			return replayed, err
		}
	} else {
		key = ""
	}

	run := newStepRun(s.now)
	runID := uuid.NewString()
	availability, err := s.inventory.CheckAvailability(ctx, distinctProductIDs(input.Items))
	if err != nil {
		run.fail(types.StepCheckAvailability, "", err)
		s.logger.LogAttrs(ctx, slog.LevelWarn, "availability check failed", slog.String("run.id", runID), slog.String("error", err.Error()))
		s.abandon(ctx, runID, input.Owner.ID, key, run)
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	items, err := priceLines(input.Items, availability)
	if err != nil {
		run.fail(types.StepCheckAvailability, rejectedProduct(err), err)
		s.abandon(ctx, runID, input.Owner.ID, key, run)
		return nil, err
	}
	run.succeed(types.StepCheckAvailability, "")

	order, err := domain.NewOrder(s.newID(), input.Owner, items, address, s.now())
	if err != nil {
		run.fail(types.StepPersistOrder, "", err)
		s.abandon(ctx, runID, input.Owner.ID, key, run)
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		run.fail(types.StepPersistOrder, order.ID, err)
		s.abandon(ctx, runID, input.Owner.ID, key, run)
		return nil, fmt.Errorf("persist order: %w", mapError(err))
	}
	run.succeed(types.StepPersistOrder, saved.ID)

	// The order is committed; caller cancellation must not cut the remaining steps short.
	ctx = context.WithoutCancel(ctx)
	if key != "" {
		s.complete(ctx, input.Owner.ID, key, saved.ID)
	}
	s.adjustStock(ctx, run, saved)
	s.publish(ctx, run, ports.ChannelOrderLifecycle, domain.NewOrderCreatedEvent(saved, s.now()))
	s.publish(ctx, run, ports.ChannelNotification, domain.NewOrderConfirmationEvent(saved, s.now()))
	s.appendSteps(ctx, runID, saved.ID, input.Owner.ID, run)

	return &types.CreateOrderResult{Order: saved, Steps: run.results()}, nil
}

// ListOrders returns the caller's orders, newest first.
func (s *Service) ListOrders(ctx context.Context, input types.ListOrdersInput) ([]*domain.Order, error) {
	if strings.TrimSpace(input.Owner.ID) == "" {
		return nil, mapError(domain.ErrMissingOwner)
	}
	orders, err := s.repo.ListByOwner(ctx, input.Owner.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

// GetOrder loads one of the caller's orders. Orders of other owners are reported as not found.
func (s *Service) GetOrder(ctx context.Context, input types.OrderIdentifier) (*domain.Order, error) {
	if strings.TrimSpace(input.Owner.ID) == "" {
		return nil, mapError(domain.ErrMissingOwner)
	}
	orderID := strings.TrimSpace(input.OrderID)
	if orderID == "" {
		return nil, ports.ErrNotFound
	}
	order, err := s.repo.GetForOwner(ctx, input.Owner.ID, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

// UpdateStatus moves an owned order to a new status and announces the change.
func (s *Service) UpdateStatus(ctx context.Context, input types.UpdateStatusInput) (*domain.Order, error) {
	if strings.TrimSpace(input.Owner.ID) == "" {
		return nil, mapError(domain.ErrMissingOwner)
	}
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	orderID := strings.TrimSpace(input.OrderID)
	if orderID == "" {
		return nil, ports.ErrNotFound
	}
	updated, err := s.repo.UpdateStatus(ctx, input.Owner.ID, orderID, status, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(context.WithoutCancel(ctx), nil, ports.ChannelNotification, domain.NewOrderStatusUpdatedEvent(updated, s.now()))
	return updated, nil
}

// reserve claims the key for this run. A non-nil result means an earlier run already produced the order.
func (s *Service) reserve(ctx context.Context, owner domain.Owner, key, requestHash string) (*types.CreateOrderResult, error) {
	record, reserved, err := s.idempotency.Reserve(ctx, ports.IdempotencyRecord{
		OwnerID:     owner.ID,
		Key:         key,
		RequestHash: requestHash,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("reserve idempotency key: %w", err)
	}
	if reserved {
		return nil, nil
	}
	if record.RequestHash != requestHash {
		return nil, fmt.Errorf("%w: key %q was used with a different request", ports.ErrIdempotencyConflict, key)
	}
	if record.Pending() {
		return nil, fmt.Errorf("%w: a request with key %q is still in progress", ports.ErrIdempotencyConflict, key)
	}
	order, err := s.repo.GetForOwner(ctx, owner.ID, record.OrderID)
	if err != nil {
		return nil, mapError(err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "replaying idempotent create", slog.String("order.id", order.ID))
	return &types.CreateOrderResult{Order: order, Replayed: true}, nil
}

func (s *Service) complete(ctx context.Context, ownerID, key, orderID string) {
	if err := s.idempotency.Complete(ctx, ownerID, key, orderID); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to store idempotency key",
			slog.String("order.id", orderID), slog.String("error", err.Error()))
	}
}

// abandon records a run that produced no order and frees its idempotency key for a retry.
func (s *Service) abandon(ctx context.Context, runID, ownerID, key string, run *stepRun) {
	s.appendSteps(ctx, runID, "", ownerID, run)
	if key == "" {
		return
	}
	if err := s.idempotency.Release(context.WithoutCancel(ctx), ownerID, key); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to release idempotency key",
			slog.String("run.id", runID), slog.String("error", err.Error()))
	}
}

func (s *Service) adjustStock(ctx context.Context, run *stepRun, order *domain.Order) {
	for _, item := range order.Items {
		target := strconv.FormatInt(item.ProductID, 10)
		if err := s.inventory.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			run.fail(types.StepAdjustStock, target, err)
			s.logger.LogAttrs(ctx, slog.LevelError, "stock adjustment failed",
				slog.String("order.id", order.ID),
				slog.Int64("product.id", item.ProductID),
				slog.Int("quantity", item.Quantity),
				slog.String("error", err.Error()))
			continue
		}
		run.succeed(types.StepAdjustStock, target)
	}
}

func (s *Service) publish(ctx context.Context, run *stepRun, channel ports.Channel, event domain.Event) {
	err := ports.ErrPublisherUnavailable
	if s.publisher != nil {
		err = s.publisher.Publish(ctx, channel, event)
	}
	if err == nil {
		run.succeed(types.StepPublishEvent, string(event.Type))
		return
	}
	run.fail(types.StepPublishEvent, string(event.Type), err)
	level := slog.LevelError
	if errors.Is(err, ports.ErrPublisherUnavailable) {
		level = slog.LevelWarn
	}
	s.logger.LogAttrs(ctx, level, "event publish failed",
		slog.String("order.id", event.OrderID),
		slog.String("event.type", string(event.Type)),
		slog.String("channel", string(channel)),
		slog.String("error", err.Error()))
}

func (s *Service) appendSteps(ctx context.Context, runID, orderID, ownerID string, run *stepRun) {
	if s.stepLog == nil {
		return
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	var traceID, spanID string
	if spanCtx.IsValid() {
		traceID = spanCtx.TraceID().String()
		spanID = spanCtx.SpanID().String()
	}
	results := run.results()
	entries := make([]ports.StepLogEntry, 0, len(results))
	for _, result := range results {
		entries = append(entries, ports.StepLogEntry{
			RunID:      runID,
			OrderID:    orderID,
			OwnerID:    ownerID,
			StepResult: result,
			TraceID:    traceID,
			SpanID:     spanID,
		})
	}
	if err := s.stepLog.Append(context.WithoutCancel(ctx), entries); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to append step log",
			slog.String("run.id", runID), slog.String("error", err.Error()))
	}
}

func validateCreateInput(input types.CreateOrderInput) (domain.Address, error) {
	if len(input.Items) == 0 {
		return domain.Address{}, domain.ErrEmptyItems
	}
	for _, item := range input.Items {
		if item.ProductID <= 0 {
			return domain.Address{}, fmt.Errorf("%w: %d", domain.ErrInvalidProduct, item.ProductID)
		}
		if item.Quantity < 1 {
			return domain.Address{}, fmt.Errorf("%w: product %d", domain.ErrInvalidQuantity, item.ProductID)
		}
	}
	address := domain.Address{
		Street:  strings.TrimSpace(input.ShippingAddress.Street),
		City:    strings.TrimSpace(input.ShippingAddress.City),
		State:   strings.TrimSpace(input.ShippingAddress.State),
		Zip:     strings.TrimSpace(input.ShippingAddress.Zip),
		Country: strings.TrimSpace(input.ShippingAddress.Country),
	}
	if err := address.Validate(); err != nil {
		return domain.Address{}, err
	}
	return address, nil
}

func distinctProductIDs(lines []types.LineRequest) []int64 {
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	return ids
}

// priceLines checks every line in request order and snapshots name and price from the availability answer.
func priceLines(lines []types.LineRequest, availability map[int64]ports.LineAvailability) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(lines))
	for _, line := range lines {
		avail, ok := availability[line.ProductID]
		if !ok || !avail.Available {
			return nil, &ProductUnavailableError{ProductID: line.ProductID}
		}
		if avail.Stock < line.Quantity {
			return nil, &InsufficientStockError{ProductID: line.ProductID, Available: avail.Stock, Requested: line.Quantity}
		}
		item, err := domain.NewLineItem(line.ProductID, avail.UnitName, line.Quantity, avail.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("price product %d: %w", line.ProductID, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func rejectedProduct(err error) string {
	var stock *InsufficientStockError
	if errors.As(err, &stock) {
		return strconv.FormatInt(stock.ProductID, 10)
	}
	var unavailable *ProductUnavailableError
	if errors.As(err, &unavailable) {
		return strconv.FormatInt(unavailable.ProductID, 10)
	}
	return ""
}

var _ ports.Service = (*Service)(nil)
