package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/application"
	types "github.com/Apurer/order-orchestrator/internal/domains/orders/application/types"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
	orderworkflows "github.com/Apurer/order-orchestrator/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderCreationTaskQueue}
}

// CreateOrder starts the creation workflow and waits for its result.
// Requests sharing an idempotency key share one workflow id, so a concurrent retry joins the
// running workflow instead of starting a second one.
func (o *TemporalOrderWorkflows) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*types.CreateOrderResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	traceID := workflowTraceID(ctx)
	workflowID := buildOrderCreationWorkflowID(input)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderCreationWorkflowName,
		orderworkflows.OrderCreationWorkflowInput{Command: input, TraceID: traceID},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) || strings.TrimSpace(input.IdempotencyKey) == "" {
			return nil, fmt.Errorf("%w: start order workflow: %w", application.ErrUpstreamUnavailable, err)
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var result types.CreateOrderResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, restoreWorkflowError(err)
	}
	return &result, nil
}

// InlineOrderWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.Service
}

// NewInlineOrderWorkflows wraps the orders service for synchronous execution.
func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

func (o *InlineOrderWorkflows) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*types.CreateOrderResult, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.CreateOrder(ctx, input)
}

// restoreWorkflowError maps an application error coming out of the workflow back onto the
// application taxonomy. Timeouts become ErrOutcomeUnknown since the order may already be committed.
// Anything else is returned unchanged.
func restoreWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		var timeoutErr *temporal.TimeoutError
		if errors.As(err, &timeoutErr) {
			return fmt.Errorf("%w: %w", application.ErrOutcomeUnknown, err)
		}
		return err
	}
	var detail application.ErrorDetail
	if appErr.HasDetails() {
		_ = appErr.Details(&detail)
	}
	return application.RestoreError(appErr.Type(), appErr.Message(), detail)
}

func buildOrderCreationWorkflowID(input types.CreateOrderInput) string {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return fmt.Sprintf("order-creation-idem-%s", hashIdempotencyKey(input.Owner.ID, key))
	}
	return fmt.Sprintf("order-creation-%s", uuid.NewString())
}

func hashIdempotencyKey(ownerID, key string) string {
	sum := sha256.Sum256([]byte(ownerID + "\x00" + key))
	return hex.EncodeToString(sum[:8])
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.HasTraceID() {
		return ""
	}
	return spanCtx.TraceID().String()
}
