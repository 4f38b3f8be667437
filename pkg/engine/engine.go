// Package engine drives workflow definitions to completion: it builds the
// dependency graph, walks nodes in topological order through their handlers,
// and maintains the auditable execution record.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/dag"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/eventbus"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/events"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/otelhelper"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/registry"
)

// Engine is the workflow executor facade. One Engine serves many concurrent
// executions; each run owns its Execution record and context.
type Engine struct {
	logger    *slog.Logger
	loader    protocol.DefinitionLoader
	recorder  protocol.ExecutionRecorder
	registry  *registry.Registry
	publisher eventbus.EventPublisher
	tracer    trace.Tracer
	workerID  string
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithEventPublisher makes the engine emit lifecycle events around runs and
// nodes. Publish failures are logged and ignored.
func WithEventPublisher(publisher eventbus.EventPublisher) Option {
	return func(e *Engine) {
		e.publisher = publisher
	}
}

// WithTracer wraps every run in a span.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// WithWorkerID stamps emitted events with the worker identity.
func WithWorkerID(workerID string) Option {
	return func(e *Engine) {
		e.workerID = workerID
	}
}

// New creates an engine.
func New(loader protocol.DefinitionLoader, recorder protocol.ExecutionRecorder, reg *registry.Registry, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		logger:   logger.With("module", "engine"),
		loader:   loader,
		recorder: recorder,
		registry: reg,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ExecuteWorkflow runs a workflow in manual mode.
func (e *Engine) ExecuteWorkflow(ctx context.Context, workflowID, userID string, inputs map[string]any) (*models.Execution, error) {
	return e.ExecuteWorkflowWithMode(ctx, workflowID, userID, inputs, models.ExecutionModeManual)
}

// ExecuteWorkflowWithMode runs a workflow to completion and returns the full
// execution record regardless of outcome. A non-nil error is returned only
// for definition failures raised before the record exists: workflow not
// found, malformed edges, or a cycle.
func (e *Engine) ExecuteWorkflowWithMode(ctx context.Context, workflowID, userID string, inputs map[string]any, mode models.ExecutionMode) (*models.Execution, error) {
	logger := e.logger.With("workflow_id", workflowID)
	logger.InfoContext(ctx, "starting workflow execution", "mode", mode)

	definition, err := e.loader.WorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, models.NewDefinitionError(workflowID, "workflow not found", err)
	}

	graph, err := dag.Build(definition.Nodes, definition.Edges)
	if err != nil {
		return nil, models.NewDefinitionError(workflowID, err.Error(), err)
	}

	execution := models.NewExecution(workflowID, definition.Version, userID, mode, inputs)
	execution.SeedContext(definition)

	logger = logger.With("execution_id", execution.ID)

	if e.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, e.tracer, "workflow.execute",
			attribute.String(otelhelper.WorkflowIDKey, workflowID),
			attribute.String(otelhelper.ExecutionIDKey, execution.ID),
			attribute.String(otelhelper.UserIDKey, userID),
			attribute.String(otelhelper.ModeKey, string(mode)),
		)
		defer span.End()

		defer func() {
			if execution.Status == models.ExecutionStatusFailed {
				otelhelper.SetError(span, errors.New(execution.Error))
			}
		}()
	}

	if err := e.recorder.CreateExecution(ctx, execution); err != nil {
		perr := models.NewPersistenceError("create", execution.ID, err)
		logger.WarnContext(ctx, "failed to persist execution record", "error", perr)
	}

	execution.Status = models.ExecutionStatusRunning
	execution.AppendLog(models.LogLevelInfo, fmt.Sprintf("workflow '%s' started", definition.Name))

	e.publish(ctx, workflowID, events.ExecutionStarted{
		BaseEvent:   e.baseEvent(events.ExecutionStartedEvent, workflowID),
		ExecutionID: execution.ID,
		UserID:      userID,
		Mode:        string(mode),
	})

	runCtx := ctx

	if definition.Settings != nil && definition.Settings.ExecutionTimeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, time.Duration(definition.Settings.ExecutionTimeout)*time.Second)
		defer cancel()
	}

	runErr := e.runNodes(runCtx, definition, graph, execution)

	execution.Finalize()

	// A handler interrupted by the run deadline surfaces as a failed node;
	// report the more precise terminal status.
	switch {
	case errors.Is(runErr, context.DeadlineExceeded):
		execution.Status = models.ExecutionStatusTimeout
	case errors.Is(runErr, context.Canceled):
		execution.Status = models.ExecutionStatusCancelled
	}

	if runErr != nil {
		execution.AppendLog(models.LogLevelError, "workflow execution aborted: "+runErr.Error())
	} else {
		execution.AppendLog(models.LogLevelInfo,
			fmt.Sprintf("workflow finished with status %s in %dms", execution.Status, execution.Metrics.TotalDuration))
	}

	e.persistProgress(ctx, execution)

	if execution.Status == models.ExecutionStatusCompleted {
		e.publish(ctx, workflowID, events.ExecutionCompleted{
			BaseEvent:   e.baseEvent(events.ExecutionCompletedEvent, workflowID),
			ExecutionID: execution.ID,
			Outputs:     execution.Outputs,
			DurationMs:  execution.Metrics.TotalDuration,
		})
	} else {
		e.publish(ctx, workflowID, events.ExecutionFailed{
			BaseEvent:   e.baseEvent(events.ExecutionFailedEvent, workflowID),
			ExecutionID: execution.ID,
			Error:       execution.Error,
			FailedNodes: execution.FailedNodes,
			DurationMs:  execution.Metrics.TotalDuration,
		})
	}

	logger.InfoContext(ctx, "workflow execution finished",
		"status", execution.Status,
		"completed_nodes", len(execution.CompletedNodes),
		"failed_nodes", len(execution.FailedNodes),
		"duration_ms", execution.Metrics.TotalDuration,
	)

	return execution, nil
}

func (e *Engine) baseEvent(eventType events.EventType, workflowID string) events.BaseEvent {
	base := events.NewBaseEvent(eventType, workflowID)
	base.WorkerID = e.workerID

	return base
}

func (e *Engine) publish(ctx context.Context, key string, event eventbus.Event) {
	if e.publisher == nil {
		return
	}

	if err := e.publisher.Publish(ctx, key, event); err != nil {
		e.logger.WarnContext(ctx, "failed to publish event", "event_type", event.GetType(), "error", err)
	}
}

func (e *Engine) persistProgress(ctx context.Context, execution *models.Execution) {
	execution.UpdatedAt = time.Now().UTC()

	if err := e.recorder.UpdateExecution(ctx, execution); err != nil {
		perr := models.NewPersistenceError("update", execution.ID, err)
		e.logger.WarnContext(ctx, "failed to persist execution progress", "error", perr)
	}
}
