// Package main provides the aiflow worker: it consumes execution requests
// from the event bus and the redis queue and runs them through the engine.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/engine"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/eventbus"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/events"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/persistence"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/registry"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/triggers/queue"
)

type WorkerManager struct {
	id       string
	logger   *slog.Logger
	eventBus eventbus.EventBus
	consumer *queue.Consumer
	engine   *engine.Engine
}

func NewWorkerManager(
	id string,
	p persistence.Persistence,
	eventBus eventbus.EventBus,
	consumer *queue.Consumer,
	reg *registry.Registry,
	logger *slog.Logger,
) *WorkerManager {
	eng := engine.New(
		p.WorkflowRepository(),
		p.ExecutionRepository(),
		reg,
		logger,
		engine.WithEventPublisher(eventBus),
		engine.WithWorkerID(id),
	)

	return &WorkerManager{
		id:       id,
		logger:   logger.With("module", "aiflow-worker"),
		eventBus: eventBus,
		consumer: consumer,
		engine:   eng,
	}
}

// Start subscribes to both intake channels and blocks until SIGINT/SIGTERM.
func (w *WorkerManager) Start(ctx context.Context) error {
	w.logger.InfoContext(ctx, "starting worker manager")

	err := w.eventBus.Handle(events.ExecutionRequestedEvent, w.handleExecutionRequested)
	if err != nil {
		return err
	}

	if err := w.eventBus.Subscribe(ctx); err != nil {
		w.logger.ErrorContext(ctx, "failed to subscribe to event bus", "error", err)

		return err
	}

	if err := w.consumer.Start(ctx, w.handleQueueRequest); err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "worker started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	w.logger.InfoContext(ctx, "shutting down worker")

	return w.consumer.Stop(ctx)
}

func (w *WorkerManager) handleExecutionRequested(ctx context.Context, event any) error {
	requested, ok := event.(*events.ExecutionRequested)
	if !ok {
		w.logger.ErrorContext(ctx, "invalid event type for ExecutionRequested")

		return nil
	}

	mode := models.ExecutionMode(requested.Mode)
	if mode == "" {
		mode = models.ExecutionModeTrigger
	}

	return w.run(ctx, requested.WorkflowID, requested.UserID, requested.Inputs, mode)
}

func (w *WorkerManager) handleQueueRequest(ctx context.Context, request queue.Request) error {
	mode := models.ExecutionMode(request.Mode)
	if mode == "" {
		mode = models.ExecutionModeTrigger
	}

	return w.run(ctx, request.WorkflowID, request.UserID, request.Inputs, mode)
}

// run executes one workflow. The engine returns an error only for definition
// failures; a FAILED run still yields a full record.
func (w *WorkerManager) run(ctx context.Context, workflowID, userID string, inputs map[string]any, mode models.ExecutionMode) error {
	logger := w.logger.With("workflow_id", workflowID)
	logger.InfoContext(ctx, "processing execution request", "mode", mode)

	execution, err := w.engine.ExecuteWorkflowWithMode(ctx, workflowID, userID, inputs, mode)
	if err != nil {
		logger.ErrorContext(ctx, "failed to execute workflow", "error", err)

		return err
	}

	logger.InfoContext(ctx, "execution finished",
		"execution_id", execution.ID,
		"status", execution.Status,
		"duration_ms", execution.Metrics.TotalDuration)

	return nil
}
