// Package schedule runs cron schedules for active workflow definitions.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/persistence"
)

// Callback fires one scheduled run of a workflow.
type Callback func(ctx context.Context, workflowID string) error

// DefaultSyncInterval is how often the scheduler re-reads the definitions.
const DefaultSyncInterval = time.Minute

type entry struct {
	id   cron.EntryID
	expr string
}

// Scheduler watches active definitions carrying a cron schedule and fires
// the callback on their schedule. Definitions are re-synced periodically so
// edits take effect without a restart.
type Scheduler struct {
	workflows    persistence.WorkflowRepository
	logger       *slog.Logger
	syncInterval time.Duration

	callback Callback
	cron     *cron.Cron
	stopCh   chan struct{}
	wg       sync.WaitGroup

	mu      sync.Mutex
	entries map[string]entry
}

// NewScheduler creates a scheduler over the workflow store.
func NewScheduler(workflows persistence.WorkflowRepository, logger *slog.Logger, syncInterval time.Duration) *Scheduler {
	if syncInterval <= 0 {
		syncInterval = DefaultSyncInterval
	}

	return &Scheduler{
		workflows:    workflows,
		logger:       logger.With("module", "scheduler"),
		syncInterval: syncInterval,
		stopCh:       make(chan struct{}),
		entries:      make(map[string]entry),
	}
}

// ValidateSpec reports whether a cron expression is acceptable.
func ValidateSpec(expr string) error {
	if expr == "" {
		return errors.New("cron expression is required")
	}

	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	return nil
}

// Start syncs once, then keeps the schedule set in step with the store.
func (s *Scheduler) Start(ctx context.Context, callback Callback) error {
	if callback == nil {
		return errors.New("scheduler callback is required")
	}

	s.logger.InfoContext(ctx, "starting scheduler", "sync_interval", s.syncInterval)
	s.callback = callback

	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	if err := s.Sync(ctx); err != nil {
		return err
	}

	s.cron.Start()

	s.wg.Add(1)

	go s.syncLoop(ctx)

	return nil
}

func (s *Scheduler) syncLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sync(ctx); err != nil {
				s.logger.ErrorContext(ctx, "schedule sync failed", "error", err)
			}
		}
	}
}

// Sync reconciles the cron entry set against the stored active definitions:
// new schedules are added, changed expressions re-registered, gone ones
// removed.
func (s *Scheduler) Sync(ctx context.Context) error {
	active := models.WorkflowStatusActive

	result, err := s.workflows.ListWorkflows(ctx, persistence.ListWorkflowsOptions{Status: &active})
	if err != nil {
		return fmt.Errorf("failed to list schedulable workflows: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(result.Workflows))

	for _, definition := range result.Workflows {
		if !definition.HasSchedule() {
			continue
		}

		expr := definition.Settings.Schedule
		seen[definition.ID] = struct{}{}

		existing, registered := s.entries[definition.ID]
		if registered && existing.expr == expr {
			continue
		}

		if registered {
			s.cron.Remove(existing.id)
		}

		if err := ValidateSpec(expr); err != nil {
			s.logger.WarnContext(ctx, "skipping workflow with invalid schedule",
				"workflow_id", definition.ID, "error", err)
			delete(s.entries, definition.ID)

			continue
		}

		workflowID := definition.ID

		entryID, err := s.cron.AddFunc(expr, func() { s.fire(workflowID) })
		if err != nil {
			s.logger.WarnContext(ctx, "failed to register schedule",
				"workflow_id", definition.ID, "error", err)

			continue
		}

		s.entries[definition.ID] = entry{id: entryID, expr: expr}
		s.logger.InfoContext(ctx, "schedule registered", "workflow_id", definition.ID, "cron", expr)
	}

	for workflowID, registered := range s.entries {
		if _, ok := seen[workflowID]; !ok {
			s.cron.Remove(registered.id)
			delete(s.entries, workflowID)
			s.logger.InfoContext(ctx, "schedule removed", "workflow_id", workflowID)
		}
	}

	return nil
}

func (s *Scheduler) fire(workflowID string) {
	s.logger.Info("schedule fired", "workflow_id", workflowID)

	if err := s.callback(context.Background(), workflowID); err != nil {
		s.logger.Error("scheduled run failed", "workflow_id", workflowID, "error", err)
	}
}

// ScheduledWorkflows returns the ids with a registered cron entry, sorted.
func (s *Scheduler) ScheduledWorkflows() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.entries))
	for workflowID := range s.entries {
		ids = append(ids, workflowID)
	}

	sort.Strings(ids)

	return ids
}

// Stop halts the sync loop and the cron runner, waiting for in-flight jobs.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.InfoContext(ctx, "stopping scheduler")

	close(s.stopCh)
	s.wg.Wait()

	if s.cron != nil {
		<-s.cron.Stop().Done()
	}

	return nil
}
