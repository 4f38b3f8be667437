package schedule_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/persistence/file"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/testutil"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/triggers/schedule"
)

func newTestScheduler(t *testing.T) (*schedule.Scheduler, *file.Persistence) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	p := file.NewPersistence(logger, t.TempDir())

	return schedule.NewScheduler(p.WorkflowRepository(), logger, time.Hour), p
}

func scheduledWorkflow(id, cronExpr string) *models.WorkflowDefinition {
	return testutil.CreateTestWorkflow(
		testutil.WithID(id),
		testutil.WithStatus(models.WorkflowStatusActive),
		testutil.WithSettings(&models.WorkflowSettings{Schedule: cronExpr}),
	)
}

func TestValidateSpec(t *testing.T) {
	assert.NoError(t, schedule.ValidateSpec("0 9 * * *"))
	assert.NoError(t, schedule.ValidateSpec("@hourly"))
	assert.Error(t, schedule.ValidateSpec(""))
	assert.Error(t, schedule.ValidateSpec("every tuesday"))
}

func TestScheduler_SyncRegistersActiveSchedules(t *testing.T) {
	scheduler, p := newTestScheduler(t)
	ctx := context.Background()

	require.NoError(t, p.WorkflowRepository().Save(ctx, scheduledWorkflow("wf-cron", "0 9 * * *")))
	require.NoError(t, p.WorkflowRepository().Save(ctx, testutil.CreateTestWorkflow(
		testutil.WithID("wf-no-schedule"),
		testutil.WithStatus(models.WorkflowStatusActive),
	)))

	draft := scheduledWorkflow("wf-draft", "0 9 * * *")
	draft.Status = models.WorkflowStatusDraft
	require.NoError(t, p.WorkflowRepository().Save(ctx, draft))

	require.NoError(t, scheduler.Start(ctx, func(context.Context, string) error { return nil }))

	t.Cleanup(func() { _ = scheduler.Stop(ctx) })

	assert.Equal(t, []string{"wf-cron"}, scheduler.ScheduledWorkflows())
}

func TestScheduler_SyncRemovesGoneSchedules(t *testing.T) {
	scheduler, p := newTestScheduler(t)
	ctx := context.Background()

	require.NoError(t, p.WorkflowRepository().Save(ctx, scheduledWorkflow("wf-cron", "@hourly")))
	require.NoError(t, scheduler.Start(ctx, func(context.Context, string) error { return nil }))

	t.Cleanup(func() { _ = scheduler.Stop(ctx) })

	require.Equal(t, []string{"wf-cron"}, scheduler.ScheduledWorkflows())

	require.NoError(t, p.WorkflowRepository().Delete(ctx, "wf-cron"))
	require.NoError(t, scheduler.Sync(ctx))

	assert.Empty(t, scheduler.ScheduledWorkflows())
}

func TestScheduler_SkipsInvalidExpression(t *testing.T) {
	scheduler, p := newTestScheduler(t)
	ctx := context.Background()

	require.NoError(t, p.WorkflowRepository().Save(ctx, scheduledWorkflow("wf-bad", "not a cron")))
	require.NoError(t, scheduler.Start(ctx, func(context.Context, string) error { return nil }))

	t.Cleanup(func() { _ = scheduler.Stop(ctx) })

	assert.Empty(t, scheduler.ScheduledWorkflows())
}

func TestScheduler_FiresCallback(t *testing.T) {
	scheduler, p := newTestScheduler(t)
	ctx := context.Background()

	require.NoError(t, p.WorkflowRepository().Save(ctx, scheduledWorkflow("wf-fast", "@every 100ms")))

	fired := make(chan string, 1)

	require.NoError(t, scheduler.Start(ctx, func(_ context.Context, workflowID string) error {
		select {
		case fired <- workflowID:
		default:
		}

		return nil
	}))

	t.Cleanup(func() { _ = scheduler.Stop(ctx) })

	select {
	case workflowID := <-fired:
		assert.Equal(t, "wf-fast", workflowID)
	case <-time.After(3 * time.Second):
		t.Fatal("schedule did not fire")
	}
}

func TestScheduler_RequiresCallback(t *testing.T) {
	scheduler, _ := newTestScheduler(t)

	err := scheduler.Start(context.Background(), nil)
	assert.Error(t, err)
}
