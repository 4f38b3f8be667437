package file_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/persistence"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/persistence/file"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/testutil"
)

func newTestPersistence(t *testing.T) *file.Persistence {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	return file.NewPersistence(logger, t.TempDir())
}

func TestWorkflowRepository_SaveAndGet(t *testing.T) {
	p := newTestPersistence(t)
	ctx := context.Background()

	definition := testutil.CreateTestWorkflow(testutil.WithID("wf-roundtrip"))
	definition.Nodes = []*models.Node{testutil.CreateTestNode("start", "start")}
	definition.Variables = map[string]any{"region": "eu-west-1"}

	err := p.WorkflowRepository().Save(ctx, definition)
	require.NoError(t, err)
	assert.False(t, definition.CreatedAt.IsZero())
	assert.False(t, definition.UpdatedAt.IsZero())

	retrieved, err := p.WorkflowRepository().WorkflowByID(ctx, "wf-roundtrip")
	require.NoError(t, err)

	assert.Equal(t, definition.ID, retrieved.ID)
	assert.Equal(t, definition.Name, retrieved.Name)
	assert.Equal(t, definition.Status, retrieved.Status)
	assert.Equal(t, "eu-west-1", retrieved.Variables["region"])
	assert.Len(t, retrieved.Nodes, 1)
}

func TestWorkflowRepository_GetMissing(t *testing.T) {
	p := newTestPersistence(t)

	_, err := p.WorkflowRepository().WorkflowByID(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowRepository_RejectsTraversalID(t *testing.T) {
	p := newTestPersistence(t)
	ctx := context.Background()

	_, err := p.WorkflowRepository().WorkflowByID(ctx, "../escape")
	require.ErrorIs(t, err, persistence.ErrInvalidIdentifier)

	err = p.WorkflowRepository().Save(ctx, testutil.CreateTestWorkflow(testutil.WithID("a/b")))
	require.ErrorIs(t, err, persistence.ErrInvalidIdentifier)
}

func TestWorkflowRepository_SoftDelete(t *testing.T) {
	p := newTestPersistence(t)
	ctx := context.Background()

	definition := testutil.CreateTestWorkflow(testutil.WithID("wf-delete"))
	require.NoError(t, p.WorkflowRepository().Save(ctx, definition))

	err := p.WorkflowRepository().Delete(ctx, "wf-delete")
	require.NoError(t, err)

	_, err = p.WorkflowRepository().WorkflowByID(ctx, "wf-delete")
	assert.True(t, persistence.IsWorkflowNotFound(err))

	// Deleting again, or deleting something that never existed, is a no-op.
	assert.NoError(t, p.WorkflowRepository().Delete(ctx, "wf-delete"))
	assert.NoError(t, p.WorkflowRepository().Delete(ctx, "never-existed"))
}

func TestWorkflowRepository_ListFiltersAndPages(t *testing.T) {
	p := newTestPersistence(t)
	ctx := context.Background()

	for i, spec := range []struct {
		id       string
		status   models.WorkflowStatus
		category string
	}{
		{"wf-a", models.WorkflowStatusActive, "design"},
		{"wf-b", models.WorkflowStatusActive, "etl"},
		{"wf-c", models.WorkflowStatusDraft, "design"},
	} {
		definition := testutil.CreateTestWorkflow(
			testutil.WithID(spec.id),
			testutil.WithStatus(spec.status),
		)
		definition.Category = spec.category
		definition.Name = "Workflow " + spec.id
		definition.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Minute)

		require.NoError(t, p.WorkflowRepository().Save(ctx, definition))
	}

	active := models.WorkflowStatusActive

	result, err := p.WorkflowRepository().ListWorkflows(ctx, persistence.ListWorkflowsOptions{Status: &active})
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalCount)
	assert.False(t, result.HasNextPage)

	result, err = p.WorkflowRepository().ListWorkflows(ctx, persistence.ListWorkflowsOptions{Category: "design"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalCount)

	result, err = p.WorkflowRepository().ListWorkflows(ctx, persistence.ListWorkflowsOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, result.Workflows, 2)
	assert.Equal(t, 3, result.TotalCount)
	assert.True(t, result.HasNextPage)
}

func TestWorkflowRepository_ListSortsByName(t *testing.T) {
	p := newTestPersistence(t)
	ctx := context.Background()

	for _, name := range []string{"charlie", "alpha", "bravo"} {
		definition := testutil.CreateTestWorkflow(testutil.WithID("wf-" + name))
		definition.Name = name

		require.NoError(t, p.WorkflowRepository().Save(ctx, definition))
	}

	result, err := p.WorkflowRepository().ListWorkflows(ctx, persistence.ListWorkflowsOptions{
		SortBy:    "name",
		SortOrder: "asc",
	})
	require.NoError(t, err)
	require.Len(t, result.Workflows, 3)
	assert.Equal(t, "alpha", result.Workflows[0].Name)
	assert.Equal(t, "bravo", result.Workflows[1].Name)
	assert.Equal(t, "charlie", result.Workflows[2].Name)
}

func TestWorkflowRepository_ListRejectsUnknownSortField(t *testing.T) {
	p := newTestPersistence(t)

	_, err := p.WorkflowRepository().ListWorkflows(context.Background(), persistence.ListWorkflowsOptions{
		SortBy: "owner; DROP TABLE workflows",
	})
	require.ErrorIs(t, err, persistence.ErrInvalidSortField)
}

func TestPersistence_HealthCheck(t *testing.T) {
	p := newTestPersistence(t)

	assert.NoError(t, p.HealthCheck(context.Background()))
	assert.NoError(t, p.Close(context.Background()))
}
