package postgresql_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/persistence"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/persistence/postgresql"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/testutil"
)

var postgresContainer *postgres.PostgresContainer

func dropDb(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	for _, table := range []string{"executions", "workflows", "schema_migrations"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	err = db.Close()
	require.NoError(t, err)
}

func setupTestDB(t *testing.T) (*postgresql.Persistence, context.Context, string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("aiflow_test"),
			postgres.WithUsername("aiflow"),
			postgres.WithPassword("aiflow"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDb(ctx, t, databaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDb(ctx, t, databaseURL)

		err = p.Close(ctx)
		require.NoError(t, err)

		cancel()
	})

	return p, ctx, databaseURL
}

func TestNewPersistence_Migrations(t *testing.T) {
	_, ctx, databaseURL := setupTestDB(t)

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer func() {
		err := db.Close()
		require.NoError(t, err)
	}()

	var exists bool

	for _, table := range []string{"workflows", "executions", "schema_migrations"} {
		err = db.QueryRowContext(ctx, `SELECT EXISTS (SELECT FROM
information_schema.tables WHERE table_name = $1)`, table).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, table+" table should exist")
	}

	var version int

	err = db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestNewPersistence_HealthCheck(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	err := p.HealthCheck(ctx)
	assert.NoError(t, err)
}

func TestWorkflowRepository_SaveAndRetrieve(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	definition := testutil.CreateTestWorkflow(
		testutil.WithID(""),
		testutil.WithVariables(map[string]any{"region": "eu-west-1", "retries": float64(3)}),
		testutil.WithSettings(&models.WorkflowSettings{ExecutionTimeout: 300, Schedule: "0 9 * * *"}),
		testutil.WithNodes(
			testutil.CreateTestNode("start", "start"),
			testutil.CreateTestNode("ask", "ai_processing", testutil.WithParameters(map[string]any{
				"prompt": "Summarize {input}",
			})),
			testutil.CreateTestNode("end", "end"),
		),
		testutil.WithEdges(testutil.Edge("start", "ask"), testutil.Edge("ask", "end")),
	)

	err := p.WorkflowRepository().Save(ctx, definition)
	require.NoError(t, err)
	assert.NotEmpty(t, definition.ID)
	assert.False(t, definition.CreatedAt.IsZero())

	retrieved, err := p.WorkflowRepository().WorkflowByID(ctx, definition.ID)
	require.NoError(t, err)

	assert.Equal(t, definition.Name, retrieved.Name)
	assert.Equal(t, definition.Status, retrieved.Status)
	assert.Equal(t, "eu-west-1", retrieved.Variables["region"])
	assert.Equal(t, float64(3), retrieved.Variables["retries"])
	require.NotNil(t, retrieved.Settings)
	assert.Equal(t, 300, retrieved.Settings.ExecutionTimeout)
	assert.Equal(t, "0 9 * * *", retrieved.Settings.Schedule)
	require.Len(t, retrieved.Nodes, 3)
	assert.Equal(t, "Summarize {input}", retrieved.Nodes[1].Parameters["prompt"])
	require.Len(t, retrieved.Edges, 2)
	assert.Equal(t, "start", retrieved.Edges[0].Source)

	_, err = p.WorkflowRepository().WorkflowByID(ctx, uuid.NewString())
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowRepository_Update(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	definition := testutil.CreateTestWorkflow()
	require.NoError(t, p.WorkflowRepository().Save(ctx, definition))

	initialUpdatedAt := definition.UpdatedAt

	time.Sleep(10 * time.Millisecond)

	definition.Name = "Updated Workflow"
	definition.Status = models.WorkflowStatusArchived
	definition.Version = 2

	require.NoError(t, p.WorkflowRepository().Save(ctx, definition))

	retrieved, err := p.WorkflowRepository().WorkflowByID(ctx, definition.ID)
	require.NoError(t, err)

	assert.Equal(t, "Updated Workflow", retrieved.Name)
	assert.Equal(t, models.WorkflowStatusArchived, retrieved.Status)
	assert.Equal(t, 2, retrieved.Version)
	assert.True(t, retrieved.UpdatedAt.After(initialUpdatedAt))
}

func TestWorkflowRepository_ListWithFilters(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	for _, spec := range []struct {
		name     string
		status   models.WorkflowStatus
		category string
	}{
		{"Design Review", models.WorkflowStatusActive, "design"},
		{"Nightly ETL", models.WorkflowStatusActive, "etl"},
		{"Old Draft", models.WorkflowStatusDraft, "design"},
	} {
		definition := testutil.CreateTestWorkflow(testutil.WithStatus(spec.status))
		definition.Name = spec.name
		definition.Category = spec.category

		require.NoError(t, p.WorkflowRepository().Save(ctx, definition))
	}

	active := models.WorkflowStatusActive

	result, err := p.WorkflowRepository().ListWorkflows(ctx, persistence.ListWorkflowsOptions{Status: &active})
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalCount)
	assert.Len(t, result.Workflows, 2)

	result, err = p.WorkflowRepository().ListWorkflows(ctx, persistence.ListWorkflowsOptions{
		Category:  "design",
		SortBy:    "name",
		SortOrder: "asc",
	})
	require.NoError(t, err)
	require.Len(t, result.Workflows, 2)
	assert.Equal(t, "Design Review", result.Workflows[0].Name)

	result, err = p.WorkflowRepository().ListWorkflows(ctx, persistence.ListWorkflowsOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalCount)
	assert.Len(t, result.Workflows, 2)
	assert.True(t, result.HasNextPage)

	_, err = p.WorkflowRepository().ListWorkflows(ctx, persistence.ListWorkflowsOptions{SortBy: "owner; --"})
	assert.ErrorIs(t, err, persistence.ErrInvalidSortField)
}

func TestWorkflowRepository_SoftDelete(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	definition := testutil.CreateTestWorkflow()
	require.NoError(t, p.WorkflowRepository().Save(ctx, definition))

	err := p.WorkflowRepository().Delete(ctx, definition.ID)
	require.NoError(t, err)

	_, err = p.WorkflowRepository().WorkflowByID(ctx, definition.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))

	result, err := p.WorkflowRepository().ListWorkflows(ctx, persistence.ListWorkflowsOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalCount)

	// Deleting a missing workflow is a no-op.
	assert.NoError(t, p.WorkflowRepository().Delete(ctx, uuid.NewString()))
}

func TestExecutionRepository_RoundTrip(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	execution := models.NewExecution("wf-1", 1, "user-1", models.ExecutionModeManual, map[string]any{"name": "ada"})
	execution.Context["seeded"] = true

	err := p.ExecutionRepository().CreateExecution(ctx, execution)
	require.NoError(t, err)

	execution.Status = models.ExecutionStatusRunning
	execution.CompletedNodes = append(execution.CompletedNodes, "start")
	execution.NodeResults["start"] = map[string]any{"status": "started"}
	execution.AppendNodeLog(models.LogLevelInfo, "node 'start' completed", "start")
	execution.Metrics.TokensUsed = 42

	require.NoError(t, p.ExecutionRepository().UpdateExecution(ctx, execution))

	retrieved, err := p.ExecutionRepository().ExecutionByID(ctx, execution.ID)
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusRunning, retrieved.Status)
	assert.Equal(t, "ada", retrieved.Inputs["name"])
	assert.Equal(t, true, retrieved.Context["seeded"])
	assert.Equal(t, []string{"start"}, retrieved.CompletedNodes)
	assert.Equal(t, "started", retrieved.NodeResults["start"]["status"])
	assert.Equal(t, 42, retrieved.Metrics.TokensUsed)
	require.Len(t, retrieved.Logs, 1)
	assert.Equal(t, "start", retrieved.Logs[0].NodeID)

	_, err = p.ExecutionRepository().ExecutionByID(ctx, "exec-missing")
	assert.True(t, persistence.IsExecutionNotFound(err))
}

func TestExecutionRepository_ListFilters(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	base := time.Now().UTC()

	for i, spec := range []struct {
		workflowID string
		status     models.ExecutionStatus
	}{
		{"wf-1", models.ExecutionStatusCompleted},
		{"wf-1", models.ExecutionStatusFailed},
		{"wf-2", models.ExecutionStatusCompleted},
	} {
		execution := models.NewExecution(spec.workflowID, 1, "user-1", models.ExecutionModeTrigger, nil)
		execution.Status = spec.status
		execution.StartTime = base.Add(time.Duration(i) * time.Second)

		require.NoError(t, p.ExecutionRepository().CreateExecution(ctx, execution))
	}

	executions, err := p.ExecutionRepository().ListExecutions(ctx, persistence.ListExecutionsOptions{WorkflowID: "wf-1"})
	require.NoError(t, err)
	require.Len(t, executions, 2)
	// Newest first.
	assert.True(t, executions[0].StartTime.After(executions[1].StartTime))

	failed := models.ExecutionStatusFailed

	executions, err = p.ExecutionRepository().ListExecutions(ctx, persistence.ListExecutionsOptions{Status: &failed})
	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.Equal(t, "wf-1", executions[0].WorkflowID)
}
