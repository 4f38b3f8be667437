package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/persistence"
)

const executionColumns = `
	id
  , workflow_id
  , workflow_version
  , user_id
  , status
  , mode
  , start_time
  , end_time
  , inputs
  , outputs
  , context
  , node_results
  , completed_nodes
  , failed_nodes
  , current_node
  , error
  , total_nodes
  , logs
  , metrics
  , created_at
  , updated_at
`

// ExecutionRepository handles execution record database operations.
type ExecutionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewExecutionRepository creates a PostgreSQL execution repository.
func NewExecutionRepository(db *sql.DB, logger *slog.Logger) *ExecutionRepository {
	return &ExecutionRepository{db: db, logger: logger}
}

// CreateExecution inserts the initial execution snapshot.
func (r *ExecutionRepository) CreateExecution(ctx context.Context, execution *models.Execution) error {
	return r.upsert(ctx, "create", execution)
}

// UpdateExecution overwrites the stored snapshot with the current record.
func (r *ExecutionRepository) UpdateExecution(ctx context.Context, execution *models.Execution) error {
	return r.upsert(ctx, "update", execution)
}

// ExecutionByID loads an execution record.
func (r *ExecutionRepository) ExecutionByID(ctx context.Context, id string) (*models.Execution, error) {
	query := `SELECT ` + executionColumns + ` FROM executions WHERE id = $1`

	execution, err := scanExecution(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewExecutionError("get", id, persistence.ErrExecutionNotFound)
		}

		return nil, persistence.NewExecutionError("get", id, err)
	}

	return execution, nil
}

// ListExecutions filters and pages execution records, newest first.
func (r *ExecutionRepository) ListExecutions(ctx context.Context, opts persistence.ListExecutionsOptions) ([]*models.Execution, error) {
	where := "WHERE TRUE"
	args := make([]any, 0, 3)

	if opts.WorkflowID != "" {
		args = append(args, opts.WorkflowID)
		where += fmt.Sprintf(" AND workflow_id = $%d", len(args))
	}

	if opts.Status != nil {
		args = append(args, string(*opts.Status))
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	if opts.UserID != "" {
		args = append(args, opts.UserID)
		where += fmt.Sprintf(" AND user_id = $%d", len(args))
	}

	query := `SELECT ` + executionColumns + ` FROM executions ` + where + ` ORDER BY start_time DESC`

	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistence.NewExecutionError("list", "",
			fmt.Errorf("failed to query executions: %w", err))
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	executions := make([]*models.Execution, 0)

	for rows.Next() {
		execution, err := scanExecution(rows)
		if err != nil {
			return nil, persistence.NewExecutionError("list", "",
				fmt.Errorf("failed to scan execution: %w", err))
		}

		executions = append(executions, execution)
	}

	err = rows.Err()
	if err != nil {
		return nil, persistence.NewExecutionError("list", "",
			fmt.Errorf("error iterating executions: %w", err))
	}

	return executions, nil
}

func (r *ExecutionRepository) upsert(ctx context.Context, op string, execution *models.Execution) error {
	marshaled := make(map[string][]byte, 8)

	for field, value := range map[string]any{
		"inputs":          execution.Inputs,
		"outputs":         execution.Outputs,
		"context":         execution.Context,
		"node_results":    execution.NodeResults,
		"completed_nodes": execution.CompletedNodes,
		"failed_nodes":    execution.FailedNodes,
		"logs":            execution.Logs,
		"metrics":         execution.Metrics,
	} {
		data, err := json.Marshal(value)
		if err != nil {
			return persistence.NewExecutionError(op, execution.ID,
				fmt.Errorf("failed to marshal %s: %w", field, err))
		}

		marshaled[field] = data
	}

	query := `
		INSERT INTO executions (id, workflow_id, workflow_version, user_id, status, mode,
			start_time, end_time, inputs, outputs, context, node_results,
			completed_nodes, failed_nodes, current_node, error, total_nodes,
			logs, metrics, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			end_time = EXCLUDED.end_time,
			outputs = EXCLUDED.outputs,
			context = EXCLUDED.context,
			node_results = EXCLUDED.node_results,
			completed_nodes = EXCLUDED.completed_nodes,
			failed_nodes = EXCLUDED.failed_nodes,
			current_node = EXCLUDED.current_node,
			error = EXCLUDED.error,
			total_nodes = EXCLUDED.total_nodes,
			logs = EXCLUDED.logs,
			metrics = EXCLUDED.metrics,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		execution.ID,
		execution.WorkflowID,
		execution.WorkflowVersion,
		execution.UserID,
		execution.Status,
		execution.Mode,
		execution.StartTime,
		execution.EndTime,
		marshaled["inputs"],
		marshaled["outputs"],
		marshaled["context"],
		marshaled["node_results"],
		marshaled["completed_nodes"],
		marshaled["failed_nodes"],
		execution.CurrentNode,
		execution.Error,
		execution.TotalNodes,
		marshaled["logs"],
		marshaled["metrics"],
		execution.CreatedAt,
		execution.UpdatedAt,
	)
	if err != nil {
		return persistence.NewExecutionError(op, execution.ID, err)
	}

	return nil
}

func scanExecution(row rowScanner) (*models.Execution, error) {
	var (
		execution          models.Execution
		inputsJSON         []byte
		outputsJSON        []byte
		contextJSON        []byte
		nodeResultsJSON    []byte
		completedNodesJSON []byte
		failedNodesJSON    []byte
		logsJSON           []byte
		metricsJSON        []byte
	)

	err := row.Scan(
		&execution.ID,
		&execution.WorkflowID,
		&execution.WorkflowVersion,
		&execution.UserID,
		&execution.Status,
		&execution.Mode,
		&execution.StartTime,
		&execution.EndTime,
		&inputsJSON,
		&outputsJSON,
		&contextJSON,
		&nodeResultsJSON,
		&completedNodesJSON,
		&failedNodesJSON,
		&execution.CurrentNode,
		&execution.Error,
		&execution.TotalNodes,
		&logsJSON,
		&metricsJSON,
		&execution.CreatedAt,
		&execution.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	for field, target := range map[string]struct {
		data []byte
		dest any
	}{
		"inputs":          {inputsJSON, &execution.Inputs},
		"outputs":         {outputsJSON, &execution.Outputs},
		"context":         {contextJSON, &execution.Context},
		"node_results":    {nodeResultsJSON, &execution.NodeResults},
		"completed_nodes": {completedNodesJSON, &execution.CompletedNodes},
		"failed_nodes":    {failedNodesJSON, &execution.FailedNodes},
		"logs":            {logsJSON, &execution.Logs},
		"metrics":         {metricsJSON, &execution.Metrics},
	} {
		if len(target.data) == 0 {
			continue
		}

		if err := json.Unmarshal(target.data, target.dest); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", field, err)
		}
	}

	return &execution, nil
}
