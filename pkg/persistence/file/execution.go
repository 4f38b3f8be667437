package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/persistence"
)

// ExecutionRepository stores one execution record per JSON file under
// <root>/executions.
type ExecutionRepository struct {
	root   string
	logger *slog.Logger
}

// NewExecutionRepository creates a file-backed execution repository.
func NewExecutionRepository(root string, logger *slog.Logger) *ExecutionRepository {
	return &ExecutionRepository{root: root, logger: logger}
}

func (r *ExecutionRepository) dir() string {
	return filepath.Join(r.root, "executions")
}

func (r *ExecutionRepository) path(id string) string {
	return filepath.Clean(filepath.Join(r.dir(), id+".json"))
}

// CreateExecution writes the initial execution snapshot.
func (r *ExecutionRepository) CreateExecution(_ context.Context, execution *models.Execution) error {
	return r.write("create", execution)
}

// UpdateExecution overwrites the stored snapshot with the current record.
func (r *ExecutionRepository) UpdateExecution(_ context.Context, execution *models.Execution) error {
	return r.write("update", execution)
}

// ExecutionByID loads an execution record.
func (r *ExecutionRepository) ExecutionByID(_ context.Context, id string) (*models.Execution, error) {
	if !validIdentifier(id) {
		return nil, persistence.NewExecutionError("get", id, persistence.ErrInvalidIdentifier)
	}

	body, err := os.ReadFile(r.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewExecutionError("get", id, persistence.ErrExecutionNotFound)
		}

		return nil, persistence.NewExecutionError("get", id, err)
	}

	var execution models.Execution

	err = json.Unmarshal(body, &execution)
	if err != nil {
		return nil, persistence.NewExecutionError("get", id,
			fmt.Errorf("failed to unmarshal execution: %w", err))
	}

	return &execution, nil
}

// ListExecutions reads every stored record, filters and pages in memory,
// newest first.
func (r *ExecutionRepository) ListExecutions(_ context.Context, opts persistence.ListExecutionsOptions) ([]*models.Execution, error) {
	entries, err := os.ReadDir(r.dir())
	if err != nil {
		if os.IsNotExist(err) {
			return []*models.Execution{}, nil
		}

		return nil, persistence.NewExecutionError("list", "",
			fmt.Errorf("failed to read executions directory: %w", err))
	}

	executions := make([]*models.Execution, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		body, err := os.ReadFile(filepath.Join(r.dir(), entry.Name()))
		if err != nil {
			r.logger.Warn("skipping unreadable execution file", "file", entry.Name(), "error", err)

			continue
		}

		var execution models.Execution

		if err := json.Unmarshal(body, &execution); err != nil {
			r.logger.Warn("skipping malformed execution file", "file", entry.Name(), "error", err)

			continue
		}

		if matchesExecutionFilter(&execution, opts) {
			executions = append(executions, &execution)
		}
	}

	sort.SliceStable(executions, func(i, j int) bool {
		return executions[j].StartTime.Before(executions[i].StartTime)
	})

	return pageExecutions(executions, opts.Offset, opts.Limit), nil
}

func (r *ExecutionRepository) write(op string, execution *models.Execution) error {
	if !validIdentifier(execution.ID) {
		return persistence.NewExecutionError(op, execution.ID, persistence.ErrInvalidIdentifier)
	}

	err := os.MkdirAll(r.dir(), 0750)
	if err != nil {
		return persistence.NewExecutionError(op, execution.ID,
			fmt.Errorf("failed to create executions directory: %w", err))
	}

	data, err := json.MarshalIndent(execution, "", "  ")
	if err != nil {
		return persistence.NewExecutionError(op, execution.ID,
			fmt.Errorf("failed to marshal execution: %w", err))
	}

	err = os.WriteFile(r.path(execution.ID), data, 0600)
	if err != nil {
		return persistence.NewExecutionError(op, execution.ID, err)
	}

	return nil
}

func matchesExecutionFilter(execution *models.Execution, opts persistence.ListExecutionsOptions) bool {
	if opts.WorkflowID != "" && execution.WorkflowID != opts.WorkflowID {
		return false
	}

	if opts.Status != nil && execution.Status != *opts.Status {
		return false
	}

	if opts.UserID != "" && execution.UserID != opts.UserID {
		return false
	}

	return true
}

func pageExecutions(executions []*models.Execution, offset, limit int) []*models.Execution {
	if offset >= len(executions) {
		return []*models.Execution{}
	}

	executions = executions[offset:]

	if limit > 0 && limit < len(executions) {
		executions = executions[:limit]
	}

	return executions
}
