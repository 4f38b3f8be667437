package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/persistence"
)

// ErrExecutionNotFound is returned when an execution record is not found.
var ErrExecutionNotFound = persistence.ErrExecutionNotFound

// Execution is the execution record query service.
type Execution struct {
	persistence persistence.Persistence
	logger      *slog.Logger
}

// NewExecution creates an execution service.
func NewExecution(p persistence.Persistence, logger *slog.Logger) *Execution {
	return &Execution{
		persistence: p,
		logger:      logger.With("module", "execution_service"),
	}
}

// ListExecutionsRequest contains options for listing execution records.
type ListExecutionsRequest struct {
	WorkflowID string
	Status     *models.ExecutionStatus
	UserID     string
	Limit      int
	Offset     int
}

// FetchByID retrieves an execution record by its ID.
func (e *Execution) FetchByID(ctx context.Context, id string) (*models.Execution, error) {
	execution, err := e.persistence.ExecutionRepository().ExecutionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return execution, nil
}

// ListExecutions retrieves execution records, newest first.
func (e *Execution) ListExecutions(ctx context.Context, req ListExecutionsRequest) ([]*models.Execution, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	if req.Limit > 100 {
		req.Limit = 100
	}

	if req.Offset < 0 {
		req.Offset = 0
	}

	if req.Status != nil {
		switch *req.Status {
		case models.ExecutionStatusPending, models.ExecutionStatusRunning,
			models.ExecutionStatusCompleted, models.ExecutionStatusFailed,
			models.ExecutionStatusCancelled, models.ExecutionStatusTimeout:
		default:
			return nil, NewValidationError(
				"ListExecutions",
				"INVALID_STATUS",
				fmt.Sprintf("invalid execution status '%s'", *req.Status),
				ErrInvalidStatus,
			)
		}
	}

	executions, err := e.persistence.ExecutionRepository().ListExecutions(ctx, persistence.ListExecutionsOptions{
		WorkflowID: req.WorkflowID,
		Status:     req.Status,
		UserID:     req.UserID,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}

	return executions, nil
}
