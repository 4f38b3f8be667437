// Package persistence defines the storage contracts for workflow definitions
// and execution records, shared by the file and PostgreSQL backends.
package persistence

import (
	"context"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
)

// ListWorkflowsOptions narrows and pages a workflow listing. SortBy accepts
// "created_at", "updated_at" or "name"; SortOrder accepts "asc" or "desc".
type ListWorkflowsOptions struct {
	Status    *models.WorkflowStatus
	Category  string
	Owner     string
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

// WorkflowListResult is one page of workflows plus paging metadata.
type WorkflowListResult struct {
	Workflows   []*models.WorkflowDefinition
	TotalCount  int
	HasNextPage bool
}

// ListExecutionsOptions narrows and pages an execution listing.
type ListExecutionsOptions struct {
	WorkflowID string
	Status     *models.ExecutionStatus
	UserID     string
	Limit      int
	Offset     int
}

// WorkflowRepository stores workflow definitions. WorkflowByID returns a
// wrapped ErrWorkflowNotFound for missing or soft-deleted definitions, never
// a nil definition with a nil error.
type WorkflowRepository interface {
	Save(ctx context.Context, definition *models.WorkflowDefinition) error
	WorkflowByID(ctx context.Context, id string) (*models.WorkflowDefinition, error)
	ListWorkflows(ctx context.Context, opts ListWorkflowsOptions) (*WorkflowListResult, error)
	Delete(ctx context.Context, id string) error
}

// ExecutionRepository stores execution records. Create and Update take the
// full record; Update overwrites the stored snapshot.
type ExecutionRepository interface {
	CreateExecution(ctx context.Context, execution *models.Execution) error
	UpdateExecution(ctx context.Context, execution *models.Execution) error
	ExecutionByID(ctx context.Context, id string) (*models.Execution, error)
	ListExecutions(ctx context.Context, opts ListExecutionsOptions) ([]*models.Execution, error)
}

// Persistence is a storage backend bundling both repositories.
type Persistence interface {
	WorkflowRepository() WorkflowRepository
	ExecutionRepository() ExecutionRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
