package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/persistence"
)

// ErrWorkflowNotFound is returned when a workflow is not found.
var ErrWorkflowNotFound = persistence.ErrWorkflowNotFound

// Workflow is the definition management service: CRUD plus validation.
type Workflow struct {
	persistence persistence.Persistence
	validator   *WorkflowValidator
	logger      *slog.Logger
}

// NewWorkflow creates a workflow service.
func NewWorkflow(p persistence.Persistence, logger *slog.Logger) (*Workflow, error) {
	workflowValidator, err := NewWorkflowValidator()
	if err != nil {
		return nil, err
	}

	return &Workflow{
		persistence: p,
		validator:   workflowValidator,
		logger:      logger.With("module", "workflow_service"),
	}, nil
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// ListWorkflowsRequest contains options for listing workflows.
type ListWorkflowsRequest struct {
	Limit    int
	Offset   int
	Owner    string
	Category string
	Status   *models.WorkflowStatus

	SortBy    string
	SortOrder string
}

// ListWorkflowsResponse contains one page of workflows.
type ListWorkflowsResponse struct {
	Workflows   []*models.WorkflowDefinition `json:"workflows"`
	TotalCount  int                          `json:"total_count"`
	HasNextPage bool                         `json:"has_next_page"`
}

// ListWorkflows retrieves workflows with filtering, sorting and pagination.
func (w *Workflow) ListWorkflows(ctx context.Context, req ListWorkflowsRequest) (*ListWorkflowsResponse, error) {
	if err := w.validateListWorkflowsRequest(&req); err != nil {
		return nil, err
	}

	result, err := w.persistence.WorkflowRepository().ListWorkflows(ctx, persistence.ListWorkflowsOptions{
		Limit:     req.Limit,
		Offset:    req.Offset,
		Owner:     req.Owner,
		Category:  req.Category,
		Status:    req.Status,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	return &ListWorkflowsResponse{
		Workflows:   result.Workflows,
		TotalCount:  result.TotalCount,
		HasNextPage: result.HasNextPage,
	}, nil
}

func (w *Workflow) validateListWorkflowsRequest(req *ListWorkflowsRequest) error {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	if req.Limit > 100 {
		req.Limit = 100
	}

	if req.Offset < 0 {
		req.Offset = 0
	}

	if req.SortBy == "" {
		req.SortBy = "created_at"
	}

	if req.SortOrder == "" {
		req.SortOrder = "desc"
	}

	allowedSorts := []string{"created_at", "updated_at", "name"}

	if !slices.Contains(allowedSorts, req.SortBy) {
		return NewValidationError(
			"ListWorkflows",
			"INVALID_SORT_FIELD",
			fmt.Sprintf("invalid sort field '%s', allowed: %s", req.SortBy, strings.Join(allowedSorts, ", ")),
			ErrInvalidSortField,
		)
	}

	if req.SortOrder != "asc" && req.SortOrder != "desc" {
		return NewValidationError(
			"ListWorkflows",
			"INVALID_SORT_ORDER",
			fmt.Sprintf("invalid sort order '%s', allowed: asc, desc", req.SortOrder),
			ErrInvalidSortOrder,
		)
	}

	if req.Status != nil {
		allowedStatuses := []models.WorkflowStatus{
			models.WorkflowStatusDraft,
			models.WorkflowStatusActive,
			models.WorkflowStatusArchived,
			models.WorkflowStatusDeprecated,
		}

		if !slices.Contains(allowedStatuses, *req.Status) {
			return NewValidationError(
				"ListWorkflows",
				"INVALID_STATUS",
				fmt.Sprintf("invalid status '%s'", *req.Status),
				ErrInvalidStatus,
			)
		}
	}

	return nil
}

// FetchByID retrieves a workflow by its ID.
func (w *Workflow) FetchByID(ctx context.Context, id string) (*models.WorkflowDefinition, error) {
	definition, err := w.persistence.WorkflowRepository().WorkflowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return definition, nil
}

// Validate runs the full definition validation without persisting anything.
func (w *Workflow) Validate(definition *models.WorkflowDefinition) error {
	return w.validator.Validate(definition)
}

// Create validates and stores a new definition. The id and version are
// assigned here; a missing status defaults to draft.
func (w *Workflow) Create(ctx context.Context, definition *models.WorkflowDefinition) (*models.WorkflowDefinition, error) {
	if definition == nil {
		return nil, NewValidationError("Create", "WORKFLOW_NIL", "workflow cannot be nil", ErrWorkflowNil)
	}

	definition.ID = uuid.New().String()
	definition.CreatedAt = time.Now().UTC()

	if definition.Status == "" {
		definition.Status = models.WorkflowStatusDraft
	}

	if definition.Version == 0 {
		definition.Version = 1
	}

	if err := w.validator.Validate(definition); err != nil {
		return nil, err
	}

	if err := w.persistence.WorkflowRepository().Save(ctx, definition); err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	w.logger.InfoContext(ctx, "workflow created", "workflow_id", definition.ID, "name", definition.Name)

	return definition, nil
}

// Update validates and stores a new revision of an existing definition.
// Archived definitions are read-only. The stored version is bumped.
func (w *Workflow) Update(ctx context.Context, workflowID string, definition *models.WorkflowDefinition) (*models.WorkflowDefinition, error) {
	if definition == nil {
		return nil, NewValidationError("Update", "WORKFLOW_NIL", "workflow cannot be nil", ErrWorkflowNil)
	}

	existing, err := w.persistence.WorkflowRepository().WorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if existing.Status == models.WorkflowStatusArchived {
		return nil, &ServiceError{
			Op:      "Update",
			Code:    "WORKFLOW_ARCHIVED",
			Message: fmt.Sprintf("workflow %s is archived", workflowID),
			Err:     ErrCannotModifyArchived,
		}
	}

	definition.ID = workflowID
	definition.CreatedAt = existing.CreatedAt
	definition.Version = existing.Version + 1

	if definition.Status == "" {
		definition.Status = existing.Status
	}

	if err := w.validator.Validate(definition); err != nil {
		return nil, err
	}

	if err := w.persistence.WorkflowRepository().Save(ctx, definition); err != nil {
		return nil, fmt.Errorf("failed to update workflow: %w", err)
	}

	w.logger.InfoContext(ctx, "workflow updated", "workflow_id", workflowID, "version", definition.Version)

	return definition, nil
}

// Delete soft-deletes a workflow by its ID.
func (w *Workflow) Delete(ctx context.Context, workflowID string) error {
	if _, err := w.persistence.WorkflowRepository().WorkflowByID(ctx, workflowID); err != nil {
		return err
	}

	if err := w.persistence.WorkflowRepository().Delete(ctx, workflowID); err != nil {
		return fmt.Errorf("failed to delete workflow: %w", err)
	}

	w.logger.InfoContext(ctx, "workflow deleted", "workflow_id", workflowID)

	return nil
}
