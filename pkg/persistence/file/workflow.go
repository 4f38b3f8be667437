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
	"time"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/persistence"
)

// WorkflowRepository stores one definition per JSON file under
// <root>/workflows.
type WorkflowRepository struct {
	root   string
	logger *slog.Logger
}

// NewWorkflowRepository creates a file-backed workflow repository.
func NewWorkflowRepository(root string, logger *slog.Logger) *WorkflowRepository {
	return &WorkflowRepository{root: root, logger: logger}
}

func (r *WorkflowRepository) dir() string {
	return filepath.Join(r.root, "workflows")
}

func (r *WorkflowRepository) path(id string) string {
	return filepath.Clean(filepath.Join(r.dir(), id+".json"))
}

// Save writes the definition to disk, stamping created/updated timestamps.
func (r *WorkflowRepository) Save(_ context.Context, definition *models.WorkflowDefinition) error {
	if !validIdentifier(definition.ID) {
		return persistence.NewWorkflowError("save", definition.ID, persistence.ErrInvalidIdentifier)
	}

	err := os.MkdirAll(r.dir(), 0750)
	if err != nil {
		return persistence.NewWorkflowError("save", definition.ID,
			fmt.Errorf("failed to create workflows directory: %w", err))
	}

	now := time.Now().UTC()
	if definition.CreatedAt.IsZero() {
		definition.CreatedAt = now
	}

	definition.UpdatedAt = now

	data, err := json.MarshalIndent(definition, "", "  ")
	if err != nil {
		return persistence.NewWorkflowError("save", definition.ID,
			fmt.Errorf("failed to marshal workflow: %w", err))
	}

	err = os.WriteFile(r.path(definition.ID), data, 0600)
	if err != nil {
		return persistence.NewWorkflowError("save", definition.ID, err)
	}

	return nil
}

// WorkflowByID loads a definition. Missing or soft-deleted definitions
// surface as ErrWorkflowNotFound.
func (r *WorkflowRepository) WorkflowByID(_ context.Context, id string) (*models.WorkflowDefinition, error) {
	if !validIdentifier(id) {
		return nil, persistence.NewWorkflowError("get", id, persistence.ErrInvalidIdentifier)
	}

	definition, err := r.read(r.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewWorkflowError("get", id, persistence.ErrWorkflowNotFound)
		}

		return nil, persistence.NewWorkflowError("get", id, err)
	}

	if definition.DeletedAt != nil {
		return nil, persistence.NewWorkflowError("get", id, persistence.ErrWorkflowNotFound)
	}

	return definition, nil
}

// ListWorkflows reads every stored definition, then filters, sorts and pages
// in memory.
func (r *WorkflowRepository) ListWorkflows(_ context.Context, opts persistence.ListWorkflowsOptions) (*persistence.WorkflowListResult, error) {
	entries, err := os.ReadDir(r.dir())
	if err != nil {
		if os.IsNotExist(err) {
			return &persistence.WorkflowListResult{Workflows: []*models.WorkflowDefinition{}}, nil
		}

		return nil, persistence.NewWorkflowError("list", "",
			fmt.Errorf("failed to read workflows directory: %w", err))
	}

	workflows := make([]*models.WorkflowDefinition, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		definition, err := r.read(filepath.Join(r.dir(), entry.Name()))
		if err != nil {
			r.logger.Warn("skipping unreadable workflow file", "file", entry.Name(), "error", err)

			continue
		}

		if matchesWorkflowFilter(definition, opts) {
			workflows = append(workflows, definition)
		}
	}

	err = sortWorkflows(workflows, opts.SortBy, opts.SortOrder)
	if err != nil {
		return nil, persistence.NewWorkflowError("list", "", err)
	}

	total := len(workflows)
	workflows = pageWorkflows(workflows, opts.Offset, opts.Limit)

	return &persistence.WorkflowListResult{
		Workflows:   workflows,
		TotalCount:  total,
		HasNextPage: opts.Limit > 0 && opts.Offset+len(workflows) < total,
	}, nil
}

// Delete soft-deletes a definition by stamping deleted_at. Deleting a missing
// definition is a no-op.
func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	if !validIdentifier(id) {
		return persistence.NewWorkflowError("delete", id, persistence.ErrInvalidIdentifier)
	}

	definition, err := r.read(r.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return persistence.NewWorkflowError("delete", id, err)
	}

	if definition.DeletedAt != nil {
		return nil
	}

	now := time.Now().UTC()
	definition.DeletedAt = &now

	return r.Save(ctx, definition)
}

func (r *WorkflowRepository) read(path string) (*models.WorkflowDefinition, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var definition models.WorkflowDefinition

	err = json.Unmarshal(body, &definition)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow file %s: %w", filepath.Base(path), err)
	}

	return &definition, nil
}

func matchesWorkflowFilter(definition *models.WorkflowDefinition, opts persistence.ListWorkflowsOptions) bool {
	if definition.DeletedAt != nil {
		return false
	}

	if opts.Status != nil && definition.Status != *opts.Status {
		return false
	}

	if opts.Category != "" && definition.Category != opts.Category {
		return false
	}

	if opts.Owner != "" && definition.Owner != opts.Owner {
		return false
	}

	return true
}

func sortWorkflows(workflows []*models.WorkflowDefinition, sortBy, sortOrder string) error {
	if sortBy == "" {
		sortBy = "created_at"
	}

	var less func(a, b *models.WorkflowDefinition) bool

	switch sortBy {
	case "created_at":
		less = func(a, b *models.WorkflowDefinition) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "updated_at":
		less = func(a, b *models.WorkflowDefinition) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case "name":
		less = func(a, b *models.WorkflowDefinition) bool { return a.Name < b.Name }
	default:
		return fmt.Errorf("%w: %s", persistence.ErrInvalidSortField, sortBy)
	}

	descending := sortOrder != "asc"

	sort.SliceStable(workflows, func(i, j int) bool {
		if descending {
			return less(workflows[j], workflows[i])
		}

		return less(workflows[i], workflows[j])
	})

	return nil
}

func pageWorkflows(workflows []*models.WorkflowDefinition, offset, limit int) []*models.WorkflowDefinition {
	if offset >= len(workflows) {
		return []*models.WorkflowDefinition{}
	}

	workflows = workflows[offset:]

	if limit > 0 && limit < len(workflows) {
		workflows = workflows[:limit]
	}

	return workflows
}
