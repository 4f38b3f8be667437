package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/persistence"
)

// workflowColumns is the select list every definition query shares.
const workflowColumns = `
	id
  , name
  , description
  , category
  , version
  , status
  , nodes
  , edges
  , variables
  , settings
  , owner
  , created_at
  , updated_at
  , deleted_at
`

// WorkflowRepository handles workflow definition database operations.
// Definitions are stored as one row with the graph as JSONB documents.
type WorkflowRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewWorkflowRepository creates a PostgreSQL workflow repository.
func NewWorkflowRepository(db *sql.DB, logger *slog.Logger) *WorkflowRepository {
	return &WorkflowRepository{db: db, logger: logger}
}

// Save upserts the definition, stamping created/updated timestamps and
// generating an id when the caller left it empty.
func (r *WorkflowRepository) Save(ctx context.Context, definition *models.WorkflowDefinition) error {
	now := time.Now().UTC()

	if definition.CreatedAt.IsZero() {
		definition.CreatedAt = now
	}

	definition.UpdatedAt = now

	if definition.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return persistence.NewWorkflowError("save", "",
				fmt.Errorf("failed to generate workflow ID: %w", err))
		}

		definition.ID = id.String()
	}

	nodesJSON, err := json.Marshal(definition.Nodes)
	if err != nil {
		return persistence.NewWorkflowError("save", definition.ID,
			fmt.Errorf("failed to marshal nodes: %w", err))
	}

	edgesJSON, err := json.Marshal(definition.Edges)
	if err != nil {
		return persistence.NewWorkflowError("save", definition.ID,
			fmt.Errorf("failed to marshal edges: %w", err))
	}

	variablesJSON, err := json.Marshal(definition.Variables)
	if err != nil {
		return persistence.NewWorkflowError("save", definition.ID,
			fmt.Errorf("failed to marshal variables: %w", err))
	}

	var settingsJSON []byte

	if definition.Settings != nil {
		settingsJSON, err = json.Marshal(definition.Settings)
		if err != nil {
			return persistence.NewWorkflowError("save", definition.ID,
				fmt.Errorf("failed to marshal settings: %w", err))
		}
	}

	query := `
		INSERT INTO workflows (id, name, description, category, version, status,
			nodes, edges, variables, settings, owner, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			version = EXCLUDED.version,
			status = EXCLUDED.status,
			nodes = EXCLUDED.nodes,
			edges = EXCLUDED.edges,
			variables = EXCLUDED.variables,
			settings = EXCLUDED.settings,
			owner = EXCLUDED.owner,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at
	`

	_, err = r.db.ExecContext(ctx, query,
		definition.ID,
		definition.Name,
		definition.Description,
		definition.Category,
		definition.Version,
		definition.Status,
		nodesJSON,
		edgesJSON,
		variablesJSON,
		settingsJSON,
		definition.Owner,
		definition.CreatedAt,
		definition.UpdatedAt,
		definition.DeletedAt,
	)
	if err != nil {
		return persistence.NewWorkflowError("save", definition.ID, err)
	}

	return nil
}

// WorkflowByID loads a definition. Missing or soft-deleted definitions
// surface as ErrWorkflowNotFound.
func (r *WorkflowRepository) WorkflowByID(ctx context.Context, id string) (*models.WorkflowDefinition, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE id = $1 AND deleted_at IS NULL`

	definition, err := scanWorkflow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewWorkflowError("get", id, persistence.ErrWorkflowNotFound)
		}

		return nil, persistence.NewWorkflowError("get", id, err)
	}

	return definition, nil
}

// ListWorkflows filters, sorts and pages definitions in SQL.
func (r *WorkflowRepository) ListWorkflows(ctx context.Context, opts persistence.ListWorkflowsOptions) (*persistence.WorkflowListResult, error) {
	where := "WHERE deleted_at IS NULL"
	args := make([]any, 0, 3)

	if opts.Status != nil {
		args = append(args, string(*opts.Status))
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	if opts.Category != "" {
		args = append(args, opts.Category)
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}

	if opts.Owner != "" {
		args = append(args, opts.Owner)
		where += fmt.Sprintf(" AND owner = $%d", len(args))
	}

	var total int

	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM workflows "+where, args...).Scan(&total)
	if err != nil {
		return nil, persistence.NewWorkflowError("list", "",
			fmt.Errorf("failed to count workflows: %w", err))
	}

	orderBy, err := workflowOrderClause(opts.SortBy, opts.SortOrder)
	if err != nil {
		return nil, persistence.NewWorkflowError("list", "", err)
	}

	query := `SELECT ` + workflowColumns + ` FROM workflows ` + where + orderBy

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
		return nil, persistence.NewWorkflowError("list", "",
			fmt.Errorf("failed to query workflows: %w", err))
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	workflows := make([]*models.WorkflowDefinition, 0)

	for rows.Next() {
		definition, err := scanWorkflow(rows)
		if err != nil {
			return nil, persistence.NewWorkflowError("list", "",
				fmt.Errorf("failed to scan workflow: %w", err))
		}

		workflows = append(workflows, definition)
	}

	err = rows.Err()
	if err != nil {
		return nil, persistence.NewWorkflowError("list", "",
			fmt.Errorf("error iterating workflows: %w", err))
	}

	return &persistence.WorkflowListResult{
		Workflows:   workflows,
		TotalCount:  total,
		HasNextPage: opts.Limit > 0 && opts.Offset+len(workflows) < total,
	}, nil
}

// Delete soft-deletes a definition by stamping deleted_at. Deleting a
// missing definition is a no-op.
func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE workflows SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`

	_, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return persistence.NewWorkflowError("delete", id, err)
	}

	return nil
}

func workflowOrderClause(sortBy, sortOrder string) (string, error) {
	if sortBy == "" {
		sortBy = "created_at"
	}

	// Allowlist only; the sort field is interpolated into the query.
	switch sortBy {
	case "created_at", "updated_at", "name":
	default:
		return "", fmt.Errorf("%w: %s", persistence.ErrInvalidSortField, sortBy)
	}

	direction := "DESC"
	if sortOrder == "asc" {
		direction = "ASC"
	}

	return " ORDER BY " + sortBy + " " + direction, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*models.WorkflowDefinition, error) {
	var (
		definition    models.WorkflowDefinition
		nodesJSON     []byte
		edgesJSON     []byte
		variablesJSON []byte
		settingsJSON  []byte
	)

	err := row.Scan(
		&definition.ID,
		&definition.Name,
		&definition.Description,
		&definition.Category,
		&definition.Version,
		&definition.Status,
		&nodesJSON,
		&edgesJSON,
		&variablesJSON,
		&settingsJSON,
		&definition.Owner,
		&definition.CreatedAt,
		&definition.UpdatedAt,
		&definition.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(nodesJSON, &definition.Nodes)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal nodes: %w", err)
	}

	err = json.Unmarshal(edgesJSON, &definition.Edges)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal edges: %w", err)
	}

	if len(variablesJSON) > 0 {
		err = json.Unmarshal(variablesJSON, &definition.Variables)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal variables: %w", err)
		}
	}

	if len(settingsJSON) > 0 {
		definition.Settings = &models.WorkflowSettings{}

		err = json.Unmarshal(settingsJSON, definition.Settings)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
		}
	}

	return &definition, nil
}
