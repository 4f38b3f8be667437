// Package file implements JSON-per-file persistence for development and
// single-node deployments. Workflows live under <root>/workflows and
// executions under <root>/executions.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/persistence"
)

// Persistence is the file-backed storage backend.
type Persistence struct {
	root       string
	logger     *slog.Logger
	workflows  *WorkflowRepository
	executions *ExecutionRepository
}

// NewPersistence creates a file-backed persistence layer rooted at the given
// directory.
func NewPersistence(logger *slog.Logger, root string) *Persistence {
	return &Persistence{
		root:       root,
		logger:     logger,
		workflows:  NewWorkflowRepository(root, logger),
		executions: NewExecutionRepository(root, logger),
	}
}

// WorkflowRepository returns the workflow store.
func (p *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return p.workflows
}

// ExecutionRepository returns the execution store.
func (p *Persistence) ExecutionRepository() persistence.ExecutionRepository {
	return p.executions
}

// HealthCheck verifies the root directory exists and is writable.
func (p *Persistence) HealthCheck(_ context.Context) error {
	err := os.MkdirAll(p.root, 0750)
	if err != nil {
		return fmt.Errorf("failed to access storage root %s: %w", p.root, err)
	}

	probe, err := os.CreateTemp(p.root, ".healthcheck-*")
	if err != nil {
		return fmt.Errorf("storage root %s is not writable: %w", p.root, err)
	}

	name := probe.Name()

	if err := probe.Close(); err != nil {
		return fmt.Errorf("failed to close probe file: %w", err)
	}

	if err := os.Remove(name); err != nil {
		return fmt.Errorf("failed to remove probe file: %w", err)
	}

	return nil
}

// Close is a no-op for the file backend.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}

// validIdentifier rejects ids that could escape the storage directory when
// joined into a file name.
func validIdentifier(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}

	return !strings.ContainsAny(id, "/\\")
}
