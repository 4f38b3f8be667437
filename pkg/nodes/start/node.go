// Package start provides the entry marker node for workflow execution.
package start

import (
	"context"
	"time"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
)

// StartNode marks the beginning of a run. It performs no work.
type StartNode struct{}

// NewStartNode creates a new start node handler.
func NewStartNode() *StartNode {
	return &StartNode{}
}

// Execute returns a started marker with the invocation timestamp.
func (n *StartNode) Execute(_ context.Context, _ *models.Execution, _ *models.Node) (map[string]any, error) {
	return map[string]any{
		"status":    "started",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}, nil
}
