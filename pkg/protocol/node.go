// Package protocol defines the contracts between the engine, node handlers,
// and external collaborators.
package protocol

import (
	"context"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
)

// NodeHandler executes one typed node against the live execution record.
// Handlers read node.Parameters/node.Config, may mutate execution.Context
// and execution.Metrics, and return a JSON-serializable result payload.
type NodeHandler interface {
	Execute(ctx context.Context, execution *models.Execution, node *models.Node) (map[string]any, error)
}

// NodeFactory creates handler instances and provides metadata about the
// node type.
type NodeFactory interface {
	// Create returns a handler for one dispatch
	Create(ctx context.Context) (NodeHandler, error)

	// ID returns the node type this factory serves
	ID() string

	// Name returns the human-readable name for this node type
	Name() string

	// Description returns a description of what this node does
	Description() string

	// Schema returns the JSON schema for configuring this node
	Schema() map[string]any
}
